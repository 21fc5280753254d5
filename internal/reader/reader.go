// Package reader extracts text content from inbound document files. Corrupt,
// unreadable, or unsupported input is reported through Read's ok result
// rather than an error; callers log a warning and skip the document. A
// successful read can still yield empty Content when the document simply
// contains no text.
package reader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Content is the text extracted from one document.
type Content struct {
	Subject    string
	Body       string
	Attachment string
}

// Empty reports whether no usable text was extracted.
func (c Content) Empty() bool {
	return strings.TrimSpace(c.Subject) == "" &&
		strings.TrimSpace(c.Body) == "" &&
		strings.TrimSpace(c.Attachment) == ""
}

// Text returns the classification text: body followed by attachment content.
func (c Content) Text() string {
	body := strings.TrimSpace(c.Body)
	attachment := strings.TrimSpace(c.Attachment)
	switch {
	case body == "":
		return attachment
	case attachment == "":
		return body
	default:
		return body + "\n\n" + attachment
	}
}

// System reads document files into Content. Read never raises: ok is false
// when the file could not be opened or parsed, and true otherwise, even when
// the extracted Content is empty. The distinction matters downstream — failed
// reads are skipped, while readable-but-empty documents still classify (to
// the NA sentinel).
type System interface {
	Read(ctx context.Context, path string) (Content, bool)
}

// FileReader reads .eml, .pdf, and .txt files from the local filesystem.
type FileReader struct {
	logger *slog.Logger
}

// New creates a FileReader.
func New(logger *slog.Logger) *FileReader {
	return &FileReader{logger: logger.With("system", "reader")}
}

// Supported reports whether path has a readable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".eml", ".pdf", ".txt":
		return true
	default:
		return false
	}
}

func (r *FileReader) Read(_ context.Context, path string) (Content, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".eml":
		return r.readEML(path)
	case ".pdf":
		body, ok := r.readPDFFile(path)
		return Content{Body: body}, ok
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("read text file failed", "path", path, "error", err)
			return Content{}, false
		}
		return Content{Body: string(data)}, true
	default:
		r.logger.Warn("unsupported document type", "path", path)
		return Content{}, false
	}
}
