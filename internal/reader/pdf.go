package reader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

func (r *FileReader) readPDFFile(path string) (string, bool) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		r.logger.Warn("open pdf failed", "path", path, "error", err)
		return "", false
	}
	defer f.Close()

	text, err := plainText(doc)
	if err != nil {
		r.logger.Warn("pdf text extraction failed", "path", path, "error", err)
		return "", false
	}
	return text, true
}

func (r *FileReader) readPDFBytes(data []byte) string {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		r.logger.Warn("parse pdf attachment failed", "error", err)
		return ""
	}

	text, err := plainText(doc)
	if err != nil {
		r.logger.Warn("pdf attachment text extraction failed", "error", err)
		return ""
	}
	return text
}

// plainText extracts document text, containing the parser's panics on
// malformed content streams so a bad PDF degrades to empty content.
func plainText(doc *pdf.Reader) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	rd, err := doc.GetPlainText()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, rd); err != nil {
		return "", err
	}

	return sb.String(), nil
}
