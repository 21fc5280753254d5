package reader

import (
	"bufio"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"os"
	"strings"
)

func (r *FileReader) readEML(path string) (Content, bool) {
	f, err := os.Open(path)
	if err != nil {
		r.logger.Warn("open eml failed", "path", path, "error", err)
		return Content{}, false
	}
	defer f.Close()

	msg, err := mail.ReadMessage(bufio.NewReader(f))
	if err != nil {
		r.logger.Warn("parse eml failed", "path", path, "error", err)
		return Content{}, false
	}

	content := Content{Subject: decodeHeader(msg.Header.Get("Subject"))}
	header := textproto.MIMEHeader{
		"Content-Type":              {msg.Header.Get("Content-Type")},
		"Content-Transfer-Encoding": {msg.Header.Get("Content-Transfer-Encoding")},
	}
	r.readPart(header, msg.Body, &content)

	return content, true
}

// readPart appends a message part's text to content, recursing into
// multipart bodies. Text parts extend Body; PDF attachments extend
// Attachment. Malformed parts are skipped.
func (r *FileReader) readPart(header textproto.MIMEHeader, body io.Reader, content *Content) {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				return
			}
			r.readPart(part.Header, part, content)
		}
	}

	decoded := decodeTransfer(body, header.Get("Content-Transfer-Encoding"))

	switch {
	case mediaType == "application/pdf" || strings.HasSuffix(strings.ToLower(filename(header)), ".pdf"):
		data, err := io.ReadAll(decoded)
		if err != nil {
			r.logger.Warn("read pdf attachment failed", "error", err)
			return
		}
		if text := r.readPDFBytes(data); text != "" {
			content.Attachment = joinText(content.Attachment, text)
		}
	case strings.HasPrefix(mediaType, "text/"):
		data, err := io.ReadAll(decoded)
		if err != nil {
			r.logger.Warn("read text part failed", "error", err)
			return
		}
		content.Body = joinText(content.Body, string(data))
	}
}

func filename(header textproto.MIMEHeader) string {
	_, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func decodeHeader(value string) string {
	decoder := mime.WordDecoder{}
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func joinText(existing, addition string) string {
	addition = strings.TrimSpace(addition)
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	return existing + "\n\n" + addition
}
