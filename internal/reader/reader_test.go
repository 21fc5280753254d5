package reader_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/opsdesk/mailtriage/internal/reader"
)

func newReader() *reader.FileReader {
	return reader.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestContent(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if !(reader.Content{}).Empty() {
			t.Error("zero Content should be empty")
		}
		if (reader.Content{Body: "text"}).Empty() {
			t.Error("Content with body should not be empty")
		}
		if (reader.Content{Subject: " \n"}).Empty() == false {
			t.Error("whitespace-only Content should be empty")
		}
	})

	t.Run("text joins body and attachment", func(t *testing.T) {
		c := reader.Content{Body: "body text", Attachment: "attachment text"}
		if got := c.Text(); got != "body text\n\nattachment text" {
			t.Errorf("Text() = %q", got)
		}
		if got := (reader.Content{Attachment: "only"}).Text(); got != "only" {
			t.Errorf("Text() = %q, want only", got)
		}
	})
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{
		"mail.eml":   true,
		"doc.PDF":    true,
		"notes.txt":  true,
		"image.png":  false,
		"archive.gz": false,
	} {
		if got := reader.Supported(path); got != want {
			t.Errorf("Supported(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	r := newReader()
	dir := t.TempDir()

	t.Run("txt passthrough", func(t *testing.T) {
		path := writeFile(t, dir, "request.txt", []byte("Please process a fee payment for Deal Alpha."))
		got, ok := r.Read(ctx, path)
		if !ok {
			t.Fatal("Read() ok = false, want true")
		}
		if got.Body != "Please process a fee payment for Deal Alpha." {
			t.Errorf("Body = %q", got.Body)
		}
		if got.Subject != "" {
			t.Errorf("Subject = %q, want empty", got.Subject)
		}
	})

	t.Run("missing file reports a failed read", func(t *testing.T) {
		if _, ok := r.Read(ctx, filepath.Join(dir, "missing.txt")); ok {
			t.Error("Read(missing) ok = true, want false")
		}
	})

	t.Run("unsupported extension reports a failed read", func(t *testing.T) {
		path := writeFile(t, dir, "image.png", []byte{0x89, 0x50})
		if _, ok := r.Read(ctx, path); ok {
			t.Error("Read(png) ok = true, want false")
		}
	})

	t.Run("empty file reads successfully with empty content", func(t *testing.T) {
		path := writeFile(t, dir, "blank.txt", []byte("   \n\n"))
		got, ok := r.Read(ctx, path)
		if !ok {
			t.Fatal("Read(blank) ok = false, want true")
		}
		if !got.Empty() {
			t.Errorf("Read(blank) = %+v, want empty content", got)
		}
	})

	t.Run("plain eml", func(t *testing.T) {
		eml := "Subject: Fee payment request\r\n" +
			"From: ops@example.com\r\n" +
			"Content-Type: text/plain\r\n" +
			"\r\n" +
			"Please process the ongoing fee for Deal Alpha.\r\n"
		path := writeFile(t, dir, "plain.eml", []byte(eml))

		got, ok := r.Read(ctx, path)
		if !ok {
			t.Fatal("Read() ok = false, want true")
		}
		if got.Subject != "Fee payment request" {
			t.Errorf("Subject = %q", got.Subject)
		}
		if got.Body != "Please process the ongoing fee for Deal Alpha." {
			t.Errorf("Body = %q", got.Body)
		}
	})

	t.Run("multipart eml with base64 text part", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)

		plain, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"text/plain; charset=utf-8"},
		})
		if err != nil {
			t.Fatal(err)
		}
		fmt.Fprint(plain, "Transfer funds for Deal Beta.")

		encoded, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"text/plain"},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			t.Fatal(err)
		}
		fmt.Fprint(encoded, base64.StdEncoding.EncodeToString([]byte("Amount: $5,000.00")))
		mw.Close()

		eml := "Subject: AU transfer\r\n" +
			"Content-Type: multipart/mixed; boundary=" + mw.Boundary() + "\r\n" +
			"\r\n" +
			body.String()
		path := writeFile(t, dir, "multi.eml", []byte(eml))

		got, ok := r.Read(ctx, path)
		if !ok {
			t.Fatal("Read() ok = false, want true")
		}
		if got.Subject != "AU transfer" {
			t.Errorf("Subject = %q", got.Subject)
		}
		if got.Body != "Transfer funds for Deal Beta.\n\nAmount: $5,000.00" {
			t.Errorf("Body = %q", got.Body)
		}
	})

	t.Run("corrupt eml reports a failed read", func(t *testing.T) {
		path := writeFile(t, dir, "corrupt.eml", []byte("this is not an email"))
		if _, ok := r.Read(ctx, path); ok {
			t.Error("Read(corrupt) ok = true, want false")
		}
	})

	t.Run("corrupt pdf reports a failed read", func(t *testing.T) {
		path := writeFile(t, dir, "corrupt.pdf", []byte("%PDF-1.4 garbage"))
		if _, ok := r.Read(ctx, path); ok {
			t.Error("Read(corrupt pdf) ok = true, want false")
		}
	})
}
