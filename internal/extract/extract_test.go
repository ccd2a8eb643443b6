package extract

import (
	"context"
	"errors"
	"testing"
)

func TestTextPlainPassthrough(t *testing.T) {
	e := &Extractor{}
	text, method, err := e.Text(context.Background(), []byte("hello notice"), "text/plain", "notice.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if method != "plain" || text != "hello notice" {
		t.Fatalf("unexpected result: method=%q text=%q", method, text)
	}
}

func TestTextTxtExtensionWithoutContentType(t *testing.T) {
	e := &Extractor{}
	_, method, err := e.Text(context.Background(), []byte("x"), "application/octet-stream", "upload.TXT")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if method != "plain" {
		t.Fatalf("want plain, got %q", method)
	}
}

func TestTextUnsupportedType(t *testing.T) {
	e := &Extractor{}
	_, _, err := e.Text(context.Background(), []byte("x"), "application/zip", "archive.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("want ErrUnsupportedType, got %v", err)
	}
}

func TestPDFWithoutToolReportsUnavailable(t *testing.T) {
	e := &Extractor{workDir: t.TempDir()}
	_, method, err := e.Text(context.Background(), []byte("%PDF-1.4"), "application/pdf", "notice.pdf")
	if !errors.Is(err, ErrToolUnavailable) {
		t.Fatalf("want ErrToolUnavailable, got %v", err)
	}
	if method != "pdf" {
		t.Fatalf("method should still identify the path taken, got %q", method)
	}
}

func TestImageWithoutToolReportsUnavailable(t *testing.T) {
	e := &Extractor{workDir: t.TempDir()}
	_, method, err := e.Text(context.Background(), []byte("img"), "image/png", "notice.png")
	if !errors.Is(err, ErrToolUnavailable) {
		t.Fatalf("want ErrToolUnavailable, got %v", err)
	}
	if method != "ocr" {
		t.Fatalf("method should still identify the path taken, got %q", method)
	}
}

func TestImageDetectionByExtension(t *testing.T) {
	if !isImage("", "scan.JPEG") {
		t.Fatal("jpeg extension not detected")
	}
	if isImage("", "scan.docx") {
		t.Fatal("docx wrongly detected as image")
	}
	if !isPDF("", "Notice.PDF") {
		t.Fatal("pdf extension not detected")
	}
}

func TestAvailable(t *testing.T) {
	if (&Extractor{}).Available() {
		t.Fatal("no tools configured must report unavailable")
	}
	if !(&Extractor{tesseractPath: "/usr/bin/tesseract"}).Available() {
		t.Fatal("one tool is enough to report available")
	}
}
