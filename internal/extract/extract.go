// Package extract turns uploaded notice files into plain text by shelling
// out to tesseract (images) and pdftotext (PDFs). A missing tool is a
// distinct, user-actionable failure; an extraction that runs but finds no
// text is a success with empty output and is handled downstream.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrToolUnavailable reports misconfigured extraction tooling, as opposed
// to a document that simply contains no text.
var ErrToolUnavailable = errors.New("text extraction tooling unavailable")

// ErrUnsupportedType reports a content type neither extractor handles.
var ErrUnsupportedType = errors.New("unsupported file type")

type Extractor struct {
	tesseractPath string
	pdftotextPath string
	workDir       string
}

func NewExtractor() *Extractor {
	return &Extractor{
		tesseractPath: detectTool("tesseract"),
		pdftotextPath: detectTool("pdftotext"),
		workDir:       os.TempDir(),
	}
}

func detectTool(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// Text extracts plain text from the uploaded bytes. The method string in
// the return identifies which extractor ran ("ocr" or "pdf").
func (e *Extractor) Text(ctx context.Context, fileBytes []byte, contentType, filename string) (text, method string, err error) {
	switch {
	case isPDF(contentType, filename):
		text, err = e.pdfText(ctx, fileBytes)
		return text, "pdf", err
	case isImage(contentType, filename):
		text, err = e.imageText(ctx, fileBytes, filename)
		return text, "ocr", err
	case strings.HasPrefix(contentType, "text/") || strings.HasSuffix(strings.ToLower(filename), ".txt"):
		return string(fileBytes), "plain", nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
}

func isPDF(contentType, filename string) bool {
	return contentType == "application/pdf" || strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func isImage(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	lower := strings.ToLower(filename)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (e *Extractor) imageText(ctx context.Context, fileBytes []byte, filename string) (string, error) {
	if e.tesseractPath == "" {
		return "", fmt.Errorf("%w: tesseract not found in PATH", ErrToolUnavailable)
	}
	tmp, err := e.writeTemp(fileBytes, filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	// "stdout" tells tesseract to print instead of writing a sidecar file.
	cmd := exec.CommandContext(ctx, e.tesseractPath, tmp, "stdout")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: tesseract: %v (%s)", ErrToolUnavailable, err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

func (e *Extractor) pdfText(ctx context.Context, fileBytes []byte) (string, error) {
	if e.pdftotextPath == "" {
		return "", fmt.Errorf("%w: pdftotext not found in PATH", ErrToolUnavailable)
	}
	tmp, err := e.writeTemp(fileBytes, ".pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	cmd := exec.CommandContext(ctx, e.pdftotextPath, "-layout", tmp, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v (%s)", ErrToolUnavailable, err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

func (e *Extractor) writeTemp(fileBytes []byte, ext string) (string, error) {
	if ext == "" {
		ext = ".bin"
	}
	f, err := os.CreateTemp(e.workDir, "civicsense-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if _, err := f.Write(fileBytes); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return f.Name(), nil
}

// Available reports whether at least one extraction tool was found.
func (e *Extractor) Available() bool {
	return e.tesseractPath != "" || e.pdftotextPath != ""
}
