// Package source loads session text from outside the process: literal
// strings, plain-text files, and PDF documents.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextSource supplies the raw text a session is built over.
type TextSource interface {
	// Read returns the full text. Implementations may block on IO.
	Read(ctx context.Context) (string, error)
}

// StringSource serves a literal string.
type StringSource struct {
	text string
}

// NewStringSource returns a source serving text as-is.
func NewStringSource(text string) StringSource {
	return StringSource{text: text}
}

// Read implements TextSource.
func (s StringSource) Read(_ context.Context) (string, error) {
	return s.text, nil
}

// FileSource serves the contents of a plain-text file.
type FileSource struct {
	path string
}

// NewFileSource returns a source that reads path on every Read.
func NewFileSource(path string) FileSource {
	return FileSource{path: path}
}

// Read implements TextSource.
func (s FileSource) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}

// FromFile picks a source for path by extension: PDF documents go through
// text extraction, everything else is read verbatim.
func FromFile(path string) TextSource {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFSource(path)
	}
	return NewFileSource(path)
}

var (
	_ TextSource = StringSource{}
	_ TextSource = FileSource{}
)
