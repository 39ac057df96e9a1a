package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/artgav/amnola-tpp-convertor/internal/worksheet"
)

// Text is the extracted text of one document, as ordered lines per page.
type Text struct {
	Source string
	Pages  [][]string
}

// Full returns the document text with every line terminated by "\n".
func (t *Text) Full() string {
	var sb strings.Builder
	for _, page := range t.Pages {
		for _, line := range page {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Lines splits Full on every line boundary.
func (t *Text) Lines() []string {
	return worksheet.SplitLines(t.Full())
}

// FirstPage returns the lines of page 1, or nil for a document without pages.
func (t *Text) FirstPage() []string {
	if len(t.Pages) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, line := range t.Pages[0] {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return worksheet.SplitLines(sb.String())
}

// Empty reports whether no page carries any non-blank text.
func (t *Text) Empty() bool {
	for _, page := range t.Pages {
		for _, line := range page {
			if strings.TrimSpace(line) != "" {
				return false
			}
		}
	}
	return true
}

// Extractor pulls ordered text lines out of a document.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, filename string) (*Text, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

// Options configure the extractors ForFile hands out.
type Options struct {
	FallbackPdftotext bool
	PdftotextTimeout  time.Duration
	Logger            *slog.Logger
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return NewPDFParser(opts), nil
	case ".txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Auto dispatches each call to the extractor for the file's extension.
// Files with an unsupported extension go to Fallback when it is set.
type Auto struct {
	Options
	Fallback Extractor
}

func (a Auto) Extract(ctx context.Context, r io.Reader, filename string) (*Text, error) {
	ex, err := ForFile(filename, a.Options)
	if err != nil {
		if a.Fallback == nil {
			return nil, err
		}
		ex = a.Fallback
	}
	return ex.Extract(ctx, r, filename)
}

// NewPDFParser builds the PDF extractor opts describe.
func NewPDFParser(opts Options) *PDFParser {
	return &PDFParser{
		FallbackPdftotext: opts.FallbackPdftotext,
		Timeout:           opts.PdftotextTimeout,
		Log:               opts.Logger,
	}
}
