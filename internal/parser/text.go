package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/artgav/amnola-tpp-convertor/internal/worksheet"
)

// TextParser handles worksheets that were already converted to plain text.
// Form feeds separate pages.
type TextParser struct{}

func (p *TextParser) Extract(_ context.Context, r io.Reader, filename string) (*Text, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return &Text{Source: filename, Pages: splitPages(string(data))}, nil
}

// splitPages cuts text at form feeds and each page into lines. A trailing
// form feed does not open an extra page.
func splitPages(text string) [][]string {
	raw := strings.Split(text, "\f")
	if len(raw) > 1 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	if len(raw) == 1 && raw[0] == "" {
		return nil
	}
	pages := make([][]string, 0, len(raw))
	for _, page := range raw {
		pages = append(pages, worksheet.SplitLines(page))
	}
	return pages
}
