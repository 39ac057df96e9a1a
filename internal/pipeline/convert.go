package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/artgav/amnola-tpp-convertor/internal/doctree"
	"github.com/artgav/amnola-tpp-convertor/internal/parser"
	"github.com/artgav/amnola-tpp-convertor/internal/render"
	"github.com/artgav/amnola-tpp-convertor/internal/worksheet"
)

// Result is one worksheet taken from source text to menu document.
type Result struct {
	Text      *parser.Text
	Worksheet *worksheet.Worksheet
	Document  *doctree.DocTree

	// Folder and Title come from page 1 and name the Drive subfolder and
	// output file.
	Folder     string
	Title      string
	OutputName string
}

// Sections counts the sections that render into the document.
func (r *Result) Sections() int {
	n := 0
	for _, s := range r.Worksheet.Sections {
		if !s.Empty() {
			n++
		}
	}
	return n
}

// Convert extracts, parses and renders one worksheet.
func Convert(ctx context.Context, ex parser.Extractor, r io.Reader, filename string) (*Result, error) {
	text, err := ex.Extract(ctx, r, filename)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	return FromText(text), nil
}

// FromText parses and renders already-extracted text. It never fails.
func FromText(text *parser.Text) *Result {
	ws := worksheet.Parse(text.Full())
	folder, title := worksheet.FolderAndTitle(text.FirstPage())
	return &Result{
		Text:       text,
		Worksheet:  ws,
		Document:   render.Menu(ws),
		Folder:     folder,
		Title:      title,
		OutputName: worksheet.OutputName(title),
	}
}
