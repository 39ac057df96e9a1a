package parser

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTextParser_PagesAndLines(t *testing.T) {
	input := "Event Worksheet\nFriday 03/14/2026\r\nEvent Title:\nSmith Wedding\fBreakfast Buffet\nMenu Item:\n"
	p := &TextParser{}
	text, err := p.Extract(context.Background(), strings.NewReader(input), "smith.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{
		{"Event Worksheet", "Friday 03/14/2026", "Event Title:", "Smith Wedding"},
		{"Breakfast Buffet", "Menu Item:"},
	}
	if diff := cmp.Diff(want, text.Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
	if text.Source != "smith.txt" {
		t.Errorf("expected source %q, got %q", "smith.txt", text.Source)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	text, err := p.Extract(context.Background(), strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(text.Pages) != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", len(text.Pages))
	}
	if !text.Empty() {
		t.Error("expected empty text")
	}
	if text.FirstPage() != nil {
		t.Error("expected no first page")
	}
}

func TestTextParser_TrailingFormFeed(t *testing.T) {
	p := &TextParser{}
	text, err := p.Extract(context.Background(), strings.NewReader("one\n\ftwo\n\f"), "two.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(text.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(text.Pages))
	}
}

func TestText_FullAndLines(t *testing.T) {
	text := &Text{Pages: [][]string{{"a", "b"}, {"c"}}}

	if got := text.Full(); got != "a\nb\nc\n" {
		t.Errorf("expected every line newline-terminated, got %q", got)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, text.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, text.FirstPage()); diff != "" {
		t.Errorf("first page mismatch (-want +got):\n%s", diff)
	}
}

func TestText_LinesSplitsEmbeddedBreaks(t *testing.T) {
	text := &Text{Pages: [][]string{{"a\vb", "c"}}}
	if diff := cmp.Diff([]string{"a", "b", "c"}, text.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestText_EmptyIgnoresBlankLines(t *testing.T) {
	if !(&Text{Pages: [][]string{{"", "  "}, nil}}).Empty() {
		t.Error("expected blank pages to count as empty")
	}
	if (&Text{Pages: [][]string{{"", "x"}}}).Empty() {
		t.Error("expected text with content to be non-empty")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"worksheet.pdf", false},
		{"WORKSHEET.PDF", false},
		{"worksheet.txt", false},
		{"worksheet.docx", true},
		{"worksheet", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.name, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
		if IsSupportedExtension(tt.name) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q): expected %v", tt.name, !tt.wantErr)
		}
	}
}

func TestAuto_DispatchesByExtension(t *testing.T) {
	text, err := Auto{}.Extract(context.Background(), strings.NewReader("x\ny\n"), "a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := text.Full(); got != "x\ny\n" {
		t.Errorf("expected %q, got %q", "x\ny\n", got)
	}

	if _, err := (Auto{}).Extract(context.Background(), strings.NewReader(""), "a.csv"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

// namedExtractor reports which extractor handled a file.
type namedExtractor string

func (n namedExtractor) Extract(_ context.Context, _ io.Reader, filename string) (*Text, error) {
	return &Text{Source: string(n), Pages: [][]string{{filename}}}, nil
}

func TestAuto_Fallback(t *testing.T) {
	a := Auto{Fallback: namedExtractor("fallback")}

	for _, name := range []string{"worksheet", "scan.PDFX", "a.csv"} {
		text, err := a.Extract(context.Background(), strings.NewReader(""), name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if text.Source != "fallback" {
			t.Errorf("%s: expected fallback extractor, got %q", name, text.Source)
		}
	}

	text, err := a.Extract(context.Background(), strings.NewReader("x\n"), "a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.Source != "a.txt" {
		t.Errorf("expected text extractor for .txt, got source %q", text.Source)
	}
}

func TestNewPDFParser(t *testing.T) {
	p := NewPDFParser(Options{FallbackPdftotext: true, PdftotextTimeout: time.Second})
	if !p.FallbackPdftotext || p.Timeout != time.Second {
		t.Errorf("expected options to carry over, got %+v", p)
	}
}
