package doctree

import "strings"

// Align is a paragraph justification value.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// DocTree is the root of a rendered document.
type DocTree struct {
	Title      string       // Document title (event title, or filename)
	Font       string       // Default font family for runs that set none
	Size       int          // Default font size in points
	Paragraphs []*Paragraph // Body paragraphs in order
}

// Paragraph is one block of runs.
type Paragraph struct {
	Align Align
	Runs  []*Run
}

// Run is a span of text with uniform formatting.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // RRGGBB hex, empty for the default color
	Font      string // Font family, empty for the document default
	Size      int    // Points, 0 for the document default
}

// AddParagraph appends an empty paragraph.
func (t *DocTree) AddParagraph(align Align) *Paragraph {
	p := &Paragraph{Align: align}
	t.Paragraphs = append(t.Paragraphs, p)
	return p
}

// AddRun appends a run with the given text.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{Text: text}
	p.Runs = append(p.Runs, r)
	return r
}

// Text concatenates the text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Text returns the plain text of the document, one paragraph per line.
func (t *DocTree) Text() string {
	lines := make([]string, 0, len(t.Paragraphs))
	for _, p := range t.Paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}
