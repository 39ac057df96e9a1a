// Package render maps a parsed worksheet onto the kitchen menu document.
package render

import (
	"fmt"
	"strings"

	"github.com/artgav/amnola-tpp-convertor/internal/doctree"
	"github.com/artgav/amnola-tpp-convertor/internal/worksheet"
)

const (
	FontFamily  = "Arial"
	BodySize    = 11
	HeaderSize  = 16
	AccentColor = "FF0000"
)

// style is the formatting applied to one run.
type style struct {
	size      int
	bold      bool
	italic    bool
	underline bool
	color     string
}

func addText(p *doctree.Paragraph, text string, st style) *doctree.Run {
	r := p.AddRun(text)
	r.Font = FontFamily
	r.Size = st.size
	if r.Size == 0 {
		r.Size = BodySize
	}
	r.Bold = st.bold
	r.Italic = st.italic
	r.Underline = st.underline
	r.Color = st.color
	return r
}

func addParagraph(tree *doctree.DocTree, text string, st style) *doctree.Paragraph {
	p := tree.AddParagraph(doctree.AlignCenter)
	addText(p, text, st)
	return p
}

// Menu lays out the kitchen menu: event title and date, then per section a
// header with the guest count and (except for beverages) the truck
// departure time, followed by one paragraph per item. Sections without a
// header are skipped.
func Menu(ws *worksheet.Worksheet) *doctree.DocTree {
	tree := &doctree.DocTree{
		Title: ws.Fields.Title,
		Font:  FontFamily,
		Size:  BodySize,
	}

	addParagraph(tree, ws.Fields.Title, style{bold: true})
	addParagraph(tree, ws.Fields.Date, style{bold: true})

	for i, section := range ws.Sections {
		if section.Empty() {
			continue
		}

		header := tree.AddParagraph(doctree.AlignCenter)
		addText(header, fmt.Sprintf("%s (%s ppl) ", section.Header(), ws.Fields.GuestCount),
			style{size: HeaderSize, underline: true})
		if !section.IsBeverage() {
			addText(header, ws.Departure(i)+" out", style{size: HeaderSize, color: AccentColor})
		}

		for _, item := range section.Items() {
			addItem(tree, item)
		}
	}

	return tree
}

func addItem(tree *doctree.DocTree, item string) {
	if strings.Contains(item, "features") {
		addParagraph(tree, item, style{italic: true})
		return
	}
	if name, qty, ok := worksheet.SplitQuantity(item); ok {
		p := tree.AddParagraph(doctree.AlignCenter)
		addText(p, name+" (", style{})
		addText(p, qty, style{color: AccentColor})
		addText(p, ")", style{})
		return
	}
	addParagraph(tree, item, style{})
}
