package render

import (
	"testing"

	"github.com/artgav/amnola-tpp-convertor/internal/doctree"
	"github.com/artgav/amnola-tpp-convertor/internal/worksheet"
)

func sampleWorksheet() *worksheet.Worksheet {
	return &worksheet.Worksheet{
		Fields: worksheet.Fields{Title: "Smith Wedding", Date: "03/14/2026", GuestCount: "120"},
		Sections: []worksheet.Section{
			{Entries: []string{"Breakfast Buffet", "Scrambled Eggs 120 ppl", "Fresh Fruit"}},
			{Entries: []string{"Beverage Service", "Coffee features local roast"}},
			{Entries: []string{"Lunch"}},
		},
		Departures: []string{"9:30 AM"},
	}
}

func TestMenu_Layout(t *testing.T) {
	tree := Menu(sampleWorksheet())

	want := []string{
		"Smith Wedding",
		"03/14/2026",
		"Breakfast Buffet (120 ppl) 9:30 AM out",
		"Scrambled Eggs (120 ppl)",
		"Fresh Fruit",
		"Beverage Service (120 ppl) ",
		"Coffee features local roast",
		"Lunch (120 ppl) TBD out",
	}
	if len(tree.Paragraphs) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d:\n%s", len(want), len(tree.Paragraphs), tree.Text())
	}
	for i, w := range want {
		if got := tree.Paragraphs[i].Text(); got != w {
			t.Errorf("paragraph %d: expected %q, got %q", i, w, got)
		}
	}
	for i, p := range tree.Paragraphs {
		if p.Align != doctree.AlignCenter {
			t.Errorf("paragraph %d: expected centered, got %q", i, p.Align)
		}
		for j, r := range p.Runs {
			if r.Font != FontFamily {
				t.Errorf("paragraph %d run %d: expected font %q, got %q", i, j, FontFamily, r.Font)
			}
		}
	}
	if tree.Title != "Smith Wedding" || tree.Font != FontFamily || tree.Size != BodySize {
		t.Errorf("unexpected document defaults: %q %q %d", tree.Title, tree.Font, tree.Size)
	}
}

func TestMenu_TitleAndDateBold(t *testing.T) {
	tree := Menu(sampleWorksheet())
	for i := 0; i < 2; i++ {
		r := tree.Paragraphs[i].Runs[0]
		if !r.Bold || r.Size != BodySize {
			t.Errorf("paragraph %d: expected bold %dpt, got bold=%v size=%d", i, BodySize, r.Bold, r.Size)
		}
	}
}

func TestMenu_SectionHeaderRuns(t *testing.T) {
	tree := Menu(sampleWorksheet())

	header := tree.Paragraphs[2]
	if len(header.Runs) != 2 {
		t.Fatalf("expected header + departure runs, got %d", len(header.Runs))
	}
	title, departure := header.Runs[0], header.Runs[1]
	if !title.Underline || title.Size != HeaderSize || title.Color != "" {
		t.Errorf("expected underlined %dpt header, got %+v", HeaderSize, *title)
	}
	if departure.Underline || departure.Size != HeaderSize || departure.Color != AccentColor {
		t.Errorf("expected %dpt accent departure, got %+v", HeaderSize, *departure)
	}

	beverage := tree.Paragraphs[5]
	if len(beverage.Runs) != 1 {
		t.Errorf("expected beverage header to have no departure run, got %d runs", len(beverage.Runs))
	}
}

func TestMenu_DepartureIndexedBySectionPosition(t *testing.T) {
	ws := &worksheet.Worksheet{
		Fields: worksheet.Fields{GuestCount: "10"},
		Sections: []worksheet.Section{
			{Entries: []string{"Beverage Bar"}},
			{Entries: []string{"Dinner"}},
		},
		Departures: []string{"8:00 AM", "5:00 PM"},
	}
	tree := Menu(ws)
	if got := tree.Paragraphs[3].Text(); got != "Dinner (10 ppl) 5:00 PM out" {
		t.Errorf("expected second departure for second section, got %q", got)
	}
}

func TestMenu_QuantityItemRuns(t *testing.T) {
	tree := Menu(sampleWorksheet())

	p := tree.Paragraphs[3]
	if len(p.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(p.Runs))
	}
	wantText := []string{"Scrambled Eggs (", "120 ppl", ")"}
	wantColor := []string{"", AccentColor, ""}
	for i, r := range p.Runs {
		if r.Text != wantText[i] {
			t.Errorf("run %d: expected %q, got %q", i, wantText[i], r.Text)
		}
		if r.Color != wantColor[i] {
			t.Errorf("run %d: expected color %q, got %q", i, wantColor[i], r.Color)
		}
	}
}

func TestMenu_FeaturesItemItalic(t *testing.T) {
	tree := Menu(sampleWorksheet())
	r := tree.Paragraphs[6].Runs[0]
	if !r.Italic {
		t.Errorf("expected features line to be italic")
	}
	plain := tree.Paragraphs[4].Runs[0]
	if plain.Italic || plain.Bold || plain.Underline || plain.Color != "" {
		t.Errorf("expected plain item, got %+v", *plain)
	}
}

func TestMenu_FeaturesWinsOverQuantity(t *testing.T) {
	ws := &worksheet.Worksheet{
		Sections: []worksheet.Section{{Entries: []string{"Beverage", "Bar features 50 ppl"}}},
	}
	tree := Menu(ws)
	last := tree.Paragraphs[len(tree.Paragraphs)-1]
	if len(last.Runs) != 1 || !last.Runs[0].Italic {
		t.Errorf("expected a single italic run, got %d runs", len(last.Runs))
	}
}

func TestMenu_EmptyWorksheet(t *testing.T) {
	ws := worksheet.Parse("")
	tree := Menu(ws)
	if len(tree.Paragraphs) != 2 {
		t.Fatalf("expected only title and date paragraphs, got %d", len(tree.Paragraphs))
	}
	if tree.Text() != "\n" {
		t.Errorf("expected two empty paragraphs, got %q", tree.Text())
	}
}

func TestMenu_EmptySectionMidList(t *testing.T) {
	ws := worksheet.Parse("Breakfast\nMenu Item:\nMenu Item:\nEggs\nLunch\nMenu Item:\nSoup\n")
	ws.Fields.GuestCount = "40"
	ws.Departures = []string{"7:00", "8:00", "9:00"}

	if len(ws.Sections) != 3 || !ws.Sections[0].Empty() {
		t.Fatalf("expected a leading empty section, got %+v", ws.Sections)
	}

	tree := Menu(ws)
	want := []string{
		"",
		"",
		"Breakfast (40 ppl) 8:00 out",
		"Eggs",
		"Lunch (40 ppl) 9:00 out",
		"Soup",
	}
	if len(tree.Paragraphs) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d:\n%s", len(want), len(tree.Paragraphs), tree.Text())
	}
	for i, w := range want {
		if got := tree.Paragraphs[i].Text(); got != w {
			t.Errorf("paragraph %d: expected %q, got %q", i, w, got)
		}
	}
}
