// Package worksheet reconstructs kitchen menus from the linearized text of
// event worksheet PDFs.
package worksheet

// Worksheet is everything recovered from one worksheet's text.
type Worksheet struct {
	Fields     Fields    `json:"fields" yaml:"fields"`
	Sections   []Section `json:"sections" yaml:"sections"`
	Departures []string  `json:"departures" yaml:"departures"`
}

// Parse runs the field extractor and the section parser over text. It never
// fails: missing labels give empty fields and unrecognised lines are skipped.
func Parse(text string) *Worksheet {
	return &Worksheet{
		Fields:     ExtractFields(text),
		Sections:   ParseSections(SplitLines(text)),
		Departures: DepartureTimes(text),
	}
}

// Departure returns the truck departure time for section i, or DepartureTBD.
func (w *Worksheet) Departure(i int) string {
	return DepartureAt(w.Departures, i)
}
