package worksheet

import (
	"strings"
	"unicode"
)

var (
	// Lines starting with one of these open a new section. The line itself
	// is never stored; the line before it becomes the section header.
	triggerPrefixes = []string{"Menu Item:", "Beverage Item"}

	// Administrative lines that never become menu items.
	adminPrefixes = []string{"Notes:", "Quantity:", "Qty", "Vendor"}
)

// stopPrefix ends parsing of the whole document.
const stopPrefix = "Miscellaneous"

// Section is one menu or beverage category. Entries[0] is the header line;
// the remaining entries are the items in source order.
type Section struct {
	Entries []string `json:"entries" yaml:"entries"`
}

// Header returns the section header, or "" for an empty section.
func (s Section) Header() string {
	if len(s.Entries) == 0 {
		return ""
	}
	return s.Entries[0]
}

// Items returns the entries after the header.
func (s Section) Items() []string {
	if len(s.Entries) < 2 {
		return nil
	}
	return s.Entries[1:]
}

// Empty reports whether the section has no header.
func (s Section) Empty() bool {
	return len(s.Entries) == 0
}

// IsBeverage reports whether the header names a beverage section. Beverage
// sections carry no truck departure time.
func (s Section) IsBeverage() bool {
	return strings.HasPrefix(s.Header(), "Beverage")
}

// ParseSections segments worksheet lines into menu sections in a single
// forward pass.
//
// A trigger line ("Menu Item:" / "Beverage Item") closes the open section,
// dropping its last entry (the line that turns out to be the next header),
// and opens a new section seeded with the line seen just before the
// trigger. Until the first trigger every line is ignored. Inside a section:
// a line whose text before the first "." is all digits is appended to the
// previous entry with " , "; administrative lines are dropped; a line
// starting with "Miscellaneous" ends the parse; anything else is a new item.
//
// The last open section is always appended, even when empty.
func ParseSections(lines []string) []Section {
	var (
		sections []Section
		current  []string
		lastLine string
	)

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if hasAnyPrefix(line, triggerPrefixes) {
			if len(current) > 0 {
				sections = append(sections, Section{Entries: current[:len(current)-1]})
				current = nil
			}
			current = []string{lastLine}
			continue
		}

		lastLine = line
		switch {
		case len(current) == 0:
			// No header captured yet.
		case isContinuation(line):
			current[len(current)-1] += " , " + line
		case hasAnyPrefix(line, adminPrefixes):
		case strings.HasPrefix(line, stopPrefix):
			return append(sections, Section{Entries: current})
		default:
			current = append(current, line)
		}
	}

	return append(sections, Section{Entries: current})
}

// isContinuation reports whether the text before the first "." is a
// non-empty run of digits, e.g. "1. with sauce" or a bare "12".
// Superscript and circled digits count too.
func isContinuation(line string) bool {
	prefix, _, _ := strings.Cut(line, ".")
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if !unicode.IsDigit(r) && !unicode.Is(digitSymbols, r) {
			return false
		}
	}
	return true
}

// digitSymbols holds the non-decimal runes that still carry a single digit
// value: superscripts, subscripts, circled, parenthesized and dingbat
// digits. Fractions and other numerals are excluded.
var digitSymbols = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
