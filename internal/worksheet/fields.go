package worksheet

import (
	"regexp"
	"strings"
)

// Labels that anchor the flat worksheet fields.
const (
	LabelTitle      = "Event Title:"
	LabelDate       = "Event Worksheet"
	LabelGuestCount = "Guest Count:"
)

// space matches the Unicode whitespace a PDF text layer emits, such as
// U+00A0, which the ASCII-only \s misses.
const space = `[\s\p{Z}\x{85}\x{1c}-\x{1f}]`

// Fields holds the label-anchored values found in a worksheet.
type Fields struct {
	Title      string `json:"event_title" yaml:"event_title"`
	Date       string `json:"event_date" yaml:"event_date"`
	GuestCount string `json:"guest_count" yaml:"guest_count"`
}

// ExtractField returns the trimmed text that follows the first occurrence of
// label, up to the next line break. Whitespace (including line breaks)
// directly after the label is skipped, so a value printed on the line below
// its label is still found. Matching is a literal substring match: a label
// that is a prefix of a longer label can anchor on the longer one.
//
// A missing label, or one with no line break after it, yields "".
func ExtractField(text, label string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(label) + space + `*(.*?)\n`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractFields pulls the title, date and guest count out of the full text.
func ExtractFields(text string) Fields {
	return Fields{
		Title:      ExtractField(text, LabelTitle),
		Date:       ExtractField(text, LabelDate),
		GuestCount: ExtractField(text, LabelGuestCount),
	}
}
