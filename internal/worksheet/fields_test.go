package worksheet

import "testing"

func TestExtractField(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  string
	}{
		{"value on next line", "Event Title:\nSmith Wedding\n", LabelTitle, "Smith Wedding"},
		{"value on same line", "Guest Count: 120 \nVenue\n", LabelGuestCount, "120"},
		{"blank lines skipped", "Event Worksheet\n\n  03/14/2026 Friday\n", LabelDate, "03/14/2026 Friday"},
		{"first match wins", "Event Title:\nFirst\nEvent Title:\nSecond\n", LabelTitle, "First"},
		{"absent label", "Guest Count:\n50\n", LabelTitle, ""},
		{"no line break after value", "Event Title:\nSmith Wedding", LabelTitle, ""},
		{"regex characters are literal", "Cost (USD):\n12.50\n", "Cost (USD):", "12.50"},
		{"carriage return trimmed", "Guest Count:\r\n75\r\n", LabelGuestCount, "75"},
		{"empty text", "", LabelTitle, ""},
		{"no-break space before line break", "Guest Count:\u00a0\n120\n", LabelGuestCount, "120"},
		{"no-break space before value", "Event Title:\u00a0Smith Wedding\n", LabelTitle, "Smith Wedding"},
		{"ideographic space skipped", "Event Title:\u3000\nGala\n", LabelTitle, "Gala"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractField(tt.text, tt.label); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractField_SubstringAnchoring(t *testing.T) {
	// "Count:" also matches inside "Guest Count:"; the first occurrence wins.
	text := "Guest Count:\n80\nCount:\n3\n"
	if got := ExtractField(text, "Count:"); got != "80" {
		t.Errorf("expected substring label to anchor on %q, got %q", "80", got)
	}
}

func TestExtractFields(t *testing.T) {
	text := "Event Worksheet\n03/14/2026\nEvent Title:\nGala\nGuest Count:\n200\n"
	got := ExtractFields(text)
	want := Fields{Title: "Gala", Date: "03/14/2026", GuestCount: "200"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestExtractFields_NothingFound(t *testing.T) {
	got := ExtractFields("no labels anywhere\n")
	if got != (Fields{}) {
		t.Errorf("expected empty fields, got %+v", got)
	}
}
