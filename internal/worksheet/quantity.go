package worksheet

import (
	"regexp"
	"strings"
)

var quantityRe = regexp.MustCompile(`^(.*?)(\p{Nd}+` + space + `*ppl)`)

// SplitQuantity splits an item such as "Caesar Salad 40 ppl" into its name
// and the "<digits> ppl" annotation. Text after the annotation is dropped.
func SplitQuantity(item string) (name, qty string, ok bool) {
	m := quantityRe.FindStringSubmatch(item)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
