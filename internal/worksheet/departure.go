package worksheet

import (
	"regexp"
	"strings"
)

// DepartureTBD is shown when a section has no matching truck departure.
const DepartureTBD = "TBD"

// The worksheet prints the label with a variable run of spaces.
var truckLeavesRe = regexp.MustCompile(`Truck[ \t]+Leaves` + space + `*(.*?)\n`)

// DepartureTimes returns every "Truck Leaves" value in document order.
func DepartureTimes(text string) []string {
	matches := truckLeavesRe.FindAllStringSubmatch(text, -1)
	times := make([]string, 0, len(matches))
	for _, m := range matches {
		times = append(times, strings.TrimSpace(m[1]))
	}
	return times
}

// DepartureAt returns times[i], or DepartureTBD when i is out of range.
func DepartureAt(times []string, i int) string {
	if i < 0 || i >= len(times) {
		return DepartureTBD
	}
	return times[i]
}
