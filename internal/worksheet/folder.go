package worksheet

import "strings"

const (
	DefaultFolder = "UnknownDate"
	DefaultTitle  = "Unnamed"
)

// FolderAndTitle reads the upload folder name and the event title from the
// first page of a worksheet. The line after "Event Worksheet" is the event
// date, turned into a folder name ("/" -> "-", " " -> "_"); the line after
// "Event Title:" is the title. When a label repeats, the last one wins.
func FolderAndTitle(lines []string) (folder, title string) {
	folder, title = DefaultFolder, DefaultTitle
	for i, line := range lines {
		if i+1 >= len(lines) {
			break
		}
		next := strings.TrimSpace(lines[i+1])
		if strings.Contains(line, LabelDate) {
			folder = strings.NewReplacer("/", "-", " ", "_").Replace(next)
		}
		if strings.Contains(line, LabelTitle) {
			title = next
		}
	}
	return folder, title
}

// OutputName is the DOCX file name for an event title.
func OutputName(title string) string {
	return strings.ReplaceAll(title, "/", "_") + ".docx"
}
