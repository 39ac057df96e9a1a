package drive

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoFolderID means neither configuration nor the folder id file named a
// parent Drive folder.
var ErrNoFolderID = errors.New("no drive folder id configured")

// ReadFolderID returns the trimmed contents of the folder id file.
func ReadFolderID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read folder id file: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("folder id file %s: %w", path, ErrNoFolderID)
	}
	return id, nil
}

// ResolveFolderID prefers an explicitly configured id over the file.
func ResolveFolderID(configured, path string) (string, error) {
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}
	if path == "" {
		return "", ErrNoFolderID
	}
	return ReadFolderID(path)
}
