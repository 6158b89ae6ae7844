package note

import (
	"regexp"
	"strings"
)

const (
	// MaxFilenameLen caps the sanitized stem, in runes
	MaxFilenameLen = 50

	// DefaultFilename is used when sanitation leaves nothing
	DefaultFilename = "recipe"

	// Extension is appended to every note file
	Extension = ".md"
)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Filename derives a filesystem-safe stem (no extension) from a title.
// Sanitizing an already sanitized stem returns it unchanged.
func Filename(title string) string {
	s := illegalChars.ReplaceAllString(title, "")
	s = nonWordChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
	s = strings.ReplaceAll(s, " ", "_")

	if runes := []rune(s); len(runes) > MaxFilenameLen {
		s = strings.TrimRight(string(runes[:MaxFilenameLen]), "_")
	}

	if s == "" {
		return DefaultFilename
	}
	return s
}
