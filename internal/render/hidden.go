package render

import (
	"regexp"
	"strings"
)

// FilterHiddenTags drops every line that consists only of one of tags,
// written as "#tag". Tags may be given with or without the leading '#'.
// Matching is case-insensitive and ignores surrounding whitespace.
func FilterHiddenTags(text string, tags []string) string {
	var alts []string
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		alts = append(alts, "#"+regexp.QuoteMeta(tag))
	}
	if len(alts) == 0 {
		return text
	}
	re := regexp.MustCompile(`(?i)^\s*(?:` + strings.Join(alts, "|") + `)\s*$`)

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !re.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
