package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var tagNameRegex = regexp.MustCompile(`^[a-z0-9-]{2,50}$`)

// ValidateTagName validates a project tag: lowercase alphanumerics and
// hyphens, 2-50 characters, no leading or trailing hyphen.
func ValidateTagName(name string) error {
	if !tagNameRegex.MatchString(name) {
		return fmt.Errorf("tag must be 2-50 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return fmt.Errorf("tag cannot start or end with a hyphen")
	}

	return nil
}

// NormalizeTagName lowercases and trims a raw tag so equivalent spellings
// collapse to one tag row.
func NormalizeTagName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
