package gdocs

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	docURLRegex = regexp.MustCompile(`^https://docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`)
	fileIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ExtractFileID accepts either a bare document ID or a Google Docs URL
// (https://docs.google.com/document/d/<id>/edit...) and returns the ID.
func ExtractFileID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if m := docURLRegex.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if fileIDRegex.MatchString(input) {
		return input, nil
	}
	return "", fmt.Errorf("invalid document id or url: %q", input)
}
