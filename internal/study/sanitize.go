package study

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

// ErrEmptyContent is returned when card or deck text is empty after
// markup is stripped.
var ErrEmptyContent = errors.New("study: content is empty or unsafe")

var textPolicy = bluemonday.StrictPolicy()

// sanitise strips all markup from input and returns plain text.
func sanitise(input string) (string, error) {
	clean := html.UnescapeString(textPolicy.Sanitize(input))
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "", ErrEmptyContent
	}
	return clean, nil
}
