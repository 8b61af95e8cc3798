package naming

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// FromPathToLogicalID joins construct path components into a CloudFormation logical id.
// Each component is title-cased and stripped of anything that isn't alphanumeric.
func FromPathToLogicalID(components ...string) string {
	var b strings.Builder
	for _, c := range components {
		for _, word := range nonAlphanumeric.Split(c, -1) {
			b.WriteString(strings.Title(word))
		}
	}
	return b.String()
}
