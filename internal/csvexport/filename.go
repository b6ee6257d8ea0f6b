package csvexport

import (
	"strings"
)

// Filename derives a download name from the search inputs.
// Every character outside [a-zA-Z0-9] becomes "-" and the result is lower-cased.
func Filename(category, location string) string {
	var b strings.Builder
	for _, r := range category + "-" + location {
		if isAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return strings.ToLower(b.String()) + ".csv"
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
