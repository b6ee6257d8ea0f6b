package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"regexp"
	"slices"
)

// templateVar matches {{.Query}}, {{ .Query }} and dotted paths like {{.Place.Name}}.
var templateVar = regexp.MustCompile(`\{\{-?\s*\.([A-Za-z_][A-Za-z0-9_.]*)\s*-?\}\}`)

// ExtractVariables returns the sorted, de-duplicated field references of a
// Go template, e.g. `{{.Query}} near {{.Where.City}}` -> [Query Where.City].
func ExtractVariables(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range templateVar.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(seen))
}

// HashText returns the hex SHA-256 of text, used to tell an override from the default.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
