package profiles

import (
	"regexp"
	"strings"
)

// Extensions are tried in order for every candidate name.
var Extensions = []string{".yaml", ".yml"}

// whitespaceRun also covers Unicode separators such as NBSP.
var whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)

// Candidates returns the ordered, de-duplicated file stems tried for a
// player display name:
//
//	spaces to underscores, spaces removed,
//	lowercase with underscores, lowercase without spaces, lowercase with dashes.
func Candidates(name string) []string {
	lower := strings.ToLower(name)
	variants := []string{
		whitespaceRun.ReplaceAllString(name, "_"),
		whitespaceRun.ReplaceAllString(name, ""),
		whitespaceRun.ReplaceAllString(lower, "_"),
		whitespaceRun.ReplaceAllString(lower, ""),
		whitespaceRun.ReplaceAllString(lower, "-"),
	}

	out := make([]string, 0, len(variants))
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Attempts expands Candidates with Extensions into the exact file names
// looked up, in lookup order.
func Attempts(name string) []string {
	stems := Candidates(name)
	out := make([]string, 0, len(stems)*len(Extensions))
	for _, stem := range stems {
		for _, ext := range Extensions {
			out = append(out, stem+ext)
		}
	}
	return out
}
