package consent

import "strings"

// Classify returns the first category in manifest order owning a prefix of
// name. Prefix matching is exact and case-sensitive.
func Classify(name string, m Manifest) (Category, bool) {
	for _, c := range m {
		for _, prefix := range c.Prefixes {
			if prefix != "" && strings.HasPrefix(name, prefix) {
				return c, true
			}
		}
	}
	return Category{}, false
}
