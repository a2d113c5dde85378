package otcscraper

import (
	"html"
	"regexp"
	"sort"
)

var quotedNameRe = regexp.MustCompile(`'([^']*)'`)

// ParsePrefixes derives the name-prefix partitions from the site's suggest
// library (list_n.lib), a JavaScript array of quoted product names. Each
// distinct leading character becomes one forward-match search partition.
func ParsePrefixes(libText string) []string {
	seen := make(map[string]bool)

	for _, m := range quotedNameRe.FindAllStringSubmatch(libText, -1) {
		name := html.UnescapeString(m[1])
		if name == "" {
			continue
		}
		first := string([]rune(name)[:1])
		if first == "�" {
			// Mojibake entries in the lib file produce the replacement
			// character; searching for it would match nothing.
			continue
		}
		seen[first] = true
	}

	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}
