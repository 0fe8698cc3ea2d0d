// Package htmltext normalizes text read from rendered HTML.
package htmltext

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// tagPattern matches a single well-formed start, end or self-closing tag.
var tagPattern = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9]*)(?:\s[^<>]*)?/?>`)

// Clean returns raw with known HTML tags removed, entities decoded once,
// non-breaking and zero-width spaces normalized and whitespace runs collapsed
// to a single space. Anything that is not a recognised tag is kept as text,
// so "x<y" and "Size<Large>Small" come back unchanged.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	return collapse(html.UnescapeString(stripTags(raw)))
}

// stripTags replaces recognised tags with a space: "a<br>b" reads as "a b".
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return tagPattern.ReplaceAllStringFunc(s, func(tag string) string {
		name := tagPattern.FindStringSubmatch(tag)[1]
		if atom.Lookup([]byte(strings.ToLower(name))) == 0 {
			return tag
		}
		return " "
	})
}

var replacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u200b", "",
	"\ufeff", "",
)

func collapse(s string) string {
	return strings.Join(strings.Fields(replacer.Replace(s)), " ")
}
