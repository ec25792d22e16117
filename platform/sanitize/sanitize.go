// Package sanitize cleans user-provided text before it is stored or sent to
// a language model.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
	entityReplacer  = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// StripHTML removes HTML tags, decodes common entities and strips again to
// catch encoded tags.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips HTML from a single-line field and collapses runs of whitespace.
func Text(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}

// Notes strips HTML from free-form notes while keeping paragraph breaks, then
// truncates the result to maxRunes.
func Notes(s string, maxRunes int) string {
	result := strings.ReplaceAll(StripHTML(s), "\r\n", "\n")
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	result = blankLinesRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	result = strings.TrimSpace(result)

	if maxRunes > 0 && utf8.RuneCountInString(result) > maxRunes {
		runes := []rune(result)
		result = strings.TrimSpace(string(runes[:maxRunes]))
	}
	return result
}
