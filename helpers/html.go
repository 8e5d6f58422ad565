package helpers

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	anySpaceRegex    = regexp.MustCompile(`\s+`)
	multiSpaceRegex  = regexp.MustCompile(`[ \t]+`)
	brTagRegex       = regexp.MustCompile(`<br\s*/?>`)
	blockEndRegex    = regexp.MustCompile(`</(?:p|div|li|h[1-6]|blockquote|tr)>`)
	excessNewlines   = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes markup from a string, decodes entities and
// collapses the result to single-spaced text.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = anySpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripHTMLPreserveNewlines removes markup but keeps line structure,
// converting block-level closing tags and <br> to line breaks. Citation
// blobs go through this so their one-reference-per-line shape survives.
func StripHTMLPreserveNewlines(s string) string {
	if s == "" {
		return ""
	}
	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = blockEndRegex.ReplaceAllString(s, "\n")
	s = brTagRegex.ReplaceAllString(s, "\n")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}
