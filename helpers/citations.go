package helpers

import (
	"regexp"
	"strings"
)

var (
	lineBreakRegex  = regexp.MustCompile(`\r?\n|\r`)
	numerationRegex = regexp.MustCompile(`^\[?\d+[.):\]]?\s*`)

	// doiRegex matches a DOI-shaped substring: the "10." directory
	// indicator, at least four registrant digits with optional dotted
	// sub-segments, then a suffix that must not end in a period.
	doiRegex = regexp.MustCompile(`10\.[0-9]{4,}(?:\.[0-9]+)*/\S*[^\s.]`)
)

// SplitCitationLines splits a freeform citation blob on line breaks and
// drops blank lines.
func SplitCitationLines(s string) []string {
	var lines []string
	for _, line := range lineBreakRegex.Split(s, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// AlignedCitation is one reference entry produced by AlignCitations.
// Text is in LeadingLang; AltText is the same-index line from the other
// language and is present only when HasAlt is true.
type AlignedCitation struct {
	LeadingLang string
	Text        string
	AltLang     string
	AltText     string
	HasAlt      bool
}

// AlignCitations pairs two freeform bilingual citation blobs line by
// line. The leading language is the one with strictly more non-blank
// lines; a tie resolves to English. One entry is emitted per leading
// line, with the same-index line of the other language attached as an
// alternate when that index exists. No fuzzy or re-ordering alignment
// is attempted.
func AlignCitations(en, ru string) []AlignedCitation {
	linesEn := SplitCitationLines(en)
	linesRu := SplitCitationLines(ru)

	leadingLang, otherLang := "en", "ru"
	leading, other := linesEn, linesRu
	if len(linesRu) > len(linesEn) {
		leadingLang, otherLang = "ru", "en"
		leading, other = linesRu, linesEn
	}

	var refs []AlignedCitation
	for i, line := range leading {
		ref := AlignedCitation{LeadingLang: leadingLang, Text: line, AltLang: otherLang}
		if i < len(other) {
			ref.AltText = other[i]
			ref.HasAlt = true
		}
		refs = append(refs, ref)
	}
	return refs
}

// StripNumeration removes a leading reference number such as "1. ",
// "[2] " or "3) " from a citation line.
func StripNumeration(line string) string {
	return numerationRegex.ReplaceAllString(line, "")
}

// FindDOI returns the first DOI-shaped substring of a citation line,
// or "" when none is present.
func FindDOI(line string) string {
	return doiRegex.FindString(line)
}
