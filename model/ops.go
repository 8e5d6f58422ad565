package model

import (
	"strings"

	"github.com/periodica-press/deposit/helpers"
)

// AddAuthor appends an author, assigning the next author id.
func AddAuthor(meta *ArticleMeta, author Author) {
	AddAuthorAt(meta, author, len(meta.Authors))
}

// AddAuthorAt inserts an author at index, assigning the next author id.
// Indexes outside [0, len] are clamped.
func AddAuthorAt(meta *ArticleMeta, author Author, index int) {
	author.ID = meta.NextAuthorID
	meta.NextAuthorID++
	if author.AffIDs == nil {
		author.AffIDs = []int{}
	}
	index = clamp(index, len(meta.Authors))
	meta.Authors = append(meta.Authors, Author{})
	copy(meta.Authors[index+1:], meta.Authors[index:])
	meta.Authors[index] = author
}

// DeleteAuthor removes the author with the given id. Unknown ids are a
// no-op. Author ids are never reused afterwards.
func DeleteAuthor(meta *ArticleMeta, id int) {
	for i, a := range meta.Authors {
		if a.ID == id {
			meta.Authors = append(meta.Authors[:i], meta.Authors[i+1:]...)
			return
		}
	}
}

// AddAffiliation appends an affiliation, assigning the next affiliation id.
func AddAffiliation(meta *ArticleMeta, val Bilingual) int {
	return AddAffiliationAt(meta, val, len(meta.Affiliations))
}

// AddAffiliationAt inserts an affiliation at index, assigning the next
// affiliation id. Returns the assigned id.
func AddAffiliationAt(meta *ArticleMeta, val Bilingual, index int) int {
	id := meta.NextAffiliationID
	meta.NextAffiliationID++
	index = clamp(index, len(meta.Affiliations))
	meta.Affiliations = append(meta.Affiliations, Affiliation{})
	copy(meta.Affiliations[index+1:], meta.Affiliations[index:])
	meta.Affiliations[index] = Affiliation{ID: id, Val: val}
	return id
}

// DeleteAffiliation removes the affiliation with the given id and strips
// the id from every author's AffIDs, so no dangling reference survives.
func DeleteAffiliation(meta *ArticleMeta, id int) {
	for i, aff := range meta.Affiliations {
		if aff.ID == id {
			meta.Affiliations = append(meta.Affiliations[:i], meta.Affiliations[i+1:]...)
			for j := range meta.Authors {
				Deaffiliate(&meta.Authors[j], id)
			}
			return
		}
	}
}

// Affiliate appends an affiliation id to the author's reference list.
func Affiliate(author *Author, affID int) {
	author.AffIDs = append(author.AffIDs, affID)
}

// Deaffiliate removes one occurrence of affID from the author's
// reference list, if present.
func Deaffiliate(author *Author, affID int) {
	for i, id := range author.AffIDs {
		if id == affID {
			author.AffIDs = append(author.AffIDs[:i], author.AffIDs[i+1:]...)
			return
		}
	}
}

// ProcessAffiliations rebuilds the article's affiliation list and every
// author's AffIDs from the authors' freeform affiliation text. Segments
// are paired positionally across the two languages; a position past one
// language's list defaults that language to "". Candidates are
// deduplicated by exact equality of both language strings. The operation
// is idempotent.
func ProcessAffiliations(meta *ArticleMeta) {
	meta.NextAffiliationID = 1
	meta.Affiliations = []Affiliation{}
	for i := range meta.Authors {
		author := &meta.Authors[i]
		author.AffIDs = []int{}
		if author.AffiliationText.IsEmpty() {
			continue
		}
		partsEn := splitAffiliationText(author.AffiliationText.En)
		partsRu := splitAffiliationText(author.AffiliationText.Ru)
		n := max(len(partsEn), len(partsRu))
		for pos := 0; pos < n; pos++ {
			candidate := Bilingual{En: segment(partsEn, pos), Ru: segment(partsRu, pos)}
			id := findAffiliation(meta.Affiliations, candidate)
			if id == 0 {
				id = AddAffiliation(meta, candidate)
			}
			Affiliate(author, id)
		}
	}
}

// StripMarkup removes HTML from the free-text fields that tolerate
// pasted rich text: titles, abstracts and citations.
func StripMarkup(meta *ArticleMeta) {
	for _, b := range []*Bilingual{&meta.Titles, &meta.Abstracts} {
		for _, lang := range Langs {
			b.Set(lang, helpers.StripHTML(b.Get(lang)))
		}
	}
	for _, lang := range Langs {
		meta.Citations.Set(lang, helpers.StripHTMLPreserveNewlines(meta.Citations.Get(lang)))
	}
}

// splitAffiliationText splits on ";", trims, and drops empty segments.
func splitAffiliationText(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// findAffiliation returns the id of an exact bilingual match, or 0.
func findAffiliation(affs []Affiliation, val Bilingual) int {
	for _, a := range affs {
		if a.Val == val {
			return a.ID
		}
	}
	return 0
}

func clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}
