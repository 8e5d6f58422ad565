// Package model defines the canonical in-memory record for a journal
// article and the operations that keep its author/affiliation relations
// consistent.
package model

// Lang identifies one of the two languages the record is maintained in.
type Lang string

const (
	LangEN Lang = "en"
	LangRU Lang = "ru"
)

// Langs is the fixed iteration order for bilingual fields. Ties and
// fan-out loops everywhere in the codebase follow this order.
var Langs = []Lang{LangEN, LangRU}

// Bilingual is a total mapping from {en, ru} to string. Missing values
// are empty strings, never absent.
type Bilingual struct {
	En string `yaml:"en"`
	Ru string `yaml:"ru"`
}

// Get returns the value for lang, or "" for an unknown language.
func (b Bilingual) Get(lang Lang) string {
	switch lang {
	case LangEN:
		return b.En
	case LangRU:
		return b.Ru
	}
	return ""
}

// Set assigns the value for lang. Unknown languages are ignored.
func (b *Bilingual) Set(lang Lang, v string) {
	switch lang {
	case LangEN:
		b.En = v
	case LangRU:
		b.Ru = v
	}
}

// IsEmpty reports whether both languages are empty.
func (b Bilingual) IsEmpty() bool {
	return b.En == "" && b.Ru == ""
}

// JournalMeta holds journal-level metadata.
type JournalMeta struct {
	Titles     Bilingual `yaml:"titles"`
	ISSN       string    `yaml:"issn"`
	EISSN      string    `yaml:"eissn"`
	Publishers Bilingual `yaml:"publishers"`
}

// Author is one contributor. AffIDs holds foreign keys into the owning
// article's Affiliations slice, in presentation order.
type Author struct {
	ID         int       `yaml:"id"`
	Surnames   Bilingual `yaml:"surnames"`
	GivenNames Bilingual `yaml:"givennames"`
	Email      string    `yaml:"email"`
	ORCID      string    `yaml:"orcid"`

	// AffiliationText is the freeform semicolon-delimited per-language
	// affiliation input. ProcessAffiliations consumes it; exports rely
	// on AffIDs, not on this field.
	AffiliationText Bilingual `yaml:"affiliation_text"`
	AffIDs          []int     `yaml:"aff_ids"`
}

// Affiliation is one institution, referenced by id from authors.
type Affiliation struct {
	ID  int       `yaml:"id"`
	Val Bilingual `yaml:"val"`
}

// ArticleMeta holds article-level metadata. Bilingual fields are always
// total over both languages; Authors and Affiliations preserve
// presentation order.
type ArticleMeta struct {
	PrimaryLanguage string    `yaml:"primary_language"`
	ArticleType     string    `yaml:"article_type"`
	DOI             string    `yaml:"doi"`
	EDN             string    `yaml:"edn"`
	PageURL         string    `yaml:"page_url"`
	PDFURL          string    `yaml:"pdf_url"`
	Titles          Bilingual `yaml:"titles"`
	Abstracts       Bilingual `yaml:"abstracts"`
	Keywords        Bilingual `yaml:"keywords"`

	NextAuthorID int      `yaml:"next_author_id"`
	Authors      []Author `yaml:"authors"`

	NextAffiliationID int           `yaml:"next_affiliation_id"`
	Affiliations      []Affiliation `yaml:"affiliations"`

	CopyrightHolders Bilingual `yaml:"copyright_holders"`
	LicenseURL       string    `yaml:"license_url"`
	CopyrightYear    string    `yaml:"copyright_year"`
	DateSubmitted    string    `yaml:"date_submitted"`
	DateAccepted     string    `yaml:"date_accepted"`
	DatePublished    string    `yaml:"date_published"`
	Volume           string    `yaml:"volume"`
	Issue            string    `yaml:"issue"`
	UseElocationID   bool      `yaml:"use_elocation_id"`
	Pages            string    `yaml:"pages"`
	Acknowledgments  Bilingual `yaml:"acknowledgments"`
	Fundings         Bilingual `yaml:"fundings"`
	Citations        Bilingual `yaml:"citations"`
}

// Record pairs journal-level and article-level metadata. One Record is
// owned by exactly one editing session.
type Record struct {
	Journal JournalMeta `yaml:"journal"`
	Article ArticleMeta `yaml:"article"`
}

// DefaultLicenseURL is the license preselected for new articles.
const DefaultLicenseURL = "https://creativecommons.org/licenses/by/4.0/"

// NewJournalMeta returns an empty journal record.
func NewJournalMeta() JournalMeta {
	return JournalMeta{}
}

// NewArticleMeta returns an article record with defaults applied and id
// counters initialized.
func NewArticleMeta() ArticleMeta {
	return ArticleMeta{
		ArticleType:       "research-article",
		LicenseURL:        DefaultLicenseURL,
		NextAuthorID:      1,
		Authors:           []Author{},
		NextAffiliationID: 1,
		Affiliations:      []Affiliation{},
	}
}

// NewAuthor returns an empty author value. The id is assigned by
// AddAuthor, not here.
func NewAuthor() Author {
	return Author{AffIDs: []int{}}
}

// NewRecord returns an empty record with article defaults applied.
func NewRecord() *Record {
	return &Record{
		Journal: NewJournalMeta(),
		Article: NewArticleMeta(),
	}
}

// IsEmpty reports whether the author carries no content besides its id,
// i.e. equals the canonical empty-author template.
func (a Author) IsEmpty() bool {
	return a.Surnames.IsEmpty() &&
		a.GivenNames.IsEmpty() &&
		a.Email == "" &&
		a.ORCID == "" &&
		a.AffiliationText.IsEmpty() &&
		len(a.AffIDs) == 0
}
