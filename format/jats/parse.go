package jats

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/model"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// Parse reads a JATS article document and returns one record. Optional
// metadata that is absent yields empty fields; a malformed
// aff-alternatives id is a structural error because affiliation
// cross-reference numbering must stay unambiguous.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*model.Record, error) {
	doc := &docArticle{}
	dec := xml.NewDecoder(r)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("unmarshaling jats article: %w", err)
	}

	record := model.NewRecord()
	parseJournalMeta(&record.Journal, &doc.Front.JournalMeta)
	if err := parseArticleMeta(&record.Article, doc); err != nil {
		return nil, err
	}

	if opts != nil && opts.StripHTML {
		model.StripMarkup(&record.Article)
	}

	return []*model.Record{record}, nil
}

func parseJournalMeta(out *model.JournalMeta, in *docJournalMeta) {
	for _, g := range in.TitleGroups {
		setIfUnset(&out.Titles, g.Lang, g.Title)
	}
	for _, issn := range in.ISSNs {
		switch issn.Format {
		case "print":
			if out.ISSN == "" {
				out.ISSN = strings.TrimSpace(issn.Value)
			}
		case "electronic":
			if out.EISSN == "" {
				out.EISSN = strings.TrimSpace(issn.Value)
			}
		}
	}
	for _, name := range in.PublisherNames {
		setIfUnset(&out.Publishers, name.Lang, name.Value)
	}
}

func parseArticleMeta(out *model.ArticleMeta, doc *docArticle) error {
	in := &doc.Front.ArticleMeta

	out.PrimaryLanguage = doc.Lang
	out.ArticleType = doc.ArticleType

	for _, id := range in.ArticleIDs {
		switch id.Type {
		case "doi":
			if out.DOI == "" {
				out.DOI = strings.TrimSpace(id.Value)
			}
		case "edn":
			if out.EDN == "" {
				out.EDN = strings.TrimSpace(id.Value)
			}
		}
	}

	for _, g := range in.TitleGroups {
		setIfUnset(&out.Titles, g.Lang, g.Title)
	}
	for _, a := range in.Abstracts {
		setIfUnset(&out.Abstracts, a.Lang, a.P)
	}
	out.Keywords = collectKeywords(in.KwdGroups)

	for _, uri := range in.SelfURIs {
		switch uri.ContentType {
		case "html":
			if out.PageURL == "" {
				out.PageURL = uri.Href
			}
		case "pdf":
			if out.PDFURL == "" {
				out.PDFURL = uri.Href
			}
		}
	}

	if in.Permissions != nil {
		for _, h := range in.Permissions.Holders {
			setIfUnset(&out.CopyrightHolders, h.Lang, h.Value)
		}
		out.CopyrightYear = strings.TrimSpace(in.Permissions.CopyrightYear)
		if in.Permissions.License != nil {
			out.LicenseURL = in.Permissions.License.Href
		}
	} else {
		out.LicenseURL = ""
	}

	if in.History != nil {
		for _, d := range in.History.Dates {
			switch d.DateType {
			case "received":
				out.DateSubmitted = d.ISODate
			case "accepted":
				out.DateAccepted = d.ISODate
			}
		}
	}
	if in.PubDate != nil {
		out.DatePublished = in.PubDate.ISODate
	}

	out.Volume = strings.TrimSpace(in.Volume)
	out.Issue = strings.TrimSpace(in.Issue)

	elocation := strings.TrimSpace(in.ElocationID)
	out.UseElocationID = elocation != ""
	if elocation != "" {
		out.Pages = elocation
	} else {
		fpage := strings.TrimSpace(in.FPage)
		lpage := strings.TrimSpace(in.LPage)
		if fpage == lpage {
			out.Pages = fpage
		} else {
			out.Pages = fpage + "-" + lpage
		}
	}

	for _, ack := range doc.Back.Acks {
		setIfUnset(&out.Acknowledgments, ack.Lang, ack.P)
	}
	if in.FundingGroup != nil {
		for _, s := range in.FundingGroup.Statements {
			setIfUnset(&out.Fundings, s.Lang, s.Value)
		}
	}
	out.Citations = collectCitations(&doc.Back)

	if err := parseAffiliations(out, in.AffAlternatives); err != nil {
		return err
	}
	parseAuthors(out, in.ContribGroup)

	return nil
}

// parseAffiliations reconstructs the affiliation list from the
// aff-alternatives blocks, keeping each block's own numeric id. The
// maximum parsed id seeds the counter so later edits cannot collide.
func parseAffiliations(out *model.ArticleMeta, blocks []docAffAlternatives) error {
	maxID := 0
	for i, block := range blocks {
		match := trailingDigits.FindString(block.ID)
		if match == "" {
			return fmt.Errorf("aff-alternatives block %d: missing or non-numeric id attribute %q", i+1, block.ID)
		}
		id, err := strconv.Atoi(match)
		if err != nil {
			return fmt.Errorf("aff-alternatives block %d: non-numeric id attribute %q", i+1, block.ID)
		}
		if id > maxID {
			maxID = id
		}

		aff := model.Affiliation{ID: id}
		for _, a := range block.Affs {
			for _, inst := range a.Institutions {
				setIfUnset(&aff.Val, inst.Lang, inst.Value)
			}
		}
		out.Affiliations = append(out.Affiliations, aff)
	}
	out.NextAffiliationID = maxID + 1
	return nil
}

// parseAuthors builds model authors from contrib elements. Only
// contributors actually present in the document become authors; nothing
// is fabricated.
func parseAuthors(out *model.ArticleMeta, group *docContribGroup) {
	if group == nil {
		return
	}
	for _, contrib := range group.Contribs {
		author := model.NewAuthor()
		author.ID = out.NextAuthorID
		out.NextAuthorID++

		if contrib.NameAlternatives != nil {
			for _, name := range contrib.NameAlternatives.Names {
				setIfUnset(&author.Surnames, name.Lang, name.Surname)
				setIfUnset(&author.GivenNames, name.Lang, name.GivenNames)
			}
		}
		author.Email = strings.TrimSpace(contrib.Email)
		for _, cid := range contrib.ContribIDs {
			if cid.Type == "orcid" {
				author.ORCID = strings.TrimSpace(cid.Value)
				break
			}
		}

		for _, xref := range contrib.Xrefs {
			if xref.RefType != "aff" {
				continue
			}
			match := trailingDigits.FindString(xref.RID)
			if match == "" {
				continue
			}
			id, err := strconv.Atoi(match)
			if err != nil {
				continue
			}
			model.Affiliate(&author, id)
		}
		author.AffiliationText = affiliationText(out.Affiliations, author.AffIDs)

		out.Authors = append(out.Authors, author)
	}
}

// affiliationText rebuilds the freeform per-language text from the
// referenced affiliations, so a parsed record can go straight back into
// interactive editing.
func affiliationText(affs []model.Affiliation, ids []int) model.Bilingual {
	var text model.Bilingual
	for _, lang := range model.Langs {
		var parts []string
		for _, id := range ids {
			for _, aff := range affs {
				if aff.ID == id {
					if v := aff.Val.Get(lang); v != "" {
						parts = append(parts, v)
					}
					break
				}
			}
		}
		text.Set(lang, strings.Join(parts, "; "))
	}
	return text
}

func collectKeywords(groups []docKwdGroup) model.Bilingual {
	var out model.Bilingual
	for _, lang := range model.Langs {
		var words []string
		for _, g := range groups {
			if g.Lang != string(lang) {
				continue
			}
			for _, kwd := range g.Kwds {
				words = append(words, strings.TrimSpace(kwd))
			}
		}
		out.Set(lang, strings.Join(words, "; "))
	}
	return out
}

func collectCitations(back *docBack) model.Bilingual {
	var out model.Bilingual
	if back.RefList == nil {
		return out
	}
	lines := map[string][]string{}
	for _, ref := range back.RefList.Refs {
		for _, mc := range ref.Alternatives.MixedCitations {
			lines[mc.Lang] = append(lines[mc.Lang], strings.TrimSpace(mc.Value))
		}
	}
	for _, lang := range model.Langs {
		out.Set(lang, strings.Join(lines[string(lang)], "\n"))
	}
	return out
}

// setIfUnset fills the bilingual slot for lang with the trimmed value,
// keeping the first occurrence found in document order.
func setIfUnset(b *model.Bilingual, lang, value string) {
	l := model.Lang(lang)
	value = strings.TrimSpace(value)
	if value == "" || b.Get(l) != "" {
		return
	}
	b.Set(l, value)
}

// XML types for JATS unmarshaling. Attribute tags use local names so
// xml:lang and xlink:href resolve regardless of prefix binding.

type docArticle struct {
	XMLName     xml.Name `xml:"article"`
	Lang        string   `xml:"lang,attr"`
	ArticleType string   `xml:"article-type,attr"`
	Front       docFront `xml:"front"`
	Back        docBack  `xml:"back"`
}

type docFront struct {
	JournalMeta docJournalMeta `xml:"journal-meta"`
	ArticleMeta docArticleMeta `xml:"article-meta"`
}

type docJournalMeta struct {
	TitleGroups    []docJournalTitleGroup `xml:"journal-title-group"`
	ISSNs          []docISSN              `xml:"issn"`
	PublisherNames []docLangText          `xml:"publisher>publisher-name"`
}

type docJournalTitleGroup struct {
	Lang  string `xml:"lang,attr"`
	Title string `xml:"journal-title"`
}

type docISSN struct {
	Format string `xml:"publication-format,attr"`
	Value  string `xml:",chardata"`
}

type docArticleMeta struct {
	ArticleIDs      []docArticleID       `xml:"article-id"`
	TitleGroups     []docTitleGroup      `xml:"title-group"`
	ContribGroup    *docContribGroup     `xml:"contrib-group"`
	AffAlternatives []docAffAlternatives `xml:"aff-alternatives"`
	PubDate         *docPubDate          `xml:"pub-date"`
	Volume          string               `xml:"volume"`
	Issue           string               `xml:"issue"`
	ElocationID     string               `xml:"elocation-id"`
	FPage           string               `xml:"fpage"`
	LPage           string               `xml:"lpage"`
	History         *docHistory          `xml:"history"`
	Permissions     *docPermissions      `xml:"permissions"`
	SelfURIs        []docSelfURI         `xml:"self-uri"`
	Abstracts       []docAbstract        `xml:"abstract"`
	KwdGroups       []docKwdGroup        `xml:"kwd-group"`
	FundingGroup    *docFundingGroup     `xml:"funding-group"`
}

type docArticleID struct {
	Type  string `xml:"pub-id-type,attr"`
	Value string `xml:",chardata"`
}

type docTitleGroup struct {
	Lang  string `xml:"lang,attr"`
	Title string `xml:"article-title"`
}

type docContribGroup struct {
	Contribs []docContrib `xml:"contrib"`
}

type docContrib struct {
	ContribIDs       []docContribID       `xml:"contrib-id"`
	NameAlternatives *docNameAlternatives `xml:"name-alternatives"`
	Email            string               `xml:"email"`
	Xrefs            []docXref            `xml:"xref"`
}

type docContribID struct {
	Type  string `xml:"contrib-id-type,attr"`
	Value string `xml:",chardata"`
}

type docNameAlternatives struct {
	Names []docName `xml:"name"`
}

type docName struct {
	Lang       string `xml:"lang,attr"`
	Surname    string `xml:"surname"`
	GivenNames string `xml:"given-names"`
}

type docXref struct {
	RefType string `xml:"ref-type,attr"`
	RID     string `xml:"rid,attr"`
}

type docAffAlternatives struct {
	ID   string   `xml:"id,attr"`
	Affs []docAff `xml:"aff"`
}

type docAff struct {
	Institutions []docLangText `xml:"institution"`
}

type docPubDate struct {
	ISODate string `xml:"iso-8601-date,attr"`
}

type docHistory struct {
	Dates []docHistoryDate `xml:"date"`
}

type docHistoryDate struct {
	DateType string `xml:"date-type,attr"`
	ISODate  string `xml:"iso-8601-date,attr"`
}

type docPermissions struct {
	CopyrightYear string        `xml:"copyright-year"`
	Holders       []docLangText `xml:"copyright-holder"`
	License       *docLicense   `xml:"license"`
}

type docLicense struct {
	Href string `xml:"href,attr"`
}

type docSelfURI struct {
	ContentType string `xml:"content-type,attr"`
	Href        string `xml:"href,attr"`
}

type docAbstract struct {
	Lang string `xml:"lang,attr"`
	P    string `xml:"p"`
}

type docKwdGroup struct {
	Lang string   `xml:"lang,attr"`
	Kwds []string `xml:"kwd"`
}

type docFundingGroup struct {
	Statements []docLangText `xml:"funding-statement"`
}

type docBack struct {
	Acks    []docAck    `xml:"ack"`
	RefList *docRefList `xml:"ref-list"`
}

type docAck struct {
	Lang string `xml:"lang,attr"`
	P    string `xml:"p"`
}

type docRefList struct {
	Refs []docRef `xml:"ref"`
}

type docRef struct {
	Alternatives docCitationAlternatives `xml:"citation-alternatives"`
}

type docCitationAlternatives struct {
	MixedCitations []docLangText `xml:"mixed-citation"`
}

type docLangText struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}
