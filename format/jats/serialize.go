package jats

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/helpers"
	"github.com/periodica-press/deposit/model"
)

const doctype = `<!DOCTYPE article PUBLIC "-//NLM//DTD JATS (Z39.96) Journal Archiving and Interchange DTD v1.4 20241031//EN" "https://jats.nlm.nih.gov/archiving/1.4/JATS-archive-oasis-article1-4-mathml3.dtd">` + "\n"

// Serialize writes each record as a standalone JATS article document.
func (f *Format) Serialize(w io.Writer, records []*model.Record, opts *format.SerializeOptions) error {
	pretty := opts == nil || opts.Pretty

	for i, record := range records {
		doc := buildArticle(&record.Journal, &record.Article)

		var output []byte
		var err error
		if pretty {
			output, err = xml.MarshalIndent(doc, "", "  ")
		} else {
			output, err = xml.Marshal(doc)
		}
		if err != nil {
			return fmt.Errorf("marshaling record %d: %w", i, err)
		}

		if _, err := io.WriteString(w, xml.Header+doctype); err != nil {
			return err
		}
		if _, err := w.Write(output); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

func buildArticle(jmeta *model.JournalMeta, ameta *model.ArticleMeta) *xmlArticle {
	doc := &xmlArticle{
		XmlnsALI:    "http://www.niso.org/schemas/ali/1.0/",
		XmlnsMML:    "http://www.w3.org/1998/Math/MathML",
		XmlnsXlink:  "http://www.w3.org/1999/xlink",
		XmlnsXSI:    "http://www.w3.org/2001/XMLSchema-instance",
		ArticleType: ameta.ArticleType,
		Lang:        ameta.PrimaryLanguage,
	}

	buildJournalMeta(&doc.Front.JournalMeta, jmeta)
	buildArticleMeta(&doc.Front.ArticleMeta, ameta)
	buildBack(&doc.Back, ameta)

	return doc
}

func buildJournalMeta(out *xmlJournalMeta, jmeta *model.JournalMeta) {
	for _, lang := range model.Langs {
		if title := jmeta.Titles.Get(lang); title != "" {
			out.TitleGroups = append(out.TitleGroups, xmlJournalTitleGroup{
				Lang:  string(lang),
				Title: title,
			})
		}
	}
	if jmeta.ISSN != "" {
		out.ISSNs = append(out.ISSNs, xmlISSN{Format: "print", Value: jmeta.ISSN})
	}
	if jmeta.EISSN != "" {
		out.ISSNs = append(out.ISSNs, xmlISSN{Format: "electronic", Value: jmeta.EISSN})
	}
	if !jmeta.Publishers.IsEmpty() {
		publisher := &xmlPublisher{}
		for _, lang := range model.Langs {
			if name := jmeta.Publishers.Get(lang); name != "" {
				publisher.Names = append(publisher.Names, xmlLangText{
					Lang:  string(lang),
					Value: name,
				})
			}
		}
		out.Publisher = publisher
	}
}

func buildArticleMeta(out *xmlArticleMeta, ameta *model.ArticleMeta) {
	if ameta.DOI != "" {
		out.ArticleIDs = append(out.ArticleIDs, xmlArticleID{Type: "doi", Value: ameta.DOI})
	}
	if ameta.EDN != "" {
		out.ArticleIDs = append(out.ArticleIDs, xmlArticleID{Type: "edn", Value: ameta.EDN})
	}

	for _, lang := range model.Langs {
		if title := ameta.Titles.Get(lang); title != "" {
			out.TitleGroups = append(out.TitleGroups, xmlTitleGroup{
				Lang:  string(lang),
				Title: title,
			})
		}
	}

	buildContributors(out, ameta)

	if ameta.DatePublished != "" {
		out.PubDate = &xmlPubDate{
			DateType: "pub",
			ISODate:  ameta.DatePublished,
			Format:   "electronic",
		}
	} else {
		// The schema mandates either a date or an explicit marker.
		out.PubDateNotAvailable = &struct{}{}
	}

	out.Volume = ameta.Volume
	out.Issue = ameta.Issue

	if ameta.Pages != "" {
		if ameta.UseElocationID {
			out.ElocationID = ameta.Pages
		} else {
			first, last := splitPages(ameta.Pages)
			out.FPage = first
			out.LPage = last
		}
	}

	if ameta.DateSubmitted != "" || ameta.DateAccepted != "" {
		history := &xmlHistory{}
		if ameta.DateSubmitted != "" {
			history.Dates = append(history.Dates, xmlHistoryDate{
				DateType: "received",
				ISODate:  ameta.DateSubmitted,
			})
		}
		if ameta.DateAccepted != "" {
			history.Dates = append(history.Dates, xmlHistoryDate{
				DateType: "accepted",
				ISODate:  ameta.DateAccepted,
			})
		}
		out.History = history
	}

	if ameta.LicenseURL != "" && !ameta.CopyrightHolders.IsEmpty() {
		out.Permissions = buildPermissions(ameta)
	}

	if ameta.PageURL != "" {
		out.SelfURIs = append(out.SelfURIs, xmlSelfURI{
			ContentType: "html",
			Mimetype:    "text/html",
			Title:       "article webpage",
			Href:        ameta.PageURL,
			Value:       ameta.PageURL,
		})
	}
	if ameta.PDFURL != "" {
		out.SelfURIs = append(out.SelfURIs, xmlSelfURI{
			ContentType: "pdf",
			Mimetype:    "application/pdf",
			Title:       "article pdf",
			Href:        ameta.PDFURL,
			Value:       ameta.PDFURL,
		})
	}

	for _, lang := range model.Langs {
		if abstract := ameta.Abstracts.Get(lang); abstract != "" {
			out.Abstracts = append(out.Abstracts, xmlAbstract{
				Lang: string(lang),
				P:    abstract,
			})
		}
	}

	for _, lang := range model.Langs {
		if keywords := ameta.Keywords.Get(lang); keywords != "" {
			out.KwdGroups = append(out.KwdGroups, xmlKwdGroup{
				Lang: string(lang),
				Kwds: splitKeywords(keywords),
			})
		}
	}

	if !ameta.Fundings.IsEmpty() {
		group := &xmlFundingGroup{}
		for _, lang := range model.Langs {
			if funding := ameta.Fundings.Get(lang); funding != "" {
				group.Statements = append(group.Statements, xmlLangText{
					Lang:  string(lang),
					Value: funding,
				})
			}
		}
		out.FundingGroup = group
	}
}

// buildContributors emits the contrib-group and aff-alternatives blocks.
// Affiliations with no text in either language are filtered out, and the
// survivors are renumbered 1..k in emission order; cross-references use
// those positions, not the internal ids.
func buildContributors(out *xmlArticleMeta, ameta *model.ArticleMeta) {
	hasAuthor := false
	for _, a := range ameta.Authors {
		if !a.IsEmpty() {
			hasAuthor = true
			break
		}
	}
	if !hasAuthor {
		return
	}

	var visible []model.Affiliation
	for _, aff := range ameta.Affiliations {
		if !aff.Val.IsEmpty() {
			visible = append(visible, aff)
		}
	}

	group := &xmlContribGroup{}
	for _, author := range ameta.Authors {
		if author.IsEmpty() {
			continue
		}
		contrib := xmlContrib{ContribType: "author"}

		if author.ORCID != "" {
			contrib.ContribID = &xmlContribID{Type: "orcid", Value: author.ORCID}
		}

		if !author.Surnames.IsEmpty() || !author.GivenNames.IsEmpty() {
			alt := &xmlNameAlternatives{}
			for _, lang := range model.Langs {
				surname := author.Surnames.Get(lang)
				given := author.GivenNames.Get(lang)
				if surname != "" || given != "" {
					alt.Names = append(alt.Names, xmlName{
						Lang:       string(lang),
						Surname:    surname,
						GivenNames: given,
					})
				}
			}
			contrib.NameAlternatives = alt
		}

		contrib.Email = author.Email

		for pos, aff := range visible {
			if containsID(author.AffIDs, aff.ID) {
				contrib.Xrefs = append(contrib.Xrefs, xmlXref{
					RefType: "aff",
					RID:     "aff" + strconv.Itoa(pos+1),
				})
			}
		}

		group.Contribs = append(group.Contribs, contrib)
	}
	out.ContribGroup = group

	for pos, aff := range visible {
		block := xmlAffAlternatives{ID: "aff" + strconv.Itoa(pos+1)}
		for _, lang := range model.Langs {
			if val := aff.Val.Get(lang); val != "" {
				block.Affs = append(block.Affs, xmlAff{
					Institution: xmlInstitution{Lang: string(lang), Value: val},
				})
			}
		}
		out.AffAlternatives = append(out.AffAlternatives, block)
	}
}

func buildPermissions(ameta *model.ArticleMeta) *xmlPermissions {
	permissions := &xmlPermissions{}

	for _, lang := range model.Langs {
		if holder := ameta.CopyrightHolders.Get(lang); holder != "" {
			statement := "Copyright © "
			if ameta.CopyrightYear != "" {
				statement += ameta.CopyrightYear + " "
			}
			statement += holder
			permissions.Statements = append(permissions.Statements, xmlLangText{
				Lang:  string(lang),
				Value: statement,
			})
		}
	}
	permissions.CopyrightYear = ameta.CopyrightYear
	for _, lang := range model.Langs {
		if holder := ameta.CopyrightHolders.Get(lang); holder != "" {
			permissions.Holders = append(permissions.Holders, xmlLangText{
				Lang:  string(lang),
				Value: holder,
			})
		}
	}

	openAccess := strings.Contains(ameta.LicenseURL, "creativecommons")
	if openAccess {
		permissions.FreeToRead = &struct{}{}
	}
	license := &xmlLicense{
		Href:       ameta.LicenseURL,
		LicenseRef: ameta.LicenseURL,
	}
	if openAccess {
		license.LicenseType = "open-access"
	}
	permissions.License = license

	return permissions
}

func buildBack(out *xmlBack, ameta *model.ArticleMeta) {
	for _, lang := range model.Langs {
		if ack := ameta.Acknowledgments.Get(lang); ack != "" {
			out.Acks = append(out.Acks, xmlAck{Lang: string(lang), P: ack})
		}
	}

	if ameta.Citations.IsEmpty() {
		return
	}

	refList := &xmlRefList{}
	for i, ref := range helpers.AlignCitations(ameta.Citations.En, ameta.Citations.Ru) {
		entry := xmlRef{
			ID:    "ref" + strconv.Itoa(i+1),
			Label: strconv.Itoa(i + 1),
		}
		entry.Alternatives.MixedCitations = append(entry.Alternatives.MixedCitations, xmlLangText{
			Lang:  ref.LeadingLang,
			Value: helpers.StripNumeration(ref.Text),
		})
		if ref.HasAlt {
			entry.Alternatives.MixedCitations = append(entry.Alternatives.MixedCitations, xmlLangText{
				Lang:  ref.AltLang,
				Value: ref.AltText,
			})
		}
		refList.Refs = append(refList.Refs, entry)
	}
	out.RefList = refList
}

// splitPages splits a page range on "-" with surrounding whitespace; a
// single part doubles as both first and last page.
func splitPages(pages string) (first, last string) {
	parts := strings.Split(pages, "-")
	first = strings.TrimSpace(parts[0])
	last = first
	if len(parts) > 1 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

// splitKeywords splits on ";" and trims each part.
func splitKeywords(s string) []string {
	parts := strings.Split(s, ";")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// XML types for JATS marshaling.

type xmlArticle struct {
	XMLName     xml.Name `xml:"article"`
	XmlnsALI    string   `xml:"xmlns:ali,attr"`
	XmlnsMML    string   `xml:"xmlns:mml,attr"`
	XmlnsXlink  string   `xml:"xmlns:xlink,attr"`
	XmlnsXSI    string   `xml:"xmlns:xsi,attr"`
	ArticleType string   `xml:"article-type,attr"`
	Lang        string   `xml:"xml:lang,attr,omitempty"`
	Front       xmlFront `xml:"front"`
	Body        struct{} `xml:"body"`
	Back        xmlBack  `xml:"back"`
}

type xmlFront struct {
	JournalMeta xmlJournalMeta `xml:"journal-meta"`
	ArticleMeta xmlArticleMeta `xml:"article-meta"`
}

type xmlJournalMeta struct {
	TitleGroups []xmlJournalTitleGroup `xml:"journal-title-group"`
	ISSNs       []xmlISSN              `xml:"issn"`
	Publisher   *xmlPublisher          `xml:"publisher"`
}

type xmlJournalTitleGroup struct {
	Lang  string `xml:"xml:lang,attr"`
	Title string `xml:"journal-title"`
}

type xmlISSN struct {
	Format string `xml:"publication-format,attr"`
	Value  string `xml:",chardata"`
}

type xmlPublisher struct {
	Names []xmlLangText `xml:"publisher-name"`
}

type xmlArticleMeta struct {
	ArticleIDs          []xmlArticleID       `xml:"article-id"`
	TitleGroups         []xmlTitleGroup      `xml:"title-group"`
	ContribGroup        *xmlContribGroup     `xml:"contrib-group"`
	AffAlternatives     []xmlAffAlternatives `xml:"aff-alternatives"`
	PubDate             *xmlPubDate          `xml:"pub-date"`
	PubDateNotAvailable *struct{}            `xml:"pub-date-not-available"`
	Volume              string               `xml:"volume,omitempty"`
	Issue               string               `xml:"issue,omitempty"`
	ElocationID         string               `xml:"elocation-id,omitempty"`
	FPage               string               `xml:"fpage,omitempty"`
	LPage               string               `xml:"lpage,omitempty"`
	History             *xmlHistory          `xml:"history"`
	Permissions         *xmlPermissions      `xml:"permissions"`
	SelfURIs            []xmlSelfURI         `xml:"self-uri"`
	Abstracts           []xmlAbstract        `xml:"abstract"`
	KwdGroups           []xmlKwdGroup        `xml:"kwd-group"`
	FundingGroup        *xmlFundingGroup     `xml:"funding-group"`
}

type xmlArticleID struct {
	Type  string `xml:"pub-id-type,attr"`
	Value string `xml:",chardata"`
}

type xmlTitleGroup struct {
	Lang  string `xml:"xml:lang,attr"`
	Title string `xml:"article-title"`
}

type xmlContribGroup struct {
	Contribs []xmlContrib `xml:"contrib"`
}

type xmlContrib struct {
	ContribType      string               `xml:"contrib-type,attr"`
	ContribID        *xmlContribID        `xml:"contrib-id"`
	NameAlternatives *xmlNameAlternatives `xml:"name-alternatives"`
	Email            string               `xml:"email,omitempty"`
	Xrefs            []xmlXref            `xml:"xref"`
}

type xmlContribID struct {
	Type  string `xml:"contrib-id-type,attr"`
	Value string `xml:",chardata"`
}

type xmlNameAlternatives struct {
	Names []xmlName `xml:"name"`
}

type xmlName struct {
	Lang       string `xml:"xml:lang,attr"`
	Surname    string `xml:"surname,omitempty"`
	GivenNames string `xml:"given-names,omitempty"`
}

type xmlXref struct {
	RefType string `xml:"ref-type,attr"`
	RID     string `xml:"rid,attr"`
}

type xmlAffAlternatives struct {
	ID   string   `xml:"id,attr"`
	Affs []xmlAff `xml:"aff"`
}

type xmlAff struct {
	Institution xmlInstitution `xml:"institution"`
}

type xmlInstitution struct {
	Lang  string `xml:"xml:lang,attr"`
	Value string `xml:",chardata"`
}

type xmlPubDate struct {
	DateType string `xml:"date-type,attr"`
	ISODate  string `xml:"iso-8601-date,attr"`
	Format   string `xml:"publication-format,attr"`
}

type xmlHistory struct {
	Dates []xmlHistoryDate `xml:"date"`
}

type xmlHistoryDate struct {
	DateType string `xml:"date-type,attr"`
	ISODate  string `xml:"iso-8601-date,attr"`
}

type xmlPermissions struct {
	Statements    []xmlLangText `xml:"copyright-statement"`
	CopyrightYear string        `xml:"copyright-year,omitempty"`
	Holders       []xmlLangText `xml:"copyright-holder"`
	FreeToRead    *struct{}     `xml:"ali:free_to_read"`
	License       *xmlLicense   `xml:"license"`
}

type xmlLicense struct {
	LicenseType string `xml:"license-type,attr,omitempty"`
	Href        string `xml:"xlink:href,attr"`
	LicenseRef  string `xml:"ali:license_ref"`
}

type xmlSelfURI struct {
	ContentType string `xml:"content-type,attr"`
	Mimetype    string `xml:"mimetype,attr"`
	Title       string `xml:"xlink:title,attr"`
	Href        string `xml:"xlink:href,attr"`
	Value       string `xml:",chardata"`
}

type xmlAbstract struct {
	Lang string `xml:"xml:lang,attr"`
	P    string `xml:"p"`
}

type xmlKwdGroup struct {
	Lang string   `xml:"xml:lang,attr"`
	Kwds []string `xml:"kwd"`
}

type xmlFundingGroup struct {
	Statements []xmlLangText `xml:"funding-statement"`
}

type xmlBack struct {
	Acks    []xmlAck    `xml:"ack"`
	RefList *xmlRefList `xml:"ref-list"`
}

type xmlAck struct {
	Lang string `xml:"xml:lang,attr"`
	P    string `xml:"p"`
}

type xmlRefList struct {
	Refs []xmlRef `xml:"ref"`
}

type xmlRef struct {
	ID           string                  `xml:"id,attr"`
	Label        string                  `xml:"label"`
	Alternatives xmlCitationAlternatives `xml:"citation-alternatives"`
}

type xmlCitationAlternatives struct {
	MixedCitations []xmlLangText `xml:"mixed-citation"`
}

type xmlLangText struct {
	Lang  string `xml:"xml:lang,attr"`
	Value string `xml:",chardata"`
}
