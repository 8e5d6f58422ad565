package doaj

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/model"
)

// Serialize writes all records into one DOAJ records document.
//
// The affiliation list is document-scoped and referenced by 0-based
// index; JATS numbers its affiliations 1-based per article. The
// registries disagree and both outputs are checked against their own
// schema, so the inconsistency stays.
func (f *Format) Serialize(w io.Writer, records []*model.Record, opts *format.SerializeOptions) error {
	pretty := opts == nil || opts.Pretty

	doc := &xmlRecords{
		XmlnsXSI:  "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLoc: "http://doaj.org/static/doaj/doajArticles.xsd",
	}

	affiliations := &affiliationIndex{}
	for _, record := range records {
		doc.Records = append(doc.Records, buildRecord(record, affiliations))
	}

	var output []byte
	var err error
	if pretty {
		output, err = xml.MarshalIndent(doc, "", "  ")
	} else {
		output, err = xml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("marshaling doaj records: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(output); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// affiliationIndex deduplicates resolved affiliation strings across the
// whole document and hands out 0-based ids in first-seen order.
type affiliationIndex struct {
	names []string
}

func (x *affiliationIndex) idFor(name string) int {
	for i, n := range x.names {
		if n == name {
			return i
		}
	}
	x.names = append(x.names, name)
	return len(x.names) - 1
}

func buildRecord(record *model.Record, affiliations *affiliationIndex) xmlRecord {
	jmeta := &record.Journal
	ameta := &record.Article

	out := xmlRecord{
		Publisher:       jmeta.Publishers.En,
		JournalTitle:    jmeta.Titles.En,
		ISSN:            jmeta.ISSN,
		EISSN:           jmeta.EISSN,
		PublicationDate: ameta.DatePublished,
		Volume:          ameta.Volume,
		Issue:           ameta.Issue,
		DOI:             ameta.DOI,
		DocumentType:    "article",
		Title: xmlLangValue{
			Language: "eng",
			Value:    ameta.Titles.En,
		},
		FullTextURL: xmlFullTextURL{
			Format: "html",
			Value:  ameta.PageURL,
		},
	}

	if ameta.Pages != "" {
		if ameta.UseElocationID {
			// No page range to report: the elocation id rides in
			// startPage alone.
			out.StartPage = ameta.Pages
		} else {
			parts := strings.Split(ameta.Pages, "-")
			out.StartPage = parts[0]
			if len(parts) > 1 {
				out.EndPage = parts[1]
			}
		}
	}

	if len(ameta.Authors) > 0 {
		authors := &xmlAuthors{}
		for _, a := range ameta.Authors {
			authors.Authors = append(authors.Authors, buildAuthor(&a, ameta, affiliations))
		}
		out.Authors = authors
	}

	if len(affiliations.names) > 0 {
		list := &xmlAffiliationsList{}
		for i, name := range affiliations.names {
			list.Names = append(list.Names, xmlAffiliationName{
				AffiliationID: strconv.Itoa(i),
				Value:         name,
			})
		}
		out.AffiliationsList = list
	}

	if ameta.Abstracts.En != "" {
		out.Abstract = &xmlLangValue{Language: "eng", Value: ameta.Abstracts.En}
	}

	if ameta.Keywords.En != "" {
		keywords := &xmlKeywords{Language: "eng"}
		for _, word := range strings.Split(ameta.Keywords.En, ";") {
			keywords.Keywords = append(keywords.Keywords, strings.TrimSpace(word))
		}
		out.Keywords = keywords
	}

	return out
}

// buildAuthor resolves the author's affiliation text from its id
// references, joined with "; " over affiliations that carry English
// text. Emails never leave the model here: DOAJ asks not to deposit
// them.
func buildAuthor(a *model.Author, ameta *model.ArticleMeta, affiliations *affiliationIndex) xmlAuthor {
	fullname := a.Surnames.En
	if a.Surnames.En != "" && a.GivenNames.En != "" {
		fullname = a.GivenNames.En + " " + a.Surnames.En
	} else if a.Surnames.En == "" {
		fullname = a.GivenNames.En
	}

	author := xmlAuthor{Name: fullname}

	var parts []string
	for _, aff := range ameta.Affiliations {
		if containsID(a.AffIDs, aff.ID) && aff.Val.En != "" {
			parts = append(parts, aff.Val.En)
		}
	}
	if len(parts) > 0 {
		id := affiliations.idFor(strings.Join(parts, "; "))
		idStr := strconv.Itoa(id)
		author.AffiliationID = &idStr
	}

	author.ORCID = a.ORCID

	return author
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// XML types for DOAJ marshaling.

type xmlRecords struct {
	XMLName   xml.Name    `xml:"records"`
	XmlnsXSI  string      `xml:"xmlns:xsi,attr"`
	SchemaLoc string      `xml:"xsi:noNamespaceSchemaLocation,attr"`
	Records   []xmlRecord `xml:"record"`
}

type xmlRecord struct {
	Publisher        string               `xml:"publisher,omitempty"`
	JournalTitle     string               `xml:"journalTitle"`
	ISSN             string               `xml:"issn,omitempty"`
	EISSN            string               `xml:"eissn,omitempty"`
	PublicationDate  string               `xml:"publicationDate"`
	Volume           string               `xml:"volume,omitempty"`
	Issue            string               `xml:"issue,omitempty"`
	StartPage        string               `xml:"startPage,omitempty"`
	EndPage          string               `xml:"endPage,omitempty"`
	DOI              string               `xml:"doi,omitempty"`
	DocumentType     string               `xml:"documentType"`
	Title            xmlLangValue         `xml:"title"`
	Authors          *xmlAuthors          `xml:"authors"`
	AffiliationsList *xmlAffiliationsList `xml:"affiliationsList"`
	Abstract         *xmlLangValue        `xml:"abstract"`
	FullTextURL      xmlFullTextURL       `xml:"fullTextUrl"`
	Keywords         *xmlKeywords         `xml:"keywords"`
}

type xmlLangValue struct {
	Language string `xml:"language,attr"`
	Value    string `xml:",chardata"`
}

type xmlFullTextURL struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type xmlAuthors struct {
	Authors []xmlAuthor `xml:"author"`
}

type xmlAuthor struct {
	Name          string  `xml:"name"`
	AffiliationID *string `xml:"affiliationId"`
	ORCID         string  `xml:"orcid_id,omitempty"`
}

type xmlAffiliationsList struct {
	Names []xmlAffiliationName `xml:"affiliationName"`
}

type xmlAffiliationName struct {
	AffiliationID string `xml:"affiliationId,attr"`
	Value         string `xml:",chardata"`
}

type xmlKeywords struct {
	Language string   `xml:"language,attr"`
	Keywords []string `xml:"keyword"`
}
