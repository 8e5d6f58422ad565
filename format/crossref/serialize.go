package crossref

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/helpers"
	"github.com/periodica-press/deposit/model"
)

// Serialize writes all records into one Crossref deposit batch.
// opts.Head must carry the depositor metadata and the shared issue
// publication dates; the records supply everything article-level.
//
// Completeness of the records (e.g. the schema's "at least one
// publication date" minimums) is the caller's responsibility: any
// well-formed record serializes without error.
func (f *Format) Serialize(w io.Writer, records []*model.Record, opts *format.SerializeOptions) error {
	if opts == nil || opts.Head == nil {
		return fmt.Errorf("crossref deposit requires head metadata")
	}
	head := opts.Head

	batch := &xmlDoiBatch{
		Xmlns:     "http://www.crossref.org/schema/4.4.2",
		XmlnsXSI:  "http://www.w3.org/2001/XMLSchema-instance",
		XmlnsJATS: "http://www.ncbi.nlm.nih.gov/JATS1",
		XmlnsAI:   "http://www.crossref.org/AccessIndicators.xsd",
		XmlnsFR:   "http://www.crossref.org/fundref.xsd",
		Version:   Version,
		SchemaLoc: "http://www.crossref.org/schema/4.4.2 https://www.crossref.org/schemas/crossref4.4.2.xsd",
		Head:      buildHead(head),
	}

	for _, record := range records {
		batch.Body.Journals = append(batch.Body.Journals, buildJournal(record, head))
	}

	var output []byte
	var err error
	if opts.Pretty {
		output, err = xml.MarshalIndent(batch, "", "  ")
	} else {
		output, err = xml.Marshal(batch)
	}
	if err != nil {
		return fmt.Errorf("marshaling doi batch: %w", err)
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

// buildHead assembles the batch head. The batch id is freshly generated
// from the clock; uniqueness is statistically likely, not guaranteed.
func buildHead(head *format.DepositHead) xmlHead {
	return xmlHead{
		DoiBatchID: "MADE_FROM_JATS_" + strconv.FormatInt(time.Now().UnixMilli(), 10),
		Timestamp:  head.Timestamp,
		Depositor: xmlDepositor{
			Name:  head.DepositorName,
			Email: head.EmailAddress,
		},
		Registrant: head.Registrant,
	}
}

func buildJournal(record *model.Record, head *format.DepositHead) xmlJournal {
	jmeta := &record.Journal
	ameta := &record.Article

	journal := xmlJournal{}

	journal.Metadata.FullTitle = jmeta.Titles.En
	if jmeta.EISSN != "" {
		journal.Metadata.ISSNs = append(journal.Metadata.ISSNs, xmlISSN{
			MediaType: "electronic",
			Value:     jmeta.EISSN,
		})
	}
	if jmeta.ISSN != "" {
		journal.Metadata.ISSNs = append(journal.Metadata.ISSNs, xmlISSN{
			MediaType: "print",
			Value:     jmeta.ISSN,
		})
	}

	// The schema requires at least one issue-level publication date;
	// both come from the head because one deposit covers one issue.
	journal.Issue.PublicationDates = appendDate(journal.Issue.PublicationDates, head.EPublicationDate, "online")
	journal.Issue.PublicationDates = appendDate(journal.Issue.PublicationDates, head.PublicationDate, "print")
	if ameta.Volume != "" {
		journal.Issue.Volume = &xmlJournalVolume{Volume: ameta.Volume}
	}
	journal.Issue.Issue = ameta.Issue

	journal.Article = buildArticle(ameta, head)

	return journal
}

func buildArticle(ameta *model.ArticleMeta, head *format.DepositHead) xmlJournalArticle {
	article := xmlJournalArticle{
		PublicationType: "full_text",
		RefDistribution: "any",
	}
	article.Titles.Title = ameta.Titles.En

	if len(ameta.Authors) > 0 {
		contributors := &xmlContributors{}
		for i, author := range ameta.Authors {
			sequence := "additional"
			if i == 0 {
				sequence = "first"
			}
			person := xmlPersonName{
				ContributorRole: "author",
				Sequence:        sequence,
				GivenName:       author.GivenNames.En,
				Surname:         author.Surnames.En,
			}
			for _, aff := range ameta.Affiliations {
				if containsID(author.AffIDs, aff.ID) {
					person.Affiliations = append(person.Affiliations, aff.Val.En)
				}
			}
			person.ORCID = author.ORCID
			contributors.PersonNames = append(contributors.PersonNames, person)
		}
		article.Contributors = contributors
	}

	if ameta.Abstracts.En != "" {
		article.Abstract = &xmlAbstract{P: ameta.Abstracts.En}
	}

	// The article's own online date, plus a print date mirroring the
	// issue-level one: the print release is shared across the issue
	// while each article goes online on its own day.
	article.PublicationDates = appendDate(article.PublicationDates, ameta.DatePublished, "online")
	article.PublicationDates = appendDate(article.PublicationDates, head.PublicationDate, "print")
	if ameta.DateAccepted != "" {
		article.AcceptanceDate = buildDate(ameta.DateAccepted, "online")
	}

	if ameta.Pages != "" {
		if ameta.UseElocationID {
			article.PublisherItem = &xmlPublisherItem{
				ItemNumber: xmlItemNumber{
					Type:  "article_number",
					Value: ameta.Pages,
				},
			}
		} else {
			first, last := splitPages(ameta.Pages)
			pages := &xmlPages{FirstPage: first, LastPage: last}
			article.Pages = pages
		}
	}

	if ameta.Fundings.En != "" {
		article.FundrefProgram = &xmlFundrefProgram{
			Name: "fundref",
			Assertion: xmlFundrefAssertion{
				Name:  "funder_name",
				Value: ameta.Fundings.En,
			},
		}
	}
	if ameta.LicenseURL != "" {
		article.AccessProgram = &xmlAccessProgram{
			Name:       "AccessIndicators",
			LicenseRef: ameta.LicenseURL,
		}
	}

	article.DoiData = buildDoiData(ameta)
	article.CitationList = buildCitationList(ameta)

	return article
}

func buildDoiData(ameta *model.ArticleMeta) xmlDoiData {
	data := xmlDoiData{
		DOI:      ameta.DOI,
		Resource: ameta.PageURL,
	}
	if ameta.PDFURL != "" {
		// The same URL goes out twice: once for the named crawler,
		// once for generic text mining with an explicit MIME type.
		data.Collections = append(data.Collections,
			xmlCollection{
				Property: "crawler-based",
				Item: xmlCollectionItem{
					Crawler:  "iParadigms",
					Resource: xmlCollectionResource{Value: ameta.PDFURL},
				},
			},
			xmlCollection{
				Property: "text-mining",
				Item: xmlCollectionItem{
					Resource: xmlCollectionResource{
						MimeType: "application/pdf",
						Value:    ameta.PDFURL,
					},
				},
			},
		)
	}
	return data
}

// buildCitationList emits one citation per English citation line. A
// DOI-shaped substring becomes a structured doi child in addition to
// the unstructured text; the unstructured text is never suppressed.
func buildCitationList(ameta *model.ArticleMeta) *xmlCitationList {
	if ameta.Citations.En == "" {
		return nil
	}
	list := &xmlCitationList{}
	for i, line := range splitLines(ameta.Citations.En) {
		citation := xmlCitation{
			Key:          "ref" + strconv.Itoa(i+1),
			DOI:          helpers.FindDOI(line),
			Unstructured: line,
		}
		list.Citations = append(list.Citations, citation)
	}
	return list
}

// appendDate appends a date element when the date string is non-empty.
func appendDate(dates []xmlDate, value, mediaType string) []xmlDate {
	if value == "" {
		return dates
	}
	return append(dates, *buildDate(value, mediaType))
}

func buildDate(value, mediaType string) *xmlDate {
	parts := helpers.SplitDate(value)
	return &xmlDate{
		MediaType: mediaType,
		Month:     parts.Month,
		Day:       parts.Day,
		Year:      parts.Year,
	}
}

func splitPages(pages string) (first, last string) {
	for i := 0; i < len(pages); i++ {
		if pages[i] == '-' {
			return pages[:i], pages[i+1:]
		}
	}
	return pages, ""
}

// splitLines splits on line breaks without dropping blank lines, so
// citation keys keep their positions from the source text.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// XML types for Crossref deposit marshaling.

type xmlDoiBatch struct {
	XMLName   xml.Name `xml:"doi_batch"`
	Xmlns     string   `xml:"xmlns,attr"`
	XmlnsXSI  string   `xml:"xmlns:xsi,attr"`
	XmlnsJATS string   `xml:"xmlns:jats,attr"`
	XmlnsAI   string   `xml:"xmlns:ai,attr"`
	XmlnsFR   string   `xml:"xmlns:fr,attr"`
	Version   string   `xml:"version,attr"`
	SchemaLoc string   `xml:"xsi:schemaLocation,attr"`
	Head      xmlHead  `xml:"head"`
	Body      xmlBody  `xml:"body"`
}

type xmlHead struct {
	DoiBatchID string       `xml:"doi_batch_id"`
	Timestamp  string       `xml:"timestamp"`
	Depositor  xmlDepositor `xml:"depositor"`
	Registrant string       `xml:"registrant"`
}

type xmlDepositor struct {
	Name  string `xml:"depositor_name"`
	Email string `xml:"email_address"`
}

type xmlBody struct {
	Journals []xmlJournal `xml:"journal"`
}

type xmlJournal struct {
	Metadata xmlJournalMetadata `xml:"journal_metadata"`
	Issue    xmlJournalIssue    `xml:"journal_issue"`
	Article  xmlJournalArticle  `xml:"journal_article"`
}

type xmlJournalMetadata struct {
	FullTitle string    `xml:"full_title"`
	ISSNs     []xmlISSN `xml:"issn"`
}

type xmlISSN struct {
	MediaType string `xml:"media_type,attr"`
	Value     string `xml:",chardata"`
}

type xmlJournalIssue struct {
	PublicationDates []xmlDate         `xml:"publication_date"`
	Volume           *xmlJournalVolume `xml:"journal_volume"`
	Issue            string            `xml:"issue,omitempty"`
}

type xmlJournalVolume struct {
	Volume string `xml:"volume"`
}

type xmlDate struct {
	MediaType string `xml:"media_type,attr"`
	Month     string `xml:"month,omitempty"`
	Day       string `xml:"day,omitempty"`
	Year      string `xml:"year,omitempty"`
}

type xmlJournalArticle struct {
	PublicationType  string             `xml:"publication_type,attr"`
	RefDistribution  string             `xml:"reference_distribution_opts,attr"`
	Titles           xmlTitles          `xml:"titles"`
	Contributors     *xmlContributors   `xml:"contributors"`
	Abstract         *xmlAbstract       `xml:"jats:abstract"`
	PublicationDates []xmlDate          `xml:"publication_date"`
	AcceptanceDate   *xmlDate           `xml:"acceptance_date"`
	Pages            *xmlPages          `xml:"pages"`
	PublisherItem    *xmlPublisherItem  `xml:"publisher_item"`
	FundrefProgram   *xmlFundrefProgram `xml:"fr:program"`
	AccessProgram    *xmlAccessProgram  `xml:"ai:program"`
	DoiData          xmlDoiData         `xml:"doi_data"`
	CitationList     *xmlCitationList   `xml:"citation_list"`
}

type xmlTitles struct {
	Title string `xml:"title"`
}

type xmlContributors struct {
	PersonNames []xmlPersonName `xml:"person_name"`
}

type xmlPersonName struct {
	ContributorRole string   `xml:"contributor_role,attr"`
	Sequence        string   `xml:"sequence,attr"`
	GivenName       string   `xml:"given_name,omitempty"`
	Surname         string   `xml:"surname"`
	Affiliations    []string `xml:"affiliation"`
	ORCID           string   `xml:"ORCID,omitempty"`
}

type xmlAbstract struct {
	P string `xml:"jats:p"`
}

type xmlPages struct {
	FirstPage string `xml:"first_page"`
	LastPage  string `xml:"last_page,omitempty"`
}

type xmlPublisherItem struct {
	ItemNumber xmlItemNumber `xml:"item_number"`
}

type xmlItemNumber struct {
	Type  string `xml:"item_number_type,attr"`
	Value string `xml:",chardata"`
}

type xmlFundrefProgram struct {
	Name      string              `xml:"name,attr"`
	Assertion xmlFundrefAssertion `xml:"fr:assertion"`
}

type xmlFundrefAssertion struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlAccessProgram struct {
	Name       string `xml:"name,attr"`
	LicenseRef string `xml:"ai:license_ref"`
}

type xmlDoiData struct {
	DOI         string          `xml:"doi"`
	Resource    string          `xml:"resource"`
	Collections []xmlCollection `xml:"collection"`
}

type xmlCollection struct {
	Property string            `xml:"property,attr"`
	Item     xmlCollectionItem `xml:"item"`
}

type xmlCollectionItem struct {
	Crawler  string                `xml:"crawler,attr,omitempty"`
	Resource xmlCollectionResource `xml:"resource"`
}

type xmlCollectionResource struct {
	MimeType string `xml:"mime_type,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type xmlCitationList struct {
	Citations []xmlCitation `xml:"citation"`
}

type xmlCitation struct {
	Key          string `xml:"key,attr"`
	DOI          string `xml:"doi,omitempty"`
	Unstructured string `xml:"unstructured_citation"`
}
