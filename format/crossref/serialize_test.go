package crossref

import (
	"bytes"
	"strings"
	"testing"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/model"
)

func testHead() *format.DepositHead {
	return &format.DepositHead{
		Timestamp:        "20240315090500",
		DepositorName:    "Test Press",
		EmailAddress:     "deposits@example.com",
		Registrant:       "Test Press",
		PublicationDate:  "2024-03-20",
		EPublicationDate: "2024-03-15",
	}
}

func serializeBatch(t *testing.T, records []*model.Record, head *format.DepositHead) string {
	t.Helper()
	f := &Format{}
	opts := format.NewSerializeOptions()
	opts.Head = head
	var buf bytes.Buffer
	if err := f.Serialize(&buf, records, opts); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return buf.String()
}

func TestSerializeRequiresHead(t *testing.T) {
	f := &Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, nil, nil); err == nil {
		t.Error("expected error without options")
	}
	if err := f.Serialize(&buf, nil, format.NewSerializeOptions()); err == nil {
		t.Error("expected error without head metadata")
	}
}

func TestSerializeHead(t *testing.T) {
	record := model.NewRecord()
	out := serializeBatch(t, []*model.Record{record}, testHead())

	for _, want := range []string{
		`xmlns="http://www.crossref.org/schema/4.4.2"`,
		`version="4.4.2"`,
		`<doi_batch_id>MADE_FROM_JATS_`,
		`<timestamp>20240315090500</timestamp>`,
		`<depositor_name>Test Press</depositor_name>`,
		`<email_address>deposits@example.com</email_address>`,
		`<registrant>Test Press</registrant>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSerializeIssueDatesFromHead(t *testing.T) {
	record := model.NewRecord()
	record.Journal.Titles.En = "Journal of Tests"
	record.Journal.ISSN = "1234-5678"
	record.Journal.EISSN = "8765-4321"
	record.Article.Volume = "12"
	record.Article.Issue = "3"
	out := serializeBatch(t, []*model.Record{record}, testHead())

	for _, want := range []string{
		`<full_title>Journal of Tests</full_title>`,
		`<issn media_type="electronic">8765-4321</issn>`,
		`<issn media_type="print">1234-5678</issn>`,
		`<publication_date media_type="online">`,
		`<publication_date media_type="print">`,
		`<volume>12</volume>`,
		`<issue>3</issue>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// The electronic issn must come before the print one.
	if strings.Index(out, `media_type="electronic"`) > strings.Index(out, `media_type="print"`) {
		t.Error("electronic issn should precede print issn")
	}
}

func TestSerializeDateChildOrder(t *testing.T) {
	record := model.NewRecord()
	record.Article.DatePublished = "2024-03-15"
	out := serializeBatch(t, []*model.Record{record}, &format.DepositHead{})

	month := strings.Index(out, "<month>03</month>")
	day := strings.Index(out, "<day>15</day>")
	year := strings.Index(out, "<year>2024</year>")
	if month == -1 || day == -1 || year == -1 {
		t.Fatalf("missing date parts:\n%s", out)
	}
	if !(month < day && day < year) {
		t.Error("date children must appear in month, day, year order")
	}
}

func TestSerializeArticleDates(t *testing.T) {
	record := model.NewRecord()
	record.Article.DatePublished = "2024-03-15"
	record.Article.DateAccepted = "2024-02-20"
	out := serializeBatch(t, []*model.Record{record}, testHead())

	if got := strings.Count(out, `<publication_date media_type="online">`); got != 2 {
		t.Errorf("online publication_date count = %d, want 2 (issue and article)", got)
	}
	if got := strings.Count(out, `<publication_date media_type="print">`); got != 2 {
		t.Errorf("print publication_date count = %d, want 2 (issue and article)", got)
	}
	if !strings.Contains(out, "<acceptance_date") {
		t.Error("missing acceptance_date")
	}
}

func TestSerializeContributors(t *testing.T) {
	record := model.NewRecord()
	meta := &record.Article
	affID := model.AddAffiliation(meta, model.Bilingual{En: "Lehigh University"})

	a := model.NewAuthor()
	a.Surnames.En = "Johnson"
	a.GivenNames.En = "Alice"
	a.ORCID = "https://orcid.org/0000-0002-1825-0097"
	model.AddAuthor(meta, a)
	model.Affiliate(&meta.Authors[0], affID)

	b := model.NewAuthor()
	b.Surnames.En = "Lee"
	model.AddAuthor(meta, b)

	out := serializeBatch(t, []*model.Record{record}, testHead())

	for _, want := range []string{
		`<person_name contributor_role="author" sequence="first">`,
		`<person_name contributor_role="author" sequence="additional">`,
		`<given_name>Alice</given_name>`,
		`<surname>Johnson</surname>`,
		`<affiliation>Lehigh University</affiliation>`,
		`<ORCID>https://orcid.org/0000-0002-1825-0097</ORCID>`,
		`<surname>Lee</surname>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSerializePagesVsItemNumber(t *testing.T) {
	ranged := model.NewRecord()
	ranged.Article.Pages = "12-15"
	out := serializeBatch(t, []*model.Record{ranged}, testHead())
	if !strings.Contains(out, "<first_page>12</first_page>") || !strings.Contains(out, "<last_page>15</last_page>") {
		t.Errorf("missing page range:\n%s", out)
	}

	single := model.NewRecord()
	single.Article.Pages = "12"
	out = serializeBatch(t, []*model.Record{single}, testHead())
	if !strings.Contains(out, "<first_page>12</first_page>") {
		t.Error("missing first_page")
	}
	if strings.Contains(out, "<last_page>") {
		t.Error("last_page should be omitted for a single page")
	}

	eloc := model.NewRecord()
	eloc.Article.UseElocationID = true
	eloc.Article.Pages = "e045"
	out = serializeBatch(t, []*model.Record{eloc}, testHead())
	if !strings.Contains(out, `<item_number item_number_type="article_number">e045</item_number>`) {
		t.Errorf("missing item_number:\n%s", out)
	}
	if strings.Contains(out, "<pages>") {
		t.Error("pages should be omitted for an elocation id")
	}
}

func TestSerializeDoiDataCollections(t *testing.T) {
	record := model.NewRecord()
	record.Article.DOI = "10.1234/test.2024.1"
	record.Article.PageURL = "https://example.com/article"
	record.Article.PDFURL = "https://example.com/article.pdf"
	out := serializeBatch(t, []*model.Record{record}, testHead())

	for _, want := range []string{
		`<doi>10.1234/test.2024.1</doi>`,
		`<resource>https://example.com/article</resource>`,
		`<collection property="crawler-based">`,
		`crawler="iParadigms"`,
		`<collection property="text-mining">`,
		`mime_type="application/pdf"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, ">https://example.com/article.pdf</resource>"); got != 2 {
		t.Errorf("pdf url should appear in both collections, got %d", got)
	}
}

func TestSerializeNoCollectionsWithoutPDF(t *testing.T) {
	record := model.NewRecord()
	record.Article.DOI = "10.1234/test.2024.1"
	out := serializeBatch(t, []*model.Record{record}, testHead())

	if strings.Contains(out, "<collection") {
		t.Error("collections should be omitted without a pdf url")
	}
}

func TestSerializeCitationList(t *testing.T) {
	record := model.NewRecord()
	record.Article.Citations.En = "1. Smith J. First. doi:10.1234/abcd.5678\n\n3. Smith J. Third."
	out := serializeBatch(t, []*model.Record{record}, testHead())

	for _, want := range []string{
		`<citation key="ref1">`,
		`<doi>10.1234/abcd.5678</doi>`,
		`<unstructured_citation>1. Smith J. First. doi:10.1234/abcd.5678</unstructured_citation>`,
		`<citation key="ref2">`,
		`<citation key="ref3">`,
		`<unstructured_citation>3. Smith J. Third.</unstructured_citation>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// The blank middle line keeps its position as an empty ref2.
	if !strings.Contains(out, `<citation key="ref2">`) {
		t.Error("blank line should still produce a positioned citation")
	}
}

func TestSerializeFundingAndLicense(t *testing.T) {
	record := model.NewRecord()
	record.Article.Fundings.En = "Grant 42."
	record.Article.Abstracts.En = "Summary."
	out := serializeBatch(t, []*model.Record{record}, testHead())

	for _, want := range []string{
		`<fr:program name="fundref">`,
		`<fr:assertion name="funder_name">Grant 42.</fr:assertion>`,
		`<ai:program name="AccessIndicators">`,
		`<ai:license_ref>` + model.DefaultLicenseURL + `</ai:license_ref>`,
		`<jats:abstract>`,
		`<jats:p>Summary.</jats:p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
