package doaj

import (
	"bytes"
	"strings"
	"testing"

	"github.com/periodica-press/deposit/model"
)

func serializeRecords(t *testing.T, records []*model.Record) string {
	t.Helper()
	f := &Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, records, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return buf.String()
}

func testRecord() *model.Record {
	record := model.NewRecord()
	record.Journal.Titles.En = "Journal of Tests"
	record.Journal.ISSN = "1234-5678"
	record.Journal.EISSN = "8765-4321"
	record.Journal.Publishers.En = "Test Press"
	record.Article.Titles.En = "A Study"
	record.Article.DOI = "10.1234/test.2024.1"
	record.Article.DatePublished = "2024-03-15"
	record.Article.Volume = "12"
	record.Article.Issue = "3"
	record.Article.Pages = "12-15"
	record.Article.PageURL = "https://example.com/article"
	record.Article.Abstracts.En = "Summary."
	record.Article.Keywords.En = "alpha; beta"
	return record
}

func TestSerializeRecord(t *testing.T) {
	out := serializeRecords(t, []*model.Record{testRecord()})

	for _, want := range []string{
		`xsi:noNamespaceSchemaLocation="http://doaj.org/static/doaj/doajArticles.xsd"`,
		`<publisher>Test Press</publisher>`,
		`<journalTitle>Journal of Tests</journalTitle>`,
		`<issn>1234-5678</issn>`,
		`<eissn>8765-4321</eissn>`,
		`<publicationDate>2024-03-15</publicationDate>`,
		`<volume>12</volume>`,
		`<issue>3</issue>`,
		`<startPage>12</startPage>`,
		`<endPage>15</endPage>`,
		`<doi>10.1234/test.2024.1</doi>`,
		`<documentType>article</documentType>`,
		`<title language="eng">A Study</title>`,
		`<abstract language="eng">Summary.</abstract>`,
		`<fullTextUrl format="html">https://example.com/article</fullTextUrl>`,
		`<keywords language="eng">`,
		`<keyword>alpha</keyword>`,
		`<keyword>beta</keyword>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSerializeElocationRidesStartPage(t *testing.T) {
	record := testRecord()
	record.Article.UseElocationID = true
	record.Article.Pages = "e045"
	out := serializeRecords(t, []*model.Record{record})

	if !strings.Contains(out, "<startPage>e045</startPage>") {
		t.Error("elocation id should be emitted as startPage")
	}
	if strings.Contains(out, "<endPage>") {
		t.Error("endPage should be omitted for an elocation id")
	}
}

func TestSerializeAuthorsZeroBasedAffiliations(t *testing.T) {
	record := testRecord()
	meta := &record.Article
	id1 := model.AddAffiliation(meta, model.Bilingual{En: "Lehigh University"})
	id2 := model.AddAffiliation(meta, model.Bilingual{En: "MIT"})

	a := model.NewAuthor()
	a.Surnames.En = "Johnson"
	a.GivenNames.En = "Alice"
	a.Email = "alice@example.com"
	a.ORCID = "https://orcid.org/0000-0002-1825-0097"
	model.AddAuthor(meta, a)
	model.Affiliate(&meta.Authors[0], id1)

	b := model.NewAuthor()
	b.Surnames.En = "Lee"
	model.AddAuthor(meta, b)
	model.Affiliate(&meta.Authors[1], id1)
	model.Affiliate(&meta.Authors[1], id2)

	out := serializeRecords(t, []*model.Record{record})

	for _, want := range []string{
		`<name>Alice Johnson</name>`,
		`<affiliationId>0</affiliationId>`,
		`<orcid_id>https://orcid.org/0000-0002-1825-0097</orcid_id>`,
		`<name>Lee</name>`,
		`<affiliationId>1</affiliationId>`,
		`<affiliationName affiliationId="0">Lehigh University</affiliationName>`,
		`<affiliationName affiliationId="1">Lehigh University; MIT</affiliationName>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(out, "alice@example.com") {
		t.Error("author emails must never be deposited")
	}
}

func TestSerializeAffiliationListSpansDocument(t *testing.T) {
	first := testRecord()
	metaA := &first.Article
	idA := model.AddAffiliation(metaA, model.Bilingual{En: "Lehigh University"})
	a := model.NewAuthor()
	a.Surnames.En = "Johnson"
	model.AddAuthor(metaA, a)
	model.Affiliate(&metaA.Authors[0], idA)

	second := testRecord()
	metaB := &second.Article
	idB := model.AddAffiliation(metaB, model.Bilingual{En: "Lehigh University"})
	b := model.NewAuthor()
	b.Surnames.En = "Lee"
	model.AddAuthor(metaB, b)
	model.Affiliate(&metaB.Authors[0], idB)

	out := serializeRecords(t, []*model.Record{first, second})

	// The same resolved string reuses one document-wide id.
	if got := strings.Count(out, `affiliationId="0"`); got != 2 {
		t.Errorf("affiliationName id 0 appears %d times, want 2 (one per record)", got)
	}
	if strings.Contains(out, `affiliationId="1"`) {
		t.Error("duplicate affiliation string should not get a second id")
	}
}

func TestSerializeAuthorNameFallbacks(t *testing.T) {
	record := model.NewRecord()
	meta := &record.Article
	a := model.NewAuthor()
	a.GivenNames.En = "Alice"
	model.AddAuthor(meta, a)
	out := serializeRecords(t, []*model.Record{record})

	if !strings.Contains(out, "<name>Alice</name>") {
		t.Error("given name alone should still produce a name")
	}
}
