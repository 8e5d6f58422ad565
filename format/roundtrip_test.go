package format_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/periodica-press/deposit/format"
	_ "github.com/periodica-press/deposit/format/crossref"
	"github.com/periodica-press/deposit/format/jats"
	"github.com/periodica-press/deposit/format/yamlrec"
	"github.com/periodica-press/deposit/model"
)

func roundTripRecord() *model.Record {
	record := model.NewRecord()
	record.Journal.Titles = model.Bilingual{En: "Journal of Tests", Ru: "Журнал тестов"}
	record.Journal.ISSN = "1234-5678"
	record.Journal.EISSN = "8765-4321"
	record.Journal.Publishers = model.Bilingual{En: "Test Press", Ru: "Тест Пресс"}

	meta := &record.Article
	meta.PrimaryLanguage = "en"
	meta.DOI = "10.1234/test.2024.1"
	meta.EDN = "ABCDEF"
	meta.PageURL = "https://example.com/article"
	meta.PDFURL = "https://example.com/article.pdf"
	meta.Titles = model.Bilingual{En: "A Study", Ru: "Исследование"}
	meta.Abstracts = model.Bilingual{En: "Summary.", Ru: "Резюме."}
	meta.Keywords = model.Bilingual{En: "alpha; beta", Ru: "альфа"}
	meta.CopyrightHolders = model.Bilingual{En: "Test Press"}
	meta.CopyrightYear = "2024"
	meta.DateSubmitted = "2024-01-10"
	meta.DateAccepted = "2024-02-20"
	meta.DatePublished = "2024-03-15"
	meta.Volume = "12"
	meta.Issue = "3"
	meta.Pages = "12-15"
	meta.Acknowledgments = model.Bilingual{En: "Thanks."}
	meta.Fundings = model.Bilingual{En: "Grant 42."}
	meta.Citations = model.Bilingual{En: "Smith J. First.\nSmith J. Second.", Ru: "Смит Дж. Первый."}

	aff := model.AddAffiliation(meta, model.Bilingual{En: "Lehigh University", Ru: "Университет Лихай"})
	author := model.NewAuthor()
	author.Surnames = model.Bilingual{En: "Johnson", Ru: "Джонсон"}
	author.GivenNames = model.Bilingual{En: "Alice", Ru: "Алиса"}
	author.Email = "alice@example.com"
	author.ORCID = "https://orcid.org/0000-0002-1825-0097"
	model.AddAuthor(meta, author)
	model.Affiliate(&meta.Authors[0], aff)

	return record
}

// TestJATSRoundTrip serializes a record to JATS and parses it back,
// checking that the article-level fields survive the cycle.
func TestJATSRoundTrip(t *testing.T) {
	original := roundTripRecord()

	f := &jats.Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, []*model.Record{original}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	records, err := f.Parse(&buf, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record count = %d, want 1", len(records))
	}
	parsed := records[0]

	if parsed.Journal != original.Journal {
		t.Errorf("journal changed:\n got %+v\nwant %+v", parsed.Journal, original.Journal)
	}

	pm, om := parsed.Article, original.Article
	if pm.PrimaryLanguage != om.PrimaryLanguage || pm.ArticleType != om.ArticleType {
		t.Errorf("language/type = %q/%q, want %q/%q", pm.PrimaryLanguage, pm.ArticleType, om.PrimaryLanguage, om.ArticleType)
	}
	if pm.DOI != om.DOI || pm.EDN != om.EDN {
		t.Errorf("ids = %q/%q, want %q/%q", pm.DOI, pm.EDN, om.DOI, om.EDN)
	}
	if pm.Titles != om.Titles || pm.Abstracts != om.Abstracts || pm.Keywords != om.Keywords {
		t.Errorf("texts changed:\n titles %+v\n abstracts %+v\n keywords %+v", pm.Titles, pm.Abstracts, pm.Keywords)
	}
	if pm.PageURL != om.PageURL || pm.PDFURL != om.PDFURL {
		t.Errorf("urls = %q/%q", pm.PageURL, pm.PDFURL)
	}
	if pm.CopyrightHolders != om.CopyrightHolders || pm.CopyrightYear != om.CopyrightYear || pm.LicenseURL != om.LicenseURL {
		t.Errorf("permissions changed: %+v / %q / %q", pm.CopyrightHolders, pm.CopyrightYear, pm.LicenseURL)
	}
	if pm.DateSubmitted != om.DateSubmitted || pm.DateAccepted != om.DateAccepted || pm.DatePublished != om.DatePublished {
		t.Errorf("dates = %q/%q/%q", pm.DateSubmitted, pm.DateAccepted, pm.DatePublished)
	}
	if pm.Volume != om.Volume || pm.Issue != om.Issue || pm.Pages != om.Pages || pm.UseElocationID != om.UseElocationID {
		t.Errorf("issue fields = %q/%q/%q (eloc %v)", pm.Volume, pm.Issue, pm.Pages, pm.UseElocationID)
	}
	if pm.Acknowledgments != om.Acknowledgments || pm.Fundings != om.Fundings || pm.Citations != om.Citations {
		t.Errorf("back matter changed: %+v / %+v / %+v", pm.Acknowledgments, pm.Fundings, pm.Citations)
	}

	if !reflect.DeepEqual(pm.Affiliations, om.Affiliations) {
		t.Errorf("affiliations = %+v, want %+v", pm.Affiliations, om.Affiliations)
	}
	if len(pm.Authors) != 1 {
		t.Fatalf("author count = %d, want 1", len(pm.Authors))
	}
	pa, oa := pm.Authors[0], om.Authors[0]
	if pa.Surnames != oa.Surnames || pa.GivenNames != oa.GivenNames || pa.Email != oa.Email || pa.ORCID != oa.ORCID {
		t.Errorf("author changed:\n got %+v\nwant %+v", pa, oa)
	}
	if !reflect.DeepEqual(pa.AffIDs, oa.AffIDs) {
		t.Errorf("AffIDs = %v, want %v", pa.AffIDs, oa.AffIDs)
	}
}

// TestYAMLRoundTrip checks the native format preserves records exactly.
func TestYAMLRoundTrip(t *testing.T) {
	original := roundTripRecord()

	f := &yamlrec.Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, []*model.Record{original}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	records, err := f.Parse(&buf, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record count = %d, want 1", len(records))
	}
	if !reflect.DeepEqual(records[0], original) {
		t.Errorf("record changed:\n got %+v\nwant %+v", records[0], original)
	}
}

func TestRegistryLookups(t *testing.T) {
	if _, err := format.GetParser("jats"); err != nil {
		t.Errorf("jats parser: %v", err)
	}
	if _, err := format.GetSerializer("crossref"); err != nil {
		t.Errorf("crossref serializer: %v", err)
	}
	if _, err := format.GetParser("crossref"); err == nil {
		t.Error("crossref should not parse")
	}
	if _, err := format.GetSerializer("nonexistent"); err == nil {
		t.Error("unknown format should error")
	}
}
