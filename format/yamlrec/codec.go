package yamlrec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/model"
)

// Parse reads a YAML document holding a list of records. Id counters
// that were never persisted are re-seeded past the highest id in use,
// so edits after loading cannot collide.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*model.Record, error) {
	var payload struct {
		Records []*model.Record `yaml:"records"`
	}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("unmarshaling yaml records: %w", err)
	}

	for _, record := range payload.Records {
		reseedCounters(&record.Article)
		if opts != nil && opts.StripHTML {
			model.StripMarkup(&record.Article)
		}
	}

	return payload.Records, nil
}

// Serialize writes records as one YAML document.
func (f *Format) Serialize(w io.Writer, records []*model.Record, opts *format.SerializeOptions) error {
	payload := struct {
		Records []*model.Record `yaml:"records"`
	}{Records: records}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&payload); err != nil {
		return fmt.Errorf("marshaling yaml records: %w", err)
	}
	return enc.Close()
}

func reseedCounters(meta *model.ArticleMeta) {
	for _, a := range meta.Authors {
		if a.ID >= meta.NextAuthorID {
			meta.NextAuthorID = a.ID + 1
		}
	}
	if meta.NextAuthorID < 1 {
		meta.NextAuthorID = 1
	}
	for _, aff := range meta.Affiliations {
		if aff.ID >= meta.NextAffiliationID {
			meta.NextAffiliationID = aff.ID + 1
		}
	}
	if meta.NextAffiliationID < 1 {
		meta.NextAffiliationID = 1
	}
}
