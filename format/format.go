// Package format defines the interface for metadata format plugins.
package format

import (
	"io"

	"github.com/periodica-press/deposit/model"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "jats", "crossref")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can parse input into metadata records.
type Parser interface {
	Format

	// Parse reads input and returns journal/article record pairs.
	Parse(r io.Reader, opts *ParseOptions) ([]*model.Record, error)
}

// Serializer is a format that can write metadata records to output.
type Serializer interface {
	Format

	// Serialize writes records to the output.
	// Options is format-specific configuration.
	Serialize(w io.Writer, records []*model.Record, opts *SerializeOptions) error
}

// DepositHead is batch-level metadata for deposit formats that require
// it. It is supplied by the caller, not derived from the records; the
// issue-level publication dates deliberately live here because every
// article of one deposit shares them.
type DepositHead struct {
	Timestamp        string `yaml:"timestamp"`
	DepositorName    string `yaml:"depositor_name"`
	EmailAddress     string `yaml:"email_address"`
	Registrant       string `yaml:"registrant"`
	PublicationDate  string `yaml:"publication_date"`
	EPublicationDate string `yaml:"epublication_date"`
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// StripHTML removes HTML from text fields after parsing
	StripHTML bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Head is batch-level deposit metadata. Required by formats that
	// declare a depositor (crossref); ignored by the rest.
	Head *DepositHead

	// Pretty enables indented XML/YAML output
	Pretty bool
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{Pretty: true}
}
