// Package crossref provides a format plugin for Crossref deposit XML.
package crossref

import (
	"github.com/periodica-press/deposit/format"
)

// Version documents the Crossref deposit schema this implementation targets.
const Version = "4.4.2"

// Format implements the Crossref deposit format. It is one-way: records
// are serialized into a deposit batch, never parsed back.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "crossref"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Crossref Deposit XML (Schema v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns false: the deposit direction is write-only.
func (f *Format) CanParse(peek []byte) bool {
	return false
}

func init() {
	format.Register(&Format{})
}
