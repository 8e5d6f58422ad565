// Package doaj provides a format plugin for DOAJ article records XML.
package doaj

import (
	"github.com/periodica-press/deposit/format"
)

// Format implements the DOAJ records format. One-way: serialize only.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "doaj"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "DOAJ Article Records XML"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns false: the upload direction is write-only.
func (f *Format) CanParse(peek []byte) bool {
	return false
}

func init() {
	format.Register(&Format{})
}
