// Package yamlrec provides a YAML format plugin for metadata records.
// It is the native on-disk representation of the model, so the one-way
// XML generators can be fed without a JATS source document.
package yamlrec

import (
	"bytes"

	"github.com/periodica-press/deposit/format"
)

// Format implements the YAML record format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "yaml"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Metadata records as YAML"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"yaml", "yml"}
}

// CanParse returns true if the input looks like a YAML record list.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] == '<' {
		return false
	}
	return bytes.Contains(peek, []byte("journal:")) || bytes.Contains(peek, []byte("article:"))
}

func init() {
	format.Register(&Format{})
}
