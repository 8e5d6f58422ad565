// Package jats provides a format plugin for JATS (Journal Article Tag
// Suite) archiving XML. It is the only bidirectional format: records
// can be serialized to JATS and parsed back.
package jats

import (
	"bytes"

	"github.com/periodica-press/deposit/format"
)

// Version documents the JATS specification this implementation targets.
const Version = "1.4"

// Format implements the JATS archiving format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "jats"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JATS Journal Archiving and Interchange XML (v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml", "jats"}
}

// CanParse returns true if the input looks like a JATS article.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	if peek[0] != '<' {
		return false
	}

	patterns := [][]byte{
		[]byte("jats.nlm.nih.gov"),
		[]byte("JATS (Z39.96)"),
		[]byte("<article "),
		[]byte("article-meta"),
	}

	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}

	return false
}

func init() {
	format.Register(&Format{})
}
