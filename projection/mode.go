package projection

import (
	"fmt"

	"github.com/erraggy/docproj/document"
)

// Mode selects inclusion or exclusion semantics for a tree. Every node of a
// tree shares its root's mode.
type Mode uint8

const (
	// Inclusion keeps only named and computed fields.
	Inclusion Mode = iota
	// Exclusion keeps everything except named fields and overlays computed fields.
	Exclusion
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Inclusion:
		return "inclusion"
	case Exclusion:
		return "exclusion"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// seed creates the output document a level starts from.
func (m Mode) seed(in *document.Document) *document.Document {
	if m == Exclusion {
		return in.Clone()
	}
	return document.New()
}

// projectLeaf is applied to the value of a plainly named field. In exclusion
// mode the value is already in the seeded copy and is cleared here.
func (m Mode) projectLeaf(v document.Value) document.Value {
	if m == Exclusion {
		return document.Missing()
	}
	return v
}

// transformSkipped is applied to values a child node cannot descend into.
func (m Mode) transformSkipped(v document.Value) document.Value {
	if m == Exclusion {
		return v
	}
	return document.Missing()
}

// plainFieldMarker is the boolean written for plain fields when serializing.
func (m Mode) plainFieldMarker() bool {
	return m == Inclusion
}
