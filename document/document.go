package document

import (
	"iter"
	"maps"
	"slices"
)

// indexThreshold is the field count above which lookups switch from a linear
// scan to a name index.
const indexThreshold = 16

// Field is a single named value of a Document.
type Field struct {
	Name  string
	Value Value
}

// Document is an ordered set of named fields plus a metadata side-channel.
//
// The zero value is an empty document ready to use. A nil *Document behaves
// like an empty document for all read methods.
type Document struct {
	fields []Field
	index  map[string]int
	meta   map[string]Value
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// FromFields builds a document from fields in order. A repeated name keeps
// its first position and takes the last value.
func FromFields(fields ...Field) *Document {
	d := &Document{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		d.Set(f.Name, f.Value)
	}
	return d
}

func (d *Document) lookup(name string) (int, bool) {
	if d == nil {
		return 0, false
	}
	if d.index != nil {
		i, ok := d.index[name]
		return i, ok
	}
	for i := range d.fields {
		if d.fields[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

func (d *Document) rebuildIndex() {
	if len(d.fields) <= indexThreshold {
		d.index = nil
		return
	}
	d.index = make(map[string]int, len(d.fields))
	for i, f := range d.fields {
		d.index[f.Name] = i
	}
}

// Get returns the value of the named field, or missing if absent.
func (d *Document) Get(name string) Value {
	if i, ok := d.lookup(name); ok {
		return d.fields[i].Value
	}
	return Missing()
}

// Has reports whether the named field is present with a non-missing value.
func (d *Document) Has(name string) bool {
	return !d.Get(name).IsMissing()
}

// Set writes a field. An existing slot, even one holding missing, is updated
// in place; otherwise the field is appended.
func (d *Document) Set(name string, v Value) {
	if i, ok := d.lookup(name); ok {
		d.fields[i].Value = v
		return
	}
	d.fields = append(d.fields, Field{Name: name, Value: v})
	if d.index != nil {
		d.index[name] = len(d.fields) - 1
	} else if len(d.fields) > indexThreshold {
		d.rebuildIndex()
	}
}

// Remove deletes the named field and its slot.
func (d *Document) Remove(name string) {
	i, ok := d.lookup(name)
	if !ok {
		return
	}
	d.fields = slices.Delete(d.fields, i, i+1)
	if d.index != nil {
		d.rebuildIndex()
	}
}

// Len returns the number of visible (non-missing) fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, f := range d.fields {
		if !f.Value.IsMissing() {
			n++
		}
	}
	return n
}

// All iterates over visible fields in order.
func (d *Document) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for _, f := range d.fields {
			if f.Value.IsMissing() {
				continue
			}
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

// Fields returns a copy of the visible fields in order.
func (d *Document) Fields() []Field {
	out := make([]Field, 0, d.Len())
	for name, v := range d.All() {
		out = append(out, Field{Name: name, Value: v})
	}
	return out
}

// Names returns the names of visible fields in order.
func (d *Document) Names() []string {
	out := make([]string, 0, d.Len())
	for name := range d.All() {
		out = append(out, name)
	}
	return out
}

// Clone returns a shallow copy: the field list and metadata are copied, nested
// values are shared.
func (d *Document) Clone() *Document {
	if d == nil {
		return New()
	}
	c := &Document{
		fields: slices.Clone(d.fields),
		meta:   maps.Clone(d.meta),
	}
	if d.index != nil {
		c.index = maps.Clone(d.index)
	}
	return c
}

// Equal reports whether both documents have the same visible fields in the
// same order. Metadata is not compared.
func (d *Document) Equal(other *Document) bool {
	a, b := d.Fields(), other.Fields()
	return slices.EqualFunc(a, b, func(x, y Field) bool {
		return x.Name == y.Name && x.Value.Equal(y.Value)
	})
}

// Native converts the document into a map[string]any. Order is lost.
func (d *Document) Native() map[string]any {
	out := make(map[string]any, d.Len())
	for name, v := range d.All() {
		out[name] = v.Native()
	}
	return out
}

// SetMeta attaches a metadata entry.
func (d *Document) SetMeta(key string, v Value) {
	if d.meta == nil {
		d.meta = make(map[string]Value)
	}
	d.meta[key] = v
}

// Meta returns a metadata entry.
func (d *Document) Meta(key string) (Value, bool) {
	if d == nil {
		return Missing(), false
	}
	v, ok := d.meta[key]
	return v, ok
}

// MetaKeys returns the metadata keys in sorted order.
func (d *Document) MetaKeys() []string {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.meta))
}

// CopyMetadataFrom replaces d's metadata with a copy of src's metadata.
func (d *Document) CopyMetadataFrom(src *Document) {
	if src == nil || len(src.meta) == 0 {
		d.meta = nil
		return
	}
	d.meta = maps.Clone(src.meta)
}
