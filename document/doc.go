// Package document provides the ordered document model used by projections.
//
// A [Document] is an ordered mapping from field name to [Value]. Field order is
// insertion order and is preserved by every operation, including encoding to
// JSON and YAML. A document also carries a metadata side-channel that is not
// part of its fields and is copied wholesale between documents.
//
// A [Value] is a closed variant: missing, null, bool, int, double, string,
// nested document, or array. "Missing" is distinct from null: a field set to a
// missing value keeps its slot (and therefore its position) but is invisible to
// iteration, lookups report it as absent, and encoders skip it. Projections rely
// on this to clear a field and later overwrite it in place.
//
// Documents are decoded from YAML or JSON with [Decode] and [DecodeAll], which go
// through yaml.Node so that source key order survives:
//
//	doc, err := document.Decode([]byte(`{"_id": 1, "name": "Ann"}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc.Get("name").String() // "Ann"
//
// Values reachable from a document are treated as immutable once shared; use
// [Document.Clone] before modifying a document you did not create.
package document
