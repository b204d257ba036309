// Package fieldpath provides validated dotted field paths.
//
// A [Path] is an immutable, non-empty sequence of field name components such as
// "a.b.c". Components never contain the "." separator and are never empty.
// Paths are the unit in which projection trees are built: the first component
// selects a field at the current level and [Path.Tail] addresses the rest.
//
//	p := fieldpath.MustParse("address.city")
//	p.First()          // "address"
//	p.Tail().String()  // "city"
//
// [Qualify] joins a node's path with one of its field names and [Builder]
// builds dotted paths incrementally during recursive traversal without
// allocating intermediate strings.
package fieldpath
