// Package content holds the schema-less section documents edited in the admin area.
//
// A section payload is plain decoded JSON: map[string]any whose values are
// strings, []any, map[string]any or scalars. Nothing in this package keeps
// state. Classify decides which edit widget a value gets, Parse turns a
// payload into a list of classified fields once per render pass, and the
// mutators return a new Section for every edit without touching their input.
//
// Values that the editor cannot handle (numbers, booleans, null) are kept
// as Unsupported fields so a save writes them back unchanged.
package content
