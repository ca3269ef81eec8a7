package typegen

import "strings"

// Wildcard is the TypeMap key used for primitive kinds without an entry.
const Wildcard = "*"

// fallbackType is used when a TypeMap has no Wildcard entry either.
const fallbackType = "any"

// TypeMap maps a primitive schema type ("string", "integer", ...) to the
// TypeScript type token emitted for it.
type TypeMap map[string]string

// DefaultTypeMap returns the mapping used when the caller supplies none.
func DefaultTypeMap() TypeMap {
	return TypeMap{
		"string":  "string",
		"number":  "number",
		"integer": "number",
		"boolean": "boolean",
		"object":  "Record<string, any>",
		Wildcard:  fallbackType,
	}
}

// Resolve returns the token for kind. Unknown kinds and empty entries fall
// back to the Wildcard entry, then to "any". It never returns "".
func (m TypeMap) Resolve(kind string) string {
	if t := m[kind]; t != "" {
		return t
	}
	if t := m[Wildcard]; t != "" {
		return t
	}
	return fallbackType
}

// Overrides forces literal type text for selected fields.
//
// Fields is keyed by bare field name and applies anywhere in the document;
// unrelated fields sharing a name all receive the override. Paths is keyed
// by the dotted structural path of a field (for example "User.address.city"
// or "getUsersById.query.limit") and is consulted first.
type Overrides struct {
	Fields map[string]string
	Paths  map[string]string
}

// Lookup returns the override for a field, if any. path is the structural
// path ending at the field.
func (o Overrides) Lookup(field string, path []string) (string, bool) {
	if field == "" {
		return "", false
	}
	if len(path) > 0 {
		if t := o.Paths[strings.Join(path, ".")]; t != "" {
			return t, true
		}
	}
	if t := o.Fields[field]; t != "" {
		return t, true
	}
	return "", false
}
