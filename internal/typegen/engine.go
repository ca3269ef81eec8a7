// Package typegen renders OpenAPI schema nodes as TypeScript type
// expressions.
package typegen

import (
	"fmt"
	"strings"

	"github.com/tsgonest/swagts/internal/schema"
)

// nullSuffix is appended to the type of a property marked nullable.
const nullSuffix = "| null"

// Options tune the rendered text.
type Options struct {
	// PropLineBreak puts object properties one per line once an inline
	// object has more than this many of them. Zero keeps every object on
	// one line.
	PropLineBreak int
}

// DefaultOptions returns the options applied when none are configured.
func DefaultOptions() Options {
	return Options{PropLineBreak: 3}
}

// Engine converts schema nodes to TypeScript type text. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	types     TypeMap
	overrides Overrides
	opts      Options
}

// NewEngine returns an engine. A nil TypeMap selects DefaultTypeMap.
func NewEngine(types TypeMap, overrides Overrides, opts Options) *Engine {
	if types == nil {
		types = DefaultTypeMap()
	}
	return &Engine{types: types, overrides: overrides, opts: opts}
}

// Synthesize renders n. field is the name the node is stored under (empty
// for schema roots and composition members) and path is the structural path
// ending at it; both only drive override lookup. The result is never empty
// for a primitive and never an error.
func (e *Engine) Synthesize(n *schema.Node, field string, path []string) string {
	if t, ok := e.overrides.Lookup(field, path); ok {
		return t
	}

	kind := Classify(n)
	if kind == KindPrimitive || n.OnlyType() {
		return e.types.Resolve(primitiveKind(n))
	}

	switch kind {
	case KindObject:
		return e.object(n, path)
	case KindEnum:
		if len(n.Enum) == 0 {
			return e.types.Resolve(n.Type)
		}
		return enumUnion(n.Enum)
	case KindArray:
		return "Array<" + e.Synthesize(n.Items, field, path) + ">"
	}
	return e.types.Resolve(primitiveKind(n))
}

func primitiveKind(n *schema.Node) string {
	if n == nil {
		return ""
	}
	return n.Type
}

// object joins, in order, the reference name, the inline property block and
// the allOf, oneOf and anyOf renderings with "&". Empty composition lists
// are skipped; an object with no part left renders as the wildcard type.
func (e *Engine) object(n *schema.Node, path []string) string {
	var parts []string

	if n.Ref != "" {
		parts = append(parts, RefName(n.Ref))
	}
	if n.Properties != nil {
		parts = append(parts, e.properties(n.Properties, path))
	}
	if len(n.AllOf) > 0 {
		parts = append(parts, e.members(n.AllOf, path, "&"))
	}
	if len(n.OneOf) > 0 {
		parts = append(parts, e.members(n.OneOf, path, "|"))
	}
	if len(n.AnyOf) > 0 {
		// Approximates "any subset of the members" by making every field of
		// their intersection optional.
		parts = append(parts, "Partial<"+e.members(n.AnyOf, path, "&")+">")
	}

	if len(parts) == 0 {
		return e.types.Resolve(Wildcard)
	}
	return strings.Join(parts, "&")
}

func (e *Engine) properties(props []schema.Property, path []string) string {
	fields := make([]string, 0, len(props))
	for _, p := range props {
		t := e.Synthesize(p.Schema, p.Name, childPath(path, p.Name))
		suffix := ""
		if p.Schema != nil && p.Schema.Nullable {
			suffix = nullSuffix
		}
		fields = append(fields, fmt.Sprintf("%s: %s%s", p.Name, t, suffix))
	}

	if e.opts.PropLineBreak > 0 && len(fields) > e.opts.PropLineBreak {
		return "{\n" + strings.Join(fields, ",\n") + "\n}"
	}
	return "{" + strings.Join(fields, ",") + "}"
}

// members renders composition members. Members carry no field name, so
// field overrides never apply to them directly.
func (e *Engine) members(nodes []*schema.Node, path []string, sep string) string {
	out := make([]string, 0, len(nodes))
	for _, m := range nodes {
		out = append(out, e.Synthesize(m, "", path))
	}
	return strings.Join(out, sep)
}

func enumUnion(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, "'"+v+"'")
	}
	return strings.Join(out, "|")
}

// RefName returns the referenced type name: the last "/" segment of ref.
func RefName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func childPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}
