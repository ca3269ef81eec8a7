package typegen

import "github.com/tsgonest/swagts/internal/schema"

// GeneratedType is a named declaration ready to be written to a file.
type GeneratedType struct {
	Name        string
	Declaration string
}

// Declarations is the output of translating components.schemas. Both slices
// are in document order and have the same length.
type Declarations struct {
	Declarations []string
	Names        []string
}

// Types returns the declarations paired with their names.
func (d Declarations) Types() []GeneratedType {
	out := make([]GeneratedType, len(d.Names))
	for i, name := range d.Names {
		out[i] = GeneratedType{Name: name, Declaration: d.Declarations[i]}
	}
	return out
}

// Declare renders a type alias declaration.
func Declare(name, expr string) string {
	return "export type " + name + " = " + expr
}

// TranslateSchemas renders one declaration per entry of components.schemas.
func (e *Engine) TranslateSchemas(doc *schema.Document) Declarations {
	var out Declarations
	if doc == nil {
		return out
	}
	for _, s := range doc.Schemas {
		out.Names = append(out.Names, s.Name)
		out.Declarations = append(out.Declarations, Declare(s.Name, e.Synthesize(s.Schema, "", []string{s.Name})))
	}
	return out
}

// TranslateSchemas is a shorthand for NewEngine(types, overrides, opts).TranslateSchemas(doc).
func TranslateSchemas(doc *schema.Document, types TypeMap, overrides Overrides, opts Options) Declarations {
	return NewEngine(types, overrides, opts).TranslateSchemas(doc)
}
