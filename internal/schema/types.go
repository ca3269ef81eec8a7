// Package schema holds the ordered, in-memory model of an OpenAPI document
// used for TypeScript type generation.
package schema

// Document is the subset of an OpenAPI 3.x document the generators read.
// Both lists keep the order in which entries appear in the source.
type Document struct {
	Schemas []NamedSchema // components.schemas
	Paths   []PathItem    // paths
}

// NamedSchema is one entry of components.schemas.
type NamedSchema struct {
	Name   string
	Schema *Node
}

// PathItem holds the operations declared under one path template.
type PathItem struct {
	Path       string      // e.g. "/api/v1/users/{id}"
	Operations []Operation // declared order
}

// Operation is one method entry of a path item.
type Operation struct {
	Method      string // key as written in the document, e.g. "get"
	OperationID string
	Summary     string
	Description string
	Deprecated  bool
	Parameters  []Parameter
	RequestBody *RequestBody // nil if none
	Responses   []Response
}

// Parameter is an operation parameter.
type Parameter struct {
	Name     string
	In       string // "path", "query", "header", "cookie"
	Required bool
	Schema   *Node
}

// RequestBody is an operation request body.
type RequestBody struct {
	Required bool
	Content  []MediaType
}

// Response is one entry of an operation's responses map.
type Response struct {
	Code    string // "200", "default", ...
	Content []MediaType
}

// MediaType pairs a content type with its schema.
type MediaType struct {
	Type   string // "application/json"
	Schema *Node  // nil if the media type has no schema
}

// Node is a schema node. Its kind is not stored: it follows from which
// fields are set (see typegen.Classify).
type Node struct {
	Type        string
	Description string
	Ref         string     // raw reference, e.g. "#/components/schemas/User"
	Properties  []Property // nil when "properties" is absent, empty when it is {}
	Items       *Node
	Enum        []string // literal texts, declared order
	AllOf       []*Node
	OneOf       []*Node
	AnyOf       []*Node
	Nullable    bool

	// Keys lists every non-null key of the source mapping in declared order.
	// Nodes built in code may leave it nil.
	Keys []string
}

// Property is a named member of an object schema.
type Property struct {
	Name   string
	Schema *Node
}

// JSONSchema returns the application/json schema of the request body.
func (b *RequestBody) JSONSchema() (*Node, bool) {
	if b == nil {
		return nil, false
	}
	return jsonSchema(b.Content)
}

// ResponseSchema returns the application/json schema of the response with
// the given status code.
func (op *Operation) ResponseSchema(code string) (*Node, bool) {
	for _, r := range op.Responses {
		if r.Code == code {
			return jsonSchema(r.Content)
		}
	}
	return nil, false
}

func jsonSchema(content []MediaType) (*Node, bool) {
	for _, mt := range content {
		if mt.Type == "application/json" {
			return mt.Schema, mt.Schema != nil
		}
	}
	return nil, false
}

// Has reports whether key was present in the source mapping.
func (n *Node) Has(key string) bool {
	if n == nil {
		return false
	}
	for _, k := range n.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// OnlyType reports whether "type" is the node's single key.
func (n *Node) OnlyType() bool {
	if n == nil {
		return false
	}
	if n.Keys != nil {
		return len(n.Keys) == 1 && n.Keys[0] == "type"
	}
	return n.Type != "" && n.Description == "" && n.Ref == "" &&
		n.Properties == nil && n.Items == nil && n.Enum == nil &&
		n.AllOf == nil && n.OneOf == nil && n.AnyOf == nil && !n.Nullable
}
