package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// pathItemMeta lists path item keys that are not operations.
var pathItemMeta = map[string]bool{
	"parameters":  true,
	"summary":     true,
	"description": true,
	"servers":     true,
	"$ref":        true,
}

// Load reads an OpenAPI document (JSON or YAML) from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OpenAPI file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes an OpenAPI document. JSON and YAML are both read into the
// same yaml.Node tree, which keeps mapping order.
func Parse(data []byte) (*Document, error) {
	root, err := decodeRoot(data)
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing OpenAPI document: top level must be a mapping")
	}

	doc := &Document{}

	if comps := lookup(root, "components"); comps != nil {
		if schemas := lookup(comps, "schemas"); schemas != nil {
			err := eachPair(schemas, func(name string, v *yaml.Node) error {
				node, err := parseNode(v)
				if err != nil {
					return fmt.Errorf("parsing schema %q: %w", name, err)
				}
				doc.Schemas = append(doc.Schemas, NamedSchema{Name: name, Schema: node})
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if paths := lookup(root, "paths"); paths != nil {
		err := eachPair(paths, func(path string, v *yaml.Node) error {
			item, err := parsePathItem(path, v)
			if err != nil {
				return err
			}
			doc.Paths = append(doc.Paths, item)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// ParseNode decodes a single schema node. Mostly useful in tests.
func ParseNode(data []byte) (*Node, error) {
	root, err := decodeRoot(data)
	if err != nil {
		return nil, err
	}
	return parseNode(root)
}

func decodeRoot(data []byte) (*yaml.Node, error) {
	// Flow-style YAML also starts with "{", so a JSON failure falls through.
	if looksLikeJSON(data) {
		if root, err := decodeJSON(data); err == nil {
			return root, nil
		}
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return deref(doc.Content[0]), nil
}

func parsePathItem(path string, v *yaml.Node) (PathItem, error) {
	item := PathItem{Path: path}
	err := eachPair(v, func(method string, raw *yaml.Node) error {
		if pathItemMeta[method] || strings.HasPrefix(method, "x-") {
			return nil
		}
		op, err := parseOperation(method, raw)
		if err != nil {
			return fmt.Errorf("parsing operation %s %s: %w", method, path, err)
		}
		item.Operations = append(item.Operations, op)
		return nil
	})
	return item, err
}

func parseOperation(method string, v *yaml.Node) (Operation, error) {
	op := Operation{Method: method}
	err := eachPair(v, func(key string, val *yaml.Node) error {
		switch key {
		case "operationId":
			op.OperationID = val.Value
		case "summary":
			op.Summary = val.Value
		case "description":
			op.Description = val.Value
		case "deprecated":
			return val.Decode(&op.Deprecated)
		case "parameters":
			params, err := parseParameters(val)
			if err != nil {
				return err
			}
			op.Parameters = params
		case "requestBody":
			body := &RequestBody{}
			if req := lookup(val, "required"); req != nil {
				if err := req.Decode(&body.Required); err != nil {
					return fmt.Errorf("requestBody.required: %w", err)
				}
			}
			if content := lookup(val, "content"); content != nil {
				mts, err := parseContent(content)
				if err != nil {
					return fmt.Errorf("requestBody: %w", err)
				}
				body.Content = mts
			}
			op.RequestBody = body
		case "responses":
			return eachPair(val, func(code string, resp *yaml.Node) error {
				r := Response{Code: code}
				if content := lookup(resp, "content"); content != nil {
					mts, err := parseContent(content)
					if err != nil {
						return fmt.Errorf("response %s: %w", code, err)
					}
					r.Content = mts
				}
				op.Responses = append(op.Responses, r)
				return nil
			})
		}
		return nil
	})
	return op, err
}

func parseParameters(v *yaml.Node) ([]Parameter, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parameters must be a sequence")
	}
	params := make([]Parameter, 0, len(v.Content))
	for i, raw := range v.Content {
		raw = deref(raw)
		var p Parameter
		err := eachPair(raw, func(key string, val *yaml.Node) error {
			switch key {
			case "name":
				p.Name = val.Value
			case "in":
				p.In = val.Value
			case "required":
				return val.Decode(&p.Required)
			case "schema":
				node, err := parseNode(val)
				if err != nil {
					return err
				}
				p.Schema = node
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		params = append(params, p)
	}
	return params, nil
}

func parseContent(v *yaml.Node) ([]MediaType, error) {
	var out []MediaType
	err := eachPair(v, func(ct string, media *yaml.Node) error {
		mt := MediaType{Type: ct}
		if s := lookup(media, "schema"); s != nil {
			node, err := parseNode(s)
			if err != nil {
				return fmt.Errorf("%s schema: %w", ct, err)
			}
			mt.Schema = node
		}
		out = append(out, mt)
		return nil
	})
	return out, err
}

// parseNode converts a YAML mapping into a schema Node. Null-valued keys are
// treated as absent.
func parseNode(v *yaml.Node) (*Node, error) {
	v = deref(v)
	if v.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema must be a mapping, got %s", kindName(v))
	}

	node := &Node{Keys: []string{}}
	err := eachPair(v, func(key string, val *yaml.Node) error {
		node.Keys = append(node.Keys, key)
		switch key {
		case "type":
			// OpenAPI 3.1 allows a list of types; "null" in it means nullable.
			if val.Kind == yaml.SequenceNode {
				for _, t := range val.Content {
					if t.Value == "null" {
						node.Nullable = true
					} else if node.Type == "" {
						node.Type = t.Value
					}
				}
				return nil
			}
			node.Type = val.Value
		case "description":
			node.Description = val.Value
		case "$ref":
			node.Ref = val.Value
		case "nullable":
			return val.Decode(&node.Nullable)
		case "enum":
			if val.Kind != yaml.SequenceNode {
				return fmt.Errorf("enum must be a sequence")
			}
			node.Enum = make([]string, 0, len(val.Content))
			for _, lit := range val.Content {
				node.Enum = append(node.Enum, literalText(lit))
			}
		case "properties":
			node.Properties = []Property{}
			return eachPair(val, func(name string, raw *yaml.Node) error {
				prop, err := parseNode(raw)
				if err != nil {
					return fmt.Errorf("property %q: %w", name, err)
				}
				node.Properties = append(node.Properties, Property{Name: name, Schema: prop})
				return nil
			})
		case "items":
			items, err := parseNode(val)
			if err != nil {
				return fmt.Errorf("items: %w", err)
			}
			node.Items = items
		case "allOf":
			members, err := parseNodeList(key, val)
			node.AllOf = members
			return err
		case "oneOf":
			members, err := parseNodeList(key, val)
			node.OneOf = members
			return err
		case "anyOf":
			members, err := parseNodeList(key, val)
			node.AnyOf = members
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func parseNodeList(key string, v *yaml.Node) ([]*Node, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s must be a sequence", key)
	}
	nodes := make([]*Node, 0, len(v.Content))
	for i, raw := range v.Content {
		n, err := parseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// eachPair calls fn for every non-null key/value pair of a mapping node in
// declared order. A null node is an empty mapping.
func eachPair(v *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	v = deref(v)
	if isNull(v) {
		return nil
	}
	if v.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", kindName(v))
	}
	for i := 0; i+1 < len(v.Content); i += 2 {
		val := deref(v.Content[i+1])
		if isNull(val) {
			continue
		}
		if err := fn(v.Content[i].Value, val); err != nil {
			return err
		}
	}
	return nil
}

func lookup(v *yaml.Node, key string) *yaml.Node {
	v = deref(v)
	if v == nil || v.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(v.Content); i += 2 {
		if v.Content[i].Value == key {
			val := deref(v.Content[i+1])
			if isNull(val) {
				return nil
			}
			return val
		}
	}
	return nil
}

func deref(v *yaml.Node) *yaml.Node {
	for v != nil && v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	return v
}

func isNull(v *yaml.Node) bool {
	return v == nil || (v.Kind == yaml.ScalarNode && v.Tag == "!!null")
}

// literalText renders an enum literal the way it reads in the source.
func literalText(v *yaml.Node) string {
	v = deref(v)
	if isNull(v) {
		return "null"
	}
	return v.Value
}

func kindName(v *yaml.Node) string {
	if v == nil {
		return "nothing"
	}
	switch v.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar " + v.Tag
	default:
		return "unknown node"
	}
}
