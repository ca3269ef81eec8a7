package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// looksLikeJSON reports whether data starts with an object or array.
func looksLikeJSON(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

// decodeJSON reads a JSON document into the same node tree the YAML decoder
// produces. JSON is only nearly a YAML subset: escapes such as "\/" are
// valid JSON and rejected by YAML, so JSON input takes its own tokenizer.
func decodeJSON(data []byte) (*yaml.Node, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	root, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value")
		}
		return nil, err
	}
	return root, nil
}

func readJSONValue(dec *jsontext.Decoder) (*yaml.Node, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case '{':
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for dec.PeekKind() != '}' {
			key, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			val, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, jsonScalar("!!str", key.String()), val)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return node, nil
	case '[':
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for dec.PeekKind() != ']' {
			val, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, val)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return node, nil
	case '"':
		return jsonScalar("!!str", tok.String()), nil
	case '0':
		raw := tok.String()
		if bytes.ContainsAny([]byte(raw), ".eE") {
			return jsonScalar("!!float", raw), nil
		}
		return jsonScalar("!!int", raw), nil
	case 't', 'f':
		return jsonScalar("!!bool", tok.String()), nil
	case 'n':
		return jsonScalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %s", tok.Kind())
}

func jsonScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
