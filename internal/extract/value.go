// Package extract implements safe, path-addressed typed extraction from a
// JSON value, matching the traversal semantics and structured error
// contract of the agent's argument-extraction layer. Objects are decoded
// preserving key insertion order (via wk8/go-ordered-map), which is what
// makes the "available keys" error contract exactly reproducible -- a
// plain map[string]any would report keys in a nondeterministic order.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the ordered-key JSON object representation used throughout
// this package.
type Object = orderedmap.OrderedMap[string, any]

// ParseJSON decodes raw into a tree of Go values: *Object for JSON
// objects (preserving key order), []any for arrays, and string /
// json.Number / bool / nil for scalars. Numbers are kept as json.Number
// rather than eagerly converted to float64 so that integer-vs-float
// intent survives until a getter asks for one or the other.
func ParseJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("extract: parse JSON: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("extract: unexpected delimiter %q", t)
		}
	case nil:
		return nil, nil
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	om := orderedmap.New[string, any]()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("extract: expected object key, got %v", keyTok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		om.Set(key, val)
	}

	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return om, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return arr, nil
}

// ObjectKeys returns om's keys in insertion order, or nil if om is nil.
func ObjectKeys(om *Object) []string {
	if om == nil {
		return nil
	}
	keys := make([]string, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// typeName returns the JSON type name used in error messages for v, one
// of "object", "array", "string", "number", "boolean", or "null".
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
