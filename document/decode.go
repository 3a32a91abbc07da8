package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/MrLipa/oasaggregate/oaserrors"
)

// Format is the encoding of a source document body.
type Format string

const (
	// FormatJSON is the default; springdoc and most generators emit JSON.
	FormatJSON Format = "json"
	// FormatYAML is accepted when a service serves its document as YAML.
	FormatYAML Format = "yaml"
)

// ParseSource decodes a service document body and extracts its paths and
// components. A body that is not a JSON (or YAML) object, that has no paths
// object, or whose path items or component categories are not objects
// yields a *oaserrors.DecodeError.
func ParseSource(data []byte, format Format) (*Source, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.DecodeError{Message: "empty document"}
	}

	var raw map[string]any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
		if err == nil {
			normalizeMap(raw)
		}
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &oaserrors.DecodeError{Message: fmt.Sprintf("invalid %s", format), Cause: err}
	}
	if raw == nil {
		return nil, &oaserrors.DecodeError{Message: "document is not an object"}
	}

	paths, err := decodePaths(raw)
	if err != nil {
		return nil, err
	}
	components, err := decodeComponents(raw)
	if err != nil {
		return nil, err
	}
	return &Source{Paths: paths, Components: components}, nil
}

func decodePaths(raw map[string]any) (map[string]PathItem, error) {
	v, ok := raw["paths"]
	if !ok || v == nil {
		return nil, &oaserrors.DecodeError{Field: "paths", Message: "missing required object"}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &oaserrors.DecodeError{Field: "paths", Message: fmt.Sprintf("expected object, got %s", kindOf(v))}
	}

	paths := make(map[string]PathItem, len(obj))
	for path, item := range obj {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &oaserrors.DecodeError{
				Field:   "paths." + path,
				Message: fmt.Sprintf("expected path item object, got %s", kindOf(item)),
			}
		}
		paths[path] = PathItem(m)
	}
	return paths, nil
}

// decodeComponents returns nil when the document has no components.
func decodeComponents(raw map[string]any) (Components, error) {
	v, ok := raw["components"]
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &oaserrors.DecodeError{Field: "components", Message: fmt.Sprintf("expected object, got %s", kindOf(v))}
	}

	components := make(Components, len(obj))
	for category, defs := range obj {
		m, ok := defs.(map[string]any)
		if !ok {
			return nil, &oaserrors.DecodeError{
				Field:   "components." + category,
				Message: fmt.Sprintf("expected object, got %s", kindOf(defs)),
			}
		}
		components[category] = m
	}
	return components, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// normalizeMap rewrites, in place, the maps with non-string keys that YAML
// produces for mappings such as `200: {description: OK}` into
// map[string]any so the value can later be encoded as JSON.
func normalizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		normalizeMap(t)
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}
