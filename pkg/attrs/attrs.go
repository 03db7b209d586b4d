// Package attrs handles the attribute side of asset files: parsing
// key=value command arguments into typed scalars and (de)serializing
// the YAML attribute mapping stored as asset content.
package attrs

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParsePairs converts "key=value" arguments into an attribute patch.
// Values are parsed as YAML scalars, so "8", "13.3", "true" and quoted
// strings come out typed.
func ParsePairs(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("attribute must be formatted as key=value: %q", arg)
		}
		if _, dup := patch[key]; dup {
			return nil, fmt.Errorf("attribute %q given more than once", key)
		}
		patch[key] = ParseScalar(value)
	}
	return patch, nil
}

// ParseScalar interprets a string as a YAML scalar, falling back to the
// raw string when it is not one.
func ParseScalar(value string) any {
	var out any
	if err := yaml.Unmarshal([]byte(value), &out); err != nil {
		return value
	}
	switch out.(type) {
	case nil, bool, int, int64, uint64, float64, string:
		return out
	default:
		// Sequences and mappings are not scalar attribute values.
		return value
	}
}

// Marshal renders an attribute mapping as the YAML content of an asset
// file. An empty mapping renders as an empty document.
func Marshal(attributes map[string]any) ([]byte, error) {
	if len(attributes) == 0 {
		return []byte{}, nil
	}
	data, err := yaml.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}
	return data, nil
}

// Unmarshal reads asset file content back into an attribute mapping.
// Empty content is an empty mapping; non-mapping content is an error.
func Unmarshal(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}
	var attributes map[string]any
	if err := yaml.Unmarshal(data, &attributes); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if attributes == nil {
		attributes = map[string]any{}
	}
	return attributes, nil
}
