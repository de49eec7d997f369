package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Format selects the serialization of a document.
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is block-style YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user-supplied format name into a Format.
// "yml" is accepted as an alias for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("openapi: unsupported format %q (want json or yaml)", s)
	}
}

// Marshal serializes doc in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("openapi: cannot marshal nil document")
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("openapi: encoding yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}
