package wire

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format selects a text encoding for wire values.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the format from a file extension; anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ParseFormat reads a format name ("json", "yaml" or "yml").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("wire: unknown format %q", name)
}

// Decode reads one value in the given format.
func Decode(r io.Reader, f Format) (any, error) {
	switch f {
	case JSON:
		return DecodeJSON(r)
	case YAML:
		return DecodeYAML(r)
	}
	return nil, fmt.Errorf("wire: unknown format %q", f)
}

// Encode writes one value in the given format.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case JSON:
		return EncodeJSON(w, v)
	case YAML:
		return EncodeYAML(w, v)
	}
	return fmt.Errorf("wire: unknown format %q", f)
}
