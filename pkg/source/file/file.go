// Package file reads snapshots from local JSON, YAML or GraphML documents.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source"
)

// Format is a serialization format of a snapshot file.
type Format string

const (
	FormatAuto    Format = ""
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatGraphML Format = "graphml"
)

// ParseFormat validates a format name. The empty string selects detection by
// file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatJSON, FormatYAML, FormatGraphML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "xml":
		return FormatGraphML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q (want json, yaml or graphml)", s)
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".graphml", ".xml":
		return FormatGraphML, nil
	default:
		return "", fmt.Errorf("cannot detect snapshot format of %s, set the format explicitly", path)
	}
}

// Source reads a snapshot file on every Read.
type Source struct {
	path   string
	format Format
}

var (
	_ source.Source    = (*Source)(nil)
	_ source.Watchable = (*Source)(nil)
)

// New creates a file source. With FormatAuto the format comes from the extension.
func New(path string, format Format) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	if format == FormatAuto {
		var err error
		format, err = DetectFormat(path)
		if err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot path: %w", err)
	}

	return &Source{path: abs, format: format}, nil
}

// Read loads and decodes the file.
func (s *Source) Read(_ context.Context) (*graph.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, source.LoadError(s.Name(), err)
	}
	return Decode(s.Name(), s.format, data)
}

// Name is the file path.
func (s *Source) Name() string { return s.path }

// Path is the watched file.
func (s *Source) Path() string { return s.path }

// Format is the decoding format in use.
func (s *Source) Format() Format { return s.format }

func (s *Source) Close() error { return nil }

// Decode parses data in the given format. name labels load errors.
func Decode(name string, format Format, data []byte) (*graph.Document, error) {
	switch format {
	case FormatJSON:
		var top map[string]any
		if err := json.Unmarshal(data, &top); err != nil {
			return nil, source.LoadError(name, fmt.Errorf("decoding json: %w", err))
		}
		return source.DocumentFromMap(name, top)

	case FormatYAML:
		var top map[string]any
		if err := yaml.Unmarshal(data, &top); err != nil {
			return nil, source.LoadError(name, fmt.Errorf("decoding yaml: %w", err))
		}
		return source.DocumentFromMap(name, top)

	case FormatGraphML:
		return decodeGraphML(name, data)

	default:
		return nil, source.LoadError(name, fmt.Errorf("unsupported format %q", format))
	}
}
