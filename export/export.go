// Package export renders the declarative structure of components as JSON,
// YAML or TOML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// PortDescription is the declarative form of a port.
type PortDescription struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Input     bool   `json:"input" yaml:"input" toml:"input"`
	Output    bool   `json:"output" yaml:"output" toml:"output"`
	Multiport bool   `json:"multiport,omitempty" yaml:"multiport,omitempty" toml:"multiport,omitempty"`
	Relation  string `json:"relation,omitempty" yaml:"relation,omitempty" toml:"relation,omitempty"`
}

// Description is the declarative form of a component. It lists attributes,
// ports and children only. Internal controllers are never part of it.
type Description struct {
	Kind       string            `json:"kind" yaml:"kind" toml:"kind"`
	Name       string            `json:"name" yaml:"name" toml:"name"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Ports      []PortDescription `json:"ports,omitempty" yaml:"ports,omitempty" toml:"ports,omitempty"`
	Relations  []string          `json:"relations,omitempty" yaml:"relations,omitempty" toml:"relations,omitempty"`
	Children   []Description     `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Describable is a component that can describe its own structure.
type Describable interface {
	Describe() Description
}

// Child returns the direct child with the given name.
func (d Description) Child(name string) (Description, bool) {
	for _, c := range d.Children {
		if c.Name == name {
			return c, true
		}
	}

	return Description{}, false
}

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat converts a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}

	return "", fmt.Errorf("unknown export format %q", s)
}

// Encode writes the description of c to w.
func Encode(w io.Writer, c Describable, format Format) error {
	return EncodeDescription(w, c.Describe(), format)
}

// EncodeDescription writes d to w in the given format.
func EncodeDescription(w io.Writer, d Description, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(d); err != nil {
			return err
		}

		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	}

	return fmt.Errorf("unknown export format %q", format)
}
