package modelfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a model file.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf guesses the format of a file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}

	return "", fmt.Errorf("cannot tell the format of %s", path)
}

// Load reads, decodes and validates a model file.
func Load(path string) (Spec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Spec{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read model %s: %w", path, err)
	}

	spec, err := Parse(data, format)
	if err != nil {
		return Spec{}, fmt.Errorf("model %s: %w", path, err)
	}

	return spec, nil
}

// Parse decodes and validates a model.
func Parse(data []byte, format Format) (Spec, error) {
	raw := make(map[string]any)

	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return Spec{}, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Spec{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Spec{}, fmt.Errorf("unknown model format %q", format)
	}

	var spec Spec

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Spec{}, err
	}

	if err := decoder.Decode(raw); err != nil {
		return Spec{}, fmt.Errorf("decode model: %w", err)
	}

	spec.applyDefaults()

	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}

	return spec, nil
}
