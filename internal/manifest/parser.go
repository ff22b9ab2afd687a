package manifest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/karupanerura/lox-expression/internal/types"
	"github.com/mitchellh/mapstructure"
)

// IsManifestPath reports whether path names a manifest rather than a plain
// expression script.
func IsManifestPath(path string) bool {
	switch filepath.Ext(path) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ParseFile picks the decoder for path by its extension.
func ParseFile(path string, r io.Reader) (*Manifest, error) {
	switch filepath.Ext(path) {
	case ".json":
		return ParseManifestJSON(r)
	case ".yaml", ".yml":
		return ParseManifestYAML(r)
	default:
		return nil, fmt.Errorf("unsupported manifest extension: %s", path)
	}
}

func ParseManifestYAML(r io.Reader) (*Manifest, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseManifestJSON(bytes.NewReader(jsonBytes))
}

func ParseManifestJSON(r io.Reader) (*Manifest, error) {
	var def manifestDef
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return def.compile()
}

type manifestDef struct {
	Expressions []any `json:"expressions"`
}

func (d *manifestDef) compile() (*Manifest, error) {
	if len(d.Expressions) == 0 {
		return nil, fmt.Errorf("manifest has no expressions")
	}

	m := &Manifest{Cases: make([]Case, len(d.Expressions))}
	for i, item := range d.Expressions {
		c, err := decodeCase(item)
		if err != nil {
			return nil, fmt.Errorf("expressions[%d]: %w", i, err)
		}
		if c.Name == "" {
			c.Name = "#" + strconv.Itoa(i+1)
		}
		m.Cases[i] = c
	}
	return m, nil
}

func decodeCase(item any) (Case, error) {
	switch v := item.(type) {
	case string:
		return Case{Expression: v}, nil

	case map[string]any:
		if expect, ok := v["expect"]; ok {
			rendered, err := renderExpectation(expect)
			if err != nil {
				return Case{}, err
			}
			v["expect"] = rendered
		}

		var c Case
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &c,
		})
		if err != nil {
			return Case{}, fmt.Errorf("mapstructure.NewDecoder: %w", err)
		}
		if err := decoder.Decode(v); err != nil {
			return Case{}, fmt.Errorf("mapstructure.Decode: %w", err)
		}
		if c.Expression == "" {
			return Case{}, fmt.Errorf("expression is required")
		}
		return c, nil

	default:
		return Case{}, fmt.Errorf("unexpected case type %T", item)
	}
}

// renderExpectation maps a decoded YAML/JSON scalar to the text the
// evaluator would print for the equal runtime value.
func renderExpectation(v any) (string, error) {
	switch vv := v.(type) {
	case nil:
		return types.Nil{}.String(), nil
	case bool:
		return types.Bool(vv).String(), nil
	case float64:
		return types.Number(vv).String(), nil
	case string:
		return vv, nil
	default:
		return "", fmt.Errorf("unexpected expect type %T", v)
	}
}
