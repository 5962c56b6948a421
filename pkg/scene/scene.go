// Package scene reads the documents that describe a decomposition input: a base
// rectangle with named obstructions, or a stack of layered windows.
//
// Documents are YAML or JSON and are checked against an embedded JSON Schema
// before decoding. Geometry is validated here, at the boundary, so the sweep
// core never sees rectangles without area.
package scene

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

// Sentinel scene errors.
var (
	ErrEmpty         = errors.New("scene document is empty")
	ErrSchema        = errors.New("scene does not match schema")
	ErrNoBase        = errors.New("scene has no base rectangle")
	ErrUnknownFormat = errors.New("unknown scene format")
)

// Format is a scene document encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Item is a named rectangle.
type Item struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	geom.Rect `yaml:",inline"`
}

// Scene is a decomposition input.
type Scene struct {
	Base         *geom.Rect `json:"base,omitempty"         yaml:"base,omitempty"`
	Obstructions []Item     `json:"obstructions,omitempty" yaml:"obstructions,omitempty"`

	// Layers lists windows bottom first; each is obscured by the ones after it.
	Layers []Item `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// FormatFromPath picks a format by file extension. Anything that is not
// ".json" is read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	return Parse(data, FormatFromPath(path))
}

// Read parses a scene from r.
func Read(r io.Reader, format Format) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	return Parse(data, format)
}

// Parse validates data against the scene schema and decodes it.
func Parse(data []byte, format Format) (*Scene, error) {
	doc, err := decodeGeneric(data, format)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, ErrEmpty
	}

	err = validateSchema(doc)
	if err != nil {
		return nil, err
	}

	var sc Scene

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &sc)
	default:
		err = yaml.Unmarshal(data, &sc)
	}

	if err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	err = sc.Validate()
	if err != nil {
		return nil, err
	}

	return &sc, nil
}

func decodeGeneric(data []byte, format Format) (any, error) {
	var doc any

	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}

		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()

		err := dec.Decode(&doc)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		err := yaml.Unmarshal(data, &doc)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return doc, nil
}

func validateSchema(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile scene schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		msgs = append(msgs, verr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

// Validate checks that every rectangle in the scene has area.
func (sc *Scene) Validate() error {
	if sc.Base != nil {
		err := sc.Base.Validate()
		if err != nil {
			return fmt.Errorf("base: %w", err)
		}
	}

	for i, obs := range sc.Obstructions {
		err := obs.Validate()
		if err != nil {
			return fmt.Errorf("obstruction %d (%s): %w", i, obs.Name, err)
		}
	}

	for i, layer := range sc.Layers {
		err := layer.Validate()
		if err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, layer.Name, err)
		}
	}

	return nil
}

// ObstructionRects returns the obstruction geometry without names.
func (sc *Scene) ObstructionRects() []geom.Rect {
	return rectsOf(sc.Obstructions)
}

// Decompose runs the sweep on the scene's base and obstructions.
func (sc *Scene) Decompose() (sweep.Result, error) {
	if sc.Base == nil {
		return sweep.Result{}, ErrNoBase
	}

	return sweep.Analyze(*sc.Base, sc.ObstructionRects()), nil
}

func rectsOf(items []Item) []geom.Rect {
	rects := make([]geom.Rect, len(items))
	for i, item := range items {
		rects[i] = item.Rect
	}

	return rects
}
