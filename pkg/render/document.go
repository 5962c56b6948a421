package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rectsweep/pkg/coverage"
	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

const yamlIndent = 2

// Report is the structured form of one decomposition.
type Report struct {
	Base         geom.Rect        `json:"base"                   yaml:"base"`
	Obstructions []scene.Item     `json:"obstructions,omitempty" yaml:"obstructions,omitempty"`
	Rects        []geom.Rect      `json:"rects"                  yaml:"rects"`
	Stats        *sweep.Stats     `json:"stats,omitempty"        yaml:"stats,omitempty"`
	Coverage     *coverage.Report `json:"coverage,omitempty"     yaml:"coverage,omitempty"`
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}
