// Package config loads and saves gasplan editor settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/history"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// Config holds persistent editor settings.
type Config struct {
	GridSize            float64            `yaml:"grid_size"`
	GridSnap            bool               `yaml:"grid_snap"`
	PixelsPerUnit       float64            `yaml:"pixels_per_unit"`
	OverLengthThreshold float64            `yaml:"over_length_threshold"`
	HistoryLimit        int                `yaml:"history_limit"`
	ImportTargetWidth   float64            `yaml:"import_target_width"`
	LayerOffsets        map[string]float64 `yaml:"layer_offsets"`
	Zoom                Zoom               `yaml:"zoom"`
	FileType            string             `yaml:"file_type"` // "png" or "svg" for exports
	LastDir             string             `yaml:"last_dir,omitempty"`
}

// Zoom bounds the viewport scale. Step is the factor applied per zoom action.
type Zoom struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	offsets := make(map[string]float64)
	for layer, off := range plan.DefaultLayerOffsets() {
		offsets[string(layer)] = off
	}
	return Config{
		GridSize:            plan.DefaultGridSize,
		GridSnap:            true,
		PixelsPerUnit:       plan.DefaultPixelsPerUnit,
		OverLengthThreshold: plan.DefaultOverLength,
		HistoryLimit:        history.DefaultLimit,
		ImportTargetWidth:   plan.DefaultImportWidth,
		LayerOffsets:        offsets,
		Zoom: Zoom{
			Min:  geom.DefaultMinScale,
			Max:  geom.DefaultMaxScale,
			Step: 1.1,
		},
		FileType: "png",
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gasplan.yaml"
	}
	return filepath.Join(home, ".gasplan.yaml")
}

// LoadConfig reads a YAML config. A missing file yields the defaults; keys
// that are absent or zero keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the config as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	content := append([]byte("# gasplan configuration\n"), data...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.GridSize == 0 {
		c.GridSize = def.GridSize
	}
	if c.PixelsPerUnit == 0 {
		c.PixelsPerUnit = def.PixelsPerUnit
	}
	if c.OverLengthThreshold == 0 {
		c.OverLengthThreshold = def.OverLengthThreshold
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.ImportTargetWidth == 0 {
		c.ImportTargetWidth = def.ImportTargetWidth
	}
	if c.Zoom.Min == 0 {
		c.Zoom.Min = def.Zoom.Min
	}
	if c.Zoom.Max == 0 {
		c.Zoom.Max = def.Zoom.Max
	}
	if c.Zoom.Step == 0 {
		c.Zoom.Step = def.Zoom.Step
	}
	if c.FileType == "" {
		c.FileType = def.FileType
	}
	if c.LayerOffsets == nil {
		c.LayerOffsets = make(map[string]float64)
	}
	// An explicit 0 offset is meaningful, so only missing layers are filled.
	for layer, off := range def.LayerOffsets {
		if _, ok := c.LayerOffsets[layer]; !ok {
			c.LayerOffsets[layer] = off
		}
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.GridSize < 0:
		return fmt.Errorf("grid_size must not be negative, got %v", c.GridSize)
	case c.PixelsPerUnit <= 0:
		return fmt.Errorf("pixels_per_unit must be positive, got %v", c.PixelsPerUnit)
	case c.OverLengthThreshold < 0:
		return fmt.Errorf("over_length_threshold must not be negative, got %v", c.OverLengthThreshold)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	case c.ImportTargetWidth <= 0:
		return fmt.Errorf("import_target_width must be positive, got %v", c.ImportTargetWidth)
	case c.Zoom.Min <= 0 || c.Zoom.Max < c.Zoom.Min:
		return fmt.Errorf("zoom range [%v, %v] is invalid", c.Zoom.Min, c.Zoom.Max)
	case c.Zoom.Step <= 1:
		return fmt.Errorf("zoom step must be greater than 1, got %v", c.Zoom.Step)
	case c.FileType != "png" && c.FileType != "svg":
		return fmt.Errorf("file_type must be png or svg, got %q", c.FileType)
	}
	for layer := range c.LayerOffsets {
		if !plan.GasLayer(layer).Valid() {
			return fmt.Errorf("layer_offsets: unknown layer %q", layer)
		}
	}
	return nil
}

// Offsets returns the layer offsets keyed by gas layer.
func (c Config) Offsets() map[plan.GasLayer]float64 {
	out := make(map[plan.GasLayer]float64, len(c.LayerOffsets))
	for layer, off := range c.LayerOffsets {
		out[plan.GasLayer(layer)] = off
	}
	return out
}

// ViewSettings returns the settings given to new documents.
func (c Config) ViewSettings() plan.ViewSettings {
	v := plan.DefaultViewSettings()
	v.GridSize = c.GridSize
	v.GridSnap = c.GridSnap
	v.PixelsPerUnit = c.PixelsPerUnit
	return v
}

// Router returns a router for doc using the configured threshold and offsets.
func (c Config) Router(doc *plan.Document) plan.Router {
	return plan.RouterFor(doc, c.OverLengthThreshold, c.Offsets())
}

// ImportOptions returns normalisation options for imports.
func (c Config) ImportOptions(flipY bool) plan.ImportOptions {
	return plan.ImportOptions{TargetWidth: c.ImportTargetWidth, FlipY: flipY}
}
