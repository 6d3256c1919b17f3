// Package config loads panel configuration files.
//
// A panel file names the columns to read (overriding the canonical names
// field by field), the layers to show and a few display options. TOML, YAML
// and JSON are accepted and chosen by file extension:
//
//	nodeSpacing = 250
//	layerHeight = 200
//
//	[fields]
//	nodeLayerField = "tier"
//
//	[[layers]]
//	label = "Edge"
//	icon  = "cloud"
//
//	[[layers]]
//	label = "Core"
//
// Omitted values take the defaults from [Default].
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/topology"
)

// Display defaults.
const (
	DefaultNodeSpacing = 250
	DefaultLayerHeight = 200
)

// Config is a panel configuration.
type Config struct {
	Fields      topology.ParseConfig `json:"fields" toml:"fields" yaml:"fields"`
	Layers      []layers.Layer       `json:"layers" toml:"layers" yaml:"layers" validate:"min=2,max=10,dive"`
	NodeSpacing float64              `json:"nodeSpacing" toml:"nodeSpacing" yaml:"nodeSpacing" validate:"gt=0"`
	LayerHeight float64              `json:"layerHeight" toml:"layerHeight" yaml:"layerHeight" validate:"gt=0"`
	EnableDrag  *bool                `json:"enableDrag,omitempty" toml:"enableDrag" yaml:"enableDrag,omitempty"`
	Units       graph.Units          `json:"units" toml:"units" yaml:"units"`
}

// Default returns the configuration of a fresh panel.
func Default() Config {
	drag := true
	return Config{
		Fields:      topology.DefaultParseConfig(),
		Layers:      layers.DefaultLayers(),
		NodeSpacing: DefaultNodeSpacing,
		LayerHeight: DefaultLayerHeight,
		EnableDrag:  &drag,
	}
}

// Drag reports whether node dragging is enabled.
func (c Config) Drag() bool {
	return c.EnableDrag == nil || *c.EnableDrag
}

// WithDefaults fills every unset value from [Default].
func (c Config) WithDefaults() Config {
	d := Default()
	c.Fields = c.Fields.WithDefaults()
	if len(c.Layers) == 0 {
		c.Layers = d.Layers
	}
	for i := range c.Layers {
		if c.Layers[i].Icon == "" {
			c.Layers[i].Icon = layers.DefaultIcon
		}
	}
	if c.NodeSpacing == 0 {
		c.NodeSpacing = d.NodeSpacing
	}
	if c.LayerHeight == 0 {
		c.LayerHeight = d.LayerHeight
	}
	if c.EnableDrag == nil {
		c.EnableDrag = d.EnableDrag
	}
	return c
}

var validate = validator.New()

// Validate checks layer bounds, labels, display options and field names.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return c.Fields.Validate()
}

// formatValidationError converts the first validator failure into a coded error.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	if e.StructField() == "Layers" {
		return errors.New(errors.ErrCodeInvalidLayer, "layers: need %d to %d layers, got %v",
			layers.MinLayers, layers.MaxLayers, lenOf(e.Value()))
	}
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "gt":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be greater than %s", field, e.Param())
	case "max":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s", field, e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}

func lenOf(v any) any {
	if ls, ok := v.([]layers.Layer); ok {
		return len(ls)
	}
	return v
}

// Load reads, defaults and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext (".toml", ".yaml", ".yml" or
// ".json"), applies defaults and validates the result.
func Parse(data []byte, ext string) (Config, error) {
	var c Config
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.Decode(string(data), &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}

	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write encodes c in the format named by the extension of path.
func Write(c Config, path string) error {
	var buf bytes.Buffer
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.NewEncoder(&buf).Encode(c)
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(c)
	case ".json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(c)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
