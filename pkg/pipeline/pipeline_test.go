package pipeline

import (
	"testing"

	"github.com/matzehuels/topolayer/pkg/config"
	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/topology"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"SVG", true}, // case-sensitive
		{"html", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "gif"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Fields.NodeIDField != "id" {
		t.Errorf("NodeIDField = %q, want id", opts.Fields.NodeIDField)
	}
	if len(opts.Layers) != 2 {
		t.Errorf("len(Layers) = %d, want 2", len(opts.Layers))
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if opts.HasView() {
		t.Error("HasView() = true without a layer")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"layer too high", Options{Layer: 3}, errors.ErrCodeInvalidLayer},
		{"negative layer", Options{Layer: -1}, errors.ErrCodeInvalidLayer},
		{"one layer", Options{Layers: []layers.Layer{{Label: "x"}}}, errors.ErrCodeInvalidLayer},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"control char field", Options{Fields: topology.ParseConfig{NodeIDField: "a\x01"}}, errors.ErrCodeInvalidConfig},
		{"valid pick", Options{Layer: 2}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Layer: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	c := config.Default()
	c.Layers, _ = layers.Add(c.Layers)
	c.Fields.NodeLayerField = "tier"
	c.Units.EdgeMainStat = "ms"

	opts := FromConfig(c)
	if len(opts.Layers) != 3 {
		t.Errorf("len(Layers) = %d, want 3", len(opts.Layers))
	}
	if opts.Fields.NodeLayerField != "tier" {
		t.Errorf("NodeLayerField = %q, want tier", opts.Fields.NodeLayerField)
	}
	if opts.Units.EdgeMainStat != "ms" {
		t.Errorf("Units.EdgeMainStat = %q, want ms", opts.Units.EdgeMainStat)
	}
	if opts.NodeSpacing != config.DefaultNodeSpacing {
		t.Errorf("NodeSpacing = %v, want %d", opts.NodeSpacing, config.DefaultNodeSpacing)
	}
}
