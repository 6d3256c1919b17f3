// Package pipeline runs the topolayer pipeline shared by the CLI and the
// HTTP API.
//
// # Stages
//
//  1. Load: read frames from JSON or CSV files
//  2. Extract: turn the node and edge tables into records (cached by content)
//  3. Partition: build the layer index and per-layer counts
//  4. View: filter one layer and render it (JSON, DOT, SVG, PNG, PDF)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs:  []string{"nodes.csv", "edges.csv"},
//	    Layer:   2,
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
//
// Stages can also be run on their own:
//
//	ext, err := runner.Extract(ctx, frames, opts)
//	ix := layers.Build(ext.Nodes, ext.Edges, len(opts.Layers))
//	view := runner.View(ctx, ix, 0, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayer/pkg/config"
	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/frame"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/topology"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats for a layer view.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It doubles as the JSON body of the
// topology endpoints.
type Options struct {
	// Input
	Inputs []string       `json:"-"`
	Frames []*frame.Frame `json:"frames,omitempty"`

	// Extraction
	Fields topology.ParseConfig `json:"fields"`
	Units  graph.Units          `json:"units"`

	// Partition and view
	Layers      []layers.Layer `json:"layers,omitempty"`
	Layer       int            `json:"layer,omitempty"` // 1-based; 0 means no view
	Formats     []string       `json:"formats,omitempty"`
	Detailed    bool           `json:"detailed,omitempty"`
	NodeSpacing float64        `json:"nodeSpacing,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// FromConfig returns options carrying the fields, layers, units and node
// spacing of a panel configuration.
func FromConfig(c config.Config) Options {
	c = c.WithDefaults()
	return Options{
		Fields:      c.Fields,
		Units:       c.Units,
		Layers:      c.Layers,
		NodeSpacing: c.NodeSpacing,
	}
}

// ValidateAndSetDefaults checks the options and fills in defaults. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Fields.Validate(); err != nil {
		return err
	}
	if err := layers.CheckCount(len(o.Layers)); err != nil {
		return err
	}
	if o.Layer != 0 {
		if err := errors.ValidateLayerPick(o.Layer-1, len(o.Layers)); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields, layers, formats and logger.
func (o *Options) SetDefaults() {
	o.Fields = o.Fields.WithDefaults()
	if len(o.Layers) == 0 {
		o.Layers = layers.DefaultLayers()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// HasView reports whether a layer view was requested.
func (o *Options) HasView() bool {
	return o.Layer > 0
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the extracted topology in wire form.
	Graph graph.Graph

	// Diagnostics lists non-fatal extraction problems.
	Diagnostics []topology.Diagnostic

	// Hash identifies the input frames and extraction settings.
	Hash string

	// Index is the layer partition of the topology.
	Index *layers.Index

	// Summary holds per-layer counts.
	Summary graph.Summary

	// View is the requested layer, nil when Options.Layer is 0.
	View *graph.LayerView

	// Artifacts holds the rendered view keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	Diagnostics int
	LoadTime    time.Duration
	ExtractTime time.Duration
	ViewTime    time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks how the extraction result was obtained.
type CacheInfo struct {
	ExtractHit bool     // read from the cache
	Shared     bool     // joined an identical in-flight extraction
	RenderHits []string // formats served from the cache
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges, %d diagnostics", s.NodeCount, s.EdgeCount, s.Diagnostics)
}
