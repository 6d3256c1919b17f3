package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/render/nodelink"
)

// RenderView renders v in every format of opts.Formats.
func RenderView(ctx context.Context, v graph.LayerView, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	nlOpts := nodelink.Options{Detailed: opts.Detailed, NodeSpacing: opts.NodeSpacing}
	var dot string
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if format != FormatJSON && dot == "" {
			dot = nodelink.ToDOT(v, nlOpts)
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = graph.WriteLayerView(v, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
