package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	layer    int     // 1-based layer to render
	output   string  // output file, or base path for several formats
	formats  string  // comma-separated: svg (default), dot, json, png, pdf
	detailed bool    // stats and subtitles in node labels
	spacing  float64 // overrides the panel node spacing when > 0
}

// renderCommand renders one layer as a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{layer: 1}

	cmd := &cobra.Command{
		Use:   "render <file>... --layer N",
		Short: "Render one layer as a node-link diagram",
		Long: `Render draws the selected layer with Graphviz in a circular layout. Node
colors come from the background color column, edge widths from the
thickness column. PNG and PDF output needs rsvg-convert on PATH.`,
		Example: `  topolayer render nodes.csv edges.csv --layer 1 -f svg,dot -o tier1`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLayerFlag(opts.layer); err != nil {
				return err
			}
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, formats, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.layer, "layer", "l", opts.layer, "layer to render (1-based)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show stats and subtitles in node labels")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", 0, "node spacing in pixels (default from panel config)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, inputs []string, formats []string, opts renderOpts) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	popts, err := c.pipelineOptions(inputs)
	if err != nil {
		return err
	}
	popts.Layer = opts.layer
	popts.Formats = formats
	popts.Detailed = opts.detailed
	if opts.spacing > 0 {
		popts.NodeSpacing = opts.spacing
	}

	spin := newSpinner(ctx, fmt.Sprintf("Rendering layer %d", opts.layer))
	spin.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		spin.StopWithError(errors.UserMessage(err))
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Rendered %s (%d nodes, %d edges)",
		res.View.Label, len(res.View.Nodes), len(res.View.Edges)))
	printDiagnostics(res.Diagnostics)

	base := basePath(opts.output, inputs[0], opts.layer)
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		c.Logger.Debug("wrote artifact", "format", format, "bytes", len(res.Artifacts[format]))
		printFile(path)
	}
	return nil
}

// basePath derives the output path without extension. Without --output it is
// the first input file name plus the layer number; a known format extension
// on --output is stripped.
func basePath(output, input string, layer int) string {
	if output == "" {
		return fmt.Sprintf("%s_layer%d", strings.TrimSuffix(input, filepath.Ext(input)), layer)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
