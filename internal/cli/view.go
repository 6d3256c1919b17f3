package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/pkg/graph"
)

type viewOpts struct {
	layer  int
	output string
}

// viewCommand writes the filtered view of one layer as JSON.
func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOpts{layer: 1}

	cmd := &cobra.Command{
		Use:   "view <file>... --layer N",
		Short: "Write the nodes and edges of one layer as JSON",
		Long: `View extracts the topology and keeps the nodes of the selected layer and the
edges whose endpoints both sit in that layer. Edges crossing layers are left out.`,
		Example: `  topolayer view nodes.csv edges.csv --layer 2`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLayerFlag(opts.layer); err != nil {
				return err
			}
			return c.runView(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.layer, "layer", "l", opts.layer, "layer to show (1-based)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runView(ctx context.Context, inputs []string, opts viewOpts) error {
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

	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	c.Logger.Debug("layer view", "layer", res.View.Layer, "nodes", len(res.View.Nodes), "edges", len(res.View.Edges))

	out, err := openOutput(opts.output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()
	return graph.WriteLayerView(*res.View, out)
}
