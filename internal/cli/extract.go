package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/pipeline"
)

// extractOpts holds the flags of the extract command.
type extractOpts struct {
	output string // graph JSON destination; stdout when empty
	quiet  bool   // suppress the summary on stdout
}

// extractCommand extracts the topology from node and edge tables and writes
// it as graph JSON.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract the node/edge topology from JSON or CSV tables",
		Long: `Extract reads frame JSON documents or CSV files, resolves the configured
node and edge columns and writes the resulting graph as JSON.

Problems such as missing id or source columns are reported as warnings;
they never abort the run.`,
		Example: `  topolayer extract nodes.csv edges.csv -o graph.json
  topolayer extract -c panel.toml frames.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary")

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, inputs []string, opts extractOpts) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	popts, err := c.pipelineOptions(inputs)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done("extracted topology", "nodes", res.Stats.NodeCount, "edges", res.Stats.EdgeCount)

	out, err := openOutput(opts.output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()
	if err := graph.WriteGraph(res.Graph, out); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}

	// With stdout carrying the graph, the summary would corrupt it.
	if opts.quiet || opts.output == "" {
		return nil
	}
	printSummary(res)
	printFile(opts.output)
	return nil
}

// printSummary prints counts, diagnostics and the layer table of a run.
func printSummary(res *pipeline.Result) {
	printSuccess("Extracted topology")
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.ExtractHit)
	printDiagnostics(res.Diagnostics)
	fmt.Println(layerTable(res.Summary, 0))
}
