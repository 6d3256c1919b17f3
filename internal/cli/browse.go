package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/pkg/pipeline"
)

// browseCommand opens the interactive layer browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>...",
		Short: "Browse the layers of a topology interactively",
		Long: `Browse extracts the topology and shows the configured layers in a sidebar,
highest layer first, with the nodes and intra-layer edges of the selected
layer next to it. Press r to re-read the input files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args)
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, inputs []string) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	opts, err := c.pipelineOptions(inputs)
	if err != nil {
		return err
	}
	// Log lines would tear the full-screen view.
	opts.Logger = nil
	opts.SetDefaults()

	load := func(ctx context.Context) (*pipeline.Result, error) {
		return runner.Execute(ctx, opts)
	}
	res, err := load(ctx)
	if err != nil {
		return err
	}
	printDiagnostics(res.Diagnostics)

	model := NewBrowseModel(res, opts.Layers, opts.Units, load)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if m, ok := final.(BrowseModel); ok {
		c.Logger.Debug("browse closed", "layer", m.Pick()+1)
	}
	return nil
}
