package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/pkg/config"
	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
)

// layersCommand shows the per-layer breakdown of a topology and edits the
// layer list of a panel configuration.
func (c *CLI) layersCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layers [file]...",
		Short: "Show node counts per layer, or edit the configured layers",
		Long: `Without input files, layers lists the configured layers. With input files it
extracts the topology and shows how many nodes fall into each layer, highest
layer first. Nodes whose layer is 0 or beyond the configured count are
reported as unassigned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.runListLayers()
			}
			return c.runLayerCounts(cmd.Context(), cmd.OutOrStdout(), args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layer summary as JSON")

	cmd.AddCommand(c.layersAddCommand())
	cmd.AddCommand(c.layersRemoveCommand())

	return cmd
}

func (c *CLI) layersAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Append a layer to the --config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editLayers(func(ls []layers.Layer) ([]layers.Layer, error) {
				return layers.Add(ls)
			})
		},
	}
}

func (c *CLI) layersRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <layer>",
		Short: "Remove a layer (1-based) from the --config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidLayer, "layer %q is not a number", args[0])
			}
			return c.editLayers(func(ls []layers.Layer) ([]layers.Layer, error) {
				return layers.Remove(ls, n-1)
			})
		},
	}
}

// editLayers applies edit to the layer list of the --config file and writes
// the file back. A missing file starts from the defaults.
func (c *CLI) editLayers(edit func([]layers.Layer) ([]layers.Layer, error)) error {
	if c.configPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--config is required to edit layers")
	}
	cfg, err := config.Load(c.configPath)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return err
	}

	updated, err := edit(cfg.Layers)
	if err != nil {
		return err
	}
	cfg.Layers = updated
	if err := config.Write(cfg, c.configPath); err != nil {
		return err
	}

	printSuccess("%d layers", len(updated))
	printFile(c.configPath)
	return nil
}

func (c *CLI) runListLayers() error {
	cfg, err := c.panelConfig()
	if err != nil {
		return err
	}
	for _, i := range layers.SidebarOrder(len(cfg.Layers)) {
		l := cfg.Layers[i]
		printKeyValue(fmt.Sprintf("%d %s", i+1, l.Icon), l.Label)
		if l.Description != "" {
			printDetail("%s", l.Description)
		}
	}
	return nil
}

func (c *CLI) runLayerCounts(ctx context.Context, w io.Writer, inputs []string, asJSON bool) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	opts, err := c.pipelineOptions(inputs)
	if err != nil {
		return err
	}
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	if asJSON {
		return graph.WriteSummary(res.Summary, w)
	}

	printDiagnostics(res.Diagnostics)
	fmt.Println(layerTable(res.Summary, 0))
	if res.Summary.Nodes > 0 {
		printNextStep("Browse interactively", "topolayer browse "+joinArgs(inputs))
	}
	return nil
}
