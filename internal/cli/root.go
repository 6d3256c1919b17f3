package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --config (-c): panel configuration file (TOML, YAML or JSON)
//   - --no-cache: skip the extraction cache
//
// The --verbose flag is added by main so it can adjust the logger before any
// command runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Topolayer splits service topologies into layers",
		Long:         `Topolayer reads node and edge tables, extracts a service topology, groups it into configured layers and renders one layer at a time.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "panel configuration file (toml, yaml or json)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not read or write the extraction cache")

	root.AddCommand(c.extractCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
