package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/internal/config"
	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the root command applies --verbose, loads the
// configuration file, and installs Prometheus hooks when --metrics-file is
// set. The metrics are written after the subcommand succeeds.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Kintree stores family trees and lays them out by generation",
		Long: `Kintree keeps a family relationship graph consistent (parents, spouses,
children), resolves each person's generation, and computes tiered and radial
layouts for visualization.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/kintree/config.toml)")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on success")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.generationsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.personCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the global flags.
func (c *CLI) setup() error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.metricsFile == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	hooks, err := observability.NewPrometheusHooks(reg)
	if err != nil {
		return err
	}
	observability.SetStoreHooks(hooks)
	observability.SetProjectionHooks(hooks)
	observability.SetCacheHooks(hooks)
	c.registry = reg
	return nil
}

// writeMetrics writes the collected metrics in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (c *CLI) writeMetrics() error {
	if c.registry == nil {
		return nil
	}
	defer observability.Reset()
	if err := prometheus.WriteToTextfile(c.metricsFile, c.registry); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}
