// Package cmd builds corod's Cobra command tree, grounded on
// cue-lang/cue's cmd/cue/cmd.go pattern of one root *cobra.Command
// with subcommands registered via AddCommand, overlaid with this
// module's own corert/config flag bindings instead of CUE's load
// config flags.
package cmd

import (
	"github.com/spf13/cobra"

	"corert/config"
	"corert/obslog"
)

var cfgFile string

// Execute builds and runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "corod",
		Short:         "cooperative coroutine scheduler demos",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(newSleepDemoCmd())
	root.AddCommand(newMutexDemoCmd())
	root.AddCommand(newEventDemoCmd())
	root.AddCommand(newServeCmd())

	return root
}

// loadConfig reads the config file named by --config (if any),
// overlays the persistent flags on top, and configures obslog from
// the result. Every subcommand calls this first.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	config.Overlay(cfg, cmd.Flags())
	if err := obslog.Configure(&cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}
