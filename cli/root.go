// Package cli holds the igo-local commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"igo-local/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command. Run without a subcommand it watches a game.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	play := &PlayOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "igo-local",
		Short: "Watch two random players play Go in the terminal",
		Long: `igo-local watches two random players play Go (baduk) against each other.

The rules come from the built-in engine or from GnuGo over GTP. Every game is
recorded as SGF in the history directory.

Examples:
  igo-local
  igo-local --boardsize 19 --engine gnugo
  igo-local --headless --tps 1000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, play)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: XDG config dir)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	addPlayFlags(cmd, play)

	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewVersionCommand())
	return cmd
}

// loadConfig reads the config file and environment, then applies global flags.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.InitConfig()
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewVersionCommand prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "igo-local %s\n", Version)
			return err
		},
	}
}
