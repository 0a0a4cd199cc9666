// Package cli holds the powermenu command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCmd wires the cobra root command. Without a subcommand it serves the menu.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	serveCmd := newServeCommand(opts)
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Fullscreen power menu",
		Long:          "powermenu shows Shutdown, Reboot, Suspend, Logout and Lock Screen buttons and runs the matching system command.",
		Version:       config.AppVersion,
		Args:          cobra.NoArgs,
		RunE:          serveCmd.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default /etc/powermenu/config.yaml, ~/.config/powermenu/config.yaml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(serveCmd)
	root.AddCommand(newRunCommand(opts))
	root.AddCommand(newWMCommand(opts))
	root.AddCommand(newActionsCommand(opts))
	root.AddCommand(newConfigCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the configuration and applies its logging settings.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.New(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = config.ParseLogLevel(opts.LogLevel)
	}

	logger.SetLevel(cfg.Log.Level)
	logger.SetPackageLevels(cfg.Log.Levels)
	if cfg.Log.Journal && !logger.SetJournal(true) {
		logger.Warn("[%s] journald not reachable, logging to stderr only", config.AppName)
	}
	return cfg, nil
}
