package cli

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/b0bbywan/go-powermenu/backend"
	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/wm"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

func newWMCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "wm",
		Short: "Print the detected window manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			detector := wm.NewDetector(cfg.WM, commands.NewExecRunner(cfg.Commands.Timeout))
			det, err := detector.Detect(cmd.Context())
			if err != nil {
				logger.Debug("[wm] %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", det.Kind, det.Name, det.Source)
			return nil
		},
	}
}

func newActionsCommand(opts *Options) *cobra.Command {
	var showCommands bool

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the menu actions and their availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			b, err := backend.New(cmd.Context(), cfg, nil, nil)
			if err != nil {
				return err
			}
			defer b.Close()

			out := cmd.OutOrStdout()
			if showCommands {
				for _, entry := range b.Power.Table().Entries() {
					fmt.Fprintln(out, entry)
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ACTION\tLABEL\tAVAILABLE\tREASON")
			for _, info := range b.Power.Actions(cmd.Context()) {
				fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", info.Action, info.Label, info.Available, info.Reason)
			}
			fmt.Fprintf(tw, "\nmethod: %s\n", b.Power.Method())
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&showCommands, "commands", false, "print the command table instead")
	return cmd
}

func newConfigCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s version %s\n", config.AppName, config.AppVersion)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			return nil
		},
	}
}
