package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/b0bbywan/go-powermenu/backend"
	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/power"
	"github.com/b0bbywan/go-powermenu/config"
)

func newRunCommand(opts *Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <action>",
		Short: "Run one action without showing the menu",
		Long:  "Run one of shutdown, reboot, suspend, logout or lockscreen (aliases: poweroff, restart, exit, lock).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := power.ParseAction(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runAction(cmd.Context(), cmd.OutOrStdout(), cfg, a, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the commands instead of running them (window manager detection still runs)")
	return cmd
}

func runAction(ctx context.Context, out io.Writer, cfg *config.Config, a power.Action, dryRun bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		runner   commands.Runner
		recorder *commands.DryRunner
	)
	if dryRun {
		// logind calls cannot be recorded
		cfg.Login1.Enabled = false
		recorder = commands.NewDryRunner(commands.NewExecRunner(cfg.Commands.Timeout), "wmctrl")
		runner = recorder
	}

	b, err := backend.New(ctx, cfg, runner, nil)
	if err != nil {
		return err
	}
	defer b.Close()

	outcome, err := b.Power.Dispatch(ctx, a)
	if outcome != nil && outcome.WM != nil {
		fmt.Fprintf(out, "window manager: %s (%s via %s)\n", outcome.WM.Kind, outcome.WM.Name, outcome.WM.Source)
	}

	if recorder != nil {
		for _, c := range recorder.Calls() {
			fmt.Fprintln(out, c)
		}
	} else if outcome != nil {
		for _, step := range outcome.Steps {
			fmt.Fprintf(out, "%s: exit %d\n", step.Command, step.ExitCode)
		}
		if outcome.Method == power.MethodLogin1 {
			fmt.Fprintf(out, "%s requested through logind\n", a)
		}
	}
	return err
}
