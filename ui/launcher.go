package ui

import (
	"context"
	"strings"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/logger"
)

const urlPlaceholder = "{url}"

// LauncherCommand substitutes {url} in argv. The URL is appended when no
// placeholder is present.
func LauncherCommand(argv []string, url string) commands.Command {
	if len(argv) == 0 {
		return commands.Command{}
	}
	out := make([]string, 0, len(argv)+1)
	substituted := false
	for _, arg := range argv {
		if strings.Contains(arg, urlPlaceholder) {
			arg = strings.ReplaceAll(arg, urlPlaceholder, url)
			substituted = true
		}
		out = append(out, arg)
	}
	if !substituted {
		out = append(out, url)
	}
	cmd := commands.New(out...)
	cmd.Detach = true
	return cmd
}

// Launch opens the menu in the configured browser or kiosk. Without a
// launcher the URL is only logged.
func Launch(ctx context.Context, runner commands.Runner, argv []string, url string) error {
	cmd := LauncherCommand(argv, url)
	if cmd.IsZero() {
		logger.Info("[ui] menu available at %s", url)
		return nil
	}
	logger.Info("[ui] launching %s", cmd)
	_, err := runner.Run(ctx, cmd)
	return err
}
