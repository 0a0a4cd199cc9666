package power

import (
	"context"
	"sync"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/events"
	"github.com/b0bbywan/go-powermenu/logger"
)

// Closer terminates the menu. The termination command runs once, whatever
// the number of callers.
type Closer struct {
	command commands.Command
	runner  commands.Runner
	cancel  context.CancelFunc
	notify  func(events.Event)

	once sync.Once
	err  error
}

func NewCloser(argv []string, runner commands.Runner, cancel context.CancelFunc) *Closer {
	return &Closer{
		command: commands.New(argv...),
		runner:  runner,
		cancel:  cancel,
	}
}

// Close runs the termination command, publishes menu.closed and cancels the
// application context. Later calls return the first result.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.close(ctx)
	})
	return c.err
}

func (c *Closer) close(ctx context.Context) error {
	var err error
	if !c.command.IsZero() && c.runner != nil {
		logger.Info("[power] closing menu: %s", c.command)
		_, err = c.runner.Run(ctx, c.command)
		if err != nil {
			logger.Error("[power] close command failed: %v", err)
		}
	}

	if c.notify != nil {
		data := MenuEvent{Command: c.command.String()}
		if err != nil {
			data.Error = err.Error()
		}
		c.notify(events.Event{Type: events.TypeMenuClosed, Data: data})
	}

	if c.cancel != nil {
		c.cancel()
	}
	return err
}
