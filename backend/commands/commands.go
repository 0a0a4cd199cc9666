// Package commands is the process-spawn boundary. Everything that starts an
// external program goes through a Runner so dispatch can be observed in tests.
package commands

import (
	"context"
	"strings"
	"time"
)

// Command is one external program invocation.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
	// Detach starts the program without waiting for it (screen lockers
	// block until the session is unlocked).
	Detach bool `json:"detach,omitempty"`
}

// New builds a waited command from an argv slice. An empty argv yields the zero Command.
func New(argv ...string) Command {
	if len(argv) == 0 {
		return Command{}
	}
	return Command{Name: argv[0], Args: append([]string(nil), argv[1:]...)}
}

func (c Command) IsZero() bool {
	return c.Name == ""
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result describes a finished (or, for detached commands, started) invocation.
type Result struct {
	Command  Command       `json:"command"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}
