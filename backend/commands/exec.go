package commands

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/b0bbywan/go-powermenu/logger"
)

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds waited commands. Detached commands are not bounded.
	Timeout  time.Duration
	lookPath func(string) (string, error)
}

func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		Timeout:  timeout,
		lookPath: exec.LookPath,
	}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	res := Result{Command: cmd}
	if cmd.IsZero() {
		return res, errors.New("empty command")
	}

	path, err := r.lookPath(cmd.Name)
	if err != nil {
		logger.Debug("[commands] lookup %s: %v", cmd.Name, err)
		res.ExitCode = -1
		return res, &NotFoundError{Name: cmd.Name}
	}

	if cmd.Detach {
		return r.start(path, cmd, res)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger.Debug("[commands] running %s", cmd)
	start := time.Now()
	err = c.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			err = errors.Wrap(ctx.Err(), err.Error())
		}
		return res, &ExitError{
			Command: cmd,
			Code:    res.ExitCode,
			Stderr:  strings.TrimSpace(res.Stderr),
			Err:     errors.Wrapf(err, "run %s", cmd.Name),
		}
	}

	logger.Debug("[commands] %s finished in %s", cmd, res.Duration)
	return res, nil
}

// start launches a detached command and reaps it in the background.
func (r *ExecRunner) start(path string, cmd Command, res Result) (Result, error) {
	c := exec.Command(path, cmd.Args...)
	if err := c.Start(); err != nil {
		res.ExitCode = -1
		return res, &ExitError{
			Command: cmd,
			Code:    -1,
			Err:     errors.Wrapf(err, "start %s", cmd.Name),
		}
	}

	logger.Debug("[commands] started %s (pid %d)", cmd, c.Process.Pid)
	go func() {
		started := time.Now()
		if err := c.Wait(); err != nil {
			logger.Warn("[commands] %s exited after %s: %v", cmd, time.Since(started).Round(time.Millisecond), err)
			return
		}
		logger.Debug("[commands] %s exited after %s", cmd, time.Since(started).Round(time.Millisecond))
	}()
	return res, nil
}
