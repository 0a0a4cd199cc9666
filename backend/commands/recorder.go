package commands

import (
	"context"
	"sync"
)

// Recorder is a Runner that records commands instead of executing them.
// Scripted outputs and errors are keyed by program name.
type Recorder struct {
	mu     sync.Mutex
	calls  []Command
	stdout map[string]string
	errs   map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{
		stdout: map[string]string{},
		errs:   map[string]error{},
	}
}

// Script sets the stdout and error returned for every run of name.
func (r *Recorder) Script(name, stdout string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stdout[name] = stdout
	if err != nil {
		r.errs[name] = err
	} else {
		delete(r.errs, name)
	}
	return r
}

func (r *Recorder) Run(_ context.Context, cmd Command) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, cmd)
	res := Result{Command: cmd, Stdout: r.stdout[cmd.Name]}
	if err := r.errs[cmd.Name]; err != nil {
		res.ExitCode = 1
		return res, err
	}
	return res, nil
}

// Calls returns a copy of every recorded command, in order.
func (r *Recorder) Calls() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.calls...)
}

// Count returns how many times name was run.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// DryRunner executes read-only queries for real and records everything else.
type DryRunner struct {
	*Recorder
	exec        Runner
	passthrough map[string]bool
}

func NewDryRunner(exec Runner, passthrough ...string) *DryRunner {
	d := &DryRunner{
		Recorder:    NewRecorder(),
		exec:        exec,
		passthrough: map[string]bool{},
	}
	for _, p := range passthrough {
		d.passthrough[p] = true
	}
	return d
}

func (d *DryRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if d.passthrough[cmd.Name] && d.exec != nil {
		return d.exec.Run(ctx, cmd)
	}
	return d.Recorder.Run(ctx, cmd)
}
