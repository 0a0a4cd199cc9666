package commands

import "fmt"

// NotFoundError is returned when the program is not in PATH.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Name)
}

// ExitError is returned when a command could not run or exited non-zero.
type ExitError struct {
	Command Command
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit %d: %s", e.Command, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s: exit %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
