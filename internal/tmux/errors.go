package tmux

import (
	"fmt"
	"strings"
)

// ExecError reports a tmux invocation that exited non-zero or produced
// output that wasn't valid text. It is never retried here; callers decide.
type ExecError struct {
	Args   []string
	Stderr string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("tmux %s failed", strings.Join(e.Args, " "))
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// TargetNotFoundError reports that an existence probe failed before a
// targeted command was attempted.
type TargetNotFoundError struct {
	Address string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target %q doesn't exist", e.Address)
}

// AlreadyExistsError reports a session name collision detected before creation.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("session with name %q already exists", e.Name)
}

// MalformedResponseError reports stdout from tmux that didn't match the
// expected delimited-field format. Usually a version mismatch in tmux itself.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("couldn't parse tmux response: %q", e.Raw)
}

// RootNotFoundError reports a root directory that doesn't exist.
type RootNotFoundError struct {
	Path string
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("root doesn't exist: %s", e.Path)
}

// InvalidPercentageError reports a split percentage outside 0-100.
type InvalidPercentageError struct {
	Value int
}

func (e *InvalidPercentageError) Error() string {
	return fmt.Sprintf("percentage out of range: %d", e.Value)
}

// AttachFailedError reports that attach-session or switch-client itself
// failed after being spawned.
type AttachFailedError struct {
	Target string
	Stderr string
}

func (e *AttachFailedError) Error() string {
	msg := fmt.Sprintf("failed to attach to %q", e.Target)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}
