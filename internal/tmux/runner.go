// Package tmux wraps the tmux command-line protocol behind a typed object
// model: sessions, windows, and panes addressed through immutable targets,
// created through validating builders. Every operation maps to exactly one
// spawned tmux process that the caller waits on.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// Environment variables selecting an alternate tmux server socket.
// They are mutually exclusive.
const (
	SocketNameEnv = "CELERIS_TMUX_SOCKET_NAME"
	SocketPathEnv = "CELERIS_TMUX_SOCKET_PATH"
)

// Runner abstracts tmux invocations so the object model can be tested
// without a tmux server.
type Runner interface {
	// Output runs tmux with the given arguments and returns captured stdout.
	// A non-zero exit or non-text output yields an *ExecError.
	Output(args ...string) (string, error)

	// Probe runs tmux and reports whether it exited zero. A non-zero exit is
	// a valid answer, not an error; the error is reserved for failing to
	// spawn tmux at all.
	Probe(args ...string) (bool, error)

	// Interactive runs tmux with the caller's stdin/stdout so it can take
	// over the terminal. Stderr is captured; on a non-zero exit it is
	// returned inside an *ExecError. Blocks until tmux exits.
	Interactive(args ...string) error
}

// CommandRunner invokes the real tmux binary.
type CommandRunner struct {
	bin        string
	socketArgs []string
}

// NewCommandRunner locates tmux and applies the socket override environment
// variables. Setting both overrides, or setting either to garbage, is a
// configuration error caught here before any command is issued.
func NewCommandRunner() (*CommandRunner, error) {
	bin, err := exec.LookPath("tmux")
	if err != nil {
		return nil, fmt.Errorf("tmux not found: %w", err)
	}

	socketArgs, err := socketOverride()
	if err != nil {
		return nil, err
	}

	return &CommandRunner{bin: bin, socketArgs: socketArgs}, nil
}

func socketOverride() ([]string, error) {
	name, nameSet := os.LookupEnv(SocketNameEnv)
	path, pathSet := os.LookupEnv(SocketPathEnv)

	if nameSet && pathSet {
		return nil, fmt.Errorf("%s and %s are mutually exclusive", SocketNameEnv, SocketPathEnv)
	}

	switch {
	case nameSet:
		if err := validSocketValue(SocketNameEnv, name); err != nil {
			return nil, err
		}
		return []string{"-L", name}, nil
	case pathSet:
		if err := validSocketValue(SocketPathEnv, path); err != nil {
			return nil, err
		}
		return []string{"-S", path}, nil
	}
	return nil, nil
}

func validSocketValue(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is set but empty", key)
	}
	if strings.ContainsRune(value, 0) || !utf8.ValidString(value) {
		return fmt.Errorf("%s contains invalid text", key)
	}
	return nil
}

func (r *CommandRunner) command(args []string) (*exec.Cmd, []string) {
	full := append(append([]string{}, r.socketArgs...), args...)
	return exec.Command(r.bin, full...), full
}

func (r *CommandRunner) Output(args ...string) (string, error) {
	cmd, full := r.command(args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return "", &ExecError{Args: full, Stderr: stderr.String()}
		}
		return "", fmt.Errorf("failed to execute tmux: %w", err)
	}

	if !utf8.Valid(stdout.Bytes()) || !utf8.Valid(stderr.Bytes()) {
		return "", &ExecError{Args: full, Stderr: "tmux returned invalid utf-8"}
	}
	return stdout.String(), nil
}

func (r *CommandRunner) Probe(args ...string) (bool, error) {
	cmd, _ := r.command(args)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("failed to execute tmux: %w", err)
	}
	return true, nil
}

func (r *CommandRunner) Interactive(args ...string) error {
	cmd, full := r.command(args)
	var stderr bytes.Buffer
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return &ExecError{Args: full, Stderr: stderr.String()}
		}
		return fmt.Errorf("failed to execute tmux: %w", err)
	}
	return nil
}

var _ Runner = (*CommandRunner)(nil)
