package tmux

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
)

// responseDelim separates identity fields in the -P -F creation responses.
const responseDelim = "|"

// TerminalState describes whether the calling process is already attached
// inside a tmux session.
type TerminalState int

const (
	Normal TerminalState = iota
	InTmux
)

// terminalState inspects the TMUX environment marker. Re-evaluated per call,
// never cached: the process environment can change between invocations.
func terminalState() TerminalState {
	if _, ok := os.LookupEnv("TMUX"); ok {
		return InTmux
	}
	return Normal
}

// ServerRunning reports whether a tmux server is reachable.
func ServerRunning(run Runner) (bool, error) {
	return run.Probe("display-message", "-p", "#{socket_path}")
}

// ActiveName returns the name of the session the calling process is attached
// to. An empty name is a valid state, not an error: it means the server isn't
// running or the caller isn't inside any session.
func ActiveName(run Runner) (string, error) {
	running, err := ServerRunning(run)
	if err != nil {
		return "", err
	}
	if !running || terminalState() == Normal {
		return "", nil
	}

	out, err := run.Output("display-message", "-p", "#{session_name}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ListSessions returns the names of all sessions. An empty list when the
// server isn't running is a valid state, not an error.
func ListSessions(run Runner) ([]string, error) {
	running, err := ServerRunning(run)
	if err != nil {
		return nil, err
	}
	if !running {
		return nil, nil
	}

	out, err := run.Output("list-sessions", "-F", "#{session_name}")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// SessionBuilder creates a new detached session.
type SessionBuilder struct {
	run  Runner
	name string
	root Root
}

func NewSessionBuilder(run Runner, name string) *SessionBuilder {
	return &SessionBuilder{run: run, name: name}
}

// Root sets an explicit working directory for the session.
func (b *SessionBuilder) Root(root Root) *SessionBuilder {
	b.root = root
	return b
}

// Build creates the session. It fails with *AlreadyExistsError when a session
// with that name exists, and parses tmux's two-field creation response to
// learn the ids of the session and its implicit first window.
func (b *SessionBuilder) Build() (*Session, error) {
	exists, err := NewSessionTarget(b.run, b.name).Exists()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &AlreadyExistsError{Name: b.name}
	}

	args := []string{
		"new-session", "-d", "-s", b.name,
		"-P", "-F", "#{window_id}" + responseDelim + "#{session_id}",
	}
	if !b.root.IsDefault() {
		args = append(args, "-c", b.root.Path())
	}

	out, err := b.run.Output(args...)
	if err != nil {
		return nil, err
	}

	defaultWindowID, sessionID, ok := strings.Cut(strings.TrimSpace(out), responseDelim)
	if !ok {
		return nil, &MalformedResponseError{Raw: out}
	}

	target := NewSessionTarget(b.run, sessionID)
	return &Session{
		run:           b.run,
		target:        target,
		defaultWindow: target.WindowTarget(defaultWindowID),
	}, nil
}

// Session owns a session target and the target of the implicitly-created
// first window, which the first explicitly-built window reclaims.
type Session struct {
	run           Runner
	target        SessionTarget
	defaultWindow WindowTarget

	// windowCount guards reclamation: exactly one concurrently-building
	// window must win the "am I first" check.
	mu          sync.Mutex
	windowCount int
}

// FromExisting recovers a Session handle for a session that already exists.
// It fails with *TargetNotFoundError when no such session is found.
func FromExisting(run Runner, identifier string) (*Session, error) {
	probe := NewSessionTarget(run, identifier)
	exists, err := probe.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &TargetNotFoundError{Address: identifier}
	}

	format := "#{window_id}" + responseDelim + "#{session_id}" + responseDelim + "#{session_windows}"
	out, err := run.Output("display-message", "-p", "-t", identifier, format)
	if err != nil {
		return nil, err
	}

	fields := strings.SplitN(strings.TrimSpace(out), responseDelim, 3)
	if len(fields) != 3 {
		return nil, &MalformedResponseError{Raw: out}
	}
	windowCount, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, &MalformedResponseError{Raw: out}
	}

	target := NewSessionTarget(run, fields[1])
	return &Session{
		run:           run,
		target:        target,
		defaultWindow: target.WindowTarget(fields[0]),
		windowCount:   windowCount,
	}, nil
}

// Target returns the session's addressing target.
func (s *Session) Target() SessionTarget {
	return s.target
}

// Attach brings the session to the foreground. Inside tmux it switches the
// current client and returns once the switch completes; outside it attaches
// and blocks for the duration of the user's interactive session.
func (s *Session) Attach() error {
	var subcommand string
	switch terminalState() {
	case InTmux:
		subcommand = "switch-client"
	default:
		subcommand = "attach-session"
	}

	cmd, err := s.target.Command(subcommand)
	if err != nil {
		return err
	}
	if err := cmd.Interactive(); err != nil {
		var execErr *ExecError
		if errors.As(err, &execErr) {
			return &AttachFailedError{Target: s.target.Address(), Stderr: execErr.Stderr}
		}
		return err
	}
	return nil
}

// registerWindow is called by every successful window build. The first call
// relocates the new window into the implicit default window's slot, killing
// it so exactly one window remains. Check and increment happen as one atomic
// step under the lock.
func (s *Session) registerWindow(w windowCore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.windowCount == 0 {
		if err := w.moveKill(s.defaultWindow); err != nil {
			return err
		}
	}
	s.windowCount++
	return nil
}
