package tmux

// Target is an addressing identity for a session, window, or pane. The
// address string is always exactly tmux's own addressing syntax for that
// identity. Targets are immutable; deriving a child target never mutates
// the parent.
type Target interface {
	// Address returns the tmux addressing string. Pure.
	Address() string

	// Exists probes tmux for the target. Callers must check this before
	// issuing a targeted command that can't tolerate a stale target: tmux
	// errors ambiguously (bare exit 1) when a target has disappeared
	// out-of-band.
	Exists() (bool, error)

	// Command returns a command scoped to this target, or a
	// *TargetNotFoundError when the target no longer exists.
	Command(subcommand string) (*Command, error)

	runner() Runner
}

// Command accumulates arguments for a single tmux invocation.
type Command struct {
	run  Runner
	args []string
}

// Append adds arguments and returns the command for chaining.
func (c *Command) Append(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// Output executes the command and returns captured stdout.
func (c *Command) Output() (string, error) {
	return c.run.Output(c.args...)
}

// Run executes the command, discarding stdout.
func (c *Command) Run() error {
	_, err := c.run.Output(c.args...)
	return err
}

// Interactive executes the command with the caller's terminal attached,
// blocking until tmux exits.
func (c *Command) Interactive() error {
	return c.run.Interactive(c.args...)
}

func targetExists(run Runner, address string) (bool, error) {
	return run.Probe("has-session", "-t", address)
}

// targetedCommand fails fast with a descriptive error instead of letting
// tmux's bare non-zero exit propagate.
func targetedCommand(t Target, subcommand string) (*Command, error) {
	exists, err := t.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &TargetNotFoundError{Address: t.Address()}
	}
	return &Command{run: t.runner(), args: []string{subcommand, "-t", t.Address()}}, nil
}

// SessionTarget addresses a session by id.
type SessionTarget struct {
	run       Runner
	sessionID string
}

// NewSessionTarget builds a session target. Pure; tmux is not consulted.
func NewSessionTarget(run Runner, sessionID string) SessionTarget {
	return SessionTarget{run: run, sessionID: sessionID}
}

func (t SessionTarget) Address() string { return t.sessionID }

func (t SessionTarget) Exists() (bool, error) {
	return targetExists(t.run, t.Address())
}

func (t SessionTarget) Command(subcommand string) (*Command, error) {
	return targetedCommand(t, subcommand)
}

// WindowTarget derives a window target within this session. Pure.
func (t SessionTarget) WindowTarget(windowID string) WindowTarget {
	return WindowTarget{run: t.run, sessionID: t.sessionID, windowID: windowID}
}

func (t SessionTarget) runner() Runner { return t.run }

// WindowTarget addresses a window inside a session.
type WindowTarget struct {
	run       Runner
	sessionID string
	windowID  string
}

func (t WindowTarget) Address() string { return t.sessionID + ":" + t.windowID }

func (t WindowTarget) Exists() (bool, error) {
	return targetExists(t.run, t.Address())
}

func (t WindowTarget) Command(subcommand string) (*Command, error) {
	return targetedCommand(t, subcommand)
}

// PaneTarget derives a pane target within this window. Pure.
func (t WindowTarget) PaneTarget(paneID string) PaneTarget {
	return PaneTarget{run: t.run, sessionID: t.sessionID, windowID: t.windowID, paneID: paneID}
}

func (t WindowTarget) runner() Runner { return t.run }

// PaneTarget addresses a pane inside a window.
type PaneTarget struct {
	run       Runner
	sessionID string
	windowID  string
	paneID    string
}

func (t PaneTarget) Address() string {
	return t.sessionID + ":" + t.windowID + "." + t.paneID
}

func (t PaneTarget) Exists() (bool, error) {
	return targetExists(t.run, t.Address())
}

func (t PaneTarget) Command(subcommand string) (*Command, error) {
	return targetedCommand(t, subcommand)
}

func (t PaneTarget) runner() Runner { return t.run }

// PaneTargetFromSibling derives the target of a new pane on the same window
// as sibling. Used after a split produces a new pane id. Pure.
func PaneTargetFromSibling(sibling PaneTarget, paneID string) PaneTarget {
	return PaneTarget{
		run:       sibling.run,
		sessionID: sibling.sessionID,
		windowID:  sibling.windowID,
		paneID:    paneID,
	}
}

var (
	_ Target = SessionTarget{}
	_ Target = WindowTarget{}
	_ Target = PaneTarget{}
)
