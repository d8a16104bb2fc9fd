package tmux

import "strings"

// WindowBuilder creates a window inside a session.
type WindowBuilder struct {
	session      *Session
	name         string
	shellCommand string
	root         Root
}

func NewWindowBuilder(session *Session) *WindowBuilder {
	return &WindowBuilder{session: session}
}

// Name sets the window name. A named window also gets its auto-rename
// behavior locked off at build time, so tmux won't rename it based on
// running-command heuristics.
func (b *WindowBuilder) Name(name string) *WindowBuilder {
	b.name = name
	return b
}

// Root sets an explicit working directory for the window.
func (b *WindowBuilder) Root(root Root) *WindowBuilder {
	b.root = root
	return b
}

// ShellCommand sets a command to run in the window instead of a shell.
func (b *WindowBuilder) ShellCommand(command string) *WindowBuilder {
	b.shellCommand = command
	return b
}

func (b *WindowBuilder) options() []string {
	var opts []string
	if b.name != "" {
		opts = append(opts, "-n", b.name)
	}
	if b.root.IsDefault() {
		// Inherit the working directory from the session's context rather
		// than from the calling process's environment.
		opts = append(opts, "-c", "#{pane_current_path}")
	} else {
		opts = append(opts, "-c", b.root.Path())
	}
	if b.shellCommand != "" {
		opts = append(opts, b.shellCommand)
	}
	return opts
}

// createWindow is the first construction phase: it yields an identity-only
// record holding the window target and its default pane's target, without a
// Pane object, so session registration can happen before the pane wrapper
// exists.
func (b *WindowBuilder) createWindow() (windowCore, error) {
	cmd, err := b.session.Target().Command("new-window")
	if err != nil {
		return windowCore{}, err
	}

	out, err := cmd.
		Append("-P", "-F", "#{pane_id}"+responseDelim+"#{window_id}").
		Append(b.options()...).
		Output()
	if err != nil {
		return windowCore{}, err
	}

	defaultPaneID, windowID, ok := strings.Cut(strings.TrimSpace(out), responseDelim)
	if !ok {
		return windowCore{}, &MalformedResponseError{Raw: out}
	}

	target := b.session.Target().WindowTarget(windowID)
	return windowCore{
		target:            target,
		defaultPaneTarget: target.PaneTarget(defaultPaneID),
	}, nil
}

// Build creates the window, registers it with the session (reclaiming the
// implicit first window if this is the session's first build), and assembles
// the Window with its default pane.
func (b *WindowBuilder) Build() (*Window, error) {
	core, err := b.createWindow()
	if err != nil {
		return nil, err
	}
	if err := b.session.registerWindow(core); err != nil {
		return nil, err
	}

	if b.name != "" {
		if err := core.setOption("allow-rename", "off"); err != nil {
			return nil, err
		}
	}
	return newWindow(core), nil
}

// windowCore is the window's identity record: targets only, no pane object.
// It breaks the construction cycle between a window and its default pane.
type windowCore struct {
	target            WindowTarget
	defaultPaneTarget PaneTarget
}

func (w windowCore) setOption(option, value string) error {
	cmd, err := w.target.Command("set-window-option")
	if err != nil {
		return err
	}
	return cmd.Append(option, value).Run()
}

func (w windowCore) selectWindow() error {
	cmd, err := w.target.Command("select-window")
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (w windowCore) evenOut(direction Direction) error {
	cmd, err := w.target.Command("select-layout")
	if err != nil {
		return err
	}
	switch direction {
	case Vertical:
		cmd.Append("even-vertical")
	default:
		cmd.Append("even-horizontal")
	}
	return cmd.Run()
}

// moveKill relocates this window into other's slot, destroying other. Only
// used to reclaim the session's implicit default window.
func (w windowCore) moveKill(other WindowTarget) error {
	cmd, err := w.target.Command("move-window")
	if err != nil {
		return err
	}
	return cmd.Append("-s", w.target.Address(), "-t", other.Address(), "-k").Run()
}

// Window wraps a created window and its default pane. The window owns the
// pane; there is no circular ownership.
type Window struct {
	core        windowCore
	defaultPane *Pane
}

func newWindow(core windowCore) *Window {
	return &Window{
		core:        core,
		defaultPane: newPane(core.defaultPaneTarget),
	}
}

// DefaultPane returns the pane created atomically with the window.
func (w *Window) DefaultPane() *Pane {
	return w.defaultPane
}

// EvenOut re-flows all panes in the window to equal sizes along the axis.
func (w *Window) EvenOut(direction Direction) error {
	return w.core.evenOut(direction)
}

// Select makes this window the active one within its session.
func (w *Window) Select() error {
	return w.core.selectWindow()
}

// Target returns the window's addressing target.
func (w *Window) Target() WindowTarget {
	return w.core.target
}
