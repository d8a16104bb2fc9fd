// Package sessions ties the layers together: layouts on disk, sessions on
// the tmux server, and the switch history in the state store.
package sessions

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/0xsch1zo/celeris/internal/config"
	"github.com/0xsch1zo/celeris/internal/layout"
	"github.com/0xsch1zo/celeris/internal/repos"
	"github.com/0xsch1zo/celeris/internal/script"
	"github.com/0xsch1zo/celeris/internal/state"
	"github.com/0xsch1zo/celeris/internal/tmux"
)

// ErrAlreadyActive reports a switch to the session the client is already in.
var ErrAlreadyActive = errors.New("session is already attached")

// ErrNoLastSession reports a --last switch before any history exists.
var ErrNoLastSession = errors.New("no last session saved")

// Manager orchestrates layouts, running tmux sessions, and switch history.
type Manager struct {
	run     tmux.Runner
	layouts *layout.Manager
	cfg     *config.Config
	store   *state.Store
}

func NewManager(run tmux.Runner, layouts *layout.Manager, cfg *config.Config, store *state.Store) *Manager {
	return &Manager{run: run, layouts: layouts, cfg: cfg, store: store}
}

// Switch moves the client to a session: a no-op when it is already active,
// an attach when it is running, and a layout run otherwise.
func (m *Manager) Switch(name string) error {
	active, err := tmux.ActiveName(m.run)
	if err != nil {
		return fmt.Errorf("failed to get the active session: %w", err)
	}
	if active != "" && name == active {
		return ErrAlreadyActive
	}

	running, err := tmux.ListSessions(m.run)
	if err != nil {
		return fmt.Errorf("failed to list running sessions: %w", err)
	}

	// recorded up front since attaching can block until the client leaves
	if err := m.store.RecordSwitch(name); err != nil {
		return fmt.Errorf("failed to record the switch: %w", err)
	}

	var session *tmux.Session
	if slices.Contains(running, name) {
		session, err = tmux.FromExisting(m.run, name)
	} else {
		session, err = m.runLayout(name)
	}
	if err != nil {
		return err
	}
	return session.Attach()
}

// SwitchLast goes back to the session the user switched away from.
func (m *Manager) SwitchLast() error {
	last, err := m.store.LastSession()
	if err != nil {
		return fmt.Errorf("failed to retrieve the last session: %w", err)
	}
	if last == "" {
		return ErrNoLastSession
	}
	return m.Switch(last)
}

func (m *Manager) runLayout(name string) (*tmux.Session, error) {
	path, err := m.layouts.Path(name)
	if err != nil {
		return nil, err
	}
	session, err := script.Run(m.run, name, path)
	if err != nil {
		return nil, fmt.Errorf("failed to run the layout %s: %w", name, err)
	}
	return session, nil
}

// ListOptions filters the session listing.
type ListOptions struct {
	IncludeActive  bool
	ExcludeRunning bool
}

// List unions stored layouts with running sessions, sorted and deduplicated.
// The active session carries a "*" suffix and is dropped unless IncludeActive
// is set.
func (m *Manager) List(opts ListOptions) ([]string, error) {
	running, err := tmux.ListSessions(m.run)
	if err != nil {
		return nil, fmt.Errorf("failed to list running sessions: %w", err)
	}
	active, err := tmux.ActiveName(m.run)
	if err != nil {
		return nil, fmt.Errorf("failed to get the active session: %w", err)
	}

	names := append(m.layouts.List(), running...)
	listed := make([]string, 0, len(names))
	for _, name := range names {
		if name == active {
			if !opts.IncludeActive {
				continue
			}
			name += "*"
		} else if opts.ExcludeRunning && slices.Contains(running, name) {
			continue
		}
		listed = append(listed, name)
	}

	slices.Sort(listed)
	return slices.Compact(listed), nil
}

// Create registers a new layout. With a custom name the name is taken as
// given; otherwise it is deduced from the path, prefixing parent directories
// until unique. The layout file starts out pointing at the path.
func (m *Manager) Create(path, customName string) (string, error) {
	path = repos.Expand(path)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("session path not found: %s", path)
	}

	var name layout.Name
	var err error
	if customName != "" {
		name, err = layout.NewName(customName)
	} else {
		name, err = layout.DeduceName(path, m.layouts)
	}
	if err != nil {
		return "", err
	}

	l := layout.New(name)
	file, err := m.layouts.Create(l)
	if err != nil {
		return "", err
	}
	seed := fmt.Sprintf("root: %s\n", path)
	if err := os.WriteFile(file, []byte(seed), 0o644); err != nil {
		return "", fmt.Errorf("failed to seed the layout file %s: %w", file, err)
	}
	return l.TmuxName(), nil
}

// Edit opens a layout in the configured editor.
func (m *Manager) Edit(name string) error {
	path, err := m.layouts.Path(name)
	if err != nil {
		return err
	}

	editor := exec.Command(m.cfg.EditorCommand(), path)
	editor.Stdin = os.Stdin
	editor.Stdout = os.Stdout
	editor.Stderr = os.Stderr
	if err := editor.Run(); err != nil {
		return fmt.Errorf("editor failed on %s: %w", path, err)
	}
	return nil
}

// Remove deletes a layout and its usage history.
func (m *Manager) Remove(name string) error {
	if err := m.layouts.Remove(name); err != nil {
		return err
	}
	if err := m.store.Forget(name); err != nil {
		return fmt.Errorf("failed to drop the history of %s: %w", name, err)
	}
	return nil
}

// Usage exposes the recorded layout history, most recent first.
func (m *Manager) Usage() ([]state.LayoutUsage, error) {
	return m.store.Usage()
}

// SessionInfo is one entry of the rich listing the picker renders.
type SessionInfo struct {
	Name       string
	Running    bool
	Active     bool
	LastOpened time.Time
}

// Sessions unions stored layouts with running sessions, annotated with the
// recorded usage and ordered most recently opened first. Entries without
// history sort last, by name.
func (m *Manager) Sessions() ([]SessionInfo, error) {
	running, err := tmux.ListSessions(m.run)
	if err != nil {
		return nil, fmt.Errorf("failed to list running sessions: %w", err)
	}
	active, err := tmux.ActiveName(m.run)
	if err != nil {
		return nil, fmt.Errorf("failed to get the active session: %w", err)
	}
	usage, err := m.store.Usage()
	if err != nil {
		return nil, fmt.Errorf("failed to load the usage history: %w", err)
	}

	lastOpened := make(map[string]time.Time, len(usage))
	for _, u := range usage {
		lastOpened[u.Name] = u.LastOpened
	}

	seen := make(map[string]bool)
	var infos []SessionInfo
	for _, name := range append(m.layouts.List(), running...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		infos = append(infos, SessionInfo{
			Name:       name,
			Running:    slices.Contains(running, name),
			Active:     name == active && active != "",
			LastOpened: lastOpened[name],
		})
	}

	slices.SortFunc(infos, func(a, b SessionInfo) int {
		if !a.LastOpened.Equal(b.LastOpened) {
			return b.LastOpened.Compare(a.LastOpened)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return infos, nil
}
