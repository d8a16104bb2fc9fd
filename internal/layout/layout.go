// Package layout names and stores session layouts. A layout lives as a
// yaml file in the layouts directory; its tmux-facing name may contain
// "/" segments which are flattened to "_" in the filename.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	storageDelim = "_"
	tmuxDelim    = "/"
	extension    = ".yaml"
)

// NotFoundError reports a lookup for a layout that does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("layout not found: %s", e.Name)
}

// AlreadyExistsError reports an attempt to create a layout under a taken name.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("layout already exists: %s", e.Name)
}

// InvalidNameError reports a layout name that tmux could not address.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid layout name %q: %s", e.Name, e.Reason)
}

// tmux treats these specially in target addresses, so a session named
// with one of them could never be addressed back.
const tmuxSpecialChars = "@$%:."

// Name is a validated layout name in its tmux-facing form.
type Name struct {
	tmuxName string
}

// NewName validates a tmux-facing layout name.
func NewName(name string) (Name, error) {
	if name == "" {
		return Name{}, &InvalidNameError{Name: name, Reason: "name is empty"}
	}
	if strings.ContainsAny(name, tmuxSpecialChars) {
		return Name{}, &InvalidNameError{
			Name:   name,
			Reason: "name contains characters that tmux treats specially",
		}
	}
	return Name{tmuxName: name}, nil
}

// nameFromStorage recovers the tmux-facing name from a stored filename stem.
func nameFromStorage(stem string) (Name, error) {
	return NewName(strings.ReplaceAll(stem, storageDelim, tmuxDelim))
}

// DeduceName derives a unique layout name from a directory path. It starts
// with the base name and prefixes parent directories one at a time until the
// name is free; running out of parents yields an AlreadyExistsError.
func DeduceName(path string, m *Manager) (Name, error) {
	path = filepath.Clean(path)
	name := filepath.Base(path)

	for dir := filepath.Dir(path); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if !m.Contains(name) {
			break
		}
		name = filepath.Base(dir) + tmuxDelim + name
	}

	if m.Contains(name) {
		return Name{}, &AlreadyExistsError{Name: name}
	}
	return NewName(name)
}

// Layout pairs a tmux-facing name with the filename it is stored under.
type Layout struct {
	tmuxName    string
	storageName string
}

// New builds a Layout from a validated name.
func New(name Name) Layout {
	storage := strings.ReplaceAll(name.tmuxName, tmuxDelim, storageDelim)
	return Layout{tmuxName: name.tmuxName, storageName: sanitizeFilename(storage)}
}

func (l Layout) TmuxName() string { return l.tmuxName }

func (l Layout) storagePath(dir string) string {
	return filepath.Join(dir, l.storageName+extension)
}

// sanitizeFilename strips characters that common filesystems reject.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\?*:|"<>`, r) || r < 0x20 {
			return -1
		}
		return r
	}, name)
}

// Manager tracks the layouts stored in a single directory.
type Manager struct {
	dir     string
	layouts []Layout
}

// NewManager enumerates the yaml files in layoutsDir.
func NewManager(layoutsDir string) (*Manager, error) {
	entries, err := os.ReadDir(layoutsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read layouts dir %s: %w", layoutsDir, err)
	}

	var layouts []Layout
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != extension {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), extension)
		name, err := nameFromStorage(stem)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, New(name))
	}
	return &Manager{dir: layoutsDir, layouts: layouts}, nil
}

func (m *Manager) Contains(tmuxName string) bool {
	for _, l := range m.layouts {
		if l.tmuxName == tmuxName {
			return true
		}
	}
	return false
}

// Layout looks up a layout by its tmux-facing name.
func (m *Manager) Layout(tmuxName string) (Layout, bool) {
	for _, l := range m.layouts {
		if l.tmuxName == tmuxName {
			return l, true
		}
	}
	return Layout{}, false
}

// List returns the tmux-facing names of every stored layout.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.layouts))
	for _, l := range m.layouts {
		names = append(names, l.tmuxName)
	}
	return names
}

// Path returns the on-disk location of a stored layout.
func (m *Manager) Path(tmuxName string) (string, error) {
	l, ok := m.Layout(tmuxName)
	if !ok {
		return "", &NotFoundError{Name: tmuxName}
	}
	return l.storagePath(m.dir), nil
}

// Create registers a layout and creates its empty file. The name must be
// free both in the registry and on disk.
func (m *Manager) Create(l Layout) (string, error) {
	for _, existing := range m.layouts {
		if existing.tmuxName == l.tmuxName || existing.storageName == l.storageName {
			return "", &AlreadyExistsError{Name: l.tmuxName}
		}
	}

	path := l.storagePath(m.dir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", &AlreadyExistsError{Name: l.tmuxName}
		}
		return "", fmt.Errorf("failed to create layout %s: %w", l.tmuxName, err)
	}
	f.Close()

	m.layouts = append(m.layouts, l)
	return path, nil
}

// Remove deletes a layout and its file.
func (m *Manager) Remove(tmuxName string) error {
	l, ok := m.Layout(tmuxName)
	if !ok {
		return &NotFoundError{Name: tmuxName}
	}
	if err := os.Remove(l.storagePath(m.dir)); err != nil {
		return fmt.Errorf("failed to remove layout %s: %w", tmuxName, err)
	}

	kept := m.layouts[:0]
	for _, existing := range m.layouts {
		if existing.tmuxName != tmuxName {
			kept = append(kept, existing)
		}
	}
	m.layouts = kept
	return nil
}
