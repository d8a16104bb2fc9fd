// Package script runs yaml layout documents against a tmux server. A
// document describes the session a layout opens: its windows, the splits
// inside them, and the commands each pane starts with.
package script

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0xsch1zo/celeris/internal/repos"
	"github.com/0xsch1zo/celeris/internal/tmux"
)

// Document is the top-level layout schema.
type Document struct {
	Root    string       `yaml:"root"`
	Windows []WindowSpec `yaml:"windows"`
}

// WindowSpec describes one window. Command replaces the default pane's
// shell, the way a trailing shell-command argument to new-window does.
type WindowSpec struct {
	Name     string     `yaml:"name"`
	Root     string     `yaml:"root"`
	Command  string     `yaml:"command"`
	EvenOut  string     `yaml:"even_out"` // "", "horizontal" or "vertical"
	Selected bool       `yaml:"selected"`
	Panes    []PaneSpec `yaml:"panes"`
}

// PaneSpec describes one split off the previously created pane. Command is
// typed into the new pane's shell rather than replacing it.
type PaneSpec struct {
	Split    string `yaml:"split"` // "vertical" or "horizontal"
	Size     string `yaml:"size"`  // "30%" or an absolute line/column count
	Root     string `yaml:"root"`
	Command  string `yaml:"command"`
	Selected bool   `yaml:"selected"`
}

// Load parses and validates a layout document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return &doc, nil
}

func (d *Document) validate() error {
	selectedWindows := 0
	for i, w := range d.Windows {
		if w.Selected {
			selectedWindows++
		}
		if w.EvenOut != "" {
			if _, err := parseDirection(w.EvenOut); err != nil {
				return fmt.Errorf("window %d: %w", i, err)
			}
		}

		selectedPanes := 0
		for j, p := range w.Panes {
			if p.Selected {
				selectedPanes++
			}
			if _, err := parseDirection(p.Split); err != nil {
				return fmt.Errorf("window %d, pane %d: %w", i, j, err)
			}
			if p.Size != "" {
				if _, err := parseSize(p.Size); err != nil {
					return fmt.Errorf("window %d, pane %d: %w", i, j, err)
				}
			}
		}
		if selectedPanes > 1 {
			return fmt.Errorf("window %d selects more than one pane", i)
		}
	}
	if selectedWindows > 1 {
		return fmt.Errorf("more than one window is selected")
	}
	return nil
}

func parseDirection(s string) (tmux.Direction, error) {
	switch s {
	case "horizontal":
		return tmux.Horizontal, nil
	case "vertical":
		return tmux.Vertical, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func parseSize(s string) (tmux.SplitSize, error) {
	if rest, ok := strings.CutSuffix(s, "%"); ok {
		value, err := strconv.Atoi(rest)
		if err != nil {
			return tmux.SplitSize{}, fmt.Errorf("invalid percentage size %q", s)
		}
		return tmux.Percentage(value), nil
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return tmux.SplitSize{}, fmt.Errorf("invalid size %q", s)
	}
	return tmux.Absolute(value), nil
}

func parseRoot(path string) (tmux.Root, error) {
	if path == "" {
		return tmux.DefaultRoot(), nil
	}
	return tmux.CustomRoot(repos.Expand(path))
}

// Run builds the session a document describes. The returned session is not
// attached; the caller decides whether to attach or switch.
func Run(run tmux.Runner, sessionName, path string) (*tmux.Session, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	builder := tmux.NewSessionBuilder(run, sessionName)
	root, err := parseRoot(doc.Root)
	if err != nil {
		return nil, err
	}
	if !root.IsDefault() {
		builder.Root(root)
	}

	session, err := builder.Build()
	if err != nil {
		return nil, err
	}

	var selectedWindow *tmux.Window
	var selectedPane *tmux.Pane
	for _, spec := range doc.Windows {
		window, pane, err := buildWindow(session, spec)
		if err != nil {
			return nil, err
		}
		if spec.Selected {
			selectedWindow = window
		}
		if pane != nil {
			selectedPane = pane
		}
	}

	// selection runs last so later window creation can't steal focus back
	if selectedWindow != nil {
		if err := selectedWindow.Select(); err != nil {
			return nil, err
		}
	}
	if selectedPane != nil {
		if err := selectedPane.Select(); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// buildWindow creates one window with its splits. Each pane spec splits off
// the most recently created pane, starting from the window's default pane.
func buildWindow(session *tmux.Session, spec WindowSpec) (*tmux.Window, *tmux.Pane, error) {
	builder := tmux.NewWindowBuilder(session)
	if spec.Name != "" {
		builder.Name(spec.Name)
	}
	root, err := parseRoot(spec.Root)
	if err != nil {
		return nil, nil, err
	}
	if !root.IsDefault() {
		builder.Root(root)
	}
	if spec.Command != "" {
		builder.ShellCommand(spec.Command)
	}

	window, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}

	var selectedPane *tmux.Pane
	current := window.DefaultPane()
	for _, paneSpec := range spec.Panes {
		current, err = buildPane(current, paneSpec)
		if err != nil {
			return nil, nil, err
		}
		if paneSpec.Selected {
			selectedPane = current
		}
	}

	if spec.EvenOut != "" {
		direction, err := parseDirection(spec.EvenOut)
		if err != nil {
			return nil, nil, err
		}
		if err := window.EvenOut(direction); err != nil {
			return nil, nil, err
		}
	}
	return window, selectedPane, nil
}

func buildPane(sibling *tmux.Pane, spec PaneSpec) (*tmux.Pane, error) {
	direction, err := parseDirection(spec.Split)
	if err != nil {
		return nil, err
	}

	builder := sibling.Split(direction)
	if spec.Size != "" {
		size, err := parseSize(spec.Size)
		if err != nil {
			return nil, err
		}
		builder.Size(size)
	}
	root, err := parseRoot(spec.Root)
	if err != nil {
		return nil, err
	}
	if !root.IsDefault() {
		builder.Root(root)
	}

	pane, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if spec.Command != "" {
		if err := pane.RunCommand(spec.Command); err != nil {
			return nil, err
		}
	}
	return pane, nil
}
