package tmux

import (
	"strconv"
	"strings"
)

// Pane wraps a single pane: the window's default pane or the product of a
// split.
type Pane struct {
	target PaneTarget
}

func newPane(target PaneTarget) *Pane {
	return &Pane{target: target}
}

// Target returns the pane's addressing target.
func (p *Pane) Target() PaneTarget {
	return p.target
}

// Split returns a builder for a new pane next to this one.
func (p *Pane) Split(direction Direction) *SplitBuilder {
	return &SplitBuilder{sibling: p.target, direction: direction}
}

// Select makes this pane the active one.
func (p *Pane) Select() error {
	cmd, err := p.target.Command("select-pane")
	if err != nil {
		return err
	}
	return cmd.Run()
}

// RunCommand types the command into the pane and presses Enter. This is
// keystroke injection, not a programmatic exec: callers get no shell-escaping
// beyond what raw keystrokes imply.
func (p *Pane) RunCommand(command string) error {
	cmd, err := p.target.Command("send-keys")
	if err != nil {
		return err
	}
	return cmd.Append(command, "Enter").Run()
}

// SplitBuilder splits an existing pane.
type SplitBuilder struct {
	sibling   PaneTarget
	direction Direction
	root      Root
	size      *SplitSize
}

// Size sets the new pane's size. Percentages are bound-checked at Build, not
// here, so a builder can be reused to probe a boundary.
func (b *SplitBuilder) Size(size SplitSize) *SplitBuilder {
	b.size = &size
	return b
}

// Root sets an explicit working directory for the new pane.
func (b *SplitBuilder) Root(root Root) *SplitBuilder {
	b.root = root
	return b
}

// Requires tmux 3.1 and up: -l accepts both cell counts and percentages.
func (b *SplitBuilder) sizeOption() ([]string, error) {
	if b.size == nil {
		return nil, nil
	}
	switch b.size.kind {
	case sizePercentage:
		if b.size.value < 0 || b.size.value > 100 {
			return nil, &InvalidPercentageError{Value: b.size.value}
		}
		return []string{"-l", strconv.Itoa(b.size.value) + "%"}, nil
	default:
		return []string{"-l", strconv.Itoa(b.size.value)}, nil
	}
}

func (b *SplitBuilder) rootOption() []string {
	if b.root.IsDefault() {
		// The sibling pane's working directory at split time, resolved by
		// tmux's own substitution rather than queried here.
		return []string{"-c", "#{pane_current_path}"}
	}
	return []string{"-c", b.root.Path()}
}

func (b *SplitBuilder) splitCommand() (*Command, error) {
	cmd, err := b.sibling.Command("split-window")
	if err != nil {
		return nil, err
	}
	cmd.Append("-P", "-F", "#{pane_id}")
	switch b.direction {
	case Vertical:
		cmd.Append("-v")
	default:
		cmd.Append("-h")
	}

	sizeOpt, err := b.sizeOption()
	if err != nil {
		return nil, err
	}
	cmd.Append(sizeOpt...)
	cmd.Append(b.rootOption()...)
	return cmd, nil
}

// Build issues the split and wraps the new pane, deriving its target from
// the sibling's.
func (b *SplitBuilder) Build() (*Pane, error) {
	cmd, err := b.splitCommand()
	if err != nil {
		return nil, err
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	paneID := strings.TrimSpace(out)
	if paneID == "" {
		return nil, &MalformedResponseError{Raw: out}
	}
	return newPane(PaneTargetFromSibling(b.sibling, paneID)), nil
}
