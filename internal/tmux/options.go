package tmux

import "os"

// Direction selects an axis for pane splitting and window layout evening.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Root is a working directory for a new session, window, or pane: either
// tmux's default or an explicit directory.
type Root struct {
	path string
}

// DefaultRoot inherits tmux's default working directory.
func DefaultRoot() Root {
	return Root{}
}

// CustomRoot uses an explicit directory, validated to exist here rather than
// when a process is eventually spawned.
func CustomRoot(path string) (Root, error) {
	if _, err := os.Stat(path); err != nil {
		return Root{}, &RootNotFoundError{Path: path}
	}
	return Root{path: path}, nil
}

// IsDefault reports whether the root inherits tmux's default.
func (r Root) IsDefault() bool { return r.path == "" }

// Path returns the explicit directory, empty for the default root.
func (r Root) Path() string { return r.path }

type sizeKind int

const (
	sizePercentage sizeKind = iota
	sizeAbsolute
)

// SplitSize is either a percentage of the window or an absolute cell count.
type SplitSize struct {
	kind  sizeKind
	value int
}

// Percentage sizes a split as a fraction of the window. The bound check
// happens at build time so a builder can be constructed once and reused to
// probe a boundary.
func Percentage(value int) SplitSize {
	return SplitSize{kind: sizePercentage, value: value}
}

// Absolute sizes a split as a cell count.
func Absolute(value int) SplitSize {
	return SplitSize{kind: sizeAbsolute, value: value}
}
