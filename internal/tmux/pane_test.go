package tmux

import (
	"errors"
	"testing"
)

func buildTestPane(t *testing.T, run *fakeRunner) *Pane {
	t.Helper()
	return buildTestWindow(t, run, nil).DefaultPane()
}

func TestSplit(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["split-window"] = "%7\n"

	split, err := pane.Split(Vertical).Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := split.Target().Address(); got != "$1:@2.%7" {
		t.Errorf("split pane target = %q, want %q", got, "$1:@2.%7")
	}

	call := run.lastCall(t)
	if call[0] != "split-window" || !hasArgPair(call, "-t", "$1:@2.%5") {
		t.Errorf("split command = %v", call)
	}
	if !hasArg(call, "-v") || !hasArg(call, "-P") || !hasArgPair(call, "-F", "#{pane_id}") {
		t.Errorf("split command = %v", call)
	}
	// Default root: the sibling's working directory at split time, resolved
	// by tmux itself.
	if !hasArgPair(call, "-c", "#{pane_current_path}") {
		t.Errorf("split command missing inherited root: %v", call)
	}
}

func TestSplitHorizontal(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["split-window"] = "%7\n"

	if _, err := pane.Split(Horizontal).Build(); err != nil {
		t.Fatal(err)
	}
	if call := run.lastCall(t); !hasArg(call, "-h") {
		t.Errorf("split command = %v", call)
	}
}

func TestSplitSizes(t *testing.T) {
	tests := []struct {
		name string
		size SplitSize
		want string
	}{
		{name: "percentage", size: Percentage(30), want: "30%"},
		{name: "percentage boundary", size: Percentage(100), want: "100%"},
		{name: "zero percentage", size: Percentage(0), want: "0%"},
		{name: "absolute", size: Absolute(1), want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newFakeRunner()
			pane := buildTestPane(t, run)
			run.outputs["split-window"] = "%7\n"

			if _, err := pane.Split(Horizontal).Size(tt.size).Build(); err != nil {
				t.Fatal(err)
			}
			if call := run.lastCall(t); !hasArgPair(call, "-l", tt.want) {
				t.Errorf("split command = %v, want -l %s", call, tt.want)
			}
		})
	}
}

func TestSplitInvalidPercentage(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["split-window"] = "%7\n"

	// The builder stays reusable across builds, so the boundary can be
	// probed with the same builder.
	builder := pane.Split(Horizontal)
	if _, err := builder.Size(Percentage(100)).Build(); err != nil {
		t.Fatal(err)
	}

	_, err := builder.Size(Percentage(101)).Build()
	var invalid *InvalidPercentageError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidPercentageError", err)
	}
	if invalid.Value != 101 {
		t.Errorf("invalid value = %d, want 101", invalid.Value)
	}

	if _, err := builder.Size(Percentage(-1)).Build(); !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidPercentageError", err)
	}
}

func TestSplitCustomRoot(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["split-window"] = "%7\n"

	root, err := CustomRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pane.Split(Vertical).Root(root).Build(); err != nil {
		t.Fatal(err)
	}
	if call := run.lastCall(t); !hasArgPair(call, "-c", root.Path()) {
		t.Errorf("split command missing custom root: %v", call)
	}
}

func TestCustomRootNotFound(t *testing.T) {
	_, err := CustomRoot("/definitely/not/a/real/path")
	var notFound *RootNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *RootNotFoundError", err)
	}
	if notFound.Path != "/definitely/not/a/real/path" {
		t.Errorf("missing path = %q", notFound.Path)
	}
}

func TestSplitMalformedResponse(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["split-window"] = "\n"

	_, err := pane.Split(Vertical).Build()
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
}

func TestPaneSelect(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["select-pane"] = ""

	if err := pane.Select(); err != nil {
		t.Fatal(err)
	}
	call := run.lastCall(t)
	if call[0] != "select-pane" || !hasArgPair(call, "-t", "$1:@2.%5") {
		t.Errorf("select command = %v", call)
	}
}

func TestPaneRunCommand(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	run.outputs["send-keys"] = ""

	if err := pane.RunCommand("make test"); err != nil {
		t.Fatal(err)
	}
	call := run.lastCall(t)
	if call[0] != "send-keys" || !hasArgPair(call, "-t", "$1:@2.%5") {
		t.Errorf("run-command = %v", call)
	}
	// Keystroke injection: the text, then the activation keystroke.
	if call[len(call)-2] != "make test" || call[len(call)-1] != "Enter" {
		t.Errorf("run-command keystrokes = %v", call)
	}
}

func TestPaneRunCommandStaleTarget(t *testing.T) {
	run := newFakeRunner()
	pane := buildTestPane(t, run)
	delete(run.existing, "$1:@2.%5")

	err := pane.RunCommand("ls")
	var notFound *TargetNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *TargetNotFoundError", err)
	}
}
