package tmux

import (
	"errors"
	"os"
	"sync"
	"testing"
)

// unsetTmuxEnv clears the TMUX marker for the duration of a test, restoring
// the original value afterwards.
func unsetTmuxEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TMUX", "")
	os.Unsetenv("TMUX")
}

// buildTestSession creates a session "work" backed by the fake, registering
// its id so later targeted commands pass the existence probe.
func buildTestSession(t *testing.T, run *fakeRunner) *Session {
	t.Helper()
	run.outputs["new-session"] = "@1|$1\n"
	session, err := NewSessionBuilder(run, "work").Build()
	if err != nil {
		t.Fatal(err)
	}
	run.existing["$1"] = true
	return session
}

func TestSessionBuild(t *testing.T) {
	run := newFakeRunner()
	session := buildTestSession(t, run)

	if got := session.Target().Address(); got != "$1" {
		t.Errorf("session target = %q, want %q", got, "$1")
	}
	if got := session.defaultWindow.Address(); got != "$1:@1" {
		t.Errorf("default window target = %q, want %q", got, "$1:@1")
	}

	call := run.lastCall(t)
	if call[0] != "new-session" || !hasArg(call, "-d") || !hasArgPair(call, "-s", "work") {
		t.Errorf("creation command = %v", call)
	}
	if !hasArgPair(call, "-F", "#{window_id}|#{session_id}") || !hasArg(call, "-P") {
		t.Errorf("creation command missing -P -F format: %v", call)
	}
	if hasArg(call, "-c") {
		t.Errorf("default root should not pass -c: %v", call)
	}
}

func TestSessionBuildCustomRoot(t *testing.T) {
	run := newFakeRunner()
	run.outputs["new-session"] = "@1|$1\n"

	root, err := CustomRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSessionBuilder(run, "work").Root(root).Build(); err != nil {
		t.Fatal(err)
	}

	call := run.lastCall(t)
	if !hasArgPair(call, "-c", root.Path()) {
		t.Errorf("creation command missing -c %s: %v", root.Path(), call)
	}
}

func TestSessionBuildAlreadyExists(t *testing.T) {
	run := newFakeRunner()
	run.existing["work"] = true

	_, err := NewSessionBuilder(run, "work").Build()
	var exists *AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("err = %v, want *AlreadyExistsError", err)
	}
	if exists.Name != "work" {
		t.Errorf("collision name = %q, want %q", exists.Name, "work")
	}
	if len(run.calls) != 0 {
		t.Errorf("creation was attempted despite collision: %v", run.calls)
	}
}

func TestSessionBuildMalformedResponse(t *testing.T) {
	run := newFakeRunner()
	run.outputs["new-session"] = "missing-delimiter\n"

	_, err := NewSessionBuilder(run, "work").Build()
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
}

func TestFromExisting(t *testing.T) {
	run := newFakeRunner()
	run.existing["work"] = true
	run.outputs["display-message"] = "@1|$1|3\n"

	session, err := FromExisting(run, "work")
	if err != nil {
		t.Fatal(err)
	}
	if got := session.Target().Address(); got != "$1" {
		t.Errorf("session target = %q, want %q", got, "$1")
	}
	if session.windowCount != 3 {
		t.Errorf("window count = %d, want 3", session.windowCount)
	}

	call := run.lastCall(t)
	if call[0] != "display-message" || !hasArgPair(call, "-t", "work") {
		t.Errorf("recovery command = %v", call)
	}
}

func TestFromExistingNotFound(t *testing.T) {
	run := newFakeRunner()

	_, err := FromExisting(run, "nonexistent")
	var notFound *TargetNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *TargetNotFoundError", err)
	}
	if len(run.calls) != 0 {
		t.Errorf("side effects issued for a missing session: %v", run.calls)
	}
}

func TestFromExistingMalformedResponse(t *testing.T) {
	run := newFakeRunner()
	run.existing["work"] = true

	for _, raw := range []string{"@1|$1\n", "@1|$1|not-a-number\n"} {
		run.outputs["display-message"] = raw
		_, err := FromExisting(run, "work")
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("raw %q: err = %v, want *MalformedResponseError", raw, err)
		}
	}
}

func TestAttachStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		inTmux  bool
		wantSub string
	}{
		{name: "inside tmux switches client", inTmux: true, wantSub: "switch-client"},
		{name: "outside tmux attaches", inTmux: false, wantSub: "attach-session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.inTmux {
				t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
			} else {
				unsetTmuxEnv(t)
			}

			run := newFakeRunner()
			session := buildTestSession(t, run)
			if err := session.Attach(); err != nil {
				t.Fatal(err)
			}

			call := run.lastCall(t)
			if call[0] != tt.wantSub || !hasArgPair(call, "-t", "$1") {
				t.Errorf("attach command = %v, want %s -t $1", call, tt.wantSub)
			}
		})
	}
}

func TestAttachFailed(t *testing.T) {
	unsetTmuxEnv(t)
	run := newFakeRunner()
	session := buildTestSession(t, run)
	run.interactiveErr = &ExecError{Args: []string{"attach-session"}, Stderr: "no terminal"}

	err := session.Attach()
	var attachErr *AttachFailedError
	if !errors.As(err, &attachErr) {
		t.Fatalf("err = %v, want *AttachFailedError", err)
	}
	if attachErr.Target != "$1" || attachErr.Stderr != "no terminal" {
		t.Errorf("attach error = %+v", attachErr)
	}
}

func TestActiveName(t *testing.T) {
	t.Run("server not running", func(t *testing.T) {
		run := newFakeRunner()
		name, err := ActiveName(run)
		if err != nil {
			t.Fatal(err)
		}
		if name != "" {
			t.Errorf("active name = %q, want empty", name)
		}
	})

	t.Run("not inside tmux", func(t *testing.T) {
		unsetTmuxEnv(t)
		run := newFakeRunner()
		run.serverRunning = true
		name, err := ActiveName(run)
		if err != nil {
			t.Fatal(err)
		}
		if name != "" {
			t.Errorf("active name = %q, want empty", name)
		}
	})

	t.Run("attached", func(t *testing.T) {
		t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
		run := newFakeRunner()
		run.serverRunning = true
		run.outputs["display-message"] = "work\n"
		name, err := ActiveName(run)
		if err != nil {
			t.Fatal(err)
		}
		if name != "work" {
			t.Errorf("active name = %q, want %q", name, "work")
		}
	})
}

func TestListSessions(t *testing.T) {
	t.Run("server not running", func(t *testing.T) {
		run := newFakeRunner()
		names, err := ListSessions(run)
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 0 {
			t.Errorf("sessions = %v, want none", names)
		}
	})

	t.Run("running", func(t *testing.T) {
		run := newFakeRunner()
		run.serverRunning = true
		run.outputs["list-sessions"] = "work\nnotes\n"
		names, err := ListSessions(run)
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 2 || names[0] != "work" || names[1] != "notes" {
			t.Errorf("sessions = %v, want [work notes]", names)
		}
	})
}

func TestRegisterWindowReclaimsOnce(t *testing.T) {
	run := newFakeRunner()
	session := buildTestSession(t, run)
	run.outputs["new-window"] = "%5|@2\n"
	run.outputs["move-window"] = ""
	run.existing["$1:@2"] = true

	const builders = 8
	var wg sync.WaitGroup
	errs := make([]error, builders)
	for i := range builders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = NewWindowBuilder(session).Build()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
	if moves := run.callsFor("move-window"); len(moves) != 1 {
		t.Fatalf("implicit window reclaimed %d times, want exactly once", len(moves))
	}
	if session.windowCount != builders {
		t.Errorf("window count = %d, want %d", session.windowCount, builders)
	}
}
