package builtin

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"acush/internal/state"
)

func TestExitDefaultCode(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Exit(st, []string{"exit"}, nil, &out, &errOut)
	if code != 0 || !st.ShouldExit || st.ExitCode != 0 {
		t.Fatalf("got code=%d state=%+v", code, st)
	}
}

func TestExitWithCode(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Exit(st, []string{"exit", "7"}, nil, &out, &errOut)
	if code != 0 || !st.ShouldExit || st.ExitCode != 7 {
		t.Fatalf("got code=%d state=%+v", code, st)
	}
}

func TestExitRejectsNonInteger(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Exit(st, []string{"exit", "abc"}, nil, &out, &errOut)
	if code == 0 || st.ShouldExit {
		t.Fatalf("expected failure, got code=%d state=%+v", code, st)
	}
}

func TestExitRejectsTooManyArgs(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Exit(st, []string{"exit", "1", "2"}, nil, &out, &errOut)
	if code == 0 || st.ShouldExit {
		t.Fatalf("expected failure, got code=%d state=%+v", code, st)
	}
}

func TestHistoryPrintsOneBasedIndex(t *testing.T) {
	st := state.New()
	st.Append("echo a")
	st.Append("echo b")
	var out, errOut bytes.Buffer
	History(st, []string{"history"}, nil, &out, &errOut)
	want := "1  echo a\n2  echo b\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestPromptReplacesState(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Prompt(st, []string{"prompt", "$"}, nil, &out, &errOut)
	if code != 0 || st.Prompt != "$" {
		t.Fatalf("got code=%d prompt=%q", code, st.Prompt)
	}
}

func TestPromptMissingArgFails(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Prompt(st, []string{"prompt"}, nil, &out, &errOut)
	if code == 0 {
		t.Fatalf("expected failure")
	}
}

func TestCdToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })

	st := state.New()
	var out, errOut bytes.Buffer
	code := Cd(st, []string{"cd"}, nil, &out, &errOut)
	if code != 0 {
		t.Fatalf("cd failed: %s", errOut.String())
	}
	wd, _ := os.Getwd()
	resolvedHome, _ := filepath.EvalSymlinks(home)
	resolvedWd, _ := filepath.EvalSymlinks(wd)
	if resolvedWd != resolvedHome {
		t.Fatalf("got wd %q, want %q", wd, home)
	}
	if os.Getenv("PWD") != wd {
		t.Fatalf("PWD not updated: got %q want %q", os.Getenv("PWD"), wd)
	}
}

func TestCdDashEchoesAndUsesOldpwd(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })

	if err := os.Chdir(a); err != nil {
		t.Fatalf("setup chdir: %v", err)
	}
	t.Setenv("OLDPWD", b)

	st := state.New()
	var out, errOut bytes.Buffer
	code := Cd(st, []string{"cd", "-"}, nil, &out, &errOut)
	if code != 0 {
		t.Fatalf("cd - failed: %s", errOut.String())
	}
	wd, _ := os.Getwd()
	resolvedB, _ := filepath.EvalSymlinks(b)
	resolvedWd, _ := filepath.EvalSymlinks(wd)
	if resolvedWd != resolvedB {
		t.Fatalf("got wd %q, want %q", wd, b)
	}
	if !strings.Contains(out.String(), wd) {
		t.Fatalf("expected echoed dir %q in output %q", wd, out.String())
	}
}

func TestPwdPrintsWorkingDirectory(t *testing.T) {
	st := state.New()
	var out, errOut bytes.Buffer
	code := Pwd(st, []string{"pwd"}, nil, &out, &errOut)
	if code != 0 {
		t.Fatalf("pwd failed: %s", errOut.String())
	}
	wd, _ := os.Getwd()
	if strings.TrimSpace(out.String()) != wd {
		t.Fatalf("got %q, want %q", out.String(), wd)
	}
}
