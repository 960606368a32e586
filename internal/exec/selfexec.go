//go:build unix

package exec

import (
	"encoding/json"
	"fmt"
	"os"

	"acush/internal/builtin"
	"acush/internal/state"
)

// selfExecBuiltinFlag and selfExecNotFoundFlag mark the two hidden
// re-exec modes spawn() uses to give a real child process to work that
// otherwise has no executable of its own: a built-in running piped or in
// the background (spec.md §6), and a command missing from $PATH
// (spec.md §4.F's "execvp failure" case). cmd/acush's main() checks for
// these right after loading its config and built-in registry, before it
// builds the shell state or enters the REPL.
const (
	selfExecBuiltinFlag  = "--acush-internal-builtin"
	selfExecNotFoundFlag = "--acush-internal-notfound"
)

// stateFileEnv names the environment variable spawnSelf uses to hand a
// re-exec'd built-in the path to its snapshot of the shell's state
// (history, prompt). Without this, a piped or backgrounded built-in like
// "history" would only ever see the empty state of a freshly started
// process, instead of the real shell's accumulated history (spec.md §6).
const stateFileEnv = "ACUSH_STATE_FILE"

// stateSnapshot is the subset of state.State a re-exec'd built-in can
// meaningfully read. Fields a child process could never propagate back to
// the parent shell anyway (ShouldExit, ExitCode) are deliberately left
// out: a built-in like "exit" running in a piped subshell already can't
// affect the real shell's exit status, the same as in any forked child.
type stateSnapshot struct {
	Prompt    string   `json:"prompt"`
	History   []string `json:"history"`
	HistLimit int      `json:"hist_limit"`
}

// writeStateSnapshot serializes the parts of st a re-exec'd built-in
// might need and returns the path of the temp file it wrote, grounded on
// the teacher's telegram.MemoryStore pattern of json.Marshal'ing state to
// a file on disk. The caller passes this path to the child via
// stateFileEnv; the child (DispatchSelfExec) removes the file once it has
// read it, so there is no cleanup step here that could race the child's
// read.
func writeStateSnapshot(st *state.State) (string, error) {
	snap := stateSnapshot{Prompt: st.Prompt, History: st.History, HistLimit: st.HistLimit}
	b, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "acush-state-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// readStateSnapshot loads the state snapshot at path into a fresh
// state.State, removing the file afterward. If path is empty (no
// snapshot was handed down) or unreadable, it falls back to an empty
// state rather than failing the built-in outright.
func readStateSnapshot(path string) *state.State {
	st := state.New()
	if path == "" {
		return st
	}
	defer os.Remove(path)

	b, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	var snap stateSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return st
	}
	st.Prompt = snap.Prompt
	st.History = snap.History
	st.HistLimit = snap.HistLimit
	return st
}

// DispatchSelfExec recognizes the hidden re-exec modes in os.Args and,
// if one matches, runs it to completion and exits the process — it
// never returns when it handled the arguments. cmd/acush's main calls
// this before building the shell state, so a re-exec'd child never
// reaches the REPL.
func DispatchSelfExec(reg *builtin.Registry) {
	if len(os.Args) < 3 {
		return
	}

	switch os.Args[1] {
	case selfExecBuiltinFlag:
		argv := os.Args[2:]
		fn, ok := reg.Lookup(argv[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "acush: %s: no such built-in\n", argv[0])
			os.Exit(127)
		}
		st := readStateSnapshot(os.Getenv(stateFileEnv))
		os.Exit(fn(st, argv, os.Stdin, os.Stdout, os.Stderr))
	case selfExecNotFoundFlag:
		fmt.Fprintf(os.Stderr, "%s: command not found\n", os.Args[2])
		os.Exit(127)
	}
}
