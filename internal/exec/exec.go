// Package exec implements the executor and signal manager (spec.md
// §4.F/§5/§9 components F and G): it lexes and parses a line, then runs
// the resulting AST, handling history-repeat, pipelines, process-group
// job control, and the background SIGCHLD reaper. Grounded on the
// teacher's internal/adapters/codex package (process spawning, pipe
// wiring, FD-closing discipline) and cmd/mybot/main.go's signal setup,
// generalized from "run one interactive CLI subprocess" to "run an
// arbitrary pipeline of child processes under job control."
package exec

import (
	"fmt"
	"os"

	"acush/internal/builtin"
	"acush/internal/lex"
	"acush/internal/parse"
	"acush/internal/state"
)

// Executor ties together shell state, the built-in registry, and the
// process-spawning machinery in pipeline.go/signals.go.
type Executor struct {
	State    *state.State
	Builtins *builtin.Registry

	// SelfPath is the path to this binary, used to re-exec a built-in
	// that must run as a real child process (spec.md §6: "background or
	// piped built-ins run in a forked child").
	SelfPath string

	// TTYFd is the file descriptor of the shell's controlling terminal,
	// used for tcsetpgrp/tcgetpgrp. When tty is false (the shell is not
	// attached to a terminal, e.g. reading from a pipe), TTYFd is not
	// used and job control is skipped entirely.
	TTYFd int
	tty   bool

	sig *signalManager
}

// New builds an Executor. ttyFd/isTTY describe the shell's controlling
// terminal, as captured once at startup by cmd/acush.
func New(st *state.State, reg *builtin.Registry, selfPath string, ttyFd int, isTTY bool) *Executor {
	e := &Executor{
		State:    st,
		Builtins: reg,
		SelfPath: selfPath,
		TTYFd:    ttyFd,
		tty:      isTTY,
	}
	e.sig = newSignalManager()
	e.sig.start()
	return e
}

// RunLine lexes, parses, and executes one line of input (spec.md §4.F
// run_line contract). Lex/parse errors are reported to stderr and the
// line is otherwise consumed: no command runs, but — per the Jobs branch
// below, which never gets reached on a parse failure — history is not
// touched either, since there is no parsed line to append. This matches
// spec.md §7's propagation policy ("lexer and parser errors... abort the
// current line only").
func (e *Executor) RunLine(line string) {
	root, err := parseLine(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acush: %v\n", err)
		return
	}
	if root.Empty {
		return
	}
	e.runCommandLine(root.Line, line)
}

func parseLine(line string) (parse.Root, error) {
	rl := lex.NewRefiningLexer(lex.NewRawLexer(line))
	return parse.New(rl).Parse()
}

func (e *Executor) runCommandLine(cl parse.CommandLine, rawLine string) {
	if cl.IsRepeat {
		e.runRepeat(cl.Query)
		return
	}

	e.State.Append(rawLine)
	for _, jd := range cl.Jobs {
		e.runJobDesc(jd)
		if e.State.ShouldExit {
			return
		}
	}
}

// runRepeat implements spec.md §4.F's Repeat(query) execution: a
// 1-based index if query parses completely as a non-negative integer,
// otherwise a most-recent-first prefix search.
func (e *Executor) runRepeat(query string) {
	var target string
	var ok bool
	if n, isNum := state.ParseIndex1(query); isNum {
		target, ok = e.State.Index1(n)
	} else {
		target, ok = e.State.FindPrefix(query)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "acush: no such command in history")
		return
	}

	fmt.Println(target)

	root, err := parseLine(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acush: %v\n", err)
		return
	}
	if root.Empty {
		return
	}
	// Recursively run_line on the matched entry without adding the "!…"
	// line itself to history; runCommandLine's Jobs branch below still
	// appends `target`'s own text, which is exactly "recursively run_line".
	e.runCommandLine(root.Line, target)
}
