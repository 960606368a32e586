//go:build unix

package exec

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"acush/internal/builtin"
	"acush/internal/parse"
)

// runJobDesc runs one JobDesc: spec.md §4.F's foreground built-in fast
// path when applicable, otherwise the general spawn-and-wait pipeline.
func (e *Executor) runJobDesc(jd parse.JobDesc) {
	cmds := jd.Job.Cmds

	if len(cmds) == 1 && jd.Kind == parse.Fg {
		if fn, ok := e.Builtins.Lookup(cmds[0].Simple.Argv[0]); ok {
			e.runForegroundBuiltin(fn, cmds[0])
			return
		}
	}

	e.runExternalJob(jd)
}

// runForegroundBuiltin is spec.md §4.F's "foreground built-in fast
// path": no fork, just resolve descriptors locally and call the builtin
// in-process.
func (e *Executor) runForegroundBuiltin(fn builtin.Func, cmd parse.Cmd) {
	sd := buildStdio(cmd, os.Stdin, os.Stdout, os.Stderr)
	defer sd.closeOpened()
	fn(e.State, cmd.Simple.Argv, sd.stdin, sd.stdout, sd.stderr)
}

type pipePair struct{ r, w *os.File }

func closePipes(pipes []pipePair) {
	for _, p := range pipes {
		p.r.Close()
		p.w.Close()
	}
}

// runExternalJob spawns every Cmd in the job, wires up pipes between
// consecutive stages, assigns them a shared process group, and — for a
// foreground job — hands the terminal to that group and waits for every
// spawned child before taking the terminal back (spec.md §4.F).
func (e *Executor) runExternalJob(jd parse.JobDesc) {
	cmds := jd.Job.Cmds
	n := len(cmds)

	pipes := make([]pipePair, n-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "acush: pipe: %v\n", err)
			closePipes(pipes[:i])
			return
		}
		pipes[i] = pipePair{r: r, w: w}
	}

	pids := make([]int, 0, n)
	var pgid int

	for i, cmd := range cmds {
		in, out := os.Stdin, os.Stdout
		if i > 0 {
			in = pipes[i-1].r
		}
		if i < n-1 {
			out = pipes[i].w
		}

		sd := buildStdio(cmd, in, out, os.Stderr)

		targetPgid := pgid // 0 on the first spawn: child becomes its own group leader
		pid, err := e.spawn(cmd.Simple.Argv, sd, targetPgid)
		sd.closeOpened()
		if err != nil {
			fmt.Fprintf(os.Stderr, "acush: %v\n", err)
			closePipes(pipes)
			return
		}
		if i == 0 {
			pgid = pid
		}
		pids = append(pids, pid)

		// Piping invariant (spec.md §4.F): once the consumer side of a
		// pipe has been spawned, the parent closes both ends of that
		// pipe — it has already been inherited by both of that pipe's
		// commands.
		if i > 0 {
			pipes[i-1].r.Close()
			pipes[i-1].w.Close()
		}
	}

	if jd.Kind == parse.Bg {
		return
	}
	e.runForeground(pgid, pids)
}

// runForeground implements spec.md §4.F step 4: transfer the terminal to
// pgid, wait for every child, then reclaim the terminal.
func (e *Executor) runForeground(pgid int, pids []int) {
	if e.tty {
		if err := tcsetpgrp(e.TTYFd, pgid); err != nil {
			fmt.Fprintf(os.Stderr, "acush: tcsetpgrp: %v\n", err)
		}
	}

	e.sig.waitForeground(pids)

	if e.tty {
		shellPgid := syscall.Getpgrp()
		if err := reclaimTerminal(e.TTYFd, shellPgid); err != nil {
			fmt.Fprintf(os.Stderr, "acush: tcsetpgrp: %v\n", err)
		}
	}
}

// spawn starts argv as a child process with the given descriptors and
// process group.
//
// A built-in name running outside the foreground fast path (piped or
// backgrounded, spec.md §6) has no executable of its own to exec, so it
// is spawned by re-execing this same binary in a hidden built-in-only
// mode (selfexec.go). Likewise, a command that can't be found in $PATH
// is spawned as a tiny re-exec'd child that prints the conventional
// "command not found" message and exits non-zero, so that case still
// produces a real child participating normally in the job's process
// group and wait bookkeeping (spec.md §4.F: "execvp failure -> child
// exits non-zero; parent observes normal wait").
func (e *Executor) spawn(argv []string, sd *stdio, pgid int) (int, error) {
	if _, ok := e.Builtins.Lookup(argv[0]); ok {
		statePath, err := writeStateSnapshot(e.State)
		if err != nil {
			return 0, fmt.Errorf("snapshot state for %s: %w", argv[0], err)
		}
		extraEnv := []string{stateFileEnv + "=" + statePath}
		return e.spawnSelf(append([]string{selfExecBuiltinFlag}, argv...), sd, pgid, extraEnv)
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return e.spawnSelf([]string{selfExecNotFoundFlag, argv[0]}, sd, pgid, nil)
	}

	attr := &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: []uintptr{sd.stdin.Fd(), sd.stdout.Fd(), sd.stderr.Fd()},
		Sys:   &syscall.SysProcAttr{Setpgid: true, Pgid: pgid},
	}
	return syscall.ForkExec(path, argv, attr)
}

func (e *Executor) spawnSelf(extraArgv []string, sd *stdio, pgid int, extraEnv []string) (int, error) {
	argv := append([]string{e.SelfPath}, extraArgv...)
	attr := &syscall.ProcAttr{
		Env:   append(os.Environ(), extraEnv...),
		Files: []uintptr{sd.stdin.Fd(), sd.stdout.Fd(), sd.stderr.Fd()},
		Sys:   &syscall.SysProcAttr{Setpgid: true, Pgid: pgid},
	}
	return syscall.ForkExec(e.SelfPath, argv, attr)
}
