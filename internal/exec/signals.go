//go:build unix

package exec

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalManager owns the process-wide signal discipline spec.md §5
// requires: SIGINT/SIGQUIT/SIGTSTP ignored at the shell level, SIGCHLD
// drained asynchronously for background jobs, and a lock serializing
// that asynchronous reaper against a foreground job's own explicit wait.
//
// Realization note (spec.md §5's "ignore SIGINT/SIGQUIT/SIGTSTP" and
// §4.F's child-side "reset to default"): Go's fork/exec path
// (syscall.ForkExec) gives no hook to run code in the child between fork
// and exec, so there is nowhere to put an explicit per-child signal
// reset. POSIX already does this for us for any signal whose disposition
// is *caught* (as opposed to SIG_IGN): exec() resets a caught signal back
// to SIG_DFL automatically, because the handler's code address is gone
// from the new program image. So instead of calling signal.Ignore (which
// installs SIG_IGN, and SIG_IGN is explicitly preserved across exec by
// POSIX), the shell installs a real signal.Notify handler for SIGINT,
// SIGQUIT, SIGTSTP, and SIGCHLD. That handler satisfies the shell's own
// need to ignore/observe these signals, while every spawned child
// automatically gets default dispositions for all four the moment it
// execs, with no child-side code required.
//
// Similarly, spec.md §4.F step 1 ("block SIGCHLD... unblock on exit
// paths") doesn't translate directly into Go: Go's M:N goroutine
// scheduling means a traditional per-thread sigprocmask wouldn't
// reliably cover the goroutine doing the waiting. reapMu below achieves
// the same property in user space: the foreground wait path and the
// background SIGCHLD-driven reap loop take the same mutex, so the
// background reaper never runs while waitForeground is waiting. The mutex
// is taken only once every child of the job has been spawned: a child
// that exits before then can still be reaped by the background loop, in
// which case waitForeground's Wait4 for that pid fails with ECHILD and it
// moves on to the next pid.
type signalManager struct {
	sigCh  chan os.Signal
	reapMu sync.Mutex
}

func newSignalManager() *signalManager {
	return &signalManager{sigCh: make(chan os.Signal, 8)}
}

// start installs the shell-level signal handlers and the background
// reaper goroutine. Called once, at Executor construction.
func (m *signalManager) start() {
	signal.Notify(m.sigCh, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTSTP, syscall.SIGCHLD)
	go m.loop()
}

func (m *signalManager) loop() {
	for sig := range m.sigCh {
		if sig == syscall.SIGCHLD {
			m.reapBackground()
		}
		// SIGINT/SIGQUIT/SIGTSTP: received and discarded. Their only
		// purpose in being caught at all is to force a default
		// disposition back onto every forked child at exec time; the
		// shell itself has nothing to do in response (spec.md §5).
	}
}

// reapBackground drains every currently-exited child with a
// non-blocking, any-pid wait, so background jobs never become zombies
// (spec.md §5).
func (m *signalManager) reapBackground() {
	m.reapMu.Lock()
	defer m.reapMu.Unlock()
	for {
		var status syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &status, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
	}
}

// waitForeground blocks for each pid in pids to exit or stop, serialized
// against the background reaper via reapMu (see the type doc above).
//
// Every spawned child has its SIGTSTP disposition reset to default at
// exec time (see the type doc's exec-reset note), so a foreground job can
// genuinely stop (e.g. via Ctrl-Z from the terminal driver) instead of
// exiting. WUNTRACED makes that visible to Wait4 instead of leaving it
// invisible to a status-0 wait — without it, a stopped child never
// satisfies a flags-0 wait and the shell blocks forever instead of
// reclaiming the terminal and returning to the prompt. There is no job
// table to register a stopped job into, so once one pid in the job
// reports stopped, waiting ends for the whole job: the terminal driver
// stops every process in a foreground process group together, so the
// rest of pids is left stopped in the background rather than reaped.
func (m *signalManager) waitForeground(pids []int) {
	m.reapMu.Lock()
	defer m.reapMu.Unlock()
	for _, pid := range pids {
		var status syscall.WaitStatus
		for {
			_, err := syscall.Wait4(pid, &status, syscall.WUNTRACED, nil)
			if err == syscall.EINTR {
				continue
			}
			break
		}
		if status.Stopped() {
			return
		}
	}
}

// tcsetpgrp hands the controlling terminal at fd to process group pgid.
func tcsetpgrp(fd, pgid int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
}

// tcgetpgrp returns the process group currently controlling the
// terminal at fd.
func tcgetpgrp(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}

// reclaimTerminal transfers the controlling terminal back to pgid,
// temporarily ignoring SIGTTOU (the signal the kernel sends to a
// background process group that calls tcsetpgrp) and restoring its
// default disposition afterward, per spec.md §4.F step 4.
func reclaimTerminal(fd, pgid int) error {
	signal.Ignore(syscall.SIGTTOU)
	err := tcsetpgrp(fd, pgid)
	signal.Reset(syscall.SIGTTOU)
	return err
}
