// Package state holds the shell's process-wide mutable state: the prompt
// text, the command history, and the exit flag/code. It is touched only
// from the single-threaded main loop (never from the SIGCHLD handler or a
// forked child), so unlike most of the state this repository's teacher
// carries around, it needs no mutex.
package state

import "strconv"

// State is the shell's process-wide state (component A).
type State struct {
	Prompt     string
	History    []string
	ShouldExit bool
	ExitCode   int

	// HistLimit caps the number of retained entries; zero means unbounded.
	HistLimit int
}

// DefaultPrompt is used when no ACUSH_PROMPT override and no prompt
// builtin invocation has happened yet.
const DefaultPrompt = "%"

// New returns a fresh State with the default prompt and empty history.
func New() *State {
	return &State{Prompt: DefaultPrompt}
}

// Append adds line to the end of history, trimming the oldest entry if
// HistLimit is set and would be exceeded.
func (s *State) Append(line string) {
	s.History = append(s.History, line)
	if s.HistLimit > 0 && len(s.History) > s.HistLimit {
		s.History = s.History[len(s.History)-s.HistLimit:]
	}
}

// Count returns the number of entries currently in history.
func (s *State) Count() int { return len(s.History) }

// At returns the zero-based history entry idx, or false if out of range.
func (s *State) At(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.History) {
		return "", false
	}
	return s.History[idx], true
}

// Index1 returns the 1-based history entry n ("!3" means n == 3), or
// false if out of range. History display and recall are both 1-based
// (spec.md §3 invariant; see DESIGN.md for the !N resolution).
func (s *State) Index1(n int) (string, bool) {
	return s.At(n - 1)
}

// ParseIndex1 parses a decimal string as a 1-based history index. It
// requires the whole string to be consumed and non-negative, matching the
// "parses completely as a non-negative integer" rule in spec.md §4.F for
// the Repeat(query) interpretation.
func ParseIndex1(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FindPrefix searches history from the most recent entry backward for the
// first entry whose text starts with prefix. It returns the matched text
// and true on a hit.
func (s *State) FindPrefix(prefix string) (string, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if hasPrefix(s.History[i], prefix) {
			return s.History[i], true
		}
	}
	return "", false
}

func hasPrefix(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)] == prefix
}
