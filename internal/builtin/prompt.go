package builtin

import (
	"fmt"
	"io"
	"strings"

	"acush/internal/state"
)

// Prompt implements "prompt <text>" (spec.md §6): replaces the prompt
// string. Arguments after the built-in's own name are joined with single
// spaces, so "prompt a b" sets the prompt to "a b" rather than just "a".
func Prompt(st *state.State, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(argv) < 2 {
		fmt.Fprintln(stderr, "prompt: missing argument")
		return 1
	}
	st.Prompt = strings.Join(argv[1:], " ")
	return 0
}
