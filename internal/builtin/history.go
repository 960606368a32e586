package builtin

import (
	"fmt"
	"io"

	"acush/internal/state"
)

// History implements "history" (spec.md §6): prints every entry in
// insertion order with its 1-based index.
func History(st *state.State, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for i := 0; i < st.Count(); i++ {
		line, _ := st.At(i)
		fmt.Fprintf(stdout, "%d  %s\n", i+1, line)
	}
	return 0
}
