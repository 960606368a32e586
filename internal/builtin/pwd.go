package builtin

import (
	"fmt"
	"io"
	"os"

	"acush/internal/state"
)

// Pwd implements "pwd" (spec.md §6): prints the working directory.
func Pwd(st *state.State, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, dir)
	return 0
}
