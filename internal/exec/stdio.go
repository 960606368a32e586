//go:build unix

package exec

import (
	"fmt"
	"os"

	"acush/internal/parse"
)

// stdio holds the three descriptors a Cmd actually runs with, after
// applying its redirections over a pipeline-supplied default, plus the
// files opened along the way so the caller can close them once the
// child has inherited them.
type stdio struct {
	stdin, stdout, stderr *os.File
	opened                []*os.File
}

func (sd *stdio) closeOpened() {
	for _, f := range sd.opened {
		f.Close()
	}
}

// buildStdio implements spec.md §4.F steps 3-4: start from the pipeline
// defaults (a neighboring pipe end or the shell's own stdio), then apply
// cmd.Redirs in order so a later redirection of the same kind overrides
// an earlier one, and an explicit redirect always overrides the pipe it
// replaces. A redirect target that fails to open is reported and
// skipped rather than aborting the command, per the same section's
// failure model.
func buildStdio(cmd parse.Cmd, defaultIn, defaultOut, defaultErr *os.File) *stdio {
	sd := &stdio{stdin: defaultIn, stdout: defaultOut, stderr: defaultErr}

	for _, r := range cmd.Redirs {
		switch r.Kind {
		case parse.Stdin:
			f, err := os.OpenFile(r.File, os.O_RDONLY, 0)
			if err != nil {
				fmt.Fprintf(os.Stderr, "acush: %s: %v\n", r.File, err)
				continue
			}
			sd.stdin = f
			sd.opened = append(sd.opened, f)
		case parse.Stdout:
			f, err := os.OpenFile(r.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "acush: %s: %v\n", r.File, err)
				continue
			}
			sd.stdout = f
			sd.opened = append(sd.opened, f)
		case parse.Stderr:
			f, err := os.OpenFile(r.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "acush: %s: %v\n", r.File, err)
				continue
			}
			sd.stderr = f
			sd.opened = append(sd.opened, f)
		}
	}

	return sd
}
