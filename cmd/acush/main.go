package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"acush/internal/builtin"
	"acush/internal/config"
	"acush/internal/edit"
	"acush/internal/exec"
	"acush/internal/state"
)

func main() {
	_ = config.LoadDotEnv(".env")
	cfg := config.Load()

	reg := builtin.NewRegistry()

	// A re-exec'd hidden invocation (a piped/backgrounded built-in, or the
	// "command not found" stand-in) never reaches the rest of main.
	exec.DispatchSelfExec(reg)

	st := state.New()
	st.Prompt = cfg.Prompt
	st.HistLimit = cfg.HistSize

	selfPath, err := os.Executable()
	if err != nil {
		selfPath = os.Args[0]
	}

	ttyFd := int(os.Stdin.Fd())
	isTTY := term.IsTerminal(ttyFd)

	ex := exec.New(st, reg, selfPath, ttyFd, isTTY)
	ed := edit.New(os.Stdin, os.Stdout, st)

	for !st.ShouldExit {
		fmt.Fprint(os.Stdout, st.Prompt)
		line, err := ed.ReadLine()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "acush: %v\n", err)
			}
			break
		}
		ex.RunLine(line)
	}

	os.Exit(st.ExitCode)
}
