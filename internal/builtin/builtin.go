// Package builtin implements the shell's built-in commands (spec.md §6):
// exit, history, prompt, pwd, cd. Each is a pluggable collaborator with a
// uniform entry point, generalized from the teacher's core.Adapter
// interface (Start/Send/Stop against one pluggable CLI backend) down to
// a single Run call against one pluggable built-in.
package builtin

import (
	"io"

	"acush/internal/state"
)

// Func runs a built-in against argv (argv[0] is the built-in's own name)
// with the shell's state and the descriptors already resolved for this
// invocation (spec.md §4.F: pipe and explicit redirections are applied
// before a built-in ever runs). It returns the process-style exit code
// the built-in would have returned had it been a real child.
type Func func(st *state.State, argv []string, stdin io.Reader, stdout, stderr io.Writer) int

// Registry maps built-in names to their implementations.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a Registry with every spec.md §6 built-in wired in.
func NewRegistry() *Registry {
	r := &Registry{funcs: map[string]Func{}}
	r.register("exit", Exit)
	r.register("history", History)
	r.register("prompt", Prompt)
	r.register("pwd", Pwd)
	r.register("cd", Cd)
	return r
}

func (r *Registry) register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the built-in named name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Has reports whether name is a built-in.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}
