// Package parse turns a logical token stream (internal/lex) into the AST
// described in spec.md §3/§4.E: a rooted tree of tagged variants rather
// than the discriminator-plus-union soup spec.md §9 calls out for
// replacement. Grounded on the teacher's preference for small, explicit
// structs (e.g. core's JobDesc-shaped config structs) over generic
// containers.
package parse

// Root is the parse result of a full line: either Empty (the line held
// nothing but whitespace/End) or NonEmpty wrapping a CommandLine.
type Root struct {
	Empty bool
	Line  CommandLine
}

// CommandLine is Repeat(query) | Jobs(sequence of JobDesc) (spec.md §3).
type CommandLine struct {
	IsRepeat bool
	Query    string // valid when IsRepeat
	Jobs     []JobDesc
}

// TermKind distinguishes how a job was terminated.
type TermKind int

const (
	Fg TermKind = iota
	Bg
)

// JobDesc pairs a Job with whether it runs in the foreground or background.
type JobDesc struct {
	Kind TermKind
	Job  Job
}

// Job is one or more Cmds connected by pipes, left to right.
type Job struct {
	Cmds []Cmd
}

// Cmd is a simple command plus zero or more redirections, applied in
// the order they were written (spec.md: "the last redirection of a given
// kind wins").
type Cmd struct {
	Simple SimpleCmd
	Redirs []Redir
}

// SimpleCmd is argv; len(Argv) >= 1 is an AST invariant.
type SimpleCmd struct {
	Argv []string
}

// RedirKind distinguishes which descriptor a Redir targets.
type RedirKind int

const (
	Stdin RedirKind = iota
	Stdout
	Stderr
)

// Redir is a single redirection: kind plus the target filename.
type Redir struct {
	Kind RedirKind
	File string
}
