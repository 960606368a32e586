package parse

import (
	"errors"
	"fmt"

	"acush/internal/lex"
)

// Sentinel errors named after spec.md §4.E's parser contract. Callers
// distinguish them with errors.Is; fmt.Errorf("%w: ...", ...) wrapping
// follows the same idiom the teacher uses in config.Load for layered
// config-parse failures.
var (
	// ErrMemory has no constructor in this implementation: Go's runtime
	// aborts the process on allocation failure rather than returning a
	// recoverable error, so there is nothing for the parser to catch and
	// wrap. The sentinel is kept so the parser's error taxonomy matches
	// spec.md §4.E's contract in full.
	ErrMemory            = errors.New("memory error")
	ErrUnexpectedTokens  = errors.New("unexpected tokens after command line")
	ErrCommandLineFail   = errors.New("command line parse failed")
	ErrJobFail           = errors.New("job parse failed")
	ErrCommandFail       = errors.New("command parse failed")
	ErrSimpleCommandFail = errors.New("simple command parse failed")
	ErrUnexpectedEnd     = errors.New("unexpected end of input")
)

// tokenSource is satisfied by *lex.RefiningLexer; parsing against an
// interface keeps the parser's tests free to feed a canned token list.
type tokenSource interface {
	Next() (lex.LogicalToken, error)
}

// Parser is a one-token-lookahead recursive-descent parser over a
// tokenSource, producing the AST in ast.go. It never backtracks (spec.md
// §4.E).
type Parser struct {
	src     tokenSource
	cur     lex.LogicalToken
	curErr  error
	started bool
}

// New returns a parser reading from src.
func New(src tokenSource) *Parser {
	return &Parser{src: src}
}

func (p *Parser) current() (lex.LogicalToken, error) {
	if !p.started {
		p.cur, p.curErr = p.src.Next()
		p.started = true
	}
	return p.cur, p.curErr
}

// consume returns the current token and advances past it.
func (p *Parser) consume() (lex.LogicalToken, error) {
	tok, err := p.current()
	if err != nil {
		return tok, err
	}
	p.cur, p.curErr = p.src.Next()
	return tok, nil
}

// Parse runs root := End -> Empty | cmd_line End -> NonEmpty(cmd_line).
func (p *Parser) Parse() (Root, error) {
	tok, err := p.current()
	if err != nil {
		return Root{}, err
	}
	if tok.Kind == lex.LEnd {
		return Root{Empty: true}, nil
	}

	line, err := p.parseCommandLine()
	if err != nil {
		return Root{}, err
	}

	tok, err = p.current()
	if err != nil {
		return Root{}, err
	}
	if tok.Kind != lex.LEnd {
		return Root{}, fmt.Errorf("%w: found %v", ErrUnexpectedTokens, tok.Kind)
	}
	return Root{Line: line}, nil
}

// parseCommandLine runs cmd_line := '!' WORD -> Repeat | job_seq.
func (p *Parser) parseCommandLine() (CommandLine, error) {
	tok, err := p.current()
	if err != nil {
		return CommandLine{}, err
	}
	if tok.Kind == lex.LExclam {
		if _, err := p.consume(); err != nil {
			return CommandLine{}, err
		}
		wtok, err := p.consume()
		if err != nil {
			return CommandLine{}, err
		}
		switch wtok.Kind {
		case lex.LWord:
			return CommandLine{IsRepeat: true, Query: wtok.Text}, nil
		case lex.LEnd:
			return CommandLine{}, fmt.Errorf("%w: '!' with no following word", ErrCommandLineFail)
		default:
			return CommandLine{}, fmt.Errorf("%w: '!' followed by %v instead of a word", ErrUnexpectedEnd, wtok.Kind)
		}
	}

	jobs, err := p.parseJobSeq()
	if err != nil {
		return CommandLine{}, err
	}
	return CommandLine{Jobs: jobs}, nil
}

// parseJobSeq runs job_seq := job (terminator job)* terminator?
func (p *Parser) parseJobSeq() ([]JobDesc, error) {
	var jobs []JobDesc
	for {
		job, err := p.parseJob()
		if err != nil {
			return nil, err
		}

		tok, err := p.current()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case lex.LAmp:
			if _, err := p.consume(); err != nil {
				return nil, err
			}
			jobs = append(jobs, JobDesc{Kind: Bg, Job: job})
		case lex.LSemicolon:
			if _, err := p.consume(); err != nil {
				return nil, err
			}
			jobs = append(jobs, JobDesc{Kind: Fg, Job: job})
		default:
			// An unterminated last job (no trailing &/;) is Fg.
			jobs = append(jobs, JobDesc{Kind: Fg, Job: job})
			return jobs, nil
		}

		tok, err = p.current()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lex.LEnd {
			return jobs, nil
		}
	}
}

// parseJob runs job := cmd ('|' cmd)*
func (p *Parser) parseJob() (Job, error) {
	first, err := p.parseCmd()
	if err != nil {
		return Job{}, fmt.Errorf("%w: %w", ErrJobFail, err)
	}
	cmds := []Cmd{first}

	for {
		tok, err := p.current()
		if err != nil {
			return Job{}, err
		}
		if tok.Kind != lex.LPipe {
			break
		}
		if _, err := p.consume(); err != nil {
			return Job{}, err
		}
		next, err := p.parseCmd()
		if err != nil {
			return Job{}, fmt.Errorf("%w: %w", ErrJobFail, err)
		}
		cmds = append(cmds, next)
	}
	return Job{Cmds: cmds}, nil
}

// parseCmd runs cmd := simple_cmd redirection*
func (p *Parser) parseCmd() (Cmd, error) {
	simple, err := p.parseSimpleCmd()
	if err != nil {
		return Cmd{}, err
	}

	var redirs []Redir
	for {
		tok, err := p.current()
		if err != nil {
			return Cmd{}, err
		}

		var kind RedirKind
		switch tok.Kind {
		case lex.LAngleL:
			kind = Stdin
		case lex.LAngleR:
			kind = Stdout
		case lex.LAngleRR:
			kind = Stderr
		default:
			return Cmd{Simple: simple, Redirs: redirs}, nil
		}

		if _, err := p.consume(); err != nil {
			return Cmd{}, err
		}
		wtok, err := p.consume()
		if err != nil {
			return Cmd{}, err
		}
		if wtok.Kind != lex.LWord {
			// spec.md §4.E: an operator that expected an operand but
			// found none (including End) fails CommandFail.
			return Cmd{}, fmt.Errorf("%w: redirection %v missing target word", ErrCommandFail, tok.Kind)
		}
		redirs = append(redirs, Redir{Kind: kind, File: wtok.Text})
	}
}

// parseSimpleCmd runs simple_cmd := WORD+
func (p *Parser) parseSimpleCmd() (SimpleCmd, error) {
	tok, err := p.current()
	if err != nil {
		return SimpleCmd{}, err
	}
	if tok.Kind == lex.LEnd {
		return SimpleCmd{}, fmt.Errorf("%w: expected a command word", ErrUnexpectedEnd)
	}
	if tok.Kind != lex.LWord {
		return SimpleCmd{}, fmt.Errorf("%w: expected a command word, found %v", ErrSimpleCommandFail, tok.Kind)
	}

	var argv []string
	for {
		tok, err := p.current()
		if err != nil {
			return SimpleCmd{}, err
		}
		if tok.Kind != lex.LWord {
			break
		}
		if _, err := p.consume(); err != nil {
			return SimpleCmd{}, err
		}
		argv = append(argv, tok.Text)
	}
	return SimpleCmd{Argv: argv}, nil
}
