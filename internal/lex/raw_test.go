package lex

import "testing"

func collectRaw(input string) []RawToken {
	l := NewRawLexer(input)
	var out []RawToken
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == End {
			return out
		}
	}
}

func TestRawLexerLossless(t *testing.T) {
	inputs := []string{
		"",
		"echo hello world",
		"ls | wc -l",
		"cat < in.txt > out.txt",
		"echo 2> err.txt",
		"echo two2words",
		"'quoted string' \"another\"",
		"a;b&c!d",
		"  leading and trailing  ",
	}
	for _, in := range inputs {
		toks := collectRaw(in)
		var rebuilt string
		for _, tok := range toks {
			if tok.Kind == End {
				break
			}
			rebuilt += tok.Text
		}
		if rebuilt != in {
			t.Errorf("lossless property failed for %q: rebuilt %q", in, rebuilt)
		}
	}
}

func TestRawLexerAngleRR(t *testing.T) {
	toks := collectRaw("echo 2> err.txt")
	kinds := []RawKind{}
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []RawKind{Text, Whitespace, AngleRR, Whitespace, Text, End}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("got %v, want %v", kinds, want)
		}
	}
}

func TestRawLexerLoneTwoIsText(t *testing.T) {
	toks := collectRaw("echo 2 3")
	// "2" not followed by ">" is ordinary text, part of its own Text run.
	if toks[2].Kind != Text || toks[2].Text != "2" {
		t.Fatalf("token[2] = %+v, want Text \"2\"", toks[2])
	}
}

func TestRawLexerFinishesPastEnd(t *testing.T) {
	l := NewRawLexer("x")
	for i := 0; i < 5; i++ {
		tok := l.Next()
		if i >= 1 && tok.Kind != End {
			t.Fatalf("call %d: got %v, want End", i, tok.Kind)
		}
	}
}

func TestRawLexerMetacharacters(t *testing.T) {
	toks := collectRaw("&;!|<>'\"*?[\\")
	want := []RawKind{Amp, Semicolon, Exclam, Pipe, AngleL, AngleR, SQuote, DQuote, Asterisk, Question, LBracket, Backslash, End}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if tok.Kind != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, tok.Kind, want[i])
		}
	}
}
