package edit

import (
	"bytes"
	"testing"

	"acush/internal/state"
)

func feedString(t *testing.T, e *Editor, s string) (done bool, line string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		done, line = e.feed(s[i])
		if done {
			return true, line
		}
	}
	return false, ""
}

func TestEditorEchoesAndReturnsLine(t *testing.T) {
	var out bytes.Buffer
	e := New(nil, &out, state.New())

	done, line := feedString(t, e, "echo hi\n")
	if !done {
		t.Fatalf("expected line completion")
	}
	if line != "echo hi" {
		t.Fatalf("got line %q", line)
	}
}

func TestEditorBackspaceErasesLastByte(t *testing.T) {
	var out bytes.Buffer
	e := New(nil, &out, state.New())

	done, line := feedString(t, e, "hello\b\b\n")
	if !done {
		t.Fatalf("expected line completion")
	}
	if line != "hel" {
		t.Fatalf("got line %q", line)
	}
}

func TestEditorBackspaceOnEmptyBufferIsNoop(t *testing.T) {
	var out bytes.Buffer
	e := New(nil, &out, state.New())

	done, line := feedString(t, e, "\b\ba\n")
	if !done {
		t.Fatalf("expected line completion")
	}
	if line != "a" {
		t.Fatalf("got line %q", line)
	}
}

func TestEditorHistoryUpRecallsMostRecentEntry(t *testing.T) {
	var out bytes.Buffer
	st := state.New()
	st.Append("first")
	st.Append("second")
	e := New(nil, &out, st)
	e.histIdx = st.Count()

	// ESC [ A is Up.
	done, _ := feedString(t, e, "\x1b[A")
	if done {
		t.Fatalf("history navigation should not complete the line")
	}
	if string(e.buf) != "second" {
		t.Fatalf("got buffer %q, want %q", e.buf, "second")
	}

	// A second Up should recall the entry before that.
	feedString(t, e, "\x1b[A")
	if string(e.buf) != "first" {
		t.Fatalf("got buffer %q, want %q", e.buf, "first")
	}
}

func TestEditorHistoryUpThenDownRestoresSavedLine(t *testing.T) {
	var out bytes.Buffer
	st := state.New()
	st.Append("first")
	e := New(nil, &out, st)
	e.histIdx = st.Count()

	feedString(t, e, "wip")
	if string(e.buf) != "wip" {
		t.Fatalf("setup: got buffer %q", e.buf)
	}

	feedString(t, e, "\x1b[A")
	if string(e.buf) != "first" {
		t.Fatalf("got buffer %q after Up, want %q", e.buf, "first")
	}

	feedString(t, e, "\x1b[B")
	if string(e.buf) != "wip" {
		t.Fatalf("got buffer %q after Down, want saved %q", e.buf, "wip")
	}
}

func TestEditorHistoryUpAtOldestEntryIsNoop(t *testing.T) {
	var out bytes.Buffer
	st := state.New()
	st.Append("only")
	e := New(nil, &out, st)
	e.histIdx = 0

	feedString(t, e, "\x1b[A")
	if string(e.buf) != "" {
		t.Fatalf("got buffer %q, want empty", e.buf)
	}
}

func TestEditorPositionReportUpdatesTrackedColumn(t *testing.T) {
	var out bytes.Buffer
	e := New(nil, &out, state.New())

	done, _ := feedString(t, e, "\x1b[12;5R")
	if done {
		t.Fatalf("position report should not complete the line")
	}
	if e.line != 12 || e.col != 4 {
		t.Fatalf("got line=%d col=%d, want line=12 col=4", e.line, e.col)
	}
}

func TestEditorIgnoresLowControlBytes(t *testing.T) {
	var out bytes.Buffer
	e := New(nil, &out, state.New())

	done, line := feedString(t, e, "a\x01b\n")
	if !done {
		t.Fatalf("expected line completion")
	}
	if line != "ab" {
		t.Fatalf("got line %q", line)
	}
}
