// Package edit implements the line editor (component B): raw-mode aware,
// byte-at-a-time input with backspace, CRLF, history navigation and a
// periodic cursor-position query. Grounded on the teacher corpus's
// kylelemons-goat/term/term_line.go (linechar/lineesc/hpush/hprev),
// generalized from a single saved-line slot and async reader goroutine
// into a synchronous ReadLine call against a shared history (component A)
// and the escape-sequence contract of spec.md §4.B.
package edit

import (
	"io"
	"os"
	"strconv"
	"strings"

	"acush/internal/rawterm"
	"acush/internal/state"
	"acush/internal/util"
)

const (
	bsByte  = 0x08
	delByte = 0x7f
	escByte = 0x1b
)

// Editor reads one edited line at a time from a terminal, echoing input
// and handling backspace, line wrap, and Up/Down history recall.
type Editor struct {
	in  *os.File
	out io.Writer
	st  *state.State

	buf   []byte
	col   int
	line  int
	cols  int
	rows  int

	histIdx int
	saved   []byte

	// escBuf is nil outside an escape sequence; once non-nil it
	// accumulates the bytes following ESC (starting with '[').
	escBuf []byte
}

// New returns an Editor reading from in and echoing to out, navigating
// st's history.
func New(in *os.File, out io.Writer, st *state.State) *Editor {
	return &Editor{in: in, out: out, st: st}
}

// ReadLine implements spec.md §4.B's read_line contract: raw mode is
// acquired for the duration of the call and restored on every exit path,
// including a read error.
func (e *Editor) ReadLine() (string, error) {
	restore, err := rawterm.Raw(e.in)
	if err != nil {
		return "", err
	}
	defer restore()

	if cols, rows, err := rawterm.Size(e.in); err == nil {
		e.cols, e.rows = cols, rows
	}

	e.buf = e.buf[:0]
	e.col = 0
	e.histIdx = e.st.Count()
	e.saved = nil
	e.escBuf = nil

	one := make([]byte, 1)
	for {
		n, err := e.in.Read(one)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		if done, line := e.feed(one[0]); done {
			return line, nil
		}
	}
}

// feed processes one input byte, returning the completed line once a
// line terminator is seen.
func (e *Editor) feed(b byte) (done bool, line string) {
	if e.escBuf != nil {
		return e.feedEscape(b)
	}

	switch {
	case b == '\n' || b == '\r':
		io.WriteString(e.out, "\r\n")
		return true, string(e.buf)
	case b == bsByte || b == delByte:
		e.backspace()
		return false, ""
	case b == escByte:
		e.escBuf = []byte{}
		return false, ""
	case b < 0x20:
		return false, ""
	default:
		e.insert(b)
		return false, ""
	}
}

func (e *Editor) insert(b byte) {
	e.buf = append(e.buf, b)
	e.out.Write([]byte{b})
	e.col++
	if e.cols > 0 && e.col >= e.cols {
		io.WriteString(e.out, "\r\n")
		e.col = 0
	}
	e.requestPosition()
}

func (e *Editor) backspace() {
	if len(e.buf) == 0 {
		return
	}
	e.buf = e.buf[:len(e.buf)-1]
	io.WriteString(e.out, "\b \b")
	if e.col == 0 {
		// Land on the previous row's last column; terminals clamp an
		// over-large Cursor-Forward count to the line's actual width.
		io.WriteString(e.out, "\x1b[A\x1b[999C")
		if e.cols > 0 {
			e.col = e.cols - 1
		}
	} else {
		e.col--
	}
	e.requestPosition()
}

// requestPosition emits a Device-Status-Report request; the reply
// arrives as a later CSI 'R' that feedEscape hands to
// handlePositionReport.
func (e *Editor) requestPosition() {
	io.WriteString(e.out, "\x1b[6n")
}

// feedEscape accumulates the bytes of one CSI sequence and dispatches it
// once the terminating byte (`@`-`~`) arrives. A non-CSI escape (ESC not
// followed by `[`) is abandoned and the byte reprocessed normally.
func (e *Editor) feedEscape(b byte) (done bool, line string) {
	if len(e.escBuf) == 0 {
		if b != '[' {
			e.escBuf = nil
			return e.feed(b)
		}
		e.escBuf = append(e.escBuf, b)
		return false, ""
	}

	e.escBuf = append(e.escBuf, b)
	if b < '@' || b > '~' {
		return false, ""
	}

	params := string(e.escBuf[1 : len(e.escBuf)-1])
	final := b
	e.escBuf = nil
	e.dispatchCSI(params, final)
	return false, ""
}

func (e *Editor) dispatchCSI(params string, final byte) {
	switch final {
	case 'A':
		e.historyUp()
	case 'B':
		e.historyDown()
	case 'R':
		e.handlePositionReport(params)
	}
	// Other final bytes (C, D, ~, ...) are not part of spec.md §4.B's
	// recognized input set and are ignored.
}

func (e *Editor) handlePositionReport(params string) {
	row, col, ok := strings.Cut(params, ";")
	if !ok {
		return
	}
	r, err1 := strconv.Atoi(row)
	c, err2 := strconv.Atoi(col)
	if err1 != nil || err2 != nil {
		return
	}
	e.line = r
	e.col = c - 1
}

// historyUp implements the Up rule of spec.md §4.B's history navigation.
func (e *Editor) historyUp() {
	count := e.st.Count()
	if e.histIdx == count && len(e.buf) > 0 {
		e.saved = append([]byte(nil), e.buf...)
	}
	if e.histIdx == 0 {
		return
	}
	e.histIdx--
	entry, _ := e.st.At(e.histIdx)
	e.replaceBuffer([]byte(entry))
}

// historyDown implements the Down rule of spec.md §4.B's history
// navigation.
func (e *Editor) historyDown() {
	count := e.st.Count()
	if e.histIdx >= count {
		return
	}
	e.histIdx++
	if e.histIdx == count {
		e.replaceBuffer(e.saved)
		return
	}
	entry, _ := e.st.At(e.histIdx)
	e.replaceBuffer([]byte(entry))
}

// replaceBuffer erases every visible character of the current buffer via
// backspace visuals, then writes newBuf in its place.
func (e *Editor) replaceBuffer(newBuf []byte) {
	for range e.buf {
		io.WriteString(e.out, "\b \b")
	}
	e.buf = append(e.buf[:0], newBuf...)
	e.out.Write(e.buf)
	// A recalled history entry may itself contain literal escape bytes
	// (pasted or typed in a previous session); strip them before using
	// the result to re-derive the tracked column.
	e.col = len(util.StripANSI(string(e.buf)))
	if e.cols > 0 {
		e.col %= e.cols
	}
	e.requestPosition()
}

