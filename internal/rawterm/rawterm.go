// Package rawterm acquires and releases raw terminal mode and queries
// terminal dimensions for the line editor (component B). It modernizes
// the cgo/raw-ioctl approach of the teacher corpus's termios package
// (kylelemons-goat/termios) with golang.org/x/term and github.com/creack/pty,
// the same two packages kir-gadjello-llm and the teacher respectively
// already pull in for identical jobs.
package rawterm

import (
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Raw puts f into raw mode (no local echo, no canonical processing) and
// returns a restore function that puts the terminal back exactly as it
// was. restore is safe to call multiple times and is intended to be used
// with defer so that it runs on every exit path, including panics:
//
//	restore, err := rawterm.Raw(f)
//	if err != nil {
//	    return err
//	}
//	defer restore()
func Raw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	restored := false
	restore = func() error {
		if restored {
			return nil
		}
		restored = true
		return term.Restore(fd, prev)
	}
	return restore, nil
}

// Size returns the current width (columns) and height (rows) of the
// terminal connected to f, via the same TIOCGWINSZ ioctl the teacher
// already reaches for through creack/pty (there, to size a PTY handed to
// a spawned child; here, to query the shell's own controlling terminal).
func Size(f *os.File) (cols, rows int, err error) {
	ws, err := pty.GetsizeFull(f)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Cols), int(ws.Rows), nil
}
