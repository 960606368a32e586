package lex

import (
	"os"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/pattern"
)

// ErrGlob is the glob-engine failure kind spec.md §4.D requires
// finalizeWord to be able to report. The sibling memory-error kind has no
// type here for the same reason parse.ErrMemory has no constructor: Go
// aborts the process on allocation failure instead of returning one.
type ErrGlob struct{ msg string }

func (e *ErrGlob) Error() string { return "glob: " + e.msg }

const globMode = pattern.Filenames | pattern.EntireString

// expandGlob matches the glob pattern encoded in acc (with backslash
// escapes neutralizing literal metacharacters, per the refining lexer's
// accumulator conventions) against the filesystem, one path segment at a
// time. It returns the sorted list of matching paths and whether any
// matched; the caller falls back to the backslash-stripped literal
// accumulator when matched is false, per spec.md §4.D "finalize word".
//
// Grounded on other_examples' mvdan-sh interp files, which drive the same
// mvdan.cc/sh/v3/pattern package to turn a shell glob into a Go regexp;
// the segment-by-segment filesystem walk here is new, since the spec's
// glob semantics (only *, ?, [ as metacharacters; \x escapes x) are
// simpler than full mvdan.cc/sh/v3/expand globbing.
func expandGlob(acc string) (matches []string, matched bool, err error) {
	if acc == "" {
		return nil, false, nil
	}
	if !pattern.HasMeta(acc, globMode) {
		lit := stripBackslashes(acc)
		if _, statErr := os.Stat(lit); statErr == nil {
			return []string{lit}, true, nil
		}
		return nil, false, nil
	}

	absolute := strings.HasPrefix(acc, "/")
	segments := strings.Split(acc, "/")

	roots := []string{"."}
	if absolute {
		roots = []string{"/"}
		segments = segments[1:]
	}

	for _, seg := range segments {
		if seg == "" {
			continue
		}
		var next []string
		if !pattern.HasMeta(seg, globMode) {
			lit := stripBackslashes(seg)
			for _, base := range roots {
				next = append(next, joinPath(base, lit))
			}
		} else {
			re, reErr := pattern.Regexp(seg, globMode)
			if reErr != nil {
				return nil, false, &ErrGlob{msg: reErr.Error()}
			}
			for _, base := range roots {
				entries, readErr := os.ReadDir(base)
				if readErr != nil {
					continue
				}
				for _, entry := range entries {
					name := entry.Name()
					if strings.HasPrefix(name, ".") && !strings.HasPrefix(seg, ".") {
						continue
					}
					if re.MatchString(name) {
						next = append(next, joinPath(base, name))
					}
				}
			}
		}
		roots = next
		if len(roots) == 0 {
			return nil, false, nil
		}
	}

	for _, candidate := range roots {
		if _, statErr := os.Stat(candidate); statErr == nil {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		return nil, false, nil
	}
	sort.Strings(matches)
	return matches, true, nil
}

func joinPath(base, name string) string {
	switch base {
	case ".":
		return name
	case "/":
		return "/" + name
	default:
		return base + "/" + name
	}
}

// stripBackslashes removes every single backslash character, unescaping
// the accumulator's \x -> x convention. Used both as the glob-miss
// fallback and when joining literal (non-meta) path segments.
func stripBackslashes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
		escaped = false
	}
	return b.String()
}
