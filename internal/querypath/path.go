// Package querypath parses dotted field paths such as "Dimensions.Value" and
// maps them onto the key casing used by stored housing documents.
//
// Path segments end up inside SQL text (as JSON path literals), so every
// segment is restricted to ASCII letters, digits and underscore. Anything
// else is rejected here, before any SQL is generated.
package querypath

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidPath is returned for paths that cannot be compiled.
var ErrInvalidPath = errors.New("invalid field path")

// Separator splits path segments.
const Separator = "."

// Path is a parsed dotted field path with at least one segment.
// The zero value is not a valid Path; use Parse.
type Path struct {
	segments []string
}

// Parse splits raw on "." and validates each segment.
//
// Empty input, empty segments (leading, trailing or doubled dots) and
// segments containing characters outside [A-Za-z0-9_] are rejected.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	segments := strings.Split(raw, Separator)
	for i, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty segment at position %d", ErrInvalidPath, raw, i)
		}
		if r, ok := firstUnsafeRune(seg); ok {
			return Path{}, fmt.Errorf("%w: %q contains disallowed character %q", ErrInvalidPath, raw, r)
		}
	}

	return Path{segments: segments}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Segments returns a copy of the raw segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// String returns the path as given by the caller.
func (p Path) String() string {
	return strings.Join(p.segments, Separator)
}

// OutputKey returns the last raw segment. It names the field in responses
// and keeps the caller's casing.
func (p Path) OutputKey() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

func firstUnsafeRune(seg string) (rune, bool) {
	for _, r := range seg {
		if !isSafeRune(r) {
			return r, true
		}
	}
	return 0, false
}

func isSafeRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// Capitalize upper-cases the first character and leaves the rest unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
