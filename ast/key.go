package ast

import (
	"strconv"
	"strings"
)

// Key identifies a parameter of a template or link.
//
//go:generate sumgen Key = Index | Name
type Key interface {
	String() string
	key()
}

// Index is the implicit position of an anonymous parameter, starting at 1.
// Index 0 addresses the construct's name or target.
type Index int

// Name is the explicit key of a named or numbered parameter, trimmed of
// surrounding whitespace.
type Name string

func (Index) key() {}
func (Name) key()  {}

func (i Index) String() string { return strconv.Itoa(int(i)) }
func (n Name) String() string  { return string(n) }

// KeyOf interprets s as a key: all-digit strings become an Index, anything
// else a trimmed Name. It is meant for command line input where the two
// cannot be told apart.
func KeyOf(s string) Key {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && isDigits(s) {
		return Index(n)
	}
	return Name(s)
}

// SameKey reports whether a and b address the same parameter.
func SameKey(a, b Key) bool {
	switch a := a.(type) {
	case Index:
		b, ok := b.(Index)
		return ok && a == b
	case Name:
		b, ok := b.(Name)
		return ok && a == b
	}
	return false
}

// SamePosition is like SameKey but also matches a numbered Name such as
// "2" against Index(2), which is how the dialect resolves positional
// arguments.
func SamePosition(a, b Key) bool {
	if SameKey(a, b) {
		return true
	}
	switch a := a.(type) {
	case Index:
		if n, ok := b.(Name); ok {
			return isDigits(string(n)) && strconv.Itoa(int(a)) == strings.TrimLeft(string(n), "0")
		}
	case Name:
		if i, ok := b.(Index); ok {
			return SamePosition(i, a)
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
