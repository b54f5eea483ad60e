package ast

import (
	"strings"
)

// Param is one segment of a template or link: the name param (key 0), an
// anonymous value, or a key=value pair.
type Param struct {
	Branch

	// Prefix is the delimiter that opened the parameter: "|", ":" or " ".
	// It is empty for a construct's name param.
	Prefix string
	Key    Key
	// KeyParts holds the raw key text of a named parameter, including the
	// whitespace around the trimmed Key.
	KeyParts []Node
	// Before and After are the whitespace surrounding the value.
	Before string
	After  string
}

// NewParam returns a parameter whose value is the plain text value.
// A Name key gets its KeyParts from the key text.
func NewParam(prefix string, key Key, value string) *Param {
	p := &Param{Prefix: prefix}
	p.SetKey(key)
	p.SetValue(value)
	return p
}

// SetKey replaces the key. For a Name key the raw key text is the name as
// given and the stored Key is trimmed.
func (p *Param) SetKey(key Key) {
	if n, ok := key.(Name); ok {
		p.KeyParts = SplitText(string(n))
		p.Key = Name(strings.TrimSpace(string(n)))
		return
	}
	p.KeyParts = nil
	p.Key = key
}

// RawKey returns the key text exactly as written.
func (p *Param) RawKey() string {
	return join(p.KeyParts)
}

func (p *Param) IsAnonymous() bool {
	_, ok := p.Key.(Index)
	return ok
}

// IsNumbered reports whether the key is written out and all digits, as in
// {{Foo|2=bar}}.
func (p *Param) IsNumbered() bool {
	n, ok := p.Key.(Name)
	return ok && isDigits(string(n))
}

func (p *Param) IsNamed() bool {
	n, ok := p.Key.(Name)
	return ok && !isDigits(string(n))
}

// Value returns the serialized value without the surrounding whitespace.
func (p *Param) Value() string {
	return p.Branch.String()
}

func (p *Param) TrimmedValue() string {
	return strings.TrimSpace(p.Value())
}

// SetValue replaces the value with plain text. Leading and trailing
// whitespace of value land in the value itself; Before and After are kept.
func (p *Param) SetValue(value string) {
	p.Parts = SplitText(value)
}

// SetParts replaces the value with already built nodes, for example the
// children of a parsed document.
func (p *Param) SetParts(nodes ...Node) {
	p.Parts = append([]Node(nil), nodes...)
}

func (p *Param) String() string {
	var sb strings.Builder
	sb.WriteString(p.Prefix)
	if !p.IsAnonymous() {
		for _, k := range p.KeyParts {
			sb.WriteString(k.String())
		}
		sb.WriteByte('=')
	}
	sb.WriteString(p.Before)
	p.writeTo(&sb)
	sb.WriteString(p.After)
	return sb.String()
}

// TrimAfter moves the trailing blank children of the value, and the
// trailing blanks of a final text child, in front of After.
// Calling it again is a no-op.
func (p *Param) TrimAfter() {
	var after string
	for len(p.Parts) > 0 {
		switch last := p.Last().(type) {
		case *EOL:
			after = last.Content + after
		case *WhiteSpace:
			after = last.Content + after
		case *Text:
			trimmed := strings.TrimRight(last.Content, " \t\n\r\v\f")
			after = last.Content[len(trimmed):] + after
			if trimmed != "" {
				last.Content = trimmed
				p.After = after + p.After
				return
			}
		case *GlyphSpace:
			p.After = after + p.After
			return
		default:
			p.After = after + p.After
			return
		}
		p.RemoveAt(len(p.Parts) - 1)
	}
	p.After = after + p.After
}
