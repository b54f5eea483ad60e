// Package ast declares the types used to represent wikitext syntax trees.
//
// Every node serializes back to the exact text it was parsed from through its
// String method. A parent's serialization is the concatenation of its
// children's, wrapped in whatever fixed delimiters the node owns, so the
// invariant survives arbitrary insertions and removals made through the
// Parent methods.
package ast

import (
	"strings"
)

//go:generate sumgen Node = *Document | *Template | *Param | *Link | *Redirect | *Comment | *Nowiki | *Text | *GlyphSpace | *WhiteSpace | *EOL | *BehaviorSwitch
type Node interface {
	String() string
	node()
}

// Parent is a node with an ordered list of children.
type Parent interface {
	Node
	Children() []Node
	Len() int
	Append(nodes ...Node)
	InsertAt(index int, nodes ...Node) bool
	RemoveAt(index int) Node
	Remove(n Node) bool
	Replace(old, with Node) bool
	IndexOf(n Node) int
	branch() *Branch
}

// Branch is the slice-backed child list embedded by every parent node.
type Branch struct {
	Parts []Node
}

func (b *Branch) branch() *Branch { return b }

// Children returns the child list. The slice is shared with the node.
func (b *Branch) Children() []Node { return b.Parts }

func (b *Branch) Len() int { return len(b.Parts) }

func (b *Branch) Append(nodes ...Node) {
	b.Parts = append(b.Parts, nodes...)
}

// InsertAt inserts nodes before index. An index equal to Len appends.
func (b *Branch) InsertAt(index int, nodes ...Node) bool {
	if index < 0 || index > len(b.Parts) {
		return false
	}
	b.Parts = append(b.Parts[:index], append(append([]Node(nil), nodes...), b.Parts[index:]...)...)
	return true
}

// RemoveAt removes and returns the child at index, or nil if index is out of
// range.
func (b *Branch) RemoveAt(index int) Node {
	if index < 0 || index >= len(b.Parts) {
		return nil
	}
	n := b.Parts[index]
	copy(b.Parts[index:], b.Parts[index+1:])
	b.Parts[len(b.Parts)-1] = nil
	b.Parts = b.Parts[:len(b.Parts)-1]
	return n
}

func (b *Branch) Remove(n Node) bool {
	return b.RemoveAt(b.IndexOf(n)) != nil
}

func (b *Branch) Replace(old, with Node) bool {
	i := b.IndexOf(old)
	if i < 0 {
		return false
	}
	b.Parts[i] = with
	return true
}

// IndexOf returns the index of n among the children, or -1.
func (b *Branch) IndexOf(n Node) int {
	for i, p := range b.Parts {
		if p == n {
			return i
		}
	}
	return -1
}

// Last returns the last child or nil.
func (b *Branch) Last() Node {
	if len(b.Parts) == 0 {
		return nil
	}
	return b.Parts[len(b.Parts)-1]
}

func (b *Branch) String() string {
	var sb strings.Builder
	b.writeTo(&sb)
	return sb.String()
}

func (b *Branch) writeTo(sb *strings.Builder) {
	for _, p := range b.Parts {
		sb.WriteString(p.String())
	}
}

// Document is the root of a parsed tree.
type Document struct {
	Branch
}

// Text is a run of plain text that is neither blank nor a line break.
type Text struct {
	Content string
}

// GlyphSpace is a run of non-whitespace characters inside a key, name or
// link target.
type GlyphSpace struct {
	Content string
}

// WhiteSpace is a run of blanks containing no line break.
type WhiteSpace struct {
	Content string
}

// EOL is a run of line breaks.
type EOL struct {
	Content string
}

// BehaviorSwitch is a magic word such as __NOTOC__.
type BehaviorSwitch struct {
	Content string
}

// Comment is an HTML comment. Its content is never parsed.
type Comment struct {
	Open    string
	Content string
	Close   string
}

// Nowiki is a literal block. Its content is never parsed.
type Nowiki struct {
	Open    string
	Content string
	Close   string
}

// Redirect holds a redirect keyword, the whitespace after it and, once
// parsed, the link it points to.
type Redirect struct {
	Branch
}

// Link returns the redirect target, or nil.
func (r *Redirect) Link() *Link {
	for _, p := range r.Parts {
		if l, ok := p.(*Link); ok {
			return l
		}
	}
	return nil
}

func (n *Text) String() string           { return n.Content }
func (n *GlyphSpace) String() string     { return n.Content }
func (n *WhiteSpace) String() string     { return n.Content }
func (n *EOL) String() string            { return n.Content }
func (n *BehaviorSwitch) String() string { return n.Content }
func (n *Comment) String() string        { return n.Open + n.Content + n.Close }
func (n *Nowiki) String() string         { return n.Open + n.Content + n.Close }

func (*Document) node()       {}
func (*Template) node()       {}
func (*Param) node()          {}
func (*Link) node()           {}
func (*Redirect) node()       {}
func (*Comment) node()        {}
func (*Nowiki) node()         {}
func (*Text) node()           {}
func (*GlyphSpace) node()     {}
func (*WhiteSpace) node()     {}
func (*EOL) node()            {}
func (*BehaviorSwitch) node() {}

// IsBlank reports whether n is a whitespace or line break leaf.
func IsBlank(n Node) bool {
	switch t := n.(type) {
	case *WhiteSpace, *EOL:
		return true
	case *Text:
		return strings.TrimSpace(t.Content) == ""
	}
	return false
}

// SplitText splits plain text into GlyphSpace, WhiteSpace and EOL leaves.
// Whitespace runs containing a line break become EOL.
func SplitText(s string) []Node {
	var (
		nodes []Node
		start int
	)
	for start < len(s) {
		end := start
		if isSpace(s[start]) {
			nl := false
			for end < len(s) && isSpace(s[end]) {
				nl = nl || s[end] == '\n'
				end++
			}
			if nl {
				nodes = append(nodes, &EOL{s[start:end]})
			} else {
				nodes = append(nodes, &WhiteSpace{s[start:end]})
			}
		} else {
			for end < len(s) && !isSpace(s[end]) {
				end++
			}
			nodes = append(nodes, &GlyphSpace{s[start:end]})
		}
		start = end
	}
	return nodes
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func join(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.String())
	}
	return sb.String()
}

// Walker is called for every node visited by Walk. The returned node replaces
// the visited one; returning nil removes it from its parent.
type Walker func(Node) (Node, error)

// Walk visits n and its descendants in pre-order. Children of a node are
// visited after f has been applied to the node itself, so a replacement's
// children are walked instead of the original's.
func Walk(n Node, f Walker) (Node, error) {
	if n == nil {
		return nil, nil
	}
	nn, err := f(n)
	if err != nil {
		return n, err
	}
	if nn == nil {
		return nil, nil
	}
	p, ok := nn.(Parent)
	if !ok {
		return nn, nil
	}
	b := p.branch()
	for i := 0; i < len(b.Parts); {
		c, err := Walk(b.Parts[i], f)
		if err != nil {
			return nn, err
		}
		if c == nil {
			b.RemoveAt(i)
			continue
		}
		b.Parts[i] = c
		i++
	}
	return nn, nil
}

// Inspect calls f for n and each descendant in pre-order until f returns
// false for a node, in which case that node's children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	if p, ok := n.(Parent); ok {
		for _, c := range p.Children() {
			Inspect(c, f)
		}
	}
}
