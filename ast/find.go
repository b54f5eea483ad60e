package ast

import (
	"iter"
)

// Templates returns the templates below n, n itself included, in document
// order. The tree is walked anew on every iteration, so a sequence obtained
// before a mutation observes the mutation.
func Templates(n Node) iter.Seq[*Template] {
	return func(yield func(*Template) bool) {
		walkUntil(n, func(c Node) bool {
			if t, ok := c.(*Template); ok {
				return yield(t)
			}
			return true
		})
	}
}

// TemplatesNamed is like Templates but yields only templates whose normalized
// name equals name, compared case-insensitively on the first letter as the
// dialect does.
func TemplatesNamed(n Node, name string) iter.Seq[*Template] {
	want := normalizeName(name)
	return func(yield func(*Template) bool) {
		for t := range Templates(n) {
			if sameTitle(t.Name, want) && !yield(t) {
				return
			}
		}
	}
}

// Links returns the links below n, n itself included, in document order.
func Links(n Node) iter.Seq[*Link] {
	return func(yield func(*Link) bool) {
		walkUntil(n, func(c Node) bool {
			if l, ok := c.(*Link); ok {
				return yield(l)
			}
			return true
		})
	}
}

// walkUntil visits n and its descendants in pre-order and reports false as
// soon as f does.
func walkUntil(n Node, f func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !f(n) {
		return false
	}
	if p, ok := n.(Parent); ok {
		for _, c := range p.Children() {
			if !walkUntil(c, f) {
				return false
			}
		}
	}
	return true
}

func sameTitle(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" || len(a) != len(b) {
		return false
	}
	return upperFirst(a) == upperFirst(b)
}

func upperFirst(s string) string {
	if c := s[0]; 'a' <= c && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Document:
		return &Document{Branch: cloneBranch(n.Branch)}
	case *Redirect:
		return &Redirect{Branch: cloneBranch(n.Branch)}
	case *Template:
		c := *n
		c.Branch = cloneBranch(n.Branch)
		return &c
	case *Link:
		c := *n
		c.Branch = cloneBranch(n.Branch)
		c.TargetParts = cloneNodes(n.TargetParts)
		return &c
	case *Param:
		c := *n
		c.Branch = cloneBranch(n.Branch)
		c.KeyParts = cloneNodes(n.KeyParts)
		return &c
	case *Comment:
		c := *n
		return &c
	case *Nowiki:
		c := *n
		return &c
	case *Text:
		return &Text{n.Content}
	case *GlyphSpace:
		return &GlyphSpace{n.Content}
	case *WhiteSpace:
		return &WhiteSpace{n.Content}
	case *EOL:
		return &EOL{n.Content}
	case *BehaviorSwitch:
		return &BehaviorSwitch{n.Content}
	}
	panic("ast: unknown node type")
}

func cloneBranch(b Branch) Branch {
	return Branch{Parts: cloneNodes(b.Parts)}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	c := make([]Node, len(nodes))
	for i, n := range nodes {
		c[i] = Clone(n)
	}
	return c
}
