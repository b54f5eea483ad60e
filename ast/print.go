package ast

import (
	"fmt"
	"io"
	"strings"
)

// Sprint returns a one-line outline of the tree rooted at n, for example
//
//	Document[Template(Foo)[Param(0)[Glyph("Foo")] Param(a=)[Text("1")]]]
//
// Anonymous parameters print their index, named ones their key followed
// by '='.
func Sprint(n Node) string {
	var sb strings.Builder
	outline(&sb, n)
	return sb.String()
}

func outline(sb *strings.Builder, n Node) {
	sb.WriteString(label(n))
	p, ok := n.(Parent)
	if !ok {
		return
	}
	sb.WriteByte('[')
	for i, c := range p.Children() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		outline(sb, c)
	}
	sb.WriteByte(']')
}

func label(n Node) string {
	switch n := n.(type) {
	case *Document:
		return "Document"
	case *Redirect:
		return "Redirect"
	case *Template:
		return n.Kind.String() + "(" + n.Name + ")"
	case *Link:
		return n.Kind.String() + "(" + n.Target + ")"
	case *Param:
		if n.IsAnonymous() {
			return "Param(" + n.Key.String() + ")"
		}
		return "Param(" + n.Key.String() + "=)"
	case *Text:
		return fmt.Sprintf("Text(%q)", n.Content)
	case *GlyphSpace:
		return fmt.Sprintf("Glyph(%q)", n.Content)
	case *WhiteSpace:
		return fmt.Sprintf("WhiteSpace(%q)", n.Content)
	case *EOL:
		return fmt.Sprintf("EOL(%q)", n.Content)
	case *BehaviorSwitch:
		return fmt.Sprintf("BehaviorSwitch(%q)", n.Content)
	case *Comment:
		return fmt.Sprintf("Comment(%q)", n.Content)
	case *Nowiki:
		return fmt.Sprintf("Nowiki(%q)", n.Content)
	}
	return fmt.Sprintf("%T", n)
}

// Fprint writes an indented outline of the tree rooted at n to w, one node
// per line.
func Fprint(w io.Writer, n Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n Node, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label(n)); err != nil {
		return err
	}
	if p, ok := n.(Parent); ok {
		for _, c := range p.Children() {
			if err := fprint(w, c, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
