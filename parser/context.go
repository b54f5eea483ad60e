// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package parser

import (
	"akhil.cc/mwtext/ast"
)

// A module recognizes one family of constructs. The modules of the current
// context are offered every byte in order and the first to accept wins.
type module interface {
	// offer reports whether the module consumed the byte at the cursor. It
	// may move the cursor past more input with skip.
	offer(ch byte) bool
	// afterParse runs when the context owning the module exits.
	afterParse()
	// control records the context the module opened and now controls.
	control(c *context)
}

// base is embedded by every module.
type base struct {
	p *parser
	// ctx is the context the module belongs to.
	ctx *context
	// controlled is the context the module opened, if it is still open.
	controlled *context
}

func (b *base) afterParse()        {}
func (b *base) control(c *context) { b.controlled = c }

// exit closes the context the module controls.
func (b *base) exit() {
	c := b.controlled
	b.controlled = nil
	c.exit()
}

// context is one open construct on the parse stack.
type context struct {
	p    *parser
	node ast.Parent
	// modules in priority order: the control module first and plaintext
	// last.
	modules []module
	ctrl    module
	text    *plaintextModule
	// start is the offset of the construct's opening delimiter.
	start int
}

func (p *parser) push(node ast.Parent, ctrl module, start int) *context {
	c := &context{p: p, node: node, ctrl: ctrl, start: start}
	if ctrl != nil {
		ctrl.control(c)
		c.modules = append(c.modules, ctrl)
		switch m := ctrl.(type) {
		case *templateModule:
			c.modules = append(c.modules, newParamModule(c, m.node.Kind))
		case *linkModule:
			c.modules = append(c.modules, newParamModule(c, m.node.Kind))
		}
	}
	c.text = &plaintextModule{base: base{p: p, ctx: c}}
	c.modules = append(c.modules,
		&templateModule{base: base{p: p, ctx: c}},
		&linkModule{base: base{p: p, ctx: c}},
		&specialModule{base: base{p: p, ctx: c}},
		&markupModule{base: base{p: p, ctx: c}},
		c.text,
	)
	p.it.stack = append(p.it.stack, c)
	return c
}

// enter appends node to this context and opens a new context for it,
// controlled by ctrl.
func (c *context) enter(node ast.Parent, ctrl module) *context {
	if c.p.it.current() != c {
		panic("parser: enter on a context that is not current")
	}
	c.addNode(node)
	n := c.p.push(node, ctrl, c.p.it.i)
	c.p.log.Trace().
		Int("pos", n.start).
		Int("depth", c.p.it.depth()).
		Str("node", nodeName(node)).
		Msg("enter")
	return n
}

// exit pops this context and runs the afterParse hooks of the modules it
// owns.
func (c *context) exit() {
	it := c.p.it
	if it.current() != c {
		panic("parser: exit on a context that is not current")
	}
	it.stack = it.stack[:len(it.stack)-1]
	for _, m := range c.modules {
		if m == c.ctrl {
			continue
		}
		m.afterParse()
	}
	c.p.log.Trace().
		Int("pos", it.i).
		Int("depth", it.depth()).
		Str("node", nodeName(c.node)).
		Msg("exit")
}

// addNode flushes pending plaintext and appends n.
func (c *context) addNode(n ast.Node) {
	c.text.flush()
	c.node.Append(n)
}

// last returns the most recently added node, ignoring pending plaintext.
func (c *context) last() ast.Node {
	parts := c.node.Children()
	if len(parts) == 0 {
		return nil
	}
	return parts[len(parts)-1]
}

func nodeName(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Document:
		return "Document"
	case *ast.Template:
		return n.Kind.String()
	case *ast.Link:
		return n.Kind.String()
	case *ast.Param:
		return "Param " + n.Key.String()
	case *ast.Redirect:
		return "Redirect"
	}
	return "?"
}
