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
	"strings"

	"akhil.cc/mwtext/ast"
)

// templateModule recognizes templates, variables, parser functions and
// template parameters.
type templateModule struct {
	base
	// node is the construct the module has open, if any.
	node *ast.Template
}

func (m *templateModule) offer(ch byte) bool {
	if m.node != nil {
		return m.close()
	}
	if ch != '{' {
		return false
	}
	it := m.p.it
	peek := it.peek(0)
	open, name, end, ok := scanTemplateStart(peek)
	if !ok {
		return false
	}
	t := ast.NewTemplate(m.kind(open, name, end), name)
	if strings.HasPrefix(end, "}") {
		m.ctx.addNode(t)
		it.skip(len(open) + len(name) + len(end))
		return true
	}
	m.node = t
	m.ctx.enter(t, m)
	it.skip(len(open) + len(name))
	return true
}

func (m *templateModule) kind(open, name, end string) ast.Kind {
	switch {
	case len(open) == 3:
		return ast.TemplateParam
	case end == ":" || strings.Contains(name, "#"):
		return ast.ParserFunction
	case m.p.words.variables[strings.TrimSpace(name)]:
		return ast.Variable
	}
	return ast.TemplateCall
}

// scanTemplateStart splits the start of s into the opening braces, the name
// and whatever ended the name: "|", ":", "<" or the closing braces. A name
// opened with three braces is not ended by ":" and only closes on three
// braces.
func scanTemplateStart(s string) (open, name, end string, ok bool) {
	switch {
	case strings.HasPrefix(s, "{{{"):
		open = "{{{"
	case strings.HasPrefix(s, "{{"):
		open = "{{"
	default:
		return "", "", "", false
	}
	for i := len(open); i < len(s); i++ {
		switch s[i] {
		case '|', '<':
			return open, s[len(open):i], s[i : i+1], true
		case ':':
			if open == "{{" {
				return open, s[len(open):i], ":", true
			}
		case '}':
			if !strings.HasPrefix(s[i:], "}}") {
				continue
			}
			if open == "{{{" {
				if !strings.HasPrefix(s[i:], "}}}") {
					return "", "", "", false
				}
				return open, s[len(open):i], "}}}", true
			}
			return open, s[len(open):i], "}}", true
		}
	}
	return "", "", "", false
}

// close ends the open construct on its closing braces.
func (m *templateModule) close() bool {
	it := m.p.it
	end := "}}"
	if m.node.Kind == ast.TemplateParam {
		end = "}}}"
	}
	if it.peek(len(end)) != end {
		return false
	}
	hoistComments(m.node)
	m.exit()
	it.skipString(end)
	m.node = nil
	return true
}

// hoistComments moves comments trailing a parameter value, and the
// whitespace around them, out of the parameter and into t right after it.
func hoistComments(t *ast.Template) {
	var parts []ast.Node
	for _, n := range t.Parts {
		parts = append(parts, n)
		p, ok := n.(*ast.Param)
		if !ok {
			continue
		}
		var moved []ast.Node
		for {
			c, ok := p.Last().(*ast.Comment)
			if !ok {
				break
			}
			p.RemoveAt(p.Len() - 1)
			if p.After != "" {
				moved = append(ast.SplitText(p.After), moved...)
				p.After = ""
			}
			moved = append([]ast.Node{c}, moved...)
			p.TrimAfter()
		}
		parts = append(parts, moved...)
	}
	t.Parts = parts
}
