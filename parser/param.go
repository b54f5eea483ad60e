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
	"regexp"
	"strings"

	"akhil.cc/mwtext/ast"
)

var (
	keyRE    = regexp.MustCompile(`^[a-zA-Z0-9\-_.\s]+$`)
	beforeRE = regexp.MustCompile(`^(\s+)(\S)`)
)

// paramModule splits the body of a template or link into parameters. One
// module serves all parameters of its construct: it lives in the
// construct's context and controls the context of the parameter being
// parsed.
type paramModule struct {
	base
	kind  ast.Kind
	param *ast.Param
	// count is the number of parameters started so far.
	count int
	// anon is the key of the next anonymous parameter.
	anon ast.Index
	// completed is set once the construct's closing delimiter was seen.
	completed bool
	// braces counts '{' minus '}' that ended up as plain text in the
	// current value.
	braces int
}

func newParamModule(c *context, kind ast.Kind) *paramModule {
	return &paramModule{
		base: base{p: c.p, ctx: c},
		kind: kind,
		anon: 1,
	}
}

func (m *paramModule) afterParse() {
	m.finishParam()
}

func (m *paramModule) finishParam() {
	if m.param != nil {
		m.param.TrimAfter()
		m.param = nil
	}
}

// exit closes the context of the current parameter.
func (m *paramModule) exit() {
	m.base.exit()
	m.finishParam()
}

// start matches the beginning of a parameter at s. It returns the prefix,
// the text up to the next delimiter and that delimiter.
func (m *paramModule) start(s string) (prefix, key string, end byte, ok bool) {
	if s == "" {
		return "", "", 0, false
	}
	var prefixes, ends string
	switch {
	case m.kind == ast.ExternalLink && m.count > 0:
		// The label runs to the closing bracket.
		return "", "", 0, false
	case m.kind == ast.ExternalLink:
		prefixes, ends = " ", "|=]"
	case m.kind.IsLink():
		prefixes, ends = "|", "|=]"
	case (m.kind == ast.ParserFunction || m.kind == ast.Variable) && m.count == 0:
		prefixes, ends = "|:", "|=}"
	default:
		prefixes, ends = "|", "|=}"
	}
	if strings.IndexByte(prefixes, s[0]) < 0 {
		return "", "", 0, false
	}
	i := strings.IndexAny(s[1:], ends)
	if i < 0 {
		return "", "", 0, false
	}
	return s[:1], s[1 : i+1], s[i+1], true
}

// text records a byte of the current value that no module claimed. Braces
// opening nested constructs are closed by those constructs and never get
// here.
func (m *paramModule) text(ch byte) {
	switch {
	case ch == '{':
		m.braces++
	case ch == '}' && m.braces > 0:
		m.braces--
	}
}

// parentEnd reports whether s starts with the construct's closing delimiter.
func (m *paramModule) parentEnd(s string) bool {
	switch m.kind {
	case ast.InternalLink, ast.FileLink:
		return strings.HasPrefix(s, "]]")
	case ast.ExternalLink:
		return strings.HasPrefix(s, "]")
	case ast.TemplateParam:
		if m.braces > 0 && strings.HasPrefix(s, "}}}}") {
			return false
		}
		return strings.HasPrefix(s, "}}}")
	}
	if m.braces > 0 && strings.HasPrefix(s, "}}}") {
		return false
	}
	return strings.HasPrefix(s, "}}")
}

func (m *paramModule) offer(ch byte) bool {
	if m.completed {
		return false
	}
	it := m.p.it
	peek := it.peek(0)

	// The construct's closing delimiter ends the last parameter. Step back
	// so the construct's own module sees the delimiter too.
	if m.controlled != nil && m.parentEnd(peek) {
		m.completed = true
		m.exit()
		it.rollback(1)
		return true
	}

	prefix, key, end, ok := m.start(peek)
	if !ok {
		return false
	}
	if m.controlled != nil {
		m.exit()
	}
	m.braces = 0

	anonymous := end != '=' || !keyRE.MatchString(key) || m.kind == ast.ExternalLink
	p := &ast.Param{Prefix: prefix}
	if anonymous {
		p.Key = m.anon
		m.anon++
	} else {
		p.SetKey(ast.Name(key))
	}
	m.param = p
	m.count++
	m.ctx.enter(p, m)
	if !anonymous {
		it.skip(len(prefix) + len(key) + 1)
	}

	if sm := beforeRE.FindStringSubmatch(it.peek(0)[1:]); sm != nil {
		ws := sm[1]
		if strings.ContainsAny(sm[2], "|}]") {
			// The parameter has no value.
			if strings.HasSuffix(ws, "\n") {
				ws = ws[:len(ws)-1]
			} else {
				ws = ""
			}
		}
		if ws != "" {
			p.Before = ws
			it.skip(len(ws) + 1)
		}
	}
	return true
}
