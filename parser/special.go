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

var redirectRE = regexp.MustCompile(`(?i)^(#REDIRECT)([ \t]*)`)

// specialModule recognizes behavior switches anywhere and the redirect
// keyword at the start of a line.
type specialModule struct {
	base
}

func (m *specialModule) offer(ch byte) bool {
	switch ch {
	case '_':
		return m.behaviorSwitch()
	case '#':
		return m.redirect()
	}
	return false
}

func (m *specialModule) behaviorSwitch() bool {
	it := m.p.it
	peek := it.peek(0)
	if !strings.HasPrefix(peek, "__") {
		return false
	}
	end := 2
	for end < len(peek) && isWordByte(peek[end]) {
		end++
	}
	if end == 2 || !strings.HasPrefix(peek[end:], "__") {
		return false
	}
	if !m.p.words.switches[strings.ToUpper(peek[2:end])] {
		return false
	}
	s := peek[:end+2]
	m.ctx.addNode(&ast.BehaviorSwitch{Content: s})
	it.skipString(s)
	return true
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func (m *specialModule) redirect() bool {
	it := m.p.it
	if !it.atLineStart() {
		return false
	}
	sm := redirectRE.FindStringSubmatch(it.peek(0))
	if sm == nil {
		return false
	}
	r := &ast.Redirect{}
	r.Append(&ast.Text{Content: sm[1]})
	if sm[2] != "" {
		r.Append(&ast.WhiteSpace{Content: sm[2]})
	}
	m.ctx.addNode(r)
	it.skipString(sm[0])
	return true
}
