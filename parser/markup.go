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

	"akhil.cc/mwtext/ast"
)

var (
	commentRE    = regexp.MustCompile(`(?s)^(<!--)(.*?)(-->)`)
	nowikiRE     = regexp.MustCompile(`(?is)^(<nowiki\s*>)(.*?)(</nowiki\s*>)`)
	nowikiSelfRE = regexp.MustCompile(`(?i)^<nowiki\s*/>`)
)

// markupModule recognizes comments and nowiki blocks. Their content is kept
// verbatim and never offered to another module.
type markupModule struct {
	base
}

func (m *markupModule) offer(ch byte) bool {
	if ch != '<' {
		return false
	}
	it := m.p.it
	peek := it.peek(0)
	if sm := commentRE.FindStringSubmatch(peek); sm != nil {
		m.ctx.addNode(&ast.Comment{Open: sm[1], Content: sm[2], Close: sm[3]})
		it.skipString(sm[0])
		return true
	}
	if sm := nowikiRE.FindStringSubmatch(peek); sm != nil {
		m.ctx.addNode(&ast.Nowiki{Open: sm[1], Content: sm[2], Close: sm[3]})
		it.skipString(sm[0])
		return true
	}
	if s := nowikiSelfRE.FindString(peek); s != "" {
		m.ctx.addNode(&ast.Nowiki{Open: s})
		it.skipString(s)
		return true
	}
	return false
}
