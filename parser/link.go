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

// linkModule recognizes internal links, file links and external links.
type linkModule struct {
	base
	node *ast.Link
}

func (m *linkModule) offer(ch byte) bool {
	if m.node != nil {
		return ch == ']' && m.close()
	}
	if ch != '[' {
		return false
	}
	it := m.p.it
	kind, open, target, end, ok := m.scanLinkStart(it.peek(0))
	if !ok {
		return false
	}
	l := ast.NewLink(kind, target)
	if strings.HasPrefix(end, "]") {
		// A link right after a redirect keyword is the redirect's target.
		if r, ok := m.ctx.last().(*ast.Redirect); ok && m.ctx.text.empty() && r.Link() == nil {
			r.Append(l)
		} else {
			m.ctx.addNode(l)
		}
		it.skip(len(open) + len(target) + len(end))
		return true
	}
	m.node = l
	m.ctx.enter(l, m)
	it.skip(len(open) + len(target))
	return true
}

// scanLinkStart splits the start of s into the opening brackets, the target
// and the byte sequence that ended the target.
func (m *linkModule) scanLinkStart(s string) (kind ast.Kind, open, target, end string, ok bool) {
	if strings.HasPrefix(s, "[[") {
		rest := s[2:]
		for i := 0; i < len(rest); i++ {
			switch rest[i] {
			case '\n':
				return 0, "", "", "", false
			case '|':
				target, end = rest[:i], "|"
			case ']':
				if strings.HasPrefix(rest[i:], "]]") {
					target, end = rest[:i], "]]"
				}
			}
			if end != "" {
				break
			}
		}
		if target == "" || m.p.words.scheme(strings.TrimLeft(target, " \t")) != "" {
			return 0, "", "", "", false
		}
		kind = ast.InternalLink
		if m.p.words.isFile(target) {
			kind = ast.FileLink
		}
		return kind, "[[", target, end, true
	}
	rest := s[1:]
	if m.p.words.scheme(rest) == "" {
		return 0, "", "", "", false
	}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\n':
			return 0, "", "", "", false
		case ' ', ']':
			return ast.ExternalLink, "[", rest[:i], rest[i : i+1], true
		}
	}
	return 0, "", "", "", false
}

// close ends the open link. Internal and file links only close on "]]",
// external links on a single "]".
func (m *linkModule) close() bool {
	it := m.p.it
	end := "]"
	if m.node.Kind != ast.ExternalLink {
		end = "]]"
	}
	if it.peek(len(end)) != end {
		return false
	}
	m.exit()
	it.skipString(end)
	m.node = nil
	return true
}
