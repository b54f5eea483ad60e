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

// plaintextModule accepts every byte it is offered and buffers it until
// another module adds a node or the context exits.
type plaintextModule struct {
	base
	buf strings.Builder
}

func (m *plaintextModule) offer(ch byte) bool {
	if pm, ok := m.ctx.ctrl.(*paramModule); ok {
		pm.text(ch)
	}
	m.buf.WriteByte(ch)
	return true
}

func (m *plaintextModule) afterParse() {
	m.flush()
}

func (m *plaintextModule) empty() bool {
	return m.buf.Len() == 0
}

// flush appends the buffered text to the context's node.
func (m *plaintextModule) flush() {
	if m.buf.Len() == 0 {
		return
	}
	s := m.buf.String()
	m.buf.Reset()
	m.ctx.node.Append(textNodes(s)...)
}

// textNodes splits s into EOL nodes for runs of newlines and WhiteSpace or
// Text nodes for what lies between them.
func textNodes(s string) []ast.Node {
	var nodes []ast.Node
	for len(s) > 0 {
		var end int
		if s[0] == '\n' {
			for end < len(s) && s[end] == '\n' {
				end++
			}
			nodes = append(nodes, &ast.EOL{Content: s[:end]})
		} else {
			end = strings.IndexByte(s, '\n')
			if end < 0 {
				end = len(s)
			}
			if strings.TrimSpace(s[:end]) == "" {
				nodes = append(nodes, &ast.WhiteSpace{Content: s[:end]})
			} else {
				nodes = append(nodes, &ast.Text{Content: s[:end]})
			}
		}
		s = s[end:]
	}
	return nodes
}
