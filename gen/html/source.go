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

package html

import (
	"strings"

	"akhil.cc/mwtext/ast"
	"akhil.cc/mwtext/quotes"
)

// sourceWriter writes the source text of a document in order, escaped, and
// turns the quote runs of every source line into <b> and <i> tags. Quote
// tags never cross an element: they are closed before every element tag
// and opened again in front of the next text.
type sourceWriter struct {
	*errWriter
	// bounds are the quote boundaries of the document, at absolute offsets.
	bounds []quotes.Boundary
	next   int
	// off is the offset of the next source byte to be written.
	off int
	// skipTo is the end of the last quote run replaced by a tag.
	skipTo int
	// open are the quote tags in effect, the first shown of them written.
	open  []quotes.Type
	shown int
}

func newSourceWriter(w *errWriter, src string) *sourceWriter {
	s := &sourceWriter{errWriter: w}
	start := 0
	for _, line := range strings.SplitAfter(src, "\n") {
		for _, b := range quotes.Boundaries(strings.TrimSuffix(line, "\n")) {
			b.Pos += start
			s.bounds = append(s.bounds, b)
		}
		start += len(line)
	}
	return s
}

// source writes s, the source text at the current offset.
func (s *sourceWriter) source(text string) {
	i := 0
	if s.skipTo > s.off {
		i = min(s.skipTo-s.off, len(text))
	}
	for ; s.next < len(s.bounds); s.next++ {
		b := s.bounds[s.next]
		at := b.Pos - s.off
		if at >= len(text) {
			break
		}
		at = max(at, i)
		s.text(text[i:at])
		s.quote(b.Type)
		s.skipTo = b.Pos + b.Len
		i = min(max(at, s.skipTo-s.off), len(text))
	}
	s.text(text[i:])
	s.off += len(text)
}

// skip moves past n bytes of source that are written some other way.
func (s *sourceWriter) skip(n int) {
	s.off += n
}

func (s *sourceWriter) text(t string) {
	if t == "" {
		return
	}
	for ; s.shown < len(s.open); s.shown++ {
		s.WriteString(s.open[s.shown].Tag())
	}
	s.WriteString(escape(t))
}

// quote applies a boundary. Opening tags are written lazily by text.
func (s *sourceWriter) quote(t quotes.Type) {
	if t == quotes.BoldOpen || t == quotes.ItalicOpen {
		s.open = append(s.open, t)
		return
	}
	opener := t - 1
	i := len(s.open) - 1
	for i >= 0 && s.open[i] != opener {
		i--
	}
	if i < 0 {
		return
	}
	if i < s.shown {
		for j := s.shown - 1; j >= i; j-- {
			s.WriteString((s.open[j] + 1).Tag())
		}
		s.shown = i
	}
	s.open = append(s.open[:i], s.open[i+1:]...)
}

// element writes an element tag, closing the quote tags shown so far.
func (s *sourceWriter) element(tag string) {
	s.closeShown()
	s.WriteString(tag)
}

// closeShown closes the quote tags written so far. They are written again
// in front of the next text.
func (s *sourceWriter) closeShown() {
	for j := s.shown - 1; j >= 0; j-- {
		s.WriteString((s.open[j] + 1).Tag())
	}
	s.shown = 0
}

// masked returns the source of n with the bytes of comments, nowiki and
// filtered templates replaced, so that their apostrophes resolve to nothing.
// Newlines are kept so the lines stay the same.
func masked(n ast.Node, filters map[string]string) string {
	var sb strings.Builder
	mask(&sb, n, filters)
	return sb.String()
}

func hide(r rune) rune {
	if r == '\n' {
		return r
	}
	return 'x'
}

func mask(sb *strings.Builder, n ast.Node, filters map[string]string) {
	switch n := n.(type) {
	case *ast.Comment, *ast.Nowiki:
		sb.WriteString(strings.Map(hide, n.String()))
	case *ast.Template:
		if _, ok := filters[n.Name]; ok {
			sb.WriteString(strings.Map(hide, n.String()))
			return
		}
		lbrace, rbrace := braces(n.Kind)
		sb.WriteString(lbrace)
		maskAll(sb, n.Parts, filters)
		sb.WriteString(rbrace)
	case *ast.Link:
		lbrack, rbrack := brackets(n.Kind)
		sb.WriteString(lbrack)
		maskAll(sb, n.TargetParts, filters)
		maskAll(sb, n.Parts, filters)
		sb.WriteString(rbrack)
	case *ast.Param:
		sb.WriteString(n.Prefix)
		if !n.IsAnonymous() {
			sb.WriteString(n.RawKey() + "=")
		}
		sb.WriteString(n.Before)
		maskAll(sb, n.Parts, filters)
		sb.WriteString(n.After)
	case ast.Parent:
		maskAll(sb, n.Children(), filters)
	default:
		sb.WriteString(n.String())
	}
}

func maskAll(sb *strings.Builder, nodes []ast.Node, filters map[string]string) {
	for _, n := range nodes {
		mask(sb, n, filters)
	}
}

func braces(k ast.Kind) (string, string) {
	if k == ast.TemplateParam {
		return "{{{", "}}}"
	}
	return "{{", "}}"
}

func brackets(k ast.Kind) (string, string) {
	if k == ast.ExternalLink {
		return "[", "]"
	}
	return "[[", "]]"
}
