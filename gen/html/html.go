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

// Package html converts a wikitext syntax tree into a highlighted HTML source
// view. The view contains the complete source text, escaped, with every
// construct wrapped in an element that names it. Runs of apostrophes are
// resolved into bold and italic tags one line at a time.
//
// AST nodes correspond to the following HTML tags:
// 	Template                    <span class="mw-template" data-name=""></span>
// 	Variable                    <span class="mw-variable" data-name=""></span>
// 	ParserFunction              <span class="mw-parser-function" data-name=""></span>
// 	TemplateParam               <span class="mw-template-param" data-name=""></span>
// 	Param                       <span class="mw-param" data-key=""></span>
// 	InternalLink                <a class="mw-link" href=""></a>
// 	File                        <a class="mw-file" href=""></a>
// 	ExternalLink                <a class="mw-external-link" href=""></a>
// 	Redirect                    <span class="mw-redirect"></span>
// 	Comment                     <span class="mw-comment"></span>
// 	Nowiki                      <span class="mw-nowiki"></span>
// 	BehaviorSwitch              <span class="mw-switch"></span>
// 	Text                        escaped text with <b></b> and <i></i>
//
// A template whose name has an entry in Generator.Filters is not rendered;
// its source is piped through the filter command, parsed according to the
// Bourne shell's word-splitting rules, and the command's output is written
// instead.
package html // import "akhil.cc/mwtext/gen/html"

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"akhil.cc/mwtext/ast"
	"akhil.cc/mwtext/gen"
)

type syncWriter struct {
	m sync.Mutex
	w io.Writer
}

func (s *syncWriter) Write(p []byte) (n int, err error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.w.Write(p)
}

// errWriter remembers the first write error and drops every later write.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) WriteString(s string) (int, error) {
	return e.Write([]byte(s))
}

// Generator renders one *ast.Document as HTML. It is not reusable.
type Generator struct {
	// Stdout receives the HTML. Stderr receives the standard error of
	// filter commands. Both default to io.Discard. If Stdout == Stderr,
	// at most one goroutine at a time will call Write.
	Stdout io.Writer
	Stderr io.Writer
	// Filters maps a template name, with spaces written as underscores, to
	// the command that renders it.
	Filters map[string]string
	// LinkPrefix is prepended to internal link targets in href attributes.
	LinkPrefix string

	ctx  context.Context
	doc  *ast.Document
	done chan error
	// pipe is the write end of StdoutPipe, if it was called.
	pipe *io.PipeWriter
}

// Gen returns a Generator for doc.
func Gen(doc *ast.Document) *Generator {
	return &Generator{ctx: context.TODO(), doc: doc}
}

// GenContext is like Gen but includes a context.
//
// The provided context is used both to halt HTML generation after
// processing a top-level node, and to kill any filter processes.
func GenContext(ctx context.Context, doc *ast.Document) *Generator {
	if ctx == nil {
		panic("nil context")
	}
	return &Generator{ctx: ctx, doc: doc}
}

// Start starts the generator but does not wait for it to complete.
func (g *Generator) Start() error {
	if g.done != nil {
		return errors.New("html: already started")
	}
	if g.Stdout == nil {
		g.Stdout = io.Discard
	}
	if g.Stderr == nil {
		g.Stderr = io.Discard
	}
	if g.Stdout == g.Stderr {
		g.Stdout = &syncWriter{w: g.Stdout}
		g.Stderr = g.Stdout
	}
	g.done = make(chan error, 1)
	go func() {
		err := g.gen()
		if g.pipe != nil {
			g.pipe.CloseWithError(err)
		}
		g.done <- err
	}()
	return nil
}

// Wait waits for the generator to complete and returns its error. It is an
// error to call Wait before Start, or twice.
func (g *Generator) Wait() error {
	if g.done == nil {
		return errors.New("html: not started")
	}
	err, ok := <-g.done
	if !ok {
		return errors.New("html: Wait was already called")
	}
	close(g.done)
	return err
}

// Run starts the generator and waits for it to complete.
func (g *Generator) Run() error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait()
}

// StdoutPipe returns a pipe that is connected to the generator's standard
// output. Once the output is exhausted, reads fail with the generator's
// error, if any.
//
// Wait must not be called until all reads from the pipe have completed.
// For the same reason, it is invalid to call Run when using StdoutPipe.
func (g *Generator) StdoutPipe() (io.Reader, error) {
	if g.Stdout != nil {
		return nil, errors.New("html: Stdout already set")
	}
	pr, pw := io.Pipe()
	g.Stdout = pw
	g.pipe = pw
	return pr, nil
}

// Output runs the generator and returns its standard output.
func (g *Generator) Output() ([]byte, error) {
	if g.Stdout != nil {
		return nil, errors.New("html: Stdout already set")
	}
	var stdout bytes.Buffer
	g.Stdout = &stdout
	err := g.Run()
	return stdout.Bytes(), err
}

func (g *Generator) gen() error {
	cw := &errWriter{w: g.Stdout}
	w := newSourceWriter(cw, masked(g.doc, g.Filters))
	for _, n := range g.doc.Parts {
		select {
		case <-g.ctx.Done():
			return g.ctx.Err()
		default:
			if err := g.node(n, w); err != nil {
				return err
			}
		}
	}
	w.closeShown()
	return cw.err
}

// escaper escapes like html.EscapeString but leaves apostrophes alone.
var escaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&#34;")

func escape(s string) string {
	return escaper.Replace(s)
}

var templateClass = map[ast.Kind]string{
	ast.TemplateCall:   "mw-template",
	ast.Variable:       "mw-variable",
	ast.ParserFunction: "mw-parser-function",
	ast.TemplateParam:  "mw-template-param",
	ast.InternalLink:   "mw-link",
	ast.FileLink:       "mw-file",
	ast.ExternalLink:   "mw-external-link",
}

func (g *Generator) node(n ast.Node, w *sourceWriter) error {
	switch t := n.(type) {
	case *ast.Text, *ast.GlyphSpace, *ast.WhiteSpace, *ast.EOL:
		w.source(t.String())
	case *ast.BehaviorSwitch:
		g.leaf(w, `<span class="mw-switch">`, t.Content)
	case *ast.Comment:
		g.leaf(w, `<span class="mw-comment">`, t.String())
	case *ast.Nowiki:
		g.leaf(w, `<span class="mw-nowiki">`, t.String())
	case *ast.Redirect:
		w.element(`<span class="mw-redirect">`)
		if err := g.children(t.Parts, w); err != nil {
			return err
		}
		w.element(`</span>`)
	case *ast.Document:
		return g.children(t.Parts, w)
	case *ast.Template:
		return g.template(t, w)
	case *ast.Param:
		return g.param(t, w)
	case *ast.Link:
		return g.link(t, w)
	}
	return w.err
}

// leaf writes s, whose quote runs never resolve, wrapped in a span.
func (g *Generator) leaf(w *sourceWriter, open, s string) {
	w.element(open)
	w.WriteString(escape(s))
	w.skip(len(s))
	w.element(`</span>`)
}

func (g *Generator) children(nodes []ast.Node, w *sourceWriter) error {
	for _, n := range nodes {
		if err := g.node(n, w); err != nil {
			return err
		}
	}
	return w.err
}

func (g *Generator) template(t *ast.Template, w *sourceWriter) error {
	if command, ok := g.Filters[t.Name]; ok {
		w.closeShown()
		src := t.String()
		c := &gen.Command{Ctx: g.ctx, Stderr: g.Stderr}
		if err := c.Gen(command, t, w); err != nil {
			return err
		}
		w.skip(len(src))
		return w.err
	}
	lbrace, rbrace := braces(t.Kind)
	w.element(fmt.Sprintf(`<span class="%s" data-name="%s">`, templateClass[t.Kind], escape(t.Name)))
	w.source(lbrace)
	if err := g.children(t.Parts, w); err != nil {
		return err
	}
	w.source(rbrace)
	w.element(`</span>`)
	return w.err
}

func (g *Generator) param(p *ast.Param, w *sourceWriter) error {
	w.element(fmt.Sprintf(`<span class="mw-param" data-key="%s">`, escape(p.Key.String())))
	w.source(p.Prefix)
	if !p.IsAnonymous() {
		w.source(p.RawKey() + "=")
	}
	w.source(p.Before)
	if err := g.children(p.Parts, w); err != nil {
		return err
	}
	w.source(p.After)
	w.element(`</span>`)
	return w.err
}

func (g *Generator) link(l *ast.Link, w *sourceWriter) error {
	lbrack, rbrack := brackets(l.Kind)
	href := g.LinkPrefix + url.PathEscape(strings.ReplaceAll(l.Target, " ", "_"))
	if l.Kind == ast.ExternalLink {
		href = l.Target
	}
	w.element(fmt.Sprintf(`<a class="%s" href="%s">`, templateClass[l.Kind], escape(href)))
	w.source(lbrack)
	for _, n := range l.TargetParts {
		w.source(n.String())
	}
	if err := g.children(l.Parts, w); err != nil {
		return err
	}
	w.source(rbrack)
	w.element(`</a>`)
	return w.err
}
