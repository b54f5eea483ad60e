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

// Tests for html.go
package html_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"

	"akhil.cc/mwtext/gen/html"
	"akhil.cc/mwtext/parser"
)

type smallcase struct {
	in   string
	want string
}

var escapeSmall = []smallcase{
	{"a < b & c", "a &lt; b &amp; c"},
	{`say "hi"`, "say &#34;hi&#34;"},
	{"''x''", "<i>x</i>"},
	{"'''''x'''''", "<i><b>x</b></i>"},
	{"<!-- c -->", `<span class="mw-comment">&lt;!-- c --&gt;</span>`},
	{"<nowiki>''x''</nowiki>", `<span class="mw-nowiki">&lt;nowiki&gt;''x''&lt;/nowiki&gt;</span>`},
	{"__NOTOC__", `<span class="mw-switch">__NOTOC__</span>`},
	{"{{{a}}}", `<span class="mw-template-param" data-name="a">{{{<span class="mw-param" data-key="0">a</span>}}}</span>`},
	{"#REDIRECT [[Foo]]", `<span class="mw-redirect">#REDIRECT <a class="mw-link" href="Foo">[[Foo]]</a></span>`},
	{"[[Main Page|home]]", `<a class="mw-link" href="Main_Page">[[Main Page<span class="mw-param" data-key="1">|home</span>]]</a>`},
	{"[https://go.dev Go]", `<a class="mw-external-link" href="https://go.dev">[https://go.dev<span class="mw-param" data-key="1"> Go</span>]</a>`},
}

func TestEscape(t *testing.T) {
	for i, test := range escapeSmall {
		got, err := html.Gen(parser.ParseString(test.in)).Output()
		require.NoError(t, err, "case %d", i)
		if test.want != string(got) {
			t.Errorf("case %d, in %q,\nwant %s, \ngot %s", i, test.in, test.want, got)
		}
	}
}

var quoteSmall = []smallcase{
	{"'''[[Foo]]'''", `<a class="mw-link" href="Foo"><b>[[Foo]]</b></a>`},
	{"''a {{X}} b''", `<i>a </i><span class="mw-template" data-name="X"><i>{{</i><span class="mw-param" data-key="0"><i>X</i></span><i>}}</i></span><i> b</i>`},
	{"''a\nb''", "<i>a</i>\nb"},
	{"<!-- ''x'' --> y", `<span class="mw-comment">&lt;!-- ''x'' --&gt;</span> y`},
}

// Quote runs resolve over whole source lines, across constructs.
func TestQuotesAcrossConstructs(t *testing.T) {
	for i, test := range quoteSmall {
		got, err := html.Gen(parser.ParseString(test.in)).Output()
		require.NoError(t, err, "case %d", i)
		if test.want != string(got) {
			t.Errorf("case %d, in %q,\nwant %s, \ngot %s", i, test.in, test.want, got)
		}
	}
}

func TestStdoutPipeError(t *testing.T) {
	g := html.Gen(parser.ParseString("{{Fail}}"))
	g.Filters = map[string]string{"Fail": "false"}
	r, err := g.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, g.Start())
	_, err = io.ReadAll(r)
	require.Error(t, err)
	require.Error(t, g.Wait())
}

func TestLinkPrefix(t *testing.T) {
	g := html.Gen(parser.ParseString("[[File:A b.png]]"))
	g.LinkPrefix = "/wiki/"
	got, err := g.Output()
	require.NoError(t, err)
	require.Equal(t, `<a class="mw-file" href="/wiki/File:A_b.png">[[File:A b.png]]</a>`, string(got))
}

func TestFilters(t *testing.T) {
	g := html.Gen(parser.ParseString("{{Shout|hi}} there"))
	g.Filters = map[string]string{"Shout": "tr a-z A-Z"}
	got, err := g.Output()
	require.NoError(t, err)
	require.Equal(t, "{{SHOUT|HI}} there", string(got))
}

func TestFilterError(t *testing.T) {
	g := html.Gen(parser.ParseString("{{Fail}}"))
	g.Filters = map[string]string{"Fail": "false"}
	_, err := g.Output()
	require.Error(t, err)
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := html.GenContext(ctx, parser.ParseString("{{a}} b")).Output()
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, got)
}

func TestWaitBeforeStart(t *testing.T) {
	require.Error(t, html.Gen(parser.ParseString("x")).Wait())
}

func TestOutputTwice(t *testing.T) {
	g := html.Gen(parser.ParseString("x"))
	_, err := g.Output()
	require.NoError(t, err)
	_, err = g.Output()
	require.Error(t, err)
}

// TestWellFormed reparses the output with an HTML5 parser. Every source byte
// must survive as text and every construct must produce its element.
func TestWellFormed(t *testing.T) {
	const src = "Hello {{Infobox|name=Bilbo|home=[[Shire]]}} see [https://go.dev Go] and {{{1}}}.\n__NOTOC__ <!-- x --> {{#if:a|b}} 1 < 2"
	got, err := html.Gen(parser.ParseString(src)).Output()
	require.NoError(t, err)

	doc, err := xhtml.Parse(bytes.NewReader(got))
	require.NoError(t, err)

	var text strings.Builder
	classes := make(map[string]int)
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		switch n.Type {
		case xhtml.TextNode:
			text.WriteString(n.Data)
		case xhtml.ElementNode:
			for _, a := range n.Attr {
				if a.Key == "class" {
					classes[a.Val]++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	require.Equal(t, src, text.String())
	require.Equal(t, map[string]int{
		"mw-template":        1,
		"mw-parser-function": 1,
		"mw-template-param":  1,
		"mw-param":           8,
		"mw-link":            1,
		"mw-external-link":   1,
		"mw-switch":          1,
		"mw-comment":         1,
	}, classes)
}
