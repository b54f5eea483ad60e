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

// Package parser implements a round-trip parser for MediaWiki wikitext. It
// takes in an io.Reader or a string and outputs an *ast.Document whose String
// method reproduces the input byte for byte.
//
// The parser recognizes the following constructs; everything else is kept as
// plain text:
//
//      template       = "{{" name { param } "}}" .
//      template_param = "{{{" name [ "|" value ] "}}}" .
//      parser_func    = "{{" name ( ":" | "#" ) { param } "}}" .
//      param          = ( "|" | ":" ) [ key "=" ] value .
//      internal_link  = "[[" target { "|" [ key "=" ] value } "]]" .
//      external_link  = "[" scheme target [ " " value ] "]" .
//      comment        = "<!--" string "-->" .
//      nowiki         = "<nowiki>" string "</nowiki>" | "<nowiki/>" .
//      switch         = "__" magic_word "__" .
//      redirect       = line_start "#REDIRECT" { blank } [ internal_link ] .
//
// Malformed input is never an error. A construct left open at the end of the
// input is turned back into plain text from its opening delimiter on.
//
// The parser is safe for concurrent use on independent inputs. The trees it
// returns are not.
package parser // import "akhil.cc/mwtext/parser"

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"akhil.cc/mwtext/ast"
)

// Config holds the vocabularies the parser recognizes.
type Config struct {
	Variables        []string
	URLSchemes       []string
	FilePrefixes     []string
	BehaviorSwitches []string
	// Logger receives trace events for every context entered and exited.
	// A nil Logger disables them.
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config with the standard MediaWiki vocabularies,
// the ones the package level functions use. The slices are fresh copies and
// may be extended freely.
func DefaultConfig() *Config {
	return &Config{
		Variables:        append([]string(nil), defaultVariables...),
		URLSchemes:       append([]string(nil), defaultURLSchemes...),
		FilePrefixes:     append([]string(nil), defaultFilePrefixes...),
		BehaviorSwitches: append([]string(nil), defaultSwitches...),
	}
}

var defaultVocab = newVocab(DefaultConfig())

// MustParse is like Parse but panics if the source cannot be read.
func MustParse(src io.Reader) *ast.Document {
	d, err := Parse(src)
	if err != nil {
		panic("Parse error: " + err.Error())
	}
	return d
}

// Parse reads the source and returns its syntax tree. The only errors are
// those of the reader.
func Parse(src io.Reader) (*ast.Document, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("parser: read: %w", err)
	}
	return parse(string(b), defaultVocab, nil), nil
}

// ParseString parses s. It never fails.
func ParseString(s string) *ast.Document {
	return parse(s, defaultVocab, nil)
}

// Parse is like the package level Parse but uses the vocabularies of c.
func (c *Config) Parse(src io.Reader) (*ast.Document, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("parser: read: %w", err)
	}
	return c.ParseString(string(b)), nil
}

// ParseString is like the package level ParseString but uses the
// vocabularies of c.
func (c *Config) ParseString(s string) *ast.Document {
	return parse(s, newVocab(c), c.Logger)
}

type parser struct {
	it    *iterator
	words *vocab
	log   zerolog.Logger
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func parse(src string, words *vocab, log *zerolog.Logger) *ast.Document {
	doc := &ast.Document{}
	if src == "" {
		return doc
	}
	src = newlines.Replace(src)
	if strings.TrimSpace(src) == "" {
		doc.Append(&ast.WhiteSpace{Content: src})
		return doc
	}
	p := &parser{
		it:    &iterator{src: src},
		words: words,
		log:   zerolog.Nop(),
	}
	if log != nil {
		p.log = *log
	}
	root := p.push(doc, nil, 0)
	for it := p.it; it.i < len(src); it.i++ {
		ctx := it.current()
		ch := src[it.i]
		for _, m := range ctx.modules {
			if m.offer(ch) {
				break
			}
		}
	}
	if p.it.depth() > 1 {
		p.flatten(root)
	}
	root.exit()
	return doc
}

// flatten abandons every open construct and turns the outermost one back into
// plain text, from its opening delimiter to the end of the input.
func (p *parser) flatten(root *context) {
	open := p.it.stack[1]
	p.log.Debug().
		Int("pos", open.start).
		Int("depth", p.it.depth()).
		Str("node", nodeName(open.node)).
		Msg("unterminated construct")
	p.it.stack = p.it.stack[:1]
	b := root.node.(*ast.Document)
	if i := b.IndexOf(open.node); i >= 0 {
		b.Parts = b.Parts[:i]
	}
	root.text.buf.Reset()
	root.text.buf.WriteString(p.it.src[open.start:])
}
