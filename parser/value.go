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
	"akhil.cc/mwtext/ast"
)

// ParamSetter is implemented by *ast.Template and *ast.Link.
type ParamSetter interface {
	SetParam(key ast.Key, value string) (*ast.Param, error)
}

// SetValue replaces the value of p with the parse of wikitext, so that the
// templates and links it contains are found by ast.Templates and ast.Links.
// The value serializes back to wikitext with line endings normalized.
func SetValue(p *ast.Param, wikitext string) {
	p.SetParts(parse(wikitext, defaultVocab, nil).Children()...)
}

// SetParam is like the SetParam method of c but parses value as wikitext.
func SetParam(c ParamSetter, key ast.Key, value string) (*ast.Param, error) {
	p, err := c.SetParam(key, value)
	if err != nil {
		return nil, err
	}
	SetValue(p, value)
	return p, nil
}

// SetValue is like the package level SetValue but uses the vocabularies of c.
func (c *Config) SetValue(p *ast.Param, wikitext string) {
	p.SetParts(c.ParseString(wikitext).Children()...)
}

// SetParam is like the package level SetParam but uses the vocabularies of c.
func (c *Config) SetParam(t ParamSetter, key ast.Key, value string) (*ast.Param, error) {
	p, err := t.SetParam(key, value)
	if err != nil {
		return nil, err
	}
	c.SetValue(p, value)
	return p, nil
}
