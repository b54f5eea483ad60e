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

// Examples for parse.go
package parser_test

import (
	"fmt"
	"strings"

	"akhil.cc/mwtext/ast"
	"akhil.cc/mwtext/parser"
)

func ExampleMustParse() {
	src := `{{Infobox hobbit
| name = Frodo Baggins
| home = [[Bag End]]
}}
Frodo is a [[hobbit]] of the [[Shire]].
`
	doc := parser.MustParse(strings.NewReader(src))
	for tpl := range ast.Templates(doc) {
		fmt.Println(tpl.Name)
		for _, p := range tpl.Params() {
			fmt.Printf(" %s = %s\n", p.Key, p.Value())
		}
	}
	for l := range ast.Links(doc) {
		fmt.Println(l.Target)
	}
	// Output:
	// Infobox_hobbit
	//  name = Frodo Baggins
	//  home = [[Bag End]]
	// Bag End
	// hobbit
	// Shire
}

func ExampleParseString() {
	doc := parser.ParseString("{{Foo|a=1|b=2}} text")
	for tpl := range ast.TemplatesNamed(doc, "foo") {
		tpl.RemoveParam(ast.Name("a"))
		tpl.SetParam(ast.Name("c"), "3")
	}
	fmt.Println(doc)
	// Output:
	// {{Foo|b=2|c=3}} text
}

func ExampleConfig() {
	c := parser.DefaultConfig()
	c.FilePrefixes = append(c.FilePrefixes, "Datei:")
	doc := c.ParseString("[[Datei:Karte.png|mini]]")
	fmt.Println(ast.Sprint(doc))
	// Output:
	// Document[File(Datei:Karte.png)[Param(1)[Text("mini")]]]
}
