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

// Package gen runs external filter commands over wikitext.
package gen // import "akhil.cc/mwtext/gen"

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	sq "github.com/kballard/go-shellquote"

	"akhil.cc/mwtext/ast"
	"akhil.cc/mwtext/parser"
)

// Command holds the cancellation context and Stderr stream for a filter's
// executed process.
type Command struct {
	Ctx    context.Context
	Stderr io.Writer
	// Parser parses the output of Filter. Nil means the default
	// vocabularies.
	Parser *parser.Config
}

// Run executes command, split by the Bourne shell's word-splitting rules,
// with input on its standard input, waiting for it to finish writing its
// Stdout into w and Stderr into the command's Stderr.
func (c *Command) Run(command, input string, w io.Writer) error {
	words, err := sq.Split(command)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("No valid commands: '%q'", command)
	}
	var cmd *exec.Cmd
	if c.Ctx == nil {
		cmd = exec.Command(words[0], words[1:]...)
	} else {
		cmd = exec.CommandContext(c.Ctx, words[0], words[1:]...)
	}
	cmd.Stdin = strings.NewReader(input)
	if w == nil && c.Stderr == nil {
		return fmt.Errorf("no output writer for command %q", command)
	}
	if w != nil {
		cmd.Stdout = w
	}
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	}
	return cmd.Run()
}

// Gen pipes the wikitext of n through command and writes the output to w.
func (c *Command) Gen(command string, n ast.Node, w io.Writer) error {
	return c.Run(command, n.String(), w)
}

// Filter replaces the value of p with the output of command run over the
// trimmed value, parsed as wikitext. A single trailing newline added by the command is dropped.
// The whitespace around the value is kept.
func (c *Command) Filter(command string, p *ast.Param) error {
	var out bytes.Buffer
	value := p.TrimmedValue()
	if err := c.Run(command, value, &out); err != nil {
		return err
	}
	s := out.String()
	if !strings.HasSuffix(value, "\n") {
		s = strings.TrimSuffix(s, "\n")
	}
	v := p.Value()
	lead := v[:len(v)-len(strings.TrimLeft(v, " \t\n"))]
	trail := v[len(strings.TrimRight(v, " \t\n")):]
	if strings.TrimSpace(v) == "" {
		lead, trail = v, ""
	}
	if c.Parser != nil {
		c.Parser.SetValue(p, lead+s+trail)
	} else {
		parser.SetValue(p, lead+s+trail)
	}
	return nil
}
