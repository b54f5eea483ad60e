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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"akhil.cc/mwtext/ast"
	"akhil.cc/mwtext/gen"
	"akhil.cc/mwtext/gen/html"
	"akhil.cc/mwtext/parser"
	"akhil.cc/mwtext/quotes"
)

// input opens the file named by the first argument, or standard input when
// there is none or it is "-".
func (a *app) input(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(a.stdin), nil
	}
	return os.Open(args[0])
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// output creates the named file, or returns standard output when name is
// empty.
func (a *app) output(name string) (io.WriteCloser, error) {
	if name == "" {
		return nopWriteCloser{a.stdout}, nil
	}
	return os.Create(name)
}

// parse reads and parses the input named by args.
func (a *app) parse(args []string) (*ast.Document, error) {
	src, err := a.input(args)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return a.cfg.parser(&a.log).Parse(src)
}

func (a *app) checkCmd() *cobra.Command {
	var jobs int
	prefixCheck := "(check) "
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Verify that wikitext files survive a parse and serialize round trip",
		Long: `This command parses every file, serializes the tree and parses the
result again. A file whose text changes on the way is reported with a
unified diff. Line endings are normalized to LF before comparing.

If no file is specified, input is read from standard input.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			texts := make([]string, len(args))
			if len(args) == 0 {
				b, err := io.ReadAll(a.stdin)
				if err != nil {
					return prefix(prefixCheck, err)
				}
				names, texts = []string{"<stdin>"}, []string{string(b)}
			}
			if jobs < 1 {
				jobs = 1
			}
			diffs := make([]string, len(names))
			pc := a.cfg.parser(&a.log)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, name := range names {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					if len(args) > 0 {
						b, err := os.ReadFile(name)
						if err != nil {
							return err
						}
						texts[i] = string(b)
					}
					d, err := roundTrip(name, texts[i], pc.ParseString)
					diffs[i] = d
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return prefix(prefixCheck, err)
			}
			failed := 0
			for i, d := range diffs {
				if d == "" {
					a.log.Debug().Str("file", names[i]).Msg("round trip ok")
					continue
				}
				failed++
				fmt.Fprint(a.stdout, d)
			}
			if failed > 0 {
				return prefix(prefixCheck, fmt.Errorf("%d of %d files changed on round trip", failed, len(names)))
			}
			a.log.Info().Int("files", len(names)).Msg("round trip ok")
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "``number of files checked at once")
	return cmd
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// roundTrip parses src, serializes it and parses the result again. It
// returns a unified diff of the first step that changed the text, or "".
func roundTrip(name, src string, parse func(string) *ast.Document) (string, error) {
	want := newlines.Replace(src)
	got := parse(src).String()
	if got == want {
		again := parse(got).String()
		if again == got {
			return "", nil
		}
		want, got = got, again
	}
	return unifiedDiff(name, want, got)
}

func unifiedDiff(name, want, got string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: name,
		ToFile:   name + " (serialized)",
		Context:  3,
	})
}

func (a *app) dumpCmd() *cobra.Command {
	var format string
	prefixDump := "(dump) "
	cmd := &cobra.Command{
		Use:   "dump [input] [--format litter|yaml|tree]",
		Short: "Print the syntax tree of a wikitext source file",
		Long: `This command prints the syntax tree of its input. The tree format is an
indented outline, one node per line; yaml prints the same outline as a
YAML document and litter prints every field of every node.

If no input file is specified, input is read from standard input.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.parse(args)
			if err != nil {
				return prefix(prefixDump, err)
			}
			if err := dump(a.stdout, doc, format); err != nil {
				return prefix(prefixDump, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "tree", "``output format: tree, yaml or litter")
	return cmd
}

func dump(w io.Writer, doc *ast.Document, format string) error {
	switch format {
	case "tree":
		return ast.Fprint(w, doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(outline(doc)); err != nil {
			return err
		}
		return enc.Close()
	case "litter":
		opts := litter.Options{StripPackageNames: true}
		_, err := io.WriteString(w, opts.Sdump(doc)+"\n")
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// outlineNode is the YAML form of a node.
type outlineNode struct {
	Type     string         `yaml:"type"`
	Name     string         `yaml:"name,omitempty"`
	Key      string         `yaml:"key,omitempty"`
	Text     string         `yaml:"text,omitempty"`
	Children []*outlineNode `yaml:"children,omitempty"`
}

func outline(n ast.Node) *outlineNode {
	o := &outlineNode{}
	switch n := n.(type) {
	case *ast.Document:
		o.Type = "Document"
	case *ast.Redirect:
		o.Type = "Redirect"
	case *ast.Template:
		o.Type, o.Name = n.Kind.String(), n.Name
	case *ast.Link:
		o.Type, o.Name = n.Kind.String(), n.Target
	case *ast.Param:
		o.Type, o.Key = "Param", n.Key.String()
	case *ast.Comment:
		o.Type, o.Text = "Comment", n.Content
	case *ast.Nowiki:
		o.Type, o.Text = "Nowiki", n.Content
	case *ast.Text:
		o.Type, o.Text = "Text", n.Content
	case *ast.GlyphSpace:
		o.Type, o.Text = "Glyph", n.Content
	case *ast.WhiteSpace:
		o.Type, o.Text = "WhiteSpace", n.Content
	case *ast.EOL:
		o.Type, o.Text = "EOL", n.Content
	case *ast.BehaviorSwitch:
		o.Type, o.Text = "BehaviorSwitch", n.Content
	default:
		o.Type = fmt.Sprintf("%T", n)
	}
	if p, ok := n.(ast.Parent); ok {
		for _, c := range p.Children() {
			o.Children = append(o.Children, outline(c))
		}
	}
	return o
}

func (a *app) templatesCmd() *cobra.Command {
	var name string
	prefixTemplates := "(templates) "
	cmd := &cobra.Command{
		Use:   "templates [input] [--name name]",
		Short: "List the templates of a wikitext source file",
		Long: `This command lists every template, variable, parser function and
template parameter of its input in document order, followed by its
parameters, one per line.

If no input file is specified, input is read from standard input.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.parse(args)
			if err != nil {
				return prefix(prefixTemplates, err)
			}
			seq := ast.Templates(doc)
			if name != "" {
				seq = ast.TemplatesNamed(doc, name)
			}
			for t := range seq {
				if err := listTemplate(a.stdout, t); err != nil {
					return prefix(prefixTemplates, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "``list only templates with this name")
	return cmd
}

func listTemplate(w io.Writer, t *ast.Template) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", t.Kind, t.Name); err != nil {
		return err
	}
	for _, p := range t.Params() {
		if _, err := fmt.Fprintf(w, "\t%s = %s\n", p.Key, oneLine(p.TrimmedValue())); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (a *app) editCmd() *cobra.Command {
	var (
		template, outputfile, rename string
		sets, filters                kvFlag
		removes                      []string
		align                        bool
		timeout                      time.Duration
	)
	prefixEdit := "(edit) "
	cmd := &cobra.Command{
		Use:   "edit [input] --template name [flags]",
		Short: "Edit the parameters of templates in a wikitext source file",
		Long: `This command edits every template with the given name and writes the
whole document back out. Parameters are removed first, then set, then
filtered. Everything that is not edited is written out unchanged.

A key made of digits addresses an anonymous parameter. Setting a missing
parameter appends it in the style of the last parameter. A filter command
is parsed according to the Bourne shell's word-splitting rules; it reads
the parameter's value on standard input and its output becomes the new
value.

If no input file is specified, input is read from standard input.
Similarly, if no output argument is specified, output is written to
standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.parse(args)
			if err != nil {
				return prefix(prefixEdit, err)
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			pc := a.cfg.parser(&a.log)
			e := &editor{
				removes: removes,
				sets:    sets.pairs,
				filters: filters.pairs,
				rename:  rename,
				align:   align,
				parser:  pc,
				cmd:     &gen.Command{Ctx: ctx, Stderr: a.stderr, Parser: pc},
			}
			n := 0
			for t := range ast.TemplatesNamed(doc, template) {
				if err := e.apply(t); err != nil {
					return prefix(prefixEdit, fmt.Errorf("%s: %w", t.Name, err))
				}
				n++
			}
			if n == 0 {
				return prefix(prefixEdit, fmt.Errorf("no template named %q", template))
			}
			a.log.Info().Int("templates", n).Str("name", template).Msg("edited")

			out, err := a.output(outputfile)
			if err != nil {
				return prefix(prefixEdit, err)
			}
			if _, err := io.WriteString(out, doc.String()); err != nil {
				out.Close()
				return prefix(prefixEdit, err)
			}
			if err := out.Close(); err != nil {
				return prefix(prefixEdit, err)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&template, "template", "", "``name of the templates to edit")
	fl.Var(&sets, "set", "``set a parameter, as key=value; repeatable")
	fl.StringArrayVar(&removes, "remove", nil, "``remove the parameter with this key; repeatable")
	fl.Var(&filters, "filter", "``pipe a parameter through a command, as key=command; repeatable")
	fl.StringVar(&rename, "rename", "", "``new template name")
	fl.BoolVar(&align, "align", false, "align the '=' of named parameters")
	fl.StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	fl.DurationVarP(&timeout, "timeout", "t", 0, "``timeout used to halt long-running filter commands")
	cmd.MarkFlagRequired("template")
	return cmd
}

// editor applies the edits requested on the command line to one template.
type editor struct {
	removes []string
	sets    []kv
	filters []kv
	rename  string
	align   bool
	parser  *parser.Config
	cmd     *gen.Command
}

func (e *editor) apply(t *ast.Template) error {
	for _, k := range e.removes {
		if _, err := t.RemoveParam(ast.KeyOf(k)); err != nil {
			return err
		}
	}
	for _, s := range e.sets {
		if _, err := e.parser.SetParam(t, ast.KeyOf(s.key), s.value); err != nil {
			return fmt.Errorf("set %s: %w", s.key, err)
		}
	}
	for _, f := range e.filters {
		p := t.Param(ast.KeyOf(f.key))
		if p == nil {
			continue
		}
		if err := e.cmd.Filter(f.value, p); err != nil {
			return fmt.Errorf("filter %s: %w", f.key, err)
		}
	}
	if e.rename != "" {
		t.Rename(e.rename)
	}
	if e.align {
		t.AlignKeys()
	}
	return nil
}

func (a *app) quotesCmd() *cobra.Command {
	var positions bool
	prefixQuotes := "(quotes) "
	cmd := &cobra.Command{
		Use:   "quotes [input] [--map]",
		Short: "Resolve bold and italic quote runs line by line",
		Long: `This command resolves the runs of apostrophes of every input line into
<b> and <i> tags the way MediaWiki does. With --map it prints instead, for
every line with quote runs, the byte offsets at which tags open or close.

If no input file is specified, input is read from standard input.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.input(args)
			if err != nil {
				return prefix(prefixQuotes, err)
			}
			defer src.Close()
			b, err := io.ReadAll(src)
			if err != nil {
				return prefix(prefixQuotes, err)
			}
			if err := resolveLines(a.stdout, newlines.Replace(string(b)), positions); err != nil {
				return prefix(prefixQuotes, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&positions, "map", "m", false, "print tag positions instead of resolved lines")
	return cmd
}

func resolveLines(w io.Writer, text string, positions bool) error {
	text = strings.TrimSuffix(text, "\n")
	for i, line := range strings.Split(text, "\n") {
		if !positions {
			if _, err := fmt.Fprintln(w, quotes.Resolve(line)); err != nil {
				return err
			}
			continue
		}
		m := quotes.PositionMap(line)
		for _, pos := range quotes.Positions(m) {
			types := make([]string, len(m[pos]))
			for j, t := range m[pos] {
				types[j] = t.String()
			}
			if _, err := fmt.Fprintf(w, "%d:%d %s\n", i+1, pos, strings.Join(types, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) htmlCmd() *cobra.Command {
	var outputfile, linkPrefix string
	var timeout time.Duration
	prefixHTML := "(HTML) "
	htmlCmd := &cobra.Command{
		Use:   "html [input] [-o output]",
		Short: "HTML source view generator for wikitext source files",
		Long: `This command takes a wikitext syntax tree and converts it to an HTML
source view. Text is automatically escaped and quote runs are resolved
into bold and italic tags. Every construct is wrapped in an element
naming it. Templates listed under filters in the configuration are piped
through their command instead, parsed according to the Bourne shell's
word-splitting rules.

If no input file is specified, input is read from
standard input. Similarly, if no output argument is
specified, output is written to standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.parse(args)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			out, err := a.output(outputfile)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			defer out.Close()
			ctx := cmd.Context()
			if timeout > -1 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			g := html.GenContext(ctx, doc)
			g.Stdout = out
			g.Stderr = a.stderr
			g.Filters = a.cfg.filters()
			g.LinkPrefix = a.cfg.LinkPrefix
			if cmd.Flags().Changed("link-prefix") {
				g.LinkPrefix = linkPrefix
			}
			if err := g.Run(); err != nil {
				return prefix(prefixHTML, err)
			}
			return nil
		},
	}
	htmlCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			return prefix(prefixHTML, err)
		}
		return nil
	})
	// pflag includes the argument type when it unquotes its usage.
	// To prevent this behavior we prefix the usage with backquotes ``.
	htmlCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	htmlCmd.Flags().DurationVarP(&timeout, "timeout", "t", -1, "``timeout used to halt generator for long-running commands")
	htmlCmd.Flags().StringVar(&linkPrefix, "link-prefix", "", "``prefix of internal link hrefs")
	// Set string version of default value to be zero-value to prevent it from being printed by FlagUsages.
	htmlCmd.Flags().Lookup("timeout").DefValue = "0"
	return htmlCmd
}
