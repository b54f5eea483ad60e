package ast_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/sanity-io/litter"
	"github.com/stretchr/testify/require"

	"akhil.cc/mwtext/ast"
	"akhil.cc/mwtext/parser"
)

func first(t *testing.T, src string) (*ast.Document, *ast.Template) {
	t.Helper()
	doc := parser.ParseString(src)
	for tpl := range ast.Templates(doc) {
		return doc, tpl
	}
	t.Fatalf("no template in %q:\n%s", src, litter.Sdump(doc))
	return nil, nil
}

func TestBranch(t *testing.T) {
	var b ast.Branch
	a, c := &ast.Text{Content: "a"}, &ast.Text{Content: "c"}
	b.Append(a, c)
	require.True(t, b.InsertAt(1, &ast.Text{Content: "b"}))
	require.False(t, b.InsertAt(5, a))
	require.Equal(t, "abc", b.String())
	require.Equal(t, 2, b.IndexOf(c))
	require.Equal(t, -1, b.IndexOf(&ast.Text{Content: "c"}))
	require.True(t, b.Replace(c, &ast.Text{Content: "C"}))
	require.Equal(t, "abC", b.String())
	require.Equal(t, a, b.RemoveAt(0))
	require.Nil(t, b.RemoveAt(7))
	require.False(t, b.Remove(a))
	require.Equal(t, 2, b.Len())
	require.Equal(t, "C", b.Last().String())
}

func TestSplitText(t *testing.T) {
	nodes := ast.SplitText(" a b\n c")
	require.Equal(t, `[WhiteSpace(" ") Glyph("a") WhiteSpace(" ") Glyph("b") EOL("\n ") Glyph("c")]`,
		ast.Sprint(&ast.Redirect{Branch: ast.Branch{Parts: nodes}})[len("Redirect"):])
	require.Empty(t, ast.SplitText(""))
}

func TestKeys(t *testing.T) {
	require.Equal(t, ast.Index(3), ast.KeyOf(" 3 "))
	require.Equal(t, ast.Name("name"), ast.KeyOf(" name "))
	require.True(t, ast.SameKey(ast.Index(1), ast.Index(1)))
	require.False(t, ast.SameKey(ast.Index(1), ast.Name("1")))
	require.True(t, ast.SamePosition(ast.Index(1), ast.Name("1")))
	require.True(t, ast.SamePosition(ast.Name("01"), ast.Index(1)))
	require.False(t, ast.SamePosition(ast.Name("a"), ast.Index(1)))
}

func TestParamKinds(t *testing.T) {
	_, tpl := first(t, "{{Foo|x|2=y|name=z}}")
	ps := tpl.Params()
	require.Len(t, ps, 3)
	require.True(t, ps[0].IsAnonymous())
	require.True(t, ps[1].IsNumbered())
	require.True(t, ps[2].IsNamed())
	require.Equal(t, ps[1], tpl.Param(ast.Index(2)))
	require.Equal(t, ps[0], tpl.Param(ast.Name("1")))
	require.True(t, tpl.HasParam(ast.Name("name")))
	require.False(t, tpl.HasParam(ast.Name("other")))
	require.Equal(t, "Foo", tpl.NameParam().Value())
}

func TestTrimAfter(t *testing.T) {
	p := &ast.Param{Prefix: "|", Key: ast.Index(1)}
	p.SetParts(&ast.Text{Content: "value \t"}, &ast.EOL{Content: "\n"}, &ast.WhiteSpace{Content: "  "})
	p.TrimAfter()
	require.Equal(t, "value", p.Value())
	require.Equal(t, " \t\n  ", p.After)
	p.TrimAfter()
	require.Equal(t, " \t\n  ", p.After)
	require.Equal(t, "|value \t\n  ", p.String())
}

func TestSetParam(t *testing.T) {
	doc, tpl := first(t, "{{Foo|a=1}}")
	_, err := tpl.SetParam(ast.Name("a"), "2")
	require.NoError(t, err)
	_, err = tpl.SetParam(ast.Name("b"), "3")
	require.NoError(t, err)
	require.Equal(t, "{{Foo|a=2|b=3}}", doc.String())
	_, err = tpl.SetParam(ast.Index(0), "Bar")
	require.ErrorIs(t, err, ast.ErrNameParam)
}

func TestAddParamKeepsStyle(t *testing.T) {
	doc, tpl := first(t, "{{Foo\n| a = 1\n}}")
	_, err := tpl.AddParam(ast.Name("b"), "2")
	require.NoError(t, err)
	require.Equal(t, "{{Foo\n| a = 1\n| b = 2\n}}", doc.String())
}

func TestAddAnonymous(t *testing.T) {
	doc, tpl := first(t, "{{Foo}}")
	_, err := tpl.AddAnonymous("x")
	require.NoError(t, err)
	_, err = tpl.AddAnonymous("y")
	require.NoError(t, err)
	require.Equal(t, "{{Foo|x|y}}", doc.String())
	require.Equal(t, ast.Index(2), tpl.Params()[1].Key)
}

func TestFirstParamPrefix(t *testing.T) {
	pf := ast.NewTemplate(ast.ParserFunction, "#if")
	_, err := pf.AddAnonymous("x")
	require.NoError(t, err)
	_, err = pf.AddAnonymous("y")
	require.NoError(t, err)
	require.Equal(t, "{{#if:x|y}}", pf.String())

	l := ast.NewLink(ast.ExternalLink, "https://example.com")
	_, err = l.AddAnonymous("Example")
	require.NoError(t, err)
	require.Equal(t, "[https://example.com Example]", l.String())
	_, err = l.AddAnonymous("again")
	require.ErrorIs(t, err, ast.ErrUnsupported)

	il := ast.NewLink(ast.InternalLink, "Page")
	_, err = il.AddParam(ast.Name("alt"), "text")
	require.NoError(t, err)
	require.Equal(t, "[[Page|alt=text]]", il.String())
}

func TestAddParamErrors(t *testing.T) {
	_, tpl := first(t, "{{Foo|x|a=1}}")
	cases := []struct {
		key ast.Key
		err error
	}{
		{ast.Index(0), ast.ErrNameParam},
		{ast.Index(1), ast.ErrDuplicateKey},
		{ast.Name("a"), ast.ErrDuplicateKey},
		{ast.Index(5), ast.ErrKeySequence},
	}
	for _, c := range cases {
		_, err := tpl.AddParam(c.key, "v")
		require.True(t, errors.Is(err, c.err), "AddParam(%v) = %v, want %v", c.key, err, c.err)
	}

	tp := ast.NewTemplate(ast.TemplateParam, "name")
	_, err := tp.AddParam(ast.Name("k"), "v")
	require.ErrorIs(t, err, ast.ErrUnsupported)
	_, err = tp.AddAnonymous("default")
	require.NoError(t, err)
	require.Equal(t, "{{{name|default}}}", tp.String())
}

func TestAddParamAfterBefore(t *testing.T) {
	doc, tpl := first(t, "{{Foo|a=1|b=2}}")
	require.NoError(t, tpl.AddParamAfter(ast.NewParam("|", ast.Name("z"), "9"), ast.Name("a")))
	require.NoError(t, tpl.AddParamBefore(ast.NewParam("|", ast.Name("y"), "8"), ast.Name("a")))
	require.Equal(t, "{{Foo|y=8|a=1|z=9|b=2}}", doc.String())

	require.ErrorIs(t, tpl.AddParamBefore(ast.NewParam("|", ast.Name("w"), ""), ast.Index(0)), ast.ErrNameParam)
	require.ErrorIs(t, tpl.AddParamAfter(ast.NewParam("|", ast.Name("w"), ""), ast.Name("nope")), ast.ErrNoParam)
	require.ErrorIs(t, tpl.AddParamAfter(ast.NewParam("|", ast.Name("a"), ""), ast.Name("b")), ast.ErrDuplicateKey)
}

func TestRemoveParam(t *testing.T) {
	cases := []struct {
		in   string
		key  ast.Key
		want string
	}{
		{"{{Foo|a=1|b=2|c=3}}", ast.Name("b"), "{{Foo|a=1|c=3}}"},
		{"{{Foo\n| a = 1\n| b = 2\n}}", ast.Name("b"), "{{Foo\n| a = 1\n}}"},
		{"{{Foo|x|y}}", ast.Index(1), "{{Foo|y}}"},
		{"text {{Foo|x <!-- note -->\n}} more", ast.Index(1), "text {{Foo<!-- note -->\n}} more"},
	}
	for _, c := range cases {
		doc, tpl := first(t, c.in)
		p, err := tpl.RemoveParam(c.key)
		require.NoError(t, err)
		require.NotNil(t, p, "in %q", c.in)
		require.Equal(t, c.want, doc.String())
	}

	_, tpl := first(t, "{{Foo|y}}")
	p, err := tpl.RemoveParam(ast.Name("missing"))
	require.NoError(t, err)
	require.Nil(t, p)
	_, err = tpl.RemoveParam(ast.Index(0))
	require.ErrorIs(t, err, ast.ErrNameParam)
	// Indices of the remaining anonymous parameters do not shift.
	_, tpl = first(t, "{{Foo|x|y}}")
	_, err = tpl.RemoveParam(ast.Index(1))
	require.NoError(t, err)
	require.Equal(t, ast.Index(2), tpl.Params()[0].Key)
}

func TestRemoveParams(t *testing.T) {
	doc, tpl := first(t, "{{Foo|x|b=2|c=3|cc=4}}")
	removed := tpl.RemoveParams(ast.KeysMatcher(ast.Index(1), ast.Name("b")))
	require.Len(t, removed, 2)
	require.Equal(t, "{{Foo|c=3|cc=4}}", doc.String())
	removed = tpl.RemoveParams(ast.RegexpMatcher(regexp.MustCompile(`^c+$`)))
	require.Len(t, removed, 2)
	require.Equal(t, "{{Foo}}", doc.String())
}

func TestAlignKeys(t *testing.T) {
	doc, tpl := first(t, "{{Foo\n|a=1\n|long=2\n|x\n|skip=3\n}}")
	tpl.AlignKeys("skip")
	require.Equal(t, "{{Foo\n|a     =1\n|long  =2\n|x\n|skip=3\n}}", doc.String())
	require.Equal(t, ast.Name("a"), tpl.Params()[0].Key)
}

func TestRename(t *testing.T) {
	doc, tpl := first(t, "{{ foo |a}}")
	require.Equal(t, "foo", tpl.Name)
	tpl.Rename("Bar baz")
	require.Equal(t, "{{ Bar baz |a}}", doc.String())
	require.Equal(t, "Bar_baz", tpl.Name)
}

func TestSetTarget(t *testing.T) {
	doc := parser.ParseString("see [[Old page|here]]")
	var l *ast.Link
	for l = range ast.Links(doc) {
		break
	}
	require.NotNil(t, l)
	l.SetTarget("New page")
	require.Equal(t, "see [[New page|here]]", doc.String())
}

func TestTemplatesLazy(t *testing.T) {
	doc, tpl := first(t, "{{Outer|{{Inner|a}}}} {{Other}}")
	seq := ast.Templates(doc)
	var names []string
	for tp := range seq {
		names = append(names, tp.Name)
	}
	require.Equal(t, []string{"Outer", "Inner", "Other"}, names)

	// The sequence walks the tree anew and sees the mutation.
	_, err := tpl.SetParam(ast.Index(1), "plain")
	require.NoError(t, err)
	names = names[:0]
	for tp := range seq {
		names = append(names, tp.Name)
	}
	require.Equal(t, []string{"Outer", "Other"}, names)

	// Stopping early is allowed.
	for range seq {
		break
	}
}

func TestTemplatesNamed(t *testing.T) {
	doc := parser.ParseString("{{foo bar}} {{Foo_bar|x}} {{Baz}}")
	n := 0
	for range ast.TemplatesNamed(doc, "Foo bar") {
		n++
	}
	require.Equal(t, 2, n)
}

func TestSetParts(t *testing.T) {
	doc, tpl := first(t, "{{Outer|x}}")
	sub := parser.ParseString("{{Inner}} and [[link]]")
	tpl.Params()[0].SetParts(sub.Children()...)
	require.Equal(t, "{{Outer|{{Inner}} and [[link]]}}", doc.String())
	n := 0
	for range ast.Templates(doc) {
		n++
	}
	require.Equal(t, 2, n)
}

func TestClone(t *testing.T) {
	src := "#REDIRECT [[A]]\n{{Foo|a=[[b|c]]<!-- x -->}} __NOTOC__ <nowiki>y</nowiki>"
	doc := parser.ParseString(src)
	c := ast.Clone(doc).(*ast.Document)
	require.Equal(t, src, c.String())
	require.Equal(t, ast.Sprint(doc), ast.Sprint(c))
	for tpl := range ast.Templates(c) {
		_, err := tpl.SetParam(ast.Name("a"), "changed")
		require.NoError(t, err)
	}
	require.Equal(t, src, doc.String())
	require.NotEqual(t, src, c.String())
}

func TestWalk(t *testing.T) {
	doc := parser.ParseString("a<!-- one -->b{{T|c<!-- two -->}}")
	_, err := ast.Walk(doc, func(n ast.Node) (ast.Node, error) {
		if _, ok := n.(*ast.Comment); ok {
			return nil, nil
		}
		return n, nil
	})
	require.NoError(t, err)
	require.Equal(t, "ab{{T|c}}", doc.String())

	stop := errors.New("stop")
	_, err = ast.Walk(doc, func(n ast.Node) (ast.Node, error) {
		if _, ok := n.(*ast.Template); ok {
			return n, stop
		}
		return n, nil
	})
	require.ErrorIs(t, err, stop)
}

func TestInspect(t *testing.T) {
	doc := parser.ParseString("{{A|{{B}}}} [[C]]")
	var kinds []string
	ast.Inspect(doc, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Template:
			kinds = append(kinds, n.Name)
			return false
		case *ast.Link:
			kinds = append(kinds, n.Target)
		}
		return true
	})
	require.Equal(t, []string{"A", "C"}, kinds)
}

func TestFprint(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, ast.Fprint(&sb, parser.ParseString("{{A|b}}")))
	want := `Document
  Template(A)
    Param(0)
      Glyph("A")
    Param(1)
      Text("b")
`
	require.Equal(t, want, sb.String())
}
