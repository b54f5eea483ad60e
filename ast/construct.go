package ast

import (
	"errors"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Kind tags a construct that owns a parameter list.
type Kind int

const (
	TemplateCall Kind = iota
	Variable
	ParserFunction
	TemplateParam
	InternalLink
	ExternalLink
	FileLink
)

var kindNames = [...]string{
	TemplateCall:   "Template",
	Variable:       "Variable",
	ParserFunction: "ParserFunction",
	TemplateParam:  "TemplateParam",
	InternalLink:   "InternalLink",
	ExternalLink:   "ExternalLink",
	FileLink:       "File",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// IsLink reports whether k tags a *Link.
func (k Kind) IsLink() bool {
	return k == InternalLink || k == ExternalLink || k == FileLink
}

// Errors returned by the parameter mutation methods.
var (
	ErrNameParam    = errors.New("ast: the name parameter cannot be added or removed")
	ErrDuplicateKey = errors.New("ast: parameter key already present")
	ErrKeySequence  = errors.New("ast: anonymous key is not the next in sequence")
	ErrUnsupported  = errors.New("ast: parameter not supported by this construct")
	ErrNoParam      = errors.New("ast: no such parameter")
)

// construct carries the parameter list shared by templates and links.
type construct struct {
	Branch
	Kind Kind
}

// Params returns the parameters in order, excluding a template's name param.
func (c *construct) Params() []*Param {
	var ps []*Param
	for _, n := range c.Parts {
		if p, ok := n.(*Param); ok && !isNameKey(p.Key) {
			ps = append(ps, p)
		}
	}
	return ps
}

func isNameKey(k Key) bool {
	i, ok := k.(Index)
	return ok && i == 0
}

// Param returns the parameter with the given key, or nil. An exact key match
// wins; otherwise an Index also finds the equivalent numbered Name and vice
// versa. Index(0) returns a template's name param.
func (c *construct) Param(key Key) *Param {
	var loose *Param
	for _, n := range c.Parts {
		p, ok := n.(*Param)
		if !ok {
			continue
		}
		if SameKey(p.Key, key) {
			return p
		}
		if loose == nil && SamePosition(p.Key, key) {
			loose = p
		}
	}
	return loose
}

func (c *construct) HasParam(key Key) bool {
	return c.Param(key) != nil
}

// nextIndex is the key the next anonymous parameter would get.
func (c *construct) nextIndex() Index {
	var max Index
	for _, p := range c.Params() {
		if i, ok := p.Key.(Index); ok && i > max {
			max = i
		}
	}
	return max + 1
}

func (c *construct) check(key Key) error {
	if isNameKey(key) {
		return ErrNameParam
	}
	if c.HasParam(key) {
		return ErrDuplicateKey
	}
	switch c.Kind {
	case ExternalLink, TemplateParam:
		if _, ok := key.(Name); ok {
			return ErrUnsupported
		}
		if len(c.Params()) > 0 {
			return ErrUnsupported
		}
	}
	if i, ok := key.(Index); ok && i != c.nextIndex() {
		return ErrKeySequence
	}
	return nil
}

// newParam builds a parameter styled after its would-be predecessor.
func (c *construct) newParam(key Key, value string) *Param {
	prefix := "|"
	ps := c.Params()
	if len(ps) == 0 {
		switch c.Kind {
		case ParserFunction, Variable:
			prefix = ":"
		case ExternalLink:
			prefix = " "
		}
	}
	p := NewParam(prefix, key, value)
	if len(ps) > 0 {
		last := ps[len(ps)-1]
		if strings.Contains(last.After, "\n") {
			p.After = last.After[strings.LastIndexByte(last.After, '\n'):]
		}
		if !last.IsAnonymous() && !p.IsAnonymous() {
			raw := last.RawKey()
			p.SetKey(Name(leadingSpace(raw) + key.String() + raw[len(strings.TrimRight(raw, " \t")):]))
			p.Before = last.Before
		}
	}
	return p
}

// insertionPoint is the index right after the last parameter.
func (c *construct) insertionPoint() int {
	for i := len(c.Parts) - 1; i >= 0; i-- {
		if _, ok := c.Parts[i].(*Param); ok {
			return i + 1
		}
	}
	return len(c.Parts)
}

// AddParam appends a parameter after the last existing one.
func (c *construct) AddParam(key Key, value string) (*Param, error) {
	if err := c.check(key); err != nil {
		return nil, err
	}
	p := c.newParam(key, value)
	c.InsertAt(c.insertionPoint(), p)
	return p, nil
}

// AddAnonymous appends an anonymous parameter with the next free index.
func (c *construct) AddAnonymous(value string) (*Param, error) {
	return c.AddParam(c.nextIndex(), value)
}

// SetParam replaces the value of the parameter with the given key, or adds
// it when missing.
func (c *construct) SetParam(key Key, value string) (*Param, error) {
	if p := c.Param(key); p != nil {
		if isNameKey(key) {
			return nil, ErrNameParam
		}
		p.SetValue(value)
		return p, nil
	}
	return c.AddParam(key, value)
}

// AddParamAfter inserts p right after the parameter keyed ref.
func (c *construct) AddParamAfter(p *Param, ref Key) error {
	return c.insertRelative(p, ref, 1)
}

// AddParamBefore inserts p right before the parameter keyed ref.
func (c *construct) AddParamBefore(p *Param, ref Key) error {
	return c.insertRelative(p, ref, 0)
}

func (c *construct) insertRelative(p *Param, ref Key, offset int) error {
	if isNameKey(p.Key) {
		return ErrNameParam
	}
	if isNameKey(ref) && offset == 0 {
		return ErrNameParam
	}
	if c.HasParam(p.Key) {
		return ErrDuplicateKey
	}
	r := c.Param(ref)
	if r == nil {
		return ErrNoParam
	}
	c.InsertAt(c.IndexOf(r)+offset, p)
	return nil
}

// RemoveParam removes and returns the parameter keyed key, or nil if there is
// none. Anonymous parameters after it keep their indices.
func (c *construct) RemoveParam(key Key) (*Param, error) {
	if isNameKey(key) {
		return nil, ErrNameParam
	}
	p := c.Param(key)
	if p == nil {
		return nil, nil
	}
	c.Remove(p)
	return p, nil
}

// ParamMatcher selects parameters for RemoveParams.
type ParamMatcher func(*Param) bool

// KeysMatcher matches parameters by key.
func KeysMatcher(keys ...Key) ParamMatcher {
	return func(p *Param) bool {
		for _, k := range keys {
			if SamePosition(p.Key, k) {
				return true
			}
		}
		return false
	}
}

// RegexpMatcher matches parameters whose key text matches re.
func RegexpMatcher(re *regexp.Regexp) ParamMatcher {
	return func(p *Param) bool {
		return re.MatchString(p.Key.String())
	}
}

// RemoveParams removes every parameter selected by match and returns them.
// The name param is never offered to match.
func (c *construct) RemoveParams(match ParamMatcher) []*Param {
	var removed []*Param
	for _, p := range c.Params() {
		if match(p) {
			c.Remove(p)
			removed = append(removed, p)
		}
	}
	return removed
}

// AlignKeys pads every named key, except those listed in ignoring, with
// trailing spaces so that all '=' line up two columns after the widest key.
// Widths are display widths, so wide characters count twice.
func (c *construct) AlignKeys(ignoring ...string) {
	skip := make(map[string]bool, len(ignoring))
	for _, k := range ignoring {
		skip[k] = true
	}
	width := 0
	var named []*Param
	for _, p := range c.Params() {
		if p.IsAnonymous() || skip[p.Key.String()] {
			continue
		}
		named = append(named, p)
		if l := runewidth.StringWidth(p.Key.String()); l > width {
			width = l
		}
	}
	for _, p := range named {
		k := p.Key.String()
		lead := leadingSpace(p.RawKey())
		p.SetKey(Name(lead + k + strings.Repeat(" ", width+2-runewidth.StringWidth(k))))
	}
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t\n"))]
}

// Template is a template call, variable, parser function or template
// parameter reference. Its first child is the name param, keyed Index(0).
type Template struct {
	construct
	// Name is the trimmed name with spaces replaced by underscores.
	Name string
}

// NewTemplate returns a template of the given kind whose name param holds
// name verbatim.
func NewTemplate(kind Kind, name string) *Template {
	t := &Template{Name: normalizeName(name)}
	t.Kind = kind
	np := &Param{Branch: Branch{Parts: SplitText(name)}, Key: Index(0)}
	np.TrimAfter()
	t.Append(np)
	return t
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// NameParam returns the synthetic parameter holding the name text.
func (t *Template) NameParam() *Param {
	return t.Param(Index(0))
}

// Rename replaces the name text, keeping the whitespace that surrounded the
// old name.
func (t *Template) Rename(name string) {
	np := t.NameParam()
	if np == nil {
		np = &Param{Key: Index(0)}
		t.InsertAt(0, np)
	}
	old := np.Value()
	lead := leadingSpace(old)
	np.Parts = SplitText(lead + name)
	t.Name = normalizeName(name)
}

func (t *Template) String() string {
	var sb strings.Builder
	if t.Kind == TemplateParam {
		sb.WriteString("{{{")
	} else {
		sb.WriteString("{{")
	}
	t.writeTo(&sb)
	if t.Kind == TemplateParam {
		sb.WriteString("}}}")
	} else {
		sb.WriteString("}}")
	}
	return sb.String()
}

// Link is an internal link, file link or external link.
type Link struct {
	construct
	// Target is the trimmed link target.
	Target      string
	TargetParts []Node
}

func NewLink(kind Kind, target string) *Link {
	l := &Link{}
	l.Kind = kind
	l.SetTarget(target)
	return l
}

// SetTarget replaces the raw target text.
func (l *Link) SetTarget(target string) {
	l.TargetParts = SplitText(target)
	l.Target = strings.TrimSpace(target)
}

func (l *Link) String() string {
	var sb strings.Builder
	if l.Kind == ExternalLink {
		sb.WriteByte('[')
	} else {
		sb.WriteString("[[")
	}
	for _, p := range l.TargetParts {
		sb.WriteString(p.String())
	}
	l.writeTo(&sb)
	if l.Kind == ExternalLink {
		sb.WriteByte(']')
	} else {
		sb.WriteString("]]")
	}
	return sb.String()
}
