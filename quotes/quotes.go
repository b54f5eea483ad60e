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

// Package quotes resolves runs of apostrophes in a line of wikitext into bold
// and italic boundaries, the way MediaWiki's doQuotes does.
package quotes // import "akhil.cc/mwtext/quotes"

import (
	"sort"
	"strings"
)

// Type is a bold or italic boundary.
type Type int

const (
	BoldOpen Type = iota
	BoldClose
	ItalicOpen
	ItalicClose
)

var typeNames = [...]string{
	BoldOpen:    "BoldOpen",
	BoldClose:   "BoldClose",
	ItalicOpen:  "ItalicOpen",
	ItalicClose: "ItalicClose",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(?)"
	}
	return typeNames[t]
}

// Tag returns the HTML tag for t.
func (t Type) Tag() string {
	switch t {
	case BoldOpen:
		return "<b>"
	case BoldClose:
		return "</b>"
	case ItalicOpen:
		return "<i>"
	case ItalicClose:
		return "</i>"
	}
	return ""
}

// Quotes returns the apostrophes that write t.
func (t Type) Quotes() string {
	if t == BoldOpen || t == BoldClose {
		return "'''"
	}
	return "''"
}

func tagType(s string) (Type, bool) {
	switch s {
	case "<b>":
		return BoldOpen, true
	case "</b>":
		return BoldClose, true
	case "<i>":
		return ItalicOpen, true
	case "</i>":
		return ItalicClose, true
	}
	return 0, false
}

// split cuts line into alternating text and quote runs, starting and ending
// with a possibly empty text run.
func split(line string) []string {
	var (
		arr   []string
		start int
	)
	for i := 0; i < len(line); {
		if line[i] != '\'' || i+1 >= len(line) || line[i+1] != '\'' {
			i++
			continue
		}
		j := i
		for j < len(line) && line[j] == '\'' {
			j++
		}
		arr = append(arr, line[start:i], line[i:j])
		start, i = j, j
	}
	return append(arr, line[start:])
}

// Resolve converts the quote runs of line into <b> and <i> tags.
func Resolve(line string) string {
	arr := split(line)
	if len(arr) == 1 {
		return line
	}

	// Four apostrophes are one of text and a bold run; more than five are
	// text except for the last five.
	var numBold, numItalics int
	for i := 1; i < len(arr); i += 2 {
		n := len(arr[i])
		switch {
		case n == 4:
			arr[i-1] += "'"
			arr[i] = "'''"
			n = 3
		case n > 5:
			arr[i-1] += strings.Repeat("'", n-5)
			arr[i] = "'''''"
			n = 5
		}
		switch n {
		case 2:
			numItalics++
		case 3:
			numBold++
		case 5:
			numItalics++
			numBold++
		}
	}

	// With an odd number of both, one bold run was most likely an apostrophe
	// followed by italics. Prefer the one after a single-letter word, then
	// one after a longer word, then one after a space.
	if numBold%2 == 1 && numItalics%2 == 1 {
		singleLetter, multiLetter, space := -1, -1, -1
		for i := 1; i < len(arr); i += 2 {
			if len(arr[i]) != 3 {
				continue
			}
			x1, x2 := lastBytes(arr[i-1])
			if x1 == ' ' {
				if space == -1 {
					space = i
				}
			} else if x2 == ' ' {
				singleLetter = i
				break
			} else if multiLetter == -1 {
				multiLetter = i
			}
		}
		donor := -1
		switch {
		case singleLetter > -1:
			donor = singleLetter
		case multiLetter > -1:
			donor = multiLetter
		case space > -1:
			donor = space
		}
		if donor > -1 {
			arr[donor] = "''"
			arr[donor-1] += "'"
		}
	}

	var (
		out    strings.Builder
		buffer strings.Builder
		state  string
	)
	for i, r := range arr {
		if i%2 == 0 {
			if state == "both" {
				buffer.WriteString(r)
			} else {
				out.WriteString(r)
			}
			continue
		}
		switch len(r) {
		case 2:
			switch state {
			case "i":
				out.WriteString("</i>")
				state = ""
			case "bi":
				out.WriteString("</i>")
				state = "b"
			case "ib":
				out.WriteString("</b></i><b>")
				state = "b"
			case "both":
				out.WriteString("<b><i>" + buffer.String() + "</i>")
				state = "b"
			default: // "b" or ""
				out.WriteString("<i>")
				state += "i"
			}
		case 3:
			switch state {
			case "b":
				out.WriteString("</b>")
				state = ""
			case "bi":
				out.WriteString("</i></b><i>")
				state = "i"
			case "ib":
				out.WriteString("</b>")
				state = "i"
			case "both":
				out.WriteString("<i><b>" + buffer.String() + "</b>")
				state = "i"
			default: // "i" or ""
				out.WriteString("<b>")
				state += "b"
			}
		case 5:
			switch state {
			case "b":
				out.WriteString("</b><i>")
				state = "i"
			case "i":
				out.WriteString("</i><b>")
				state = "b"
			case "bi":
				out.WriteString("</i></b>")
				state = ""
			case "ib":
				out.WriteString("</b></i>")
				state = ""
			case "both":
				out.WriteString("<i><b>" + buffer.String() + "</b></i>")
				state = ""
			default:
				buffer.Reset()
				state = "both"
			}
		}
	}

	// Close what is left open, in this order.
	if state == "b" || state == "ib" {
		out.WriteString("</b>")
	}
	if state == "i" || state == "bi" || state == "ib" {
		out.WriteString("</i>")
	}
	if state == "bi" {
		out.WriteString("</b>")
	}
	if state == "both" && buffer.Len() > 0 {
		out.WriteString("<b><i>" + buffer.String() + "</i></b>")
	}
	return out.String()
}

// lastBytes returns the last byte of s and the one before it. A one-byte s
// yields that byte twice; an empty s yields zeros.
func lastBytes(s string) (x1, x2 byte) {
	if s == "" {
		return 0, 0
	}
	x1 = s[len(s)-1]
	if len(s) == 1 {
		return x1, s[0]
	}
	return x1, s[len(s)-2]
}

// splitTags cuts s around <b>, </b>, <i> and </i>, dropping empty pieces.
func splitTags(s string) []string {
	var parts []string
	for s != "" {
		i := strings.IndexByte(s, '<')
		for i >= 0 {
			if _, ok := tagType(tagAt(s[i:])); ok {
				break
			}
			j := strings.IndexByte(s[i+1:], '<')
			if j < 0 {
				i = -1
				break
			}
			i += j + 1
		}
		if i < 0 {
			parts = append(parts, s)
			break
		}
		if i > 0 {
			parts = append(parts, s[:i])
		}
		t := tagAt(s[i:])
		parts = append(parts, t)
		s = s[i+len(t):]
	}
	return parts
}

func tagAt(s string) string {
	for _, t := range [...]string{"<b>", "</b>", "<i>", "</i>"} {
		if strings.HasPrefix(s, t) {
			return t
		}
	}
	return ""
}

// A Boundary is a bold or italic boundary resolved from a quote run of a
// line. Len is the number of apostrophes it replaces, which is zero for the
// boundaries that close everything left open at the end of the line. Those
// sit at the end of the line, Pos == len(line).
type Boundary struct {
	Pos  int
	Len  int
	Type Type
}

// Boundaries returns the boundaries of line in order.
func Boundaries(line string) []Boundary {
	var out []Boundary
	pos := 0
	for _, part := range splitTags(Resolve(line)) {
		if t, ok := tagType(part); ok {
			b := Boundary{Pos: pos, Type: t}
			if q := t.Quotes(); strings.HasPrefix(line[pos:], q) {
				b.Len = len(q)
				pos += len(q)
			}
			out = append(out, b)
			continue
		}
		i := strings.Index(line[pos:], part)
		if i < 0 {
			break
		}
		pos += i + len(part)
	}
	return out
}

// PositionMap returns, for each byte offset of line where a quote run
// resolves to one or more boundaries, those boundaries in order. Boundaries
// at the end of the line are reported at its last byte.
func PositionMap(line string) map[int][]Type {
	out := make(map[int][]Type)
	for _, b := range Boundaries(line) {
		pos := min(b.Pos, len(line)-1)
		out[pos] = append(out[pos], b.Type)
	}
	return out
}

// TypesAt returns the boundaries at byte offset i of line.
func TypesAt(line string, i int) []Type {
	return PositionMap(line)[i]
}

// Positions returns the keys of m in increasing order.
func Positions(m map[int][]Type) []int {
	ps := make([]int, 0, len(m))
	for p := range m {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	return ps
}

// Unnest drops <b> and <i> tags that open inside an element of the same kind,
// together with their matching close tags.
func Unnest(s string) string {
	var (
		out          strings.Builder
		bold, italic int
	)
	for _, part := range splitTags(s) {
		switch part {
		case "<b>":
			if bold == 0 {
				out.WriteString(part)
			}
			bold++
		case "</b>":
			bold--
			if bold == 0 {
				out.WriteString(part)
			}
		case "<i>":
			if italic == 0 {
				out.WriteString(part)
			}
			italic++
		case "</i>":
			italic--
			if italic == 0 {
				out.WriteString(part)
			}
		default:
			out.WriteString(part)
		}
	}
	return out.String()
}

var toQuotes = strings.NewReplacer("<i>", "''", "</i>", "''", "<b>", "'''", "</b>", "'''")

// ToQuotes turns <b> and <i> tags back into apostrophes.
func ToQuotes(s string) string {
	return toQuotes.Replace(s)
}
