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

// iterator walks the input one byte at a time. It is shared by every module
// and every context of a single parse.
type iterator struct {
	src string
	// i is the index of the byte currently offered to the modules.
	i     int
	stack []*context
}

// peek returns the input from the current byte on, at most limit bytes of it
// when limit is positive.
func (it *iterator) peek(limit int) string {
	if it.i >= len(it.src) {
		return ""
	}
	if limit <= 0 || it.i+limit > len(it.src) {
		return it.src[it.i:]
	}
	return it.src[it.i : it.i+limit]
}

// charAt returns the byte at pos, or 0 if pos is out of range.
func (it *iterator) charAt(pos int) byte {
	if pos < 0 || pos >= len(it.src) {
		return 0
	}
	return it.src[pos]
}

// skip moves past n bytes counting the current one, which the driver loop
// steps over anyway. skip(1) is a no-op.
func (it *iterator) skip(n int) {
	if n > 1 {
		it.i += n - 1
	}
}

func (it *iterator) skipString(s string) {
	it.skip(len(s))
}

// rollback moves back n bytes so they are offered again.
func (it *iterator) rollback(n int) {
	if n <= 0 {
		return
	}
	it.i -= n
	if it.i < -1 {
		it.i = -1
	}
}

// atLineStart reports whether the current byte starts a line.
func (it *iterator) atLineStart() bool {
	return it.i == 0 || it.charAt(it.i-1) == '\n'
}

func (it *iterator) current() *context {
	return it.stack[len(it.stack)-1]
}

func (it *iterator) depth() int {
	return len(it.stack)
}
