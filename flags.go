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
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

type kv struct {
	key, value string
}

var _ pflag.Value = (*kvFlag)(nil)

// kvFlag is a repeatable key=value flag. The pairs keep the order they were
// given in.
type kvFlag struct {
	pairs []kv
}

func (f *kvFlag) String() string {
	s := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		s[i] = p.key + "=" + p.value
	}
	return strings.Join(s, ",")
}

// Set splits s at its first '='.
func (f *kvFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("%q is not of the form key=value", s)
	}
	f.pairs = append(f.pairs, kv{strings.TrimSpace(k), v})
	return nil
}

func (f *kvFlag) Type() string {
	return "key=value"
}
