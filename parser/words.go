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
	"strings"
)

// defaultVariables are the magic words that read as a variable rather than a
// template when used as a name, as in {{PAGENAME}}. A name followed by ':',
// as in {{DISPLAYTITLE:x}}, reads as a parser function instead.
var defaultVariables = []string{
	"!", "=",
	"ARTICLEPAGENAME", "ARTICLEPAGENAMEE", "ARTICLESPACE", "ARTICLESPACEE",
	"BASEPAGENAME", "BASEPAGENAMEE",
	"CASCADINGSOURCES", "CONTENTLANG", "CONTENTLANGUAGE",
	"CURRENTDAY", "CURRENTDAY2", "CURRENTDAYNAME", "CURRENTDOW", "CURRENTHOUR",
	"CURRENTMONTH", "CURRENTMONTH1", "CURRENTMONTH2", "CURRENTMONTHABBREV",
	"CURRENTMONTHNAME", "CURRENTMONTHNAMEGEN", "CURRENTTIME", "CURRENTTIMESTAMP",
	"CURRENTVERSION", "CURRENTWEEK", "CURRENTYEAR",
	"DEFAULTCATEGORYSORT", "DEFAULTSORT", "DEFAULTSORTKEY",
	"DIRECTIONMARK", "DIRMARK", "DISPLAYTITLE",
	"FULLPAGENAME", "FULLPAGENAMEE",
	"LOCALDAY", "LOCALDAY2", "LOCALDAYNAME", "LOCALDOW", "LOCALHOUR",
	"LOCALMONTH", "LOCALMONTH1", "LOCALMONTH2", "LOCALMONTHABBREV",
	"LOCALMONTHNAME", "LOCALMONTHNAMEGEN", "LOCALTIME", "LOCALTIMESTAMP",
	"LOCALWEEK", "LOCALYEAR",
	"NAMESPACE", "NAMESPACEE", "NAMESPACENUMBER",
	"NUMBERINGROUP", "NUMBEROFACTIVEUSERS", "NUMBEROFADMINS",
	"NUMBEROFARTICLES", "NUMBEROFEDITS", "NUMBEROFFILES", "NUMBEROFPAGES",
	"NUMBEROFUSERS",
	"PAGEID", "PAGELANGUAGE", "PAGENAME", "PAGENAMEE", "PAGESINCATEGORY",
	"PAGESINCAT", "PAGESINNAMESPACE", "PAGESINNS", "PAGESIZE",
	"PROTECTIONEXPIRY", "PROTECTIONLEVEL",
	"REVISIONDAY", "REVISIONDAY2", "REVISIONID", "REVISIONMONTH",
	"REVISIONMONTH1", "REVISIONSIZE", "REVISIONTIMESTAMP", "REVISIONUSER",
	"REVISIONYEAR",
	"ROOTPAGENAME", "ROOTPAGENAMEE",
	"SCRIPTPATH", "SERVER", "SERVERNAME", "SITENAME", "STYLEPATH",
	"SUBJECTPAGENAME", "SUBJECTPAGENAMEE", "SUBJECTSPACE", "SUBJECTSPACEE",
	"SUBPAGENAME", "SUBPAGENAMEE",
	"TALKPAGENAME", "TALKPAGENAMEE", "TALKSPACE", "TALKSPACEE",
}

// defaultURLSchemes are the prefixes that start an external link. They are
// matched case-insensitively.
var defaultURLSchemes = []string{
	"bitcoin:", "ftp://", "ftps://", "geo:", "git://", "gopher://",
	"http://", "https://", "irc://", "ircs://", "magnet:", "mailto:",
	"matrix:", "mms://", "news:", "nntp://", "redis://", "sftp://", "sip:",
	"sips:", "sms:", "ssh://", "svn://", "tel:", "telnet://", "urn:",
	"worldwind://", "xmpp:", "//",
}

// defaultFilePrefixes are the namespace prefixes of an internal link target
// that make it a file link. They are matched case-insensitively.
var defaultFilePrefixes = []string{"File:", "Image:"}

// defaultSwitches are the double-underscore magic words, without the
// underscores. They are matched case-insensitively.
var defaultSwitches = []string{
	"NOTOC", "FORCETOC", "TOC", "NOEDITSECTION", "NEWSECTIONLINK",
	"NONEWSECTIONLINK", "NOGALLERY", "HIDDENCAT", "EXPECTUNUSEDCATEGORY",
	"NOCONTENTCONVERT", "NOCC", "NOTITLECONVERT", "NOTC", "INDEX", "NOINDEX",
	"STATICREDIRECT", "NOGLOBAL", "DISAMBIG", "EXPECTUNUSEDTEMPLATE",
	"ARCHIVEDTALK", "NOTALK",
}

// vocab is the lookup form of a Config.
type vocab struct {
	variables    map[string]bool
	schemes      []string
	filePrefixes []string
	switches     map[string]bool
}

func newVocab(c *Config) *vocab {
	v := &vocab{
		variables: make(map[string]bool, len(c.Variables)),
		switches:  make(map[string]bool, len(c.BehaviorSwitches)),
	}
	for _, s := range c.Variables {
		v.variables[s] = true
	}
	for _, s := range c.BehaviorSwitches {
		v.switches[strings.ToUpper(s)] = true
	}
	for _, s := range c.URLSchemes {
		v.schemes = append(v.schemes, strings.ToLower(s))
	}
	for _, s := range c.FilePrefixes {
		v.filePrefixes = append(v.filePrefixes, strings.ToLower(s))
	}
	return v
}

// scheme returns the URL scheme s starts with, or "".
func (v *vocab) scheme(s string) string {
	for _, sc := range v.schemes {
		if len(s) >= len(sc) && strings.EqualFold(s[:len(sc)], sc) {
			return s[:len(sc)]
		}
	}
	return ""
}

func (v *vocab) isFile(target string) bool {
	target = strings.TrimSpace(target)
	for _, p := range v.filePrefixes {
		if len(target) >= len(p) && strings.EqualFold(target[:len(p)], p) {
			return true
		}
	}
	return false
}
