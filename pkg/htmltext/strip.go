// Package htmltext flattens rich-text HTML into plain text suitable for
// submission to the resume-scoring service.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes markup from s and returns the readable text. Contents of
// script and style elements are dropped entirely; block boundaries become
// single spaces and runs of whitespace collapse.
func Strip(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	var (
		b    strings.Builder
		skip int
	)

	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := tok.TagName()
			if skippable(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if skippable(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tok.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func skippable(tag string) bool {
	return tag == "script" || tag == "style"
}
