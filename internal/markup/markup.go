// SPDX-License-Identifier: MPL-2.0

// Package markup converts the small inline markup used in module sidecar
// files into HTML fragments.
//
// Only three spans are recognised, applied in this order:
//
//	**bold**   -> <strong>bold</strong>
//	*italic*   -> <em>italic</em>
//	`code`     -> <code>code</code>
//
// A span is either a single word character or a run that starts and ends
// with a non-space character and does not contain its own delimiter.
package markup

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: strong must run before em so "**x**" is not read as two
// empty emphasis spans.
var rules = []rule{
	{regexp.MustCompile(`\*\*(\w|\S[^*]*?\S)\*\*`), "<strong>$1</strong>"},
	{regexp.MustCompile(`\*(\w|\S[^*]*?\S)\*`), "<em>$1</em>"},
	{regexp.MustCompile("`(\\w|\\S[^`]*?\\S)`"), "<code>$1</code>"},
}

// Markdown returns text with bold, italic and code spans replaced by their
// HTML equivalents. Text without markup is returned unchanged.
func Markdown(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}
