// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean removes Project Gutenberg license boilerplate and, on
// request, other editorial noise from plain-text books.
package clean

import (
	"regexp"
	"strings"
)

var (
	startMarker = regexp.MustCompile(`(?i)^\s*\*{3}\s*START\s+OF\b`)
	endMarker   = regexp.MustCompile(`(?i)^\s*\*{3}\s*END\s+OF\b`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// Options selects the optional passes Clean runs after Strip.
type Options struct {
	// Extras removes editorial apparatus around and inside the body:
	// transcriber notes, front matter up to the first chapter, producer
	// credits, tables of contents, trailing "THE END", dividers, index and
	// footnote sections, illustration tags, underscore italics and inline
	// footnotes. ALL CAPS headings are rewritten in title case.
	Extras bool
}

// Strip returns the body between the first "*** START OF" line and the first
// "*** END OF" line after it, both exclusive. A missing start marker keeps
// everything from the first line; a missing end marker keeps everything to
// the last. Leading and trailing blank lines are dropped and the result ends
// with exactly one newline. Strip(Strip(s)) == Strip(s).
func Strip(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := 0
	for i, line := range lines {
		if startMarker.MatchString(line) {
			start = i + 1
			break
		}
	}
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if endMarker.MatchString(lines[i]) {
			end = i
			break
		}
	}

	return finish(lines[start:end])
}

// Clean runs Strip followed by the passes enabled in opts.
func Clean(text string, opts Options) string {
	out := Strip(text)
	if !opts.Extras {
		return out
	}

	lines := strings.Split(out, "\n")
	for _, pass := range extraPasses {
		lines = pass(lines)
	}
	out = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return finish(strings.Split(out, "\n"))
}

// finish trims blank edge lines and terminates the text with one newline.
// An all-blank body becomes the empty string.
func finish(lines []string) string {
	first, last := 0, len(lines)
	for first < last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last > first && strings.TrimSpace(lines[last-1]) == "" {
		last--
	}
	if first == last {
		return ""
	}
	return strings.Join(lines[first:last], "\n") + "\n"
}
