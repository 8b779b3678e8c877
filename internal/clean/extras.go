// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Scan windows, in lines, for passes that look only near the top or the
// bottom of a body.
const (
	creditWindow      = 100
	transcriberWindow = 200
	tocWindow         = 1000
	trailingWindow    = 1000
)

var (
	creditLine       = regexp.MustCompile(`(?i)^(produced by|e-text prepared by)`)
	transcriberLine  = regexp.MustCompile(`(?i)^transcriber(?:['’]s|s['’]?)?\s+notes?`)
	asteriskDivider  = regexp.MustCompile(`^[\s*]+$`)
	illustrationLine = regexp.MustCompile(`(?i)^\[illustration.*\]$`)
	italicMarkup     = regexp.MustCompile(`\b_([^_\n]+?)_\b`)
	footnote         = regexp.MustCompile(`(?i)\[Footnote\s+\d+:\s*[^\]]*\]|\[\d+\]`)

	titleCaser = cases.Title(language.English)
)

var chapterMarkers = []string{
	"chapter i", "chapter 1", "*chapter i*", "*chapter 1*",
	"chapter one", "- chapter one -", "1.", "i.", "-1-", "-i-",
}

var tocHeaders = []string{"contents", "table of contents"}

// extraPasses run in order over the stripped body.
var extraPasses = []func([]string) []string{
	stripTranscriberNote,
	stripBeforeChapter,
	stripCredits,
	stripTOC,
	stripTheEnd,
	stripTrailingDivider,
	stripTrailingTranscriberNote,
	stripIllustrations,
	stripIndex,
	stripTrailingFootnotes,
	stripItalics,
	stripInlineFootnotes,
	normalizeHeadings,
}

func isChapterMarker(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	return slices.Contains(chapterMarkers, l) || slices.Contains(chapterMarkers, strings.TrimRight(l, "."))
}

func isDivider(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" && asteriskDivider.MatchString(t)
}

func isTranscriberLine(line string) bool {
	return transcriberLine.MatchString(strings.TrimSpace(line))
}

// lineIs reports whether line, trimmed and case-folded, equals word.
func lineIs(line, word string) bool {
	return strings.EqualFold(strings.TrimSpace(line), word)
}

// truncateFromLast cuts lines at the last match within the final
// trailingWindow lines, dropping the matching line and everything after it.
func truncateFromLast(lines []string, match func(string) bool) []string {
	stop := max(0, len(lines)-trailingWindow)
	for i := len(lines) - 1; i >= stop; i-- {
		if match(lines[i]) {
			return lines[:i]
		}
	}
	return lines
}

// stripTranscriberNote removes a transcriber's note near the top together
// with everything down to the asterisk divider that closes it.
func stripTranscriberNote(lines []string) []string {
	limit := min(transcriberWindow, len(lines))
	for i := 0; i < limit; i++ {
		if !isTranscriberLine(lines[i]) {
			continue
		}
		for j := i + 1; j < limit; j++ {
			if isDivider(lines[j]) {
				return slices.Concat(lines[:i], lines[j+1:])
			}
		}
		return lines
	}
	return lines
}

// stripBeforeChapter drops front matter through the first line that is a
// bare chapter-one marker.
func stripBeforeChapter(lines []string) []string {
	for i, line := range lines {
		if isChapterMarker(line) {
			return lines[i+1:]
		}
	}
	return lines
}

// stripCredits removes a "Produced by" paragraph near the top, keeping the
// blank line that ends it.
func stripCredits(lines []string) []string {
	limit := min(creditWindow, len(lines))
	for i := 0; i < limit; i++ {
		if !creditLine.MatchString(lines[i]) {
			continue
		}
		end := i + 1
		for end < len(lines) && strings.TrimSpace(lines[end]) != "" {
			end++
		}
		return slices.Concat(lines[:i], lines[end:])
	}
	return lines
}

// stripTOC removes a table of contents: the header, the first chapter
// marker after it and everything between.
func stripTOC(lines []string) []string {
	limit := min(tocWindow, len(lines))
	for i := 0; i < limit; i++ {
		if !slices.Contains(tocHeaders, strings.ToLower(strings.TrimSpace(lines[i]))) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if isChapterMarker(lines[j]) {
				return slices.Concat(lines[:i], lines[j+1:])
			}
		}
		return lines
	}
	return lines
}

func stripTheEnd(lines []string) []string {
	return truncateFromLast(lines, func(l string) bool { return lineIs(l, "the end") })
}

func stripTrailingDivider(lines []string) []string {
	return truncateFromLast(lines, isDivider)
}

func stripTrailingTranscriberNote(lines []string) []string {
	return truncateFromLast(lines, isTranscriberLine)
}

func stripTrailingFootnotes(lines []string) []string {
	return truncateFromLast(lines, func(l string) bool { return lineIs(l, "footnotes") })
}

// stripIndex drops an INDEX section and everything after it.
func stripIndex(lines []string) []string {
	for i, line := range lines {
		if lineIs(line, "index") {
			return lines[:i]
		}
	}
	return lines
}

// stripIllustrations removes lines that consist of one [Illustration ...] tag.
func stripIllustrations(lines []string) []string {
	return slices.DeleteFunc(lines, func(l string) bool {
		return illustrationLine.MatchString(strings.TrimSpace(l))
	})
}

func stripItalics(lines []string) []string {
	for i, l := range lines {
		lines[i] = italicMarkup.ReplaceAllString(l, "$1")
	}
	return lines
}

func stripInlineFootnotes(lines []string) []string {
	for i, l := range lines {
		lines[i] = footnote.ReplaceAllString(l, "")
	}
	return lines
}

// normalizeHeadings rewrites ALL CAPS lines in title case and sets them off
// with blank lines.
func normalizeHeadings(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if !isAllCaps(t) {
			out = append(out, line)
			continue
		}
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, titleCaser.String(t))
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}
	return out
}

// isAllCaps reports whether s has at least two letters and all are upper case.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}
