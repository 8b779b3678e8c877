// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/gutenfetch/pkg/types"
)

var (
	// subtitleSep marks where a subtitle begins. A bare hyphen is not a
	// separator so hyphenated words survive.
	subtitleSep    = regexp.MustCompile(`[:;—–]| - `)
	leadingArticle = regexp.MustCompile(`^(the|a|an)\s+`)

	// volumeTitle captures the base title of a multi-volume split such as
	// "Oliver Twist, Vol. 1 (of 3)" or "Don Quixote, Part 2".
	volumeTitle = regexp.MustCompile(`(?i)^(.+?)[\s,;:.\-]*\b(?:vol(?:ume)?\.?|v\.|part)\s*(?:\d+|[ivxlcdm]+)\b`)
)

// Deduplicate collapses editions of the same work into one record. Works are
// identified by WorkKey; within a work the record with the highest
// DownloadCount wins, ties going to the lowest ID. Output order follows the
// first occurrence of each work in the input.
func Deduplicate(books []types.Book) []types.Book {
	var order []string
	best := make(map[string]types.Book, len(books))
	for _, b := range books {
		key := WorkKey(b)
		cur, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = b
			continue
		}
		if b.DownloadCount > cur.DownloadCount ||
			(b.DownloadCount == cur.DownloadCount && b.ID < cur.ID) {
			best[key] = b
		}
	}

	out := make([]types.Book, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// WorkKey returns the identity of the work a record is an edition of:
// the normalized title and the normalized primary author.
func WorkKey(b types.Book) string {
	title := NormalizeTitle(b.Title)
	if title == "" {
		title = "#" + strconv.Itoa(b.ID)
	}
	return title + "|" + normalizeAuthor(b.PrimaryAuthor().Name)
}

// NormalizeTitle lowercases and folds accents, drops any subtitle and a
// leading article, replaces punctuation with spaces and collapses runs of
// whitespace. Apostrophes are removed outright so "Alice's" keys as "alices".
func NormalizeTitle(title string) string {
	t := strings.ToLower(fold(title))
	if loc := subtitleSep.FindStringIndex(t); loc != nil {
		t = t[:loc[0]]
	}
	t = strings.TrimSpace(t)
	t = leadingArticle.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(stripPunct(t)), " ")
}

// normalizeAuthor reduces a name to its sorted lowercase parts so "Austen,
// Jane" and "Jane Austen" agree.
func normalizeAuthor(name string) string {
	parts := strings.Fields(stripPunct(strings.ToLower(fold(name))))
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// FilterByAuthor keeps books credited to an author whose name contains every
// part of query. Single-letter parts (initials) are ignored. An empty query
// keeps everything.
func FilterByAuthor(books []types.Book, query string) []types.Book {
	want := nameParts(query)
	if len(want) == 0 {
		return books
	}

	var out []types.Book
	for _, b := range books {
		for _, a := range b.Authors {
			if containsAll(nameParts(a.Name), want) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// FilterVolumes drops volume splits ("Vol. 1", "Volume 2", "v. 3", "Part 1")
// when a whole-book edition of the same title is also present. Works that
// exist only as volumes are kept.
func FilterVolumes(books []types.Book) []types.Book {
	whole := make(map[string]bool)
	for _, b := range books {
		if !isVolumeSplit(b.Title) {
			whole[NormalizeTitle(b.Title)] = true
		}
	}

	var out []types.Book
	for _, b := range books {
		if m := volumeTitle.FindStringSubmatch(b.Title); m != nil && whole[NormalizeTitle(m[1])] {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FilterTextOnly drops records whose media type is set to something other
// than "Text", such as audio book editions.
func FilterTextOnly(books []types.Book) []types.Book {
	var out []types.Book
	for _, b := range books {
		if isTextMedia(b) {
			out = append(out, b)
		}
	}
	return out
}

func isTextMedia(b types.Book) bool {
	return b.MediaType == "" || strings.EqualFold(b.MediaType, "text")
}

func isVolumeSplit(title string) bool {
	return volumeTitle.MatchString(title)
}

func nameParts(name string) map[string]bool {
	parts := make(map[string]bool)
	for _, p := range strings.Fields(stripPunct(strings.ToLower(fold(name)))) {
		if len([]rune(p)) > 1 {
			parts[p] = true
		}
	}
	return parts
}

func containsAll(have, want map[string]bool) bool {
	for p := range want {
		if !have[p] {
			return false
		}
	}
	return true
}

// fold strips combining marks after compatibility decomposition so accented and
// unaccented spellings compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func stripPunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\'' || r == '’':
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
