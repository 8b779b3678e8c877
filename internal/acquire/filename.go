// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/gutenfetch/pkg/types"
)

// maxSlugRunes caps the length of a filename stem.
const maxSlugRunes = 80

// Slug reduces a title to a filename stem: lowercase letters and digits,
// with runs of whitespace, hyphens and underscores folded to one hyphen.
// Other characters are dropped. The result is at most 80 runes and never
// starts or ends with a hyphen.
func Slug(title string) string {
	var b strings.Builder
	n := 0
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && n > 0 {
				if n+1 >= maxSlugRunes {
					return b.String()
				}
				b.WriteRune('-')
				n++
			}
			pendingHyphen = false
			b.WriteRune(r)
			n++
			if n >= maxSlugRunes {
				return b.String()
			}
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}
	return b.String()
}

// Filename returns "<slug>.txt" for b, falling back to "book-<id>.txt" when
// the title has no usable characters.
func Filename(b types.Book) string {
	return stem(b) + ".txt"
}

func stem(b types.Book) string {
	if s := Slug(b.Title); s != "" {
		return s
	}
	return "book-" + strconv.Itoa(b.ID)
}

// Namer hands out filenames that are unique within one run. A record whose
// name is already taken gets "-<id>" appended to its stem.
type Namer struct {
	used map[string]bool
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{used: make(map[string]bool)}
}

// Name returns the filename for b, disambiguated against earlier calls.
func (n *Namer) Name(b types.Book) string {
	name := Filename(b)
	if n.used[name] {
		name = stem(b) + "-" + strconv.Itoa(b.ID) + ".txt"
	}
	n.used[name] = true
	return name
}
