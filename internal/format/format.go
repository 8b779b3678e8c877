// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format picks the single file to download from a catalog record's
// MIME type → URL map.
package format

import (
	"maps"
	"mime"
	"net/url"
	"slices"
	"strings"

	"github.com/pdiddy/gutenfetch/pkg/types"
)

// Tier ranks an offered format; lower is better.
type Tier int

const (
	TierUTF8Text Tier = iota + 1
	TierPlainText
	TierHTML
	TierOtherText
	// TierRejected formats are never downloaded (PDF, EPUB, images, archives).
	TierRejected
)

// Classify returns the tier of a MIME type as Gutendex reports it, e.g.
// "text/plain; charset=utf-8".
func Classify(mimeType string) Tier {
	mediaType, params := parseMIME(mimeType)
	switch {
	case mediaType == "text/plain":
		if strings.EqualFold(strings.ReplaceAll(params["charset"], "_", "-"), "utf-8") {
			return TierUTF8Text
		}
		return TierPlainText
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return TierHTML
	case strings.HasPrefix(mediaType, "text/"):
		return TierOtherText
	default:
		return TierRejected
	}
}

// Select returns the best downloadable format. Zip archives are never
// chosen. Among equally ranked entries the lexically smallest MIME key wins
// so the choice is stable across runs. ok is false when nothing acceptable
// is offered and the record should be skipped.
func Select(formats map[string]string) (sel types.SelectedFormat, ok bool) {
	best := TierRejected
	for _, mt := range slices.Sorted(maps.Keys(formats)) {
		u := formats[mt]
		if u == "" || isArchive(u) {
			continue
		}
		if tier := Classify(mt); tier < best {
			best = tier
			sel = types.SelectedFormat{MIMEType: mt, URL: u}
		}
	}
	return sel, best != TierRejected
}

func parseMIME(s string) (string, map[string]string) {
	mediaType, params, err := mime.ParseMediaType(s)
	if err != nil {
		base, _, _ := strings.Cut(s, ";")
		return strings.ToLower(strings.TrimSpace(base)), map[string]string{}
	}
	return mediaType, params
}

func isArchive(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".zip")
}
