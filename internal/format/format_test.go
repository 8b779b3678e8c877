// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mime string
		want Tier
	}{
		{"text/plain; charset=utf-8", TierUTF8Text},
		{"text/plain; charset=UTF-8", TierUTF8Text},
		{"text/plain;charset=utf_8", TierUTF8Text},
		{"text/plain; charset=us-ascii", TierPlainText},
		{"text/plain; charset=iso-8859-1", TierPlainText},
		{"text/plain", TierPlainText},
		{"text/html", TierHTML},
		{"text/html; charset=utf-8", TierHTML},
		{"application/xhtml+xml", TierHTML},
		{"text/rtf", TierOtherText},
		{"application/pdf", TierRejected},
		{"application/epub+zip", TierRejected},
		{"application/x-mobipocket-ebook", TierRejected},
		{"image/jpeg", TierRejected},
		{"application/rdf+xml", TierRejected},
		{"not a mime;;", TierRejected},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mime))
		})
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		formats  map[string]string
		wantOK   bool
		wantMIME string
	}{
		{
			name: "utf-8 text beats html",
			formats: map[string]string{
				"text/html":                 "https://example.com/219.htm",
				"text/plain; charset=utf-8": "https://example.com/219-0.txt",
			},
			wantOK:   true,
			wantMIME: "text/plain; charset=utf-8",
		},
		{
			name: "utf-8 beats ascii",
			formats: map[string]string{
				"text/plain; charset=us-ascii": "https://example.com/ascii.txt",
				"text/plain; charset=utf-8":    "https://example.com/utf8.txt",
			},
			wantOK:   true,
			wantMIME: "text/plain; charset=utf-8",
		},
		{
			name: "ascii beats html",
			formats: map[string]string{
				"text/html":                    "https://example.com/x.htm",
				"text/plain; charset=us-ascii": "https://example.com/ascii.txt",
			},
			wantOK:   true,
			wantMIME: "text/plain; charset=us-ascii",
		},
		{
			name: "html beats epub",
			formats: map[string]string{
				"application/epub+zip": "https://example.com/x.epub",
				"text/html":            "https://example.com/x.htm",
			},
			wantOK:   true,
			wantMIME: "text/html",
		},
		{
			name: "zipped text is passed over",
			formats: map[string]string{
				"text/plain; charset=utf-8": "https://example.com/files/1/1-0.zip",
				"text/html":                 "https://example.com/1.htm",
			},
			wantOK:   true,
			wantMIME: "text/html",
		},
		{
			name:    "pdf only is skipped",
			formats: map[string]string{"application/pdf": "https://example.com/x.pdf"},
			wantOK:  false,
		},
		{
			name:    "audio only is skipped",
			formats: map[string]string{"audio/mpeg": "https://example.com/x.mp3"},
			wantOK:  false,
		},
		{
			name:    "empty",
			formats: nil,
			wantOK:  false,
		},
		{
			name: "tie within tier is stable",
			formats: map[string]string{
				"text/plain; charset=us-ascii":   "https://example.com/ascii.txt",
				"text/plain; charset=iso-8859-1": "https://example.com/latin1.txt",
			},
			wantOK:   true,
			wantMIME: "text/plain; charset=iso-8859-1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.formats)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantMIME, got.MIMEType)
				assert.Equal(t, tt.formats[tt.wantMIME], got.URL)
			}
		})
	}
}

func TestSelect_TextWheneverAvailable(t *testing.T) {
	others := []string{"text/html", "application/pdf", "application/epub+zip", "image/jpeg", "text/rtf"}
	for _, o := range others {
		got, ok := Select(map[string]string{
			o:                              "https://example.com/other",
			"text/plain; charset=us-ascii": "https://example.com/text.txt",
		})
		assert.True(t, ok)
		assert.Equal(t, "text/plain; charset=us-ascii", got.MIMEType, "alongside %s", o)
	}
}
