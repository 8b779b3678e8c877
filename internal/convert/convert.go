// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a downloaded e-text into UTF-8 plain text. Bodies in
// legacy charsets are decoded, and HTML editions are reduced to their text.
package convert

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/gutenfetch/pkg/types"
)

// Converter transforms a downloaded body into plain UTF-8 text.
type Converter interface {
	Convert(body io.Reader) (string, error)
}

// For returns the converter matching the selected format.
func For(f types.SelectedFormat) Converter {
	if f.IsHTML() {
		return HTMLConverter{ContentType: f.MIMEType}
	}
	return TextConverter{ContentType: f.MIMEType}
}

// TextConverter decodes a plain-text body using the charset named in
// ContentType, falling back to detection when none is given.
type TextConverter struct {
	ContentType string
}

// Convert implements Converter.
func (c TextConverter) Convert(body io.Reader) (string, error) {
	r, err := charset.NewReader(body, c.ContentType)
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return normalizeNewlines(string(data)), nil
}

// normalizeNewlines removes a byte order mark and converts CRLF and lone CR
// line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
