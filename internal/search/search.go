// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the Gutendex catalog and reduces the returned
// editions to one record per work.
package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/gutenfetch/pkg/types"
)

// Query holds the search parameters.
type Query struct {
	Title  string
	Author string
	// Pages caps the number of result pages followed; zero uses the
	// client's configured default.
	Pages int
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Title) == "" && strings.TrimSpace(q.Author) == ""
}

// SearchText combines author and title into the Gutendex search string.
func (q Query) SearchText() string {
	var parts []string
	if a := strings.TrimSpace(q.Author); a != "" {
		parts = append(parts, a)
	}
	if t := strings.TrimSpace(q.Title); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}

// Entry pairs a record with the file chosen for it.
type Entry struct {
	Book   types.Book           `yaml:"book"`
	Format types.SelectedFormat `yaml:"format"`
}

// FormatPreview writes one numbered line per entry: title, authors and id.
func FormatPreview(entries []Entry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	fmt.Fprintf(w, "Found %d book(s):\n", len(entries))
	for i, e := range entries {
		authors := e.Book.AuthorNames()
		if authors == "" {
			authors = "Unknown"
		}
		fmt.Fprintf(w, "  %d. %s — %s (id=%d)\n", i+1, oneLine(e.Book.Title), authors, e.Book.ID)
	}
}

// oneLine flattens titles that Gutendex reports with embedded line breaks.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
