// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the gutenfetch pipeline:
// catalog records as returned by Gutendex, the format chosen for download,
// and the result of writing a text to disk.
package types

import "strings"

// Author is a single creator credited on a catalog record. Gutendex reports
// names in "Last, First" order.
type Author struct {
	Name      string `json:"name" yaml:"name"`
	BirthYear *int   `json:"birth_year,omitempty" yaml:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty" yaml:"death_year,omitempty"`
}

// DisplayName returns the name in "First Last" order.
func (a Author) DisplayName() string {
	last, first, ok := strings.Cut(a.Name, ",")
	if !ok {
		return strings.TrimSpace(a.Name)
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return strings.TrimSpace(last)
	}
	return first + " " + strings.TrimSpace(last)
}

// Book is one catalog entry (an edition). Records are treated as immutable
// once decoded from the API.
type Book struct {
	ID            int               `json:"id" yaml:"id"`
	Title         string            `json:"title" yaml:"title"`
	Authors       []Author          `json:"authors" yaml:"authors"`
	Formats       map[string]string `json:"formats" yaml:"formats,omitempty"`
	DownloadCount int               `json:"download_count" yaml:"download_count"`
	Languages     []string          `json:"languages,omitempty" yaml:"languages,omitempty"`
	Subjects      []string          `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	MediaType     string            `json:"media_type,omitempty" yaml:"media_type,omitempty"`
}

// PrimaryAuthor returns the first credited author, or the zero Author.
func (b Book) PrimaryAuthor() Author {
	if len(b.Authors) == 0 {
		return Author{}
	}
	return b.Authors[0]
}

// AuthorNames joins all author display names with ", ".
func (b Book) AuthorNames() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.DisplayName())
	}
	return strings.Join(names, ", ")
}

// SelectedFormat is the single file chosen for download from a Book's formats.
type SelectedFormat struct {
	MIMEType string `json:"mime_type" yaml:"mime_type"`
	URL      string `json:"url" yaml:"url"`
}

// IsHTML reports whether the selected file is an HTML document.
func (f SelectedFormat) IsHTML() bool {
	mt := strings.ToLower(f.MIMEType)
	return strings.HasPrefix(mt, "text/html") || strings.HasPrefix(mt, "application/xhtml+xml")
}

// DownloadResult records a text that was written to disk.
type DownloadResult struct {
	Book         Book   `json:"book" yaml:"book"`
	LocalPath    string `json:"local_path" yaml:"local_path"`
	BytesWritten int64  `json:"bytes_written" yaml:"bytes_written"`
}
