// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline resolves a fetch request into catalog queries, narrows the
// results to one downloadable edition per work, and either previews or
// downloads them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/gutenfetch/internal/acquire"
	"github.com/pdiddy/gutenfetch/internal/format"
	"github.com/pdiddy/gutenfetch/internal/search"
	"github.com/pdiddy/gutenfetch/pkg/types"
)

// Mode names how a request is resolved against the catalog.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeTitle  Mode = "title"
	ModeAuthor Mode = "author"
	ModeFile   Mode = "file"
)

// Catalog is the subset of the Gutendex client the pipeline uses.
type Catalog interface {
	Search(ctx context.Context, q search.Query) ([]types.Book, error)
	Random(ctx context.Context, n int) ([]types.Book, error)
}

// Options describes one fetch request.
type Options struct {
	Title  string
	Author string
	// Random requests N random texts; it overrides Title and Author.
	Random int
	// Limit caps the number of works kept; zero means the mode's default.
	Limit int
	// DryRun prints the listing instead of downloading.
	DryRun bool
	// SavePath, when set, receives the listing as YAML.
	SavePath string
	// FromPath, when set, replaces the catalog query with a saved listing.
	FromPath string

	Download types.DownloadConfig
}

// Mode reports how opts will be resolved.
func (o Options) Mode() Mode {
	switch {
	case o.FromPath != "":
		return ModeFile
	case o.Random > 0:
		return ModeRandom
	case strings.TrimSpace(o.Author) == "":
		return ModeTitle
	default:
		return ModeAuthor
	}
}

// Validate checks that opts names something to fetch.
func (o Options) Validate() error {
	if o.Random < 0 {
		return fmt.Errorf("--random must be positive, got %d", o.Random)
	}
	if o.Limit < 0 {
		return fmt.Errorf("--n must be positive, got %d", o.Limit)
	}
	if o.FromPath == "" && o.Random == 0 && strings.TrimSpace(o.Title) == "" && strings.TrimSpace(o.Author) == "" {
		return errors.New("provide a title, --author, or --random")
	}
	return nil
}

// Result summarizes a run.
type Result struct {
	Entries []search.Entry
	// Skipped counts works dropped because no acceptable format exists.
	Skipped int
	Batch   acquire.BatchResult
}

// Run executes opts: it prints a banner, resolves entries, then previews or
// downloads them. It returns search.ErrNoResults when nothing usable remains
// and an error when every download failed.
func Run(ctx context.Context, cat Catalog, client *http.Client, opts Options, w io.Writer) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	writeBanner(w, opts)

	entries, skipped, err := Resolve(ctx, cat, opts, w)
	if err != nil {
		return nil, err
	}
	res := &Result{Entries: entries, Skipped: skipped}

	if opts.SavePath != "" {
		if err := search.WriteResultsFile(opts.SavePath, queryParams(opts), entries, skipped); err != nil {
			return res, fmt.Errorf("saving results: %w", err)
		}
		fmt.Fprintf(w, "Saved %d result(s) to %s\n", len(entries), opts.SavePath)
	}

	if opts.DryRun {
		search.FormatPreview(entries, w)
		return res, nil
	}

	batch, err := acquire.DownloadBatch(ctx, client, entries, opts.Download, w)
	res.Batch = batch
	if err != nil {
		return res, err
	}
	if batch.AllFailed() {
		return res, fmt.Errorf("all %d download(s) failed", batch.Failed)
	}
	fmt.Fprintf(w, "\nDownloaded %d text(s) to %s\n", batch.Downloaded, outputDir(opts.Download))
	return res, nil
}

// Resolve turns opts into the entries to fetch: it queries the catalog for
// the request's mode, filters and deduplicates the records, selects a format
// for each and applies the limit. Records without an acceptable format are
// reported to w and counted as skipped.
func Resolve(ctx context.Context, cat Catalog, opts Options, w io.Writer) ([]search.Entry, int, error) {
	if opts.Mode() == ModeFile {
		rf, err := search.ReadResultsFile(opts.FromPath)
		if err != nil {
			return nil, 0, err
		}
		entries := truncate(rf.Entries, opts.Limit)
		if len(entries) == 0 {
			return nil, 0, search.ErrNoResults
		}
		return entries, 0, nil
	}

	books, limit, err := query(ctx, cat, opts, w)
	if err != nil {
		return nil, 0, err
	}
	books = search.Deduplicate(search.FilterVolumes(search.FilterTextOnly(books)))
	log.Debug().Int("works", len(books)).Msg("deduplicated")

	var entries []search.Entry
	skipped := 0
	for _, b := range books {
		f, ok := format.Select(b.Formats)
		if !ok {
			log.Info().Int("id", b.ID).Str("title", b.Title).Msg("no text format, skipping")
			fmt.Fprintf(w, "skipped: %s (id=%d): no plain-text or HTML edition\n", b.Title, b.ID)
			skipped++
			continue
		}
		entries = append(entries, search.Entry{Book: b, Format: f})
	}

	entries = truncate(entries, limit)
	if len(entries) == 0 {
		return nil, skipped, search.ErrNoResults
	}
	return entries, skipped, nil
}

// query runs the catalog request for opts and returns the raw records and
// the effective limit.
func query(ctx context.Context, cat Catalog, opts Options, w io.Writer) ([]types.Book, int, error) {
	limit := opts.Limit
	switch opts.Mode() {
	case ModeRandom:
		fmt.Fprintf(w, "Fetching %d random e-text(s)...\n", opts.Random)
		books, err := cat.Random(ctx, opts.Random)
		if limit == 0 {
			limit = opts.Random
		}
		return books, limit, err

	case ModeTitle:
		fmt.Fprintf(w, "Searching for '%s'...\n", opts.Title)
		// A bare title asks for the best match; the first page holds it.
		books, err := cat.Search(ctx, search.Query{Title: opts.Title, Pages: 1})
		if limit == 0 {
			limit = 1
		}
		return books, limit, err

	default:
		fmt.Fprintf(w, "Searching for works by '%s'...\n", opts.Author)
		books, err := cat.Search(ctx, search.Query{Title: opts.Title, Author: opts.Author})
		if err != nil {
			return nil, limit, err
		}
		return search.FilterByAuthor(books, opts.Author), limit, nil
	}
}

func truncate(entries []search.Entry, limit int) []search.Entry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func queryParams(opts Options) search.QueryParams {
	return search.QueryParams{
		Mode:   string(opts.Mode()),
		Title:  opts.Title,
		Author: opts.Author,
		Random: opts.Random,
		Limit:  opts.Limit,
	}
}

func outputDir(cfg types.DownloadConfig) string {
	if cfg.OutputDir == "" {
		return acquire.DefaultOutputDir
	}
	return cfg.OutputDir
}

// writeBanner prints the resolved request before any network traffic.
func writeBanner(w io.Writer, opts Options) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  gutenfetch")
	fmt.Fprintln(w, rule)
	switch opts.Mode() {
	case ModeFile:
		fmt.Fprintf(w, "  mode        : saved listing (%s)\n", opts.FromPath)
	case ModeRandom:
		fmt.Fprintf(w, "  mode        : random (%d texts)\n", opts.Random)
	case ModeTitle:
		fmt.Fprintln(w, "  mode        : title search")
		fmt.Fprintf(w, "  title       : %s\n", opts.Title)
	default:
		fmt.Fprintln(w, "  mode        : author search")
		if opts.Title != "" {
			fmt.Fprintf(w, "  title       : %s\n", opts.Title)
		}
		fmt.Fprintf(w, "  author      : %s\n", opts.Author)
	}
	limit := "none"
	if opts.Limit > 0 {
		limit = fmt.Sprint(opts.Limit)
	}
	fmt.Fprintf(w, "  limit       : %s\n", limit)
	dir := outputDir(opts.Download)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	fmt.Fprintf(w, "  output dir  : %s\n", dir)
	fmt.Fprintf(w, "  dry run     : %t\n", opts.DryRun)
	fmt.Fprintf(w, "  clean texts : %s\n", cleanLabel(opts.Download.Clean))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func cleanLabel(m types.CleanMode) string {
	if m == "" {
		return string(types.CleanMarkers)
	}
	return string(m)
}
