// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads selected e-texts, converts and cleans them, and
// writes one UTF-8 text file per work.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pdiddy/gutenfetch/internal/clean"
	"github.com/pdiddy/gutenfetch/internal/convert"
	"github.com/pdiddy/gutenfetch/internal/httputil"
	"github.com/pdiddy/gutenfetch/internal/search"
	"github.com/pdiddy/gutenfetch/pkg/types"
)

// DefaultOutputDir is where texts are written when no directory is configured.
const DefaultOutputDir = "gutenberg_texts"

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Failed     int
	Results    []types.DownloadResult
}

// Total returns the number of records processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Failed
}

// HasFailures reports whether any record failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AllFailed reports whether records were attempted and none succeeded.
func (r BatchResult) AllFailed() bool {
	return r.Total() > 0 && r.Downloaded == 0
}

// DownloadBook fetches e.Format.URL, converts the body to UTF-8 text, applies
// the configured cleaning and writes the result to destPath through a
// temporary file, replacing any existing file.
func DownloadBook(ctx context.Context, client *http.Client, e search.Entry, destPath string, cfg types.DownloadConfig) (*types.DownloadResult, error) {
	log.Debug().Int("id", e.Book.ID).Str("url", e.Format.URL).Str("mime", e.Format.MIMEType).Msg("downloading")

	resp, err := httputil.Get(ctx, client, e.Format.URL, cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", e.Format.URL, err)
	}
	defer resp.Body.Close()

	f := e.Format
	f.MIMEType = contentType(f.MIMEType, resp.Header.Get("Content-Type"))
	text, err := convert.For(f).Convert(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", e.Format.URL, err)
	}

	switch cfg.Clean {
	case types.CleanNone:
	case types.CleanExtensive:
		text = clean.Clean(text, clean.Options{Extras: true})
	default:
		text = clean.Strip(text)
	}

	if err := writeFileAtomic(destPath, text); err != nil {
		return nil, err
	}
	return &types.DownloadResult{
		Book:         e.Book,
		LocalPath:    destPath,
		BytesWritten: int64(len(text)),
	}, nil
}

// DownloadBatch downloads entries sequentially into cfg.OutputDir, printing
// per-item status to w and returning a summary. It continues after
// individual failures and paces consecutive requests by cfg.DownloadDelay.
// It stops early only when ctx is cancelled.
func DownloadBatch(ctx context.Context, client *http.Client, entries []search.Entry, cfg types.DownloadConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", outDir, err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.DownloadDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.DownloadDelay), 1)
	}

	names := NewNamer()
	for _, e := range entries {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		path := filepath.Join(outDir, names.Name(e.Book))
		fmt.Fprintf(w, "downloading: %s (id=%d)\n", e.Book.Title, e.Book.ID)

		res, err := DownloadBook(ctx, client, e, path, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			log.Warn().Err(err).Int("id", e.Book.ID).Msg("download failed")
			fmt.Fprintf(w, "  warning: failed to download %q (id=%d): %v\n", e.Book.Title, e.Book.ID, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "  saved: %s (%d bytes)\n", res.LocalPath, res.BytesWritten)
		result.Downloaded++
		result.Results = append(result.Results, *res)
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d failed (total: %d)\n",
		result.Downloaded, result.Failed, result.Total())
	return result, nil
}

// contentType prefers the declared format, borrowing the charset from the
// response header when the format names none.
func contentType(declared, header string) string {
	if declared == "" {
		return header
	}
	if strings.Contains(strings.ToLower(declared), "charset=") {
		return declared
	}
	i := strings.Index(strings.ToLower(header), "charset=")
	if i < 0 {
		return declared
	}
	return declared + "; " + header[i:]
}

// writeFileAtomic writes text to a temporary file beside destPath and
// renames it into place.
func writeFileAtomic(destPath, text string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".gutenfetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.WriteString(text)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", destPath, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
