// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// BatchResult holds the outcome of cleaning a set of files.
type BatchResult struct {
	Cleaned   int
	Unchanged int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Cleaned + r.Unchanged + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// CleanFile rewrites path in place with Clean applied. It reports whether
// the content changed; unchanged files are not rewritten. With dryRun set
// nothing is written.
func CleanFile(path string, opts Options, dryRun bool) (changed bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	cleaned := Clean(string(data), opts)
	if cleaned == string(data) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// ExpandPaths resolves files and directories to the .txt files they name.
// Directories contribute their immediate .txt children in sorted order.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.txt"))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", p, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt files found in %s", strings.Join(paths, ", "))
	}
	return files, nil
}

// CleanPaths cleans every file ExpandPaths finds in paths, printing one
// status line per file to w and a summary at the end. It continues after
// individual failures.
func CleanPaths(paths []string, opts Options, dryRun bool, w io.Writer) (BatchResult, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return BatchResult{}, err
	}

	verb := "cleaned"
	if dryRun {
		verb = "would clean"
	}

	var result BatchResult
	for _, f := range files {
		changed, err := CleanFile(f, opts, dryRun)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("file", f).Msg("clean failed")
			fmt.Fprintf(w, "failed:    %s (%v)\n", f, err)
			result.Failed++
		case changed:
			fmt.Fprintf(w, "%s: %s\n", verb, f)
			result.Cleaned++
		default:
			fmt.Fprintf(w, "unchanged: %s\n", f)
			result.Unchanged++
		}
	}
	fmt.Fprintf(w, "\nClean summary: %d %s, %d unchanged, %d failed (total: %d)\n",
		result.Cleaned, verb, result.Unchanged, result.Failed, result.Total())
	return result, nil
}
