// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ResultsFile is the on-disk form of a listing: the query that produced it
// and the records with the format chosen for each. Written by `--save`.
type ResultsFile struct {
	Query   QueryParams `yaml:"query"`
	Entries []Entry     `yaml:"entries"`
	Summary Summary     `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	Mode   string `yaml:"mode"`
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
	Random int    `yaml:"random,omitempty"`
	Limit  int    `yaml:"limit,omitempty"`
}

// Summary stores result statistics and a timestamp.
type Summary struct {
	Total     int       `yaml:"total"`
	Skipped   int       `yaml:"skipped"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultsFile saves a listing to a YAML file.
func WriteResultsFile(path string, params QueryParams, entries []Entry, skipped int) error {
	rf := ResultsFile{
		Query:   params,
		Entries: entries,
		Summary: Summary{
			Total:     len(entries),
			Skipped:   skipped,
			Timestamp: time.Now(),
		},
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultsFile loads a previously saved listing.
func ReadResultsFile(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	return &rf, nil
}
