// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gutenfetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the catalog query stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIURL is the Gutendex books endpoint (default https://gutendex.com/books/).
	APIURL string `json:"api_url" yaml:"api_url"`

	// Languages is a comma-separated list of language codes (default "en").
	Languages string `json:"languages" yaml:"languages"`

	// MaxPages bounds how many result pages a single search follows (default 10).
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// CleanMode selects how much post-processing a downloaded text receives.
type CleanMode string

const (
	CleanNone      CleanMode = "none"
	CleanMarkers   CleanMode = "markers"
	CleanExtensive CleanMode = "extensive"
)

// DownloadConfig holds settings for the download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory texts are written to (default ./gutenberg_texts).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DownloadDelay is the minimum spacing between consecutive downloads.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// Clean selects boilerplate handling for downloaded texts.
	Clean CleanMode `json:"clean" yaml:"clean"`
}
