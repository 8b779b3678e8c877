// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/gutenfetch/internal/format"
	"github.com/pdiddy/gutenfetch/internal/httputil"
	"github.com/pdiddy/gutenfetch/pkg/types"
)

// DefaultAPIURL is the public Gutendex books endpoint.
const DefaultAPIURL = "https://gutendex.com/books/"

// pageSize is the number of results Gutendex returns per page.
const pageSize = 32

const (
	defaultLanguages = "en"
	defaultMaxPages  = 10
	textMIMEFilter   = "text/plain"
)

// Page is one decoded Gutendex result page.
type Page struct {
	Count int          `json:"count"`
	Next  string       `json:"next"`
	Books []types.Book `json:"results"`
}

// Client queries the Gutendex catalog.
type Client struct {
	HTTP *http.Client
	Cfg  types.SearchConfig
	// Rand drives page choice and shuffling in random mode. A nil Rand uses
	// the global source.
	Rand *rand.Rand
}

// NewClient returns a Client for cfg using an HTTP client built from
// cfg.HTTPConfig.
func NewClient(cfg types.SearchConfig) *Client {
	return &Client{HTTP: httputil.NewClient(cfg.HTTPConfig), Cfg: cfg}
}

// Search runs q against the catalog and returns every record from up to
// q.Pages (or the configured MaxPages) result pages. Title and author are
// combined into one search string; Gutendex matches all words.
func (c *Client) Search(ctx context.Context, q Query) ([]types.Book, error) {
	if q.IsEmpty() {
		return nil, fmt.Errorf("query is empty: provide a title or an author")
	}

	maxPages := q.Pages
	if maxPages <= 0 {
		maxPages = c.Cfg.MaxPages
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	params := url.Values{
		"search":    {q.SearchText()},
		"languages": {c.languages()},
	}
	next := c.endpoint(params)

	var books []types.Book
	for page := 1; next != "" && page <= maxPages; page++ {
		p, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		log.Debug().Int("page", page).Int("results", len(p.Books)).Int("count", p.Count).Msg("catalog page fetched")
		books = append(books, p.Books...)
		next = p.Next
	}
	return books, nil
}

// Random returns up to n records, one per work, sampled from the plain-text
// catalog. It learns the catalog size from the first page, then draws random
// pages, shuffling each and collecting records of unseen works until n are
// gathered or n+10 pages have been tried. Audio editions, volume splits and
// records without a usable plain-text file are passed over.
func (c *Client) Random(ctx context.Context, n int) ([]types.Book, error) {
	if n <= 0 {
		return nil, nil
	}

	first, err := c.fetchPage(ctx, c.endpoint(c.randomParams(0)))
	if err != nil {
		return nil, err
	}
	if first.Count == 0 {
		return nil, nil
	}
	maxPage := max(1, first.Count/pageSize)

	// Keyed by work so editions of one work count once.
	seen := make(map[string]bool)
	var collected []types.Book
	var lastErr error
	for attempt := 0; len(collected) < n && attempt < n+10; attempt++ {
		pageNum := c.intN(maxPage) + 1
		p, err := c.fetchPage(ctx, c.endpoint(c.randomParams(pageNum)))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Int("page", pageNum).Msg("random page failed, trying another")
			lastErr = err
			continue
		}

		c.shuffle(p.Books)
		for _, b := range p.Books {
			if !sampleable(b) {
				continue
			}
			key := WorkKey(b)
			if seen[key] {
				continue
			}
			seen[key] = true
			collected = append(collected, b)
			if len(collected) >= n {
				break
			}
		}
	}

	if len(collected) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return collected, nil
}

// fetchPage issues one GET and decodes the page.
func (c *Client) fetchPage(ctx context.Context, pageURL string) (*Page, error) {
	log.Debug().Str("url", pageURL).Msg("catalog request")

	resp, err := httputil.Get(ctx, c.HTTP, pageURL, c.Cfg.UserAgent)
	if err != nil {
		return nil, newFetchError(pageURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newFetchError(pageURL, err)
	}

	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}
	return &p, nil
}

func (c *Client) randomParams(page int) url.Values {
	params := url.Values{
		"languages": {c.languages()},
		"mime_type": {textMIMEFilter},
	}
	if page > 0 {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	return params
}

func (c *Client) endpoint(params url.Values) string {
	base := c.Cfg.APIURL
	if base == "" {
		base = DefaultAPIURL
	}
	return base + "?" + params.Encode()
}

func (c *Client) languages() string {
	if c.Cfg.Languages == "" {
		return defaultLanguages
	}
	return c.Cfg.Languages
}

func (c *Client) intN(n int) int {
	if c.Rand != nil {
		return c.Rand.IntN(n)
	}
	return rand.IntN(n)
}

func (c *Client) shuffle(books []types.Book) {
	swap := func(i, j int) { books[i], books[j] = books[j], books[i] }
	if c.Rand != nil {
		c.Rand.Shuffle(len(books), swap)
		return
	}
	rand.Shuffle(len(books), swap)
}

// sampleable reports whether a random record can be downloaded as plain
// text and survives the filters applied to search results: it is a Text
// record, not a volume split, and offers a non-archive text/plain file.
func sampleable(b types.Book) bool {
	if !isTextMedia(b) || isVolumeSplit(b.Title) {
		return false
	}
	sel, ok := format.Select(b.Formats)
	return ok && format.Classify(sel.MIMEType) <= format.TierPlainText
}
