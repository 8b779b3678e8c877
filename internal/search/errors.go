// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"

	"github.com/pdiddy/gutenfetch/internal/httputil"
)

// ErrNoResults is returned when a query leaves nothing usable after
// filtering and format selection.
var ErrNoResults = errors.New("no matching books found")

// FetchError reports a failed catalog request: either the transport failed
// or the server answered with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog request %s failed: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("catalog request %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Is allows for error checking with errors.Is().
func (e *FetchError) Is(target error) bool {
	_, ok := target.(*FetchError)
	return ok
}

// ParseError reports a catalog response that could not be decoded.
type ParseError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing catalog response from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is allows for error checking with errors.Is().
func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}

func newFetchError(url string, err error) *FetchError {
	fe := &FetchError{URL: url, Err: err}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		fe.StatusCode = se.StatusCode
	}
	return fe
}
