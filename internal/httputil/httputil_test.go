// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gutenfetch/pkg/types"
)

const body = "It is a truth universally acknowledged."

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func brotliBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, bw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestGet_Success(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		io.WriteString(w, body)
	}))
	defer ts.Close()

	resp, err := Get(context.Background(), NewClient(types.HTTPConfig{}), ts.URL, "gutenfetch/test")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
	assert.Equal(t, "gutenfetch/test", gotUA)
}

func TestGet_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, "")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, ts.URL, se.URL)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestGet_ConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := Get(context.Background(), &http.Client{Timeout: time.Second}, url, "")
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestCompressionTransport_Decodes(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		payload  func(*testing.T, string) []byte
	}{
		{"gzip", "gzip", gzipBytes},
		{"brotli", "br", brotliBytes},
		{"zstd", "zstd", zstdBytes},
		{"identity", "", func(_ *testing.T, s string) []byte { return []byte(s) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAccept string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAccept = r.Header.Get("Accept-Encoding")
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				w.Write(tt.payload(t, body))
			}))
			defer ts.Close()

			client := &http.Client{Transport: NewCompressionTransport(nil)}
			resp, err := Get(context.Background(), client, ts.URL, "")
			require.NoError(t, err)
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, body, string(data))
			assert.Equal(t, "gzip, br, zstd", gotAccept)
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
		})
	}
}

func TestContentEncoding(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"  ", ""},
		{"gzip", "gzip"},
		{"GZIP ", "gzip"},
		{"gzip, br", "br"},
		{"identity", "identity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contentEncoding(tt.header), "header %q", tt.header)
	}
}
