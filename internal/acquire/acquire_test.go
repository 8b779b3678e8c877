// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gutenfetch/internal/search"
	"github.com/pdiddy/gutenfetch/pkg/types"
)

const emmaText = "The Project Gutenberg eBook of Emma\r\n\r\n" +
	"*** START OF THE PROJECT GUTENBERG EBOOK EMMA ***\r\n\r\n" +
	"EMMA\r\n\r\nEmma Woodhouse, handsome, clever, and rich.\r\n\r\n" +
	"*** END OF THE PROJECT GUTENBERG EBOOK EMMA ***\r\n\r\nLicense text.\r\n"

const emmaHTML = `<html><head><title>Emma</title></head><body>
<p>*** START OF THE PROJECT GUTENBERG EBOOK EMMA ***</p>
<h1>EMMA</h1>
<p>Emma Woodhouse, handsome, clever, and rich.</p>
<p>*** END OF THE PROJECT GUTENBERG EBOOK EMMA ***</p>
</body></html>`

func newDownloadServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/emma.txt":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(emmaText))
		case "/emma.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(emmaHTML))
		case "/latin1.txt":
			w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
			w.Write([]byte("*** START OF X ***\nLes Mis\xe9rables\n*** END OF X ***\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func entry(id int, title, mime, url string) search.Entry {
	return search.Entry{
		Book:   types.Book{ID: id, Title: title},
		Format: types.SelectedFormat{MIMEType: mime, URL: url},
	}
}

func testDownloadConfig(dir string) types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "gutenfetch-test"},
		OutputDir:  dir,
		Clean:      types.CleanMarkers,
	}
}

func TestDownloadBatch(t *testing.T) {
	srv := newDownloadServer(t)
	dir := filepath.Join(t.TempDir(), "out")
	entries := []search.Entry{
		entry(158, "Emma", "text/plain; charset=utf-8", srv.URL+"/emma.txt"),
		entry(1342, "Pride and Prejudice", "text/plain; charset=utf-8", srv.URL+"/missing.txt"),
		entry(135, "Les Misérables", "text/plain", srv.URL+"/latin1.txt"),
	}

	var buf bytes.Buffer
	result, err := DownloadBatch(context.Background(), srv.Client(), entries, testDownloadConfig(dir), &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.False(t, result.AllFailed())
	require.Len(t, result.Results, 2)

	data, err := os.ReadFile(filepath.Join(dir, "emma.txt"))
	require.NoError(t, err)
	assert.Equal(t, "EMMA\n\nEmma Woodhouse, handsome, clever, and rich.\n", string(data))
	assert.Equal(t, int64(len(data)), result.Results[0].BytesWritten)

	data, err = os.ReadFile(filepath.Join(dir, "les-misérables.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Les Misérables\n", string(data), "charset borrowed from the response header")

	out := buf.String()
	assert.Contains(t, out, `warning: failed to download "Pride and Prejudice" (id=1342)`)
	assert.Contains(t, out, "Batch summary: 2 downloaded, 1 failed (total: 3)")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".gutenfetch-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownloadBatch_RepeatIsIdentical(t *testing.T) {
	srv := newDownloadServer(t)
	dir := t.TempDir()
	entries := []search.Entry{entry(158, "Emma", "text/plain; charset=utf-8", srv.URL+"/emma.txt")}
	cfg := testDownloadConfig(dir)

	_, err := DownloadBatch(context.Background(), srv.Client(), entries, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "emma.txt"))
	require.NoError(t, err)

	_, err = DownloadBatch(context.Background(), srv.Client(), entries, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "emma.txt"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDownloadBatch_CleanModes(t *testing.T) {
	srv := newDownloadServer(t)
	e := entry(158, "Emma", "text/plain; charset=utf-8", srv.URL+"/emma.txt")

	tests := []struct {
		mode        types.CleanMode
		wantMarkers bool
	}{
		{types.CleanNone, true},
		{types.CleanMarkers, false},
		{types.CleanExtensive, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg := testDownloadConfig(t.TempDir())
			cfg.Clean = tt.mode

			result, err := DownloadBatch(context.Background(), srv.Client(), []search.Entry{e}, cfg, &bytes.Buffer{})
			require.NoError(t, err)
			require.Len(t, result.Results, 1)

			data, err := os.ReadFile(result.Results[0].LocalPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMarkers, strings.Contains(string(data), "*** START OF"))
			assert.NotContains(t, string(data), "\r", "line endings normalized")
		})
	}
}

func TestDownloadBatch_HTML(t *testing.T) {
	srv := newDownloadServer(t)
	dir := t.TempDir()
	entries := []search.Entry{entry(158, "Emma", "text/html", srv.URL+"/emma.html")}

	result, err := DownloadBatch(context.Background(), srv.Client(), entries, testDownloadConfig(dir), &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Downloaded)

	data, err := os.ReadFile(filepath.Join(dir, "emma.txt"))
	require.NoError(t, err)
	assert.Equal(t, "EMMA\n\nEmma Woodhouse, handsome, clever, and rich.\n", string(data))
}

func TestDownloadBatch_DuplicateNames(t *testing.T) {
	srv := newDownloadServer(t)
	dir := t.TempDir()
	entries := []search.Entry{
		entry(158, "Emma", "text/plain; charset=utf-8", srv.URL+"/emma.txt"),
		entry(19839, "EMMA", "text/plain; charset=utf-8", srv.URL+"/emma.txt"),
	}

	result, err := DownloadBatch(context.Background(), srv.Client(), entries, testDownloadConfig(dir), &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, filepath.Join(dir, "emma.txt"), result.Results[0].LocalPath)
	assert.Equal(t, filepath.Join(dir, "emma-19839.txt"), result.Results[1].LocalPath)
}

func TestDownloadBatch_AllFailed(t *testing.T) {
	srv := newDownloadServer(t)
	entries := []search.Entry{entry(1, "Gone", "text/plain", srv.URL+"/gone.txt")}

	result, err := DownloadBatch(context.Background(), srv.Client(), entries, testDownloadConfig(t.TempDir()), &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, result.AllFailed())
	assert.Empty(t, result.Results)
}

func TestDownloadBatch_Cancelled(t *testing.T) {
	srv := newDownloadServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := []search.Entry{entry(158, "Emma", "text/plain", srv.URL+"/emma.txt")}
	_, err := DownloadBatch(ctx, srv.Client(), entries, testDownloadConfig(t.TempDir()), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadBatch_Empty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "created")
	result, err := DownloadBatch(context.Background(), http.DefaultClient, nil, testDownloadConfig(dir), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, result.Total())
	assert.False(t, result.AllFailed())
	assert.DirExists(t, dir)
}

func TestDownloadBook_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("body\n"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "x.txt")
	_, err := DownloadBook(context.Background(), srv.Client(), entry(1, "X", "text/plain", srv.URL), dest, testDownloadConfig(""))
	require.NoError(t, err)
	assert.Equal(t, "gutenfetch-test", gotUA)
}

func TestContentType(t *testing.T) {
	tests := []struct {
		declared, header, want string
	}{
		{"text/plain; charset=utf-8", "text/plain; charset=iso-8859-1", "text/plain; charset=utf-8"},
		{"text/plain", "text/plain; charset=iso-8859-1", "text/plain; charset=iso-8859-1"},
		{"text/plain", "text/plain", "text/plain"},
		{"text/html", "", "text/html"},
		{"", "text/plain; charset=us-ascii", "text/plain; charset=us-ascii"},
	}
	for _, tt := range tests {
		t.Run(tt.declared+"|"+tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, contentType(tt.declared, tt.header))
		})
	}
}
