package http_client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/vk/genhub/internal/handlers"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genomes/a.fa" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, ">chr1\nACGTACGT\n")
	}))
	defer srv.Close()

	h := handlers.New(&Module{})
	ctx := context.Background()
	dir := t.TempDir()

	plain := filepath.Join(dir, "a.fa")
	require.NoError(t, h.Fetch(ctx, &handlers.Request{Location: srv.URL + "/genomes/a.fa", Dest: plain}))
	data, err := os.ReadFile(plain)
	require.NoError(t, err)
	require.Equal(t, ">chr1\nACGTACGT\n", string(data))

	packed := filepath.Join(dir, "a.fa.gz")
	require.NoError(t, h.Fetch(ctx, &handlers.Request{Location: srv.URL + "/genomes/a.fa", Dest: packed, Compress: true}))
	f, err := os.Open(packed)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	unpacked, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, ">chr1\nACGTACGT\n", string(unpacked))

	missing := filepath.Join(dir, "missing.fa")
	err = h.Fetch(ctx, &handlers.Request{Location: srv.URL + "/genomes/missing.fa", Dest: missing})
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	_, statErr := os.Stat(missing)
	require.True(t, os.IsNotExist(statErr))
}
