package handlers

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

type recordModule struct {
	seen *[]string
}

func (m recordModule) Register(h *Handlers) {
	h.Register("HTTPS", FetcherFunc(func(ctx context.Context, req *Request) error {
		*m.seen = append(*m.seen, req.Location)
		return nil
	}))
}

func TestScheme(t *testing.T) {
	testCases := map[string]string{
		"/data/a.fa":                 SchemeFile,
		"relative/a.fa":              SchemeFile,
		"https://ftp.ncbi.nih.gov/x": "https",
		"HTTP://example.org/x":       "http",
		"s3://bucket/key/a.fa.gz":    "s3",
		"file:///data/a.fa":          "file",
		`C:\data\a.fa`:               SchemeFile,
	}
	for location, want := range testCases {
		require.Equal(t, want, Scheme(location), location)
	}
}

func TestHandlers_Dispatch(t *testing.T) {
	var seen []string
	h := New(recordModule{seen: &seen})
	require.Equal(t, []string{"https"}, h.Schemes())

	ctx := context.Background()
	require.NoError(t, h.Fetch(ctx, &Request{Location: "https://x/y"}))
	require.Equal(t, []string{"https://x/y"}, seen)

	err := h.Fetch(ctx, &Request{Location: "ftp://x/y"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"ftp"`)

	require.Panics(t, func() { recordModule{seen: &seen}.Register(h) })
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "sub", "plain.fa")
	require.NoError(t, WriteFile(plain, false, strings.NewReader(">a\nAC\n")))
	data, err := os.ReadFile(plain)
	require.NoError(t, err)
	require.Equal(t, ">a\nAC\n", string(data))

	packed := filepath.Join(dir, "packed.fa.gz")
	require.NoError(t, WriteFile(packed, true, strings.NewReader(">b\nGT\n")))
	f, err := os.Open(packed)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	unpacked, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, ">b\nGT\n", string(unpacked))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteFile_NoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "broken.fa")

	require.Error(t, WriteFile(dest, false, failingReader{}))
	_, err := os.Stat(dest)
	require.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
