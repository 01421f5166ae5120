package handlers

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/vk/genhub/internal/fsutil"
)

// WriteFile streams r into dest, gzip-compressing when compress is set. An
// interrupted transfer never leaves a partial dest behind.
func WriteFile(dest string, compress bool, r io.Reader) error {
	return fsutil.WriteAtomic(dest, func(w io.Writer) error {
		if !compress {
			if _, err := io.Copy(w, r); err != nil {
				return fmt.Errorf("failed writing %s: %w", dest, err)
			}
			return nil
		}
		zw := gzip.NewWriter(w)
		if _, err := io.Copy(zw, r); err != nil {
			return fmt.Errorf("failed writing %s: %w", dest, err)
		}
		return zw.Close()
	})
}
