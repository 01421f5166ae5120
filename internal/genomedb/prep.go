package genomedb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/fsutil"
)

const (
	gffHeader   = "##gff-version 3"
	maxLineSize = 64 << 20
)

// Prep converts each raw file into its processed form and verifies it
// against the configured checksum. In strict mode an integrity failure
// aborts; otherwise it is logged and processing continues.
func (db *DB) Prep(ctx context.Context, strict bool) error {
	logger := ctxlog.FromContext(ctx)

	for _, dt := range config.DataTypes {
		in := db.RawPath(dt)
		out := db.ProcessedPath(dt)
		logger.Info(fmt.Sprintf("[GenHub: %s] preprocess %s", db.Species(), dataTypeNames[dt]), "in", in, "out", out)

		var err error
		if dt == config.GFF3 {
			err = db.processFile(in, out, db.formatGFF3)
		} else {
			err = db.processFile(in, out, formatFASTA)
		}
		if err != nil {
			return fmt.Errorf("prep %s: %w", dt, err)
		}

		if err := db.verify(ctx, dt, out); err != nil {
			if strict {
				return err
			}
			logger.Warn("Integrity check failed, continuing in relaxed mode.", "error", err)
		}
	}
	return nil
}

func (db *DB) processFile(in, out string, format func(r io.Reader, w io.Writer) error) error {
	rc, err := fsutil.Open(in)
	if err != nil {
		return err
	}
	defer rc.Close()

	return fsutil.WriteAtomic(out, func(w io.Writer) error {
		return format(rc, w)
	})
}

func (db *DB) verify(ctx context.Context, dataType, path string) error {
	want, ok := db.cfg.Checksums[dataType]
	if !ok {
		ctxlog.FromContext(ctx).Warn(fmt.Sprintf("Cannot verify integrity of %s %s without a checksum", db.Label(), dataTypeNames[dataType]))
		return nil
	}
	got, err := fsutil.SHA1(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, want) {
		return &IntegrityError{Label: db.Label(), DataType: dataType, Want: want, Got: got}
	}
	return nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return s
}

// formatFASTA copies sequence data, requiring a FASTA defline first and
// dropping blank lines.
func formatFASTA(r io.Reader, w io.Writer) error {
	s := newScanner(r)
	seenHeader := false
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if line == "" {
			continue
		}
		if !seenHeader {
			if !strings.HasPrefix(line, ">") {
				return fmt.Errorf("not FASTA: first record starts with %q", truncate(line, 20))
			}
			seenHeader = true
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	if !seenHeader {
		return fmt.Errorf("not FASTA: no sequence records")
	}
	return nil
}

// formatGFF3 drops lines matching the configured annotation filter and makes
// sure the output starts with the GFF3 version pragma.
func (db *DB) formatGFF3(r io.Reader, w io.Writer) error {
	s := newScanner(r)
	first := true
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if first {
			first = false
			if !strings.HasPrefix(line, "##gff-version") {
				if _, err := io.WriteString(w, gffHeader+"\n"); err != nil {
					return err
				}
			}
		}
		if line == "" || db.filtered(line) {
			continue
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	if first {
		return fmt.Errorf("annotation file is empty")
	}
	return nil
}

func (db *DB) filtered(line string) bool {
	if strings.HasPrefix(line, "#") {
		return false
	}
	for _, pattern := range db.cfg.AnnotFilter {
		if pattern != "" && strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
