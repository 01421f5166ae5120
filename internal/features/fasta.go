package features

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vk/genhub/internal/fsutil"
)

const fastaWidth = 80

// readSequences loads every record of a FASTA file keyed by the first
// word of its defline.
func readSequences(path string) (map[string]string, error) {
	r, err := fsutil.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	seqs := make(map[string]string)
	var id string
	var seq strings.Builder
	flush := func() {
		if id != "" {
			seqs[id] = seq.String()
		}
		seq.Reset()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s: empty FASTA defline", path)
			}
			id = fields[0]
			continue
		}
		if id == "" {
			return nil, fmt.Errorf("%s: sequence data before first defline", path)
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	flush()
	return seqs, nil
}

func writeRecord(w io.Writer, id, seq string) error {
	if _, err := fmt.Fprintf(w, ">%s\n", id); err != nil {
		return err
	}
	for len(seq) > fastaWidth {
		if _, err := io.WriteString(w, seq[:fastaWidth]+"\n"); err != nil {
			return err
		}
		seq = seq[fastaWidth:]
	}
	if seq == "" {
		return nil
	}
	_, err := io.WriteString(w, seq+"\n")
	return err
}
