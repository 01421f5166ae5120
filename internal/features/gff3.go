package features

import (
	"fmt"
	"strconv"
	"strings"
)

type feature struct {
	Seqid string
	Type  string
	Start int64
	End   int64
	Attrs map[string]string
}

func (f *feature) Len() int64 {
	return f.End - f.Start + 1
}

// parseFeature parses one GFF3 data line. Comment, directive and
// malformed lines report ok=false.
func parseFeature(line string) (f *feature, ok bool, err error) {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false, nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return nil, false, nil
	}
	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("invalid start %q: %w", fields[3], err)
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("invalid end %q: %w", fields[4], err)
	}
	if end < start {
		return nil, false, fmt.Errorf("feature end %d precedes start %d", end, start)
	}
	return &feature{
		Seqid: fields[0],
		Type:  fields[2],
		Start: start,
		End:   end,
		Attrs: parseAttrs(fields[8]),
	}, true, nil
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, kv := range strings.Split(strings.TrimSpace(s), ";") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		attrs[strings.TrimSpace(key)] = value
	}
	return attrs
}
