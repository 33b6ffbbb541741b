package records

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Entry is one parsed record line. For shells Label is the group label and
// ID the shell identifier; for chickens Label is the object name and ID the
// piece label.
type Entry struct {
	Kind  string
	Label string
	ID    string
	Key   string
	Size  uint64
}

// ParseLine parses a single record line without its trailing newline.
func ParseLine(line string) (Entry, error) {
	f := strings.Split(line, Delimiter)
	if len(f) != FieldCount {
		return Entry{}, fmt.Errorf("records: expected %d fields, got %d", FieldCount, len(f))
	}
	size, err := strconv.ParseUint(f[4], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("records: invalid size %q", f[4])
	}
	return Entry{Kind: f[0], Label: f[1], ID: f[2], Key: f[3], Size: size}, nil
}

// Read parses every non-empty line of r.
func Read(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	var out []Entry
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
