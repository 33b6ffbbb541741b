package records

import (
	"fmt"
	"strings"
)

// Search returns the shell and chicken entries having at least one field
// that contains term, compared case-insensitively. Order is preserved.
func Search(entries []Entry, term string) []Entry {
	needle := strings.ToLower(term)
	var out []Entry
	for _, e := range entries {
		if e.Kind != KindShell && e.Kind != KindChicken {
			continue
		}
		if matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Entry, needle string) bool {
	for _, f := range []string{e.Kind, e.Label, e.ID, e.Key, fmt.Sprint(e.Size)} {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Summary counts entries and bytes per kind.
type Summary struct {
	Shells       int
	Chickens     int
	ShellBytes   uint64
	ChickenBytes uint64
}

func (s Summary) TotalBytes() uint64 { return s.ShellBytes + s.ChickenBytes }

// Summarize tallies shell and chicken entries; other kinds are ignored.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case KindShell:
			s.Shells++
			s.ShellBytes += e.Size
		case KindChicken:
			s.Chickens++
			s.ChickenBytes += e.Size
		}
	}
	return s
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// HumanSize renders n with 1024-based units and two decimals, e.g. "2.00 KB".
func HumanSize(n uint64) string {
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}

// DownloadURL returns the asset URL for an entry: base + ID + "_" + Key + ".rpoz".
func DownloadURL(base string, e Entry) string {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + e.ID + "_" + e.Key + ".rpoz"
}
