package extract

import (
	"strings"
	"unicode/utf8"
)

// URLKeyLength is the length of a well-formed URL key (a content hash).
const URLKeyLength = 32

// URLKey derives the content hash embedded in an asset URL shaped like
// ".../prefix_<hash>.ext": the text after the last "_", without its extension.
// The result is not validated.
func URLKey(url string) string {
	seg := url
	if i := strings.LastIndex(seg, "_"); i >= 0 {
		seg = seg[i+1:]
	}
	return stripExt(seg)
}

// WellFormed reports whether key has exactly URLKeyLength characters.
func WellFormed(key string) bool {
	return utf8.RuneCountInString(key) == URLKeyLength
}

// RecoverLabel derives a filename stem from a URL whose trailing token is not
// a hash: everything before the last "_", reduced to its last path component.
// A URL without "_" yields its extension-less basename.
func RecoverLabel(url string) string {
	tokens := strings.Split(url, "_")
	if len(tokens) < 2 {
		return stripExt(basename(url))
	}
	return basename(strings.Join(tokens[:len(tokens)-1], "_"))
}

func basename(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func stripExt(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[:i]
	}
	return s
}

// Outcome is what a key policy decided for one record.
type Outcome int

const (
	// KeyValid: the derived key is well formed; the record is kept as is.
	KeyValid Outcome = iota
	// KeyDropped: the key is malformed and the record is not emitted.
	KeyDropped
	// KeyRecovered: the key is malformed; the record is kept with a recovered label.
	KeyRecovered
)

func (o Outcome) String() string {
	switch o {
	case KeyValid:
		return "valid"
	case KeyDropped:
		return "dropped"
	case KeyRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Decision is the result of applying a key policy to one asset URL.
type Decision struct {
	Key     string
	Label   string
	Outcome Outcome
}

// Kept reports whether the record is emitted.
func (d Decision) Kept() bool { return d.Outcome != KeyDropped }

// StrictKeyPolicy governs shells: a malformed key drops the record. There is
// no recovery path for shells.
type StrictKeyPolicy struct{}

func (StrictKeyPolicy) Decide(url, label string) Decision {
	key := URLKey(url)
	if !WellFormed(key) {
		return Decision{Key: key, Label: label, Outcome: KeyDropped}
	}
	return Decision{Key: key, Label: label, Outcome: KeyValid}
}

// RecoveringKeyPolicy governs chicken pieces: a malformed key keeps the
// record and replaces its label with RecoverLabel(url). Downstream consumers
// treat a garbage chicken key as non-fatal, so these records are never dropped.
type RecoveringKeyPolicy struct{}

func (RecoveringKeyPolicy) Decide(url, label string) Decision {
	key := URLKey(url)
	if !WellFormed(key) {
		return Decision{Key: key, Label: RecoverLabel(url), Outcome: KeyRecovered}
	}
	return Decision{Key: key, Label: label, Outcome: KeyValid}
}
