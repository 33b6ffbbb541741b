// Package records defines the flat, pipe-delimited record format consumed by
// asset downloaders:
//
//	shell|<group_label> - <asset_type>|<shell_identifier>|<url_key>|<original_size>
//	chicken|<object_name>|<piece_label>|<url_key>|<original_size>
//
// One record per line, no header. Fields are never escaped: a field that
// contains the delimiter corrupts its line.
package records

import "strconv"

const (
	// Delimiter separates fields within a record.
	Delimiter = "|"

	KindShell   = "shell"
	KindChicken = "chicken"

	// FieldCount is the number of fields in every record line.
	FieldCount = 5
)

// Shell is one shell record.
type Shell struct {
	Group        string
	AssetType    string
	Identifier   string
	URLKey       string
	OriginalSize uint64
}

// GroupLabel is the second field of a shell line.
func (s Shell) GroupLabel() string { return s.Group + " - " + s.AssetType }

func (s Shell) fields() []string {
	return []string{KindShell, s.GroupLabel(), s.Identifier, s.URLKey, strconv.FormatUint(s.OriginalSize, 10)}
}

// Chicken is one shell-object piece record.
type Chicken struct {
	ObjectName   string
	PieceLabel   string
	URLKey       string
	OriginalSize uint64
}

func (c Chicken) fields() []string {
	return []string{KindChicken, c.ObjectName, c.PieceLabel, c.URLKey, strconv.FormatUint(c.OriginalSize, 10)}
}
