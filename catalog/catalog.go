// Package catalog is the read-only, strongly typed form of the server's DLC
// catalog.
//
// A Catalog is built once at the decode boundary (FromMessage) or from
// Contents, and never mutated afterwards: every accessor returns a copy.
package catalog

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"xdao.co/shellcat/eiproto"
)

// AssetType is a ShellSpec.AssetType enum number.
type AssetType int32

// String returns the schema name of the asset type, or its decimal form when
// the number is unknown to the schema.
func (a AssetType) String() string {
	return eiproto.AssetTypeName(protoreflect.EnumNumber(a))
}

// ParseAssetType returns the AssetType with the given schema name.
func ParseAssetType(name string) (AssetType, bool) {
	n, ok := eiproto.AssetTypeNumber(name)
	return AssetType(n), ok
}

// DLCItem describes one downloadable file.
type DLCItem struct {
	Name         string
	Directory    string
	Ext          string
	Checksum     string
	URL          string
	Compressed   bool
	OriginalSize uint64
}

// Piece is one downloadable part of a shell or shell object.
type Piece struct {
	AssetType AssetType
	DLC       DLCItem
}

// ShellSet is a named grouping (a shell set or a decorator).
type ShellSet struct {
	Identifier string
	Name       string
	Price      uint32
}

// Shell is a cosmetic skin for one building type.
type Shell struct {
	Identifier    string
	Name          string
	SetIdentifier string
	Price         uint32

	// PrimaryPiece is nil when the server omitted it.
	PrimaryPiece *Piece
	Pieces       []Piece
}

// ShellObject is a composite cosmetic (a "chicken") made of pieces.
type ShellObject struct {
	Identifier string
	Name       string
	AssetType  AssetType
	Price      uint32
	Pieces     []Piece
}

// Contents is the mutable input used to construct a Catalog.
type Contents struct {
	Items        []DLCItem
	Shells       []Shell
	ShellSets    []ShellSet
	ShellObjects []ShellObject
	Decorators   []ShellSet
	URLBase      string
}

// Catalog is an immutable DLC catalog.
type Catalog struct {
	c Contents
}

// New returns a Catalog holding a deep copy of c.
func New(c Contents) *Catalog {
	return &Catalog{c: copyContents(c)}
}

// Items returns the catalog's DLC items.
func (c *Catalog) Items() []DLCItem {
	return append([]DLCItem(nil), c.c.Items...)
}

// ShellSets returns the shell sets in catalog order.
func (c *Catalog) ShellSets() []ShellSet {
	return append([]ShellSet(nil), c.c.ShellSets...)
}

// Decorators returns the decorators in catalog order.
func (c *Catalog) Decorators() []ShellSet {
	return append([]ShellSet(nil), c.c.Decorators...)
}

func (c *Catalog) Shells() []Shell {
	return copyShells(c.c.Shells)
}

func (c *Catalog) ShellObjects() []ShellObject {
	return copyObjects(c.c.ShellObjects)
}

func (c *Catalog) URLBase() string {
	return c.c.URLBase
}

// Contents returns a deep copy of the catalog's collections.
func (c *Catalog) Contents() Contents { return copyContents(c.c) }

func copyContents(c Contents) Contents {
	return Contents{
		Items:        append([]DLCItem(nil), c.Items...),
		Shells:       copyShells(c.Shells),
		ShellSets:    append([]ShellSet(nil), c.ShellSets...),
		ShellObjects: copyObjects(c.ShellObjects),
		Decorators:   append([]ShellSet(nil), c.Decorators...),
		URLBase:      c.URLBase,
	}
}

func copyShells(in []Shell) []Shell {
	if in == nil {
		return nil
	}
	out := make([]Shell, len(in))
	for i, s := range in {
		out[i] = s
		if s.PrimaryPiece != nil {
			p := *s.PrimaryPiece
			out[i].PrimaryPiece = &p
		}
		out[i].Pieces = append([]Piece(nil), s.Pieces...)
	}
	return out
}

func copyObjects(in []ShellObject) []ShellObject {
	if in == nil {
		return nil
	}
	out := make([]ShellObject, len(in))
	for i, o := range in {
		out[i] = o
		out[i].Pieces = append([]Piece(nil), o.Pieces...)
	}
	return out
}
