// Package extract turns a decoded catalog into shell and chicken records.
//
// Shell records are validated with StrictKeyPolicy and chicken-piece records
// with RecoveringKeyPolicy. The asymmetry is a business rule: a shell with a
// malformed key is dropped, a chicken piece is kept with a recovered label.
package extract

import (
	"go.uber.org/zap"

	"xdao.co/shellcat/catalog"
	"xdao.co/shellcat/records"
)

// NoSet is the group label of a shell with no registered set and no name.
const NoSet = "NO SET"

// DroppedShell describes a shell omitted because of a malformed key.
type DroppedShell struct {
	Identifier string
	URL        string
	Key        string
}

// RecoveredPiece describes a chicken piece emitted with a recovered label.
type RecoveredPiece struct {
	ObjectName string
	Declared   string
	Label      string
	URL        string
}

// Result is the output of one extraction.
type Result struct {
	Shells   []records.Shell
	Chickens []records.Chicken

	// AssetTypes lists the distinct asset types of emitted shells and
	// ChickenTypes the distinct shell-object names, both in first-seen order.
	AssetTypes   []string
	ChickenTypes []string

	// PieceAssetTypes lists the distinct asset types of chicken pieces in
	// first-seen order. They are not written to the record file.
	PieceAssetTypes []string

	Dropped   []DroppedShell
	Recovered []RecoveredPiece

	Registry NameRegistry
}

// Extractor walks a catalog. The zero value is usable and logs nothing.
type Extractor struct {
	Logger *zap.Logger
}

// New returns an Extractor logging to logger (nil for none).
func New(logger *zap.Logger) *Extractor {
	return &Extractor{Logger: logger}
}

// Extract runs an Extractor without logging.
func Extract(c *catalog.Catalog) Result {
	return (&Extractor{}).Extract(c)
}

// Extract builds the name registry from shell sets and decorators, then
// derives shell records and chicken-piece records in catalog order.
func (x *Extractor) Extract(c *catalog.Catalog) Result {
	log := x.logger()

	reg := BuildRegistry(c.ShellSets(), c.Decorators())
	for _, o := range reg.Overwrites() {
		log.Debug("set name overwritten",
			zap.String("identifier", o.Identifier),
			zap.String("previous", o.Previous),
			zap.String("name", o.Name))
	}

	res := Result{Registry: reg}
	assetTypes := newOrderedSet()
	chickenTypes := newOrderedSet()
	pieceTypes := newOrderedSet()

	var shellPolicy StrictKeyPolicy
	for _, s := range c.Shells() {
		var piece catalog.Piece
		if s.PrimaryPiece != nil {
			piece = *s.PrimaryPiece
		}
		d := shellPolicy.Decide(piece.DLC.URL, s.Identifier)
		if !d.Kept() {
			log.Debug("shell dropped: malformed url key",
				zap.String("identifier", s.Identifier),
				zap.String("url", piece.DLC.URL),
				zap.String("key", d.Key),
				zap.Bool("primary_piece", s.PrimaryPiece != nil))
			res.Dropped = append(res.Dropped, DroppedShell{Identifier: s.Identifier, URL: piece.DLC.URL, Key: d.Key})
			continue
		}
		assetType := piece.AssetType.String()
		assetTypes.add(assetType)
		res.Shells = append(res.Shells, records.Shell{
			Group:        groupLabel(reg, s),
			AssetType:    assetType,
			Identifier:   s.Identifier,
			URLKey:       d.Key,
			OriginalSize: piece.DLC.OriginalSize,
		})
	}

	var piecePolicy RecoveringKeyPolicy
	for _, o := range c.ShellObjects() {
		chickenTypes.add(o.Name)
		for _, p := range o.Pieces {
			pieceTypes.add(p.AssetType.String())
			d := piecePolicy.Decide(p.DLC.URL, p.DLC.Name)
			if d.Outcome == KeyRecovered {
				log.Debug("chicken piece label recovered",
					zap.String("object", o.Name),
					zap.String("declared", p.DLC.Name),
					zap.String("label", d.Label),
					zap.String("url", p.DLC.URL))
				res.Recovered = append(res.Recovered, RecoveredPiece{
					ObjectName: o.Name,
					Declared:   p.DLC.Name,
					Label:      d.Label,
					URL:        p.DLC.URL,
				})
			}
			res.Chickens = append(res.Chickens, records.Chicken{
				ObjectName:   o.Name,
				PieceLabel:   d.Label,
				URLKey:       d.Key,
				OriginalSize: p.DLC.OriginalSize,
			})
		}
	}

	res.AssetTypes = assetTypes.items
	res.ChickenTypes = chickenTypes.items
	res.PieceAssetTypes = pieceTypes.items

	log.Info("catalog extracted",
		zap.Int("sets", reg.Len()),
		zap.Int("shells", len(res.Shells)),
		zap.Int("shells_dropped", len(res.Dropped)),
		zap.Int("chickens", len(res.Chickens)),
		zap.Int("chickens_recovered", len(res.Recovered)),
		zap.Strings("asset_types", res.AssetTypes),
		zap.Strings("chicken_types", res.ChickenTypes))
	return res
}

func (x *Extractor) logger() *zap.Logger {
	if x == nil || x.Logger == nil {
		return zap.NewNop()
	}
	return x.Logger
}

// groupLabel resolves a shell's group: the registered name for its set
// identifier, else its own non-empty name, else NoSet.
func groupLabel(reg NameRegistry, s catalog.Shell) string {
	if name, ok := reg.Lookup(s.SetIdentifier); ok {
		return name
	}
	if s.Name != "" {
		return s.Name
	}
	return NoSet
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
