// Package fixture provides small catalogs and server responses for tests.
package fixture

import (
	"strings"

	"xdao.co/shellcat/catalog"
	"xdao.co/shellcat/envelope"
)

// CapeKey is the URL key of the cape shell in Catalog.
var CapeKey = strings.Repeat("a", 32)

// CapeLine is the record line Catalog produces.
var CapeLine = "shell|Capes - CAPE|s1|" + CapeKey + "|2048\n"

// HenLine is the record line of the chicken piece in Catalog.
var HenLine = "chicken|Hen|comb|" + strings.Repeat("c", 32) + "|512\n"

func mustAssetType(name string) catalog.AssetType {
	a, ok := catalog.ParseAssetType(name)
	if !ok {
		panic("fixture: unknown asset type " + name)
	}
	return a
}

// Catalog returns a catalog with one cape shell in the "Capes" set, one shell
// with a malformed key, and one chicken with a single piece.
func Catalog() *catalog.Catalog {
	return catalog.New(catalog.Contents{
		ShellSets: []catalog.ShellSet{{Identifier: "1", Name: "Capes"}},
		Shells: []catalog.Shell{
			{
				Identifier:    "s1",
				SetIdentifier: "1",
				PrimaryPiece: &catalog.Piece{AssetType: mustAssetType("CAPE"), DLC: catalog.DLCItem{
					URL:          "https://cdn.example/x_" + CapeKey + ".glb",
					OriginalSize: 2048,
				}},
			},
			{
				Identifier: "broken",
				PrimaryPiece: &catalog.Piece{AssetType: mustAssetType("COOP"), DLC: catalog.DLCItem{
					URL: "https://cdn.example/assets/shortkey.glb",
				}},
			},
		},
		ShellObjects: []catalog.ShellObject{{
			Identifier: "o1",
			Name:       "Hen",
			AssetType:  mustAssetType("CHICKEN"),
			Pieces: []catalog.Piece{{AssetType: mustAssetType("HAT"), DLC: catalog.DLCItem{
				Name:         "comb",
				URL:          "https://cdn.example/comb_" + strings.Repeat("c", 32) + ".glb",
				OriginalSize: 512,
			}}},
		}},
	})
}

// Response returns Catalog in the server's wire format.
func Response() []byte {
	raw, err := envelope.Encode(Catalog())
	if err != nil {
		panic(err)
	}
	return raw
}

// Records is the full record file Catalog produces.
func Records() string { return CapeLine + HenLine }
