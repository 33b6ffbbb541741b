package eiproto

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func TestSchema_DescriptorsResolve(t *testing.T) {
	for name, md := range map[string]protoreflect.MessageDescriptor{
		"BasicRequestInfo":     BasicRequestInfo,
		"ConfigRequest":        ConfigRequest,
		"AuthenticatedMessage": AuthenticatedMessage,
		"ConfigResponse":       ConfigResponse,
		"DLCCatalog":           DLCCatalog,
		"DLCItem":              DLCItem,
		"ShellSpec":            ShellSpec,
		"ShellPiece":           ShellPiece,
		"ShellSetSpec":         ShellSetSpec,
		"ShellObjectSpec":      ShellObjectSpec,
	} {
		if md == nil {
			t.Fatalf("%s: missing descriptor", name)
		}
	}
	if got := ShellPiece.FullName(); got != "ei.ShellSpec.ShellPiece" {
		t.Fatalf("ShellPiece full name: %s", got)
	}
	if Field(DLCCatalog, "decorators").Number() != 7 {
		t.Fatalf("decorators field number mismatch")
	}
}

func TestField_PanicsOnUnknownName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Field(ShellSpec, "no_such_field")
}

func TestAssetTypeName(t *testing.T) {
	n, ok := AssetTypeNumber("CAPE")
	if !ok {
		t.Fatalf("CAPE not in schema")
	}
	if got := AssetTypeName(n); got != "CAPE" {
		t.Fatalf("AssetTypeName(%d): got %q", n, got)
	}
	if got := AssetTypeName(12345); got != "12345" {
		t.Fatalf("unknown number should render as decimal, got %q", got)
	}
	if _, ok := AssetTypeNumber("NOT_A_TYPE"); ok {
		t.Fatalf("unexpected enum value")
	}
}

func TestDynamicMessage_WireRoundTrip(t *testing.T) {
	item := New(DLCItem)
	item.Set(Field(DLCItem, "url"), protoreflect.ValueOfString("https://cdn.example/a_b.glb"))
	item.Set(Field(DLCItem, "original_size"), protoreflect.ValueOfUint64(2048))

	b, err := proto.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := New(DLCItem)
	if err := proto.Unmarshal(b, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !proto.Equal(item, got) {
		t.Fatalf("round trip mismatch")
	}
}

func TestUnsetEnum_UsesFirstDeclaredValue(t *testing.T) {
	piece := New(ShellPiece)
	v := piece.Get(Field(ShellPiece, "asset_type")).Enum()
	if got := AssetTypeName(v); got != assetTypes[0].name {
		t.Fatalf("default asset type: got %q want %q", got, assetTypes[0].name)
	}
}
