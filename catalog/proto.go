package catalog

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"xdao.co/shellcat/eiproto"
)

// FromMessage converts an ei.DLCCatalog message into a Catalog.
//
// Absent scalar fields become their zero values; an absent primary piece
// becomes a nil PrimaryPiece.
func FromMessage(m protoreflect.Message) *Catalog {
	md := eiproto.DLCCatalog
	var c Contents
	eachMessage(m, eiproto.Field(md, "items"), func(e protoreflect.Message) {
		c.Items = append(c.Items, itemFrom(e))
	})
	eachMessage(m, eiproto.Field(md, "shells"), func(e protoreflect.Message) {
		c.Shells = append(c.Shells, shellFrom(e))
	})
	eachMessage(m, eiproto.Field(md, "shell_sets"), func(e protoreflect.Message) {
		c.ShellSets = append(c.ShellSets, setFrom(e))
	})
	eachMessage(m, eiproto.Field(md, "shell_objects"), func(e protoreflect.Message) {
		c.ShellObjects = append(c.ShellObjects, objectFrom(e))
	})
	eachMessage(m, eiproto.Field(md, "decorators"), func(e protoreflect.Message) {
		c.Decorators = append(c.Decorators, setFrom(e))
	})
	c.URLBase = m.Get(eiproto.Field(md, "url_base")).String()
	return &Catalog{c: c}
}

// Message returns the catalog as an ei.DLCCatalog message.
func (c *Catalog) Message() *dynamicpb.Message {
	md := eiproto.DLCCatalog
	m := eiproto.New(md)
	for _, it := range c.c.Items {
		appendMessage(m, eiproto.Field(md, "items"), itemMessage(it))
	}
	for _, s := range c.c.Shells {
		appendMessage(m, eiproto.Field(md, "shells"), shellMessage(s))
	}
	for _, s := range c.c.ShellSets {
		appendMessage(m, eiproto.Field(md, "shell_sets"), setMessage(s))
	}
	for _, o := range c.c.ShellObjects {
		appendMessage(m, eiproto.Field(md, "shell_objects"), objectMessage(o))
	}
	for _, s := range c.c.Decorators {
		appendMessage(m, eiproto.Field(md, "decorators"), setMessage(s))
	}
	setString(m, eiproto.Field(md, "url_base"), c.c.URLBase)
	return m
}

func eachMessage(m protoreflect.Message, fd protoreflect.FieldDescriptor, fn func(protoreflect.Message)) {
	list := m.Get(fd).List()
	for i := 0; i < list.Len(); i++ {
		fn(list.Get(i).Message())
	}
}

func appendMessage(m protoreflect.Message, fd protoreflect.FieldDescriptor, e protoreflect.Message) {
	m.Mutable(fd).List().Append(protoreflect.ValueOfMessage(e))
}

func setString(m protoreflect.Message, fd protoreflect.FieldDescriptor, s string) {
	if s != "" {
		m.Set(fd, protoreflect.ValueOfString(s))
	}
}

func setUint32(m protoreflect.Message, fd protoreflect.FieldDescriptor, v uint32) {
	if v != 0 {
		m.Set(fd, protoreflect.ValueOfUint32(v))
	}
}

// setAssetType leaves the field unset for the zero AssetType, which the schema
// does not declare; readers then see the proto2 default.
func setAssetType(m protoreflect.Message, fd protoreflect.FieldDescriptor, a AssetType) {
	if a != 0 {
		m.Set(fd, protoreflect.ValueOfEnum(protoreflect.EnumNumber(a)))
	}
}

func itemFrom(m protoreflect.Message) DLCItem {
	md := eiproto.DLCItem
	return DLCItem{
		Name:         m.Get(eiproto.Field(md, "name")).String(),
		Directory:    m.Get(eiproto.Field(md, "directory")).String(),
		Ext:          m.Get(eiproto.Field(md, "ext")).String(),
		Checksum:     m.Get(eiproto.Field(md, "checksum")).String(),
		URL:          m.Get(eiproto.Field(md, "url")).String(),
		Compressed:   m.Get(eiproto.Field(md, "compressed")).Bool(),
		OriginalSize: m.Get(eiproto.Field(md, "original_size")).Uint(),
	}
}

func itemMessage(it DLCItem) *dynamicpb.Message {
	md := eiproto.DLCItem
	m := eiproto.New(md)
	setString(m, eiproto.Field(md, "name"), it.Name)
	setString(m, eiproto.Field(md, "directory"), it.Directory)
	setString(m, eiproto.Field(md, "ext"), it.Ext)
	setString(m, eiproto.Field(md, "checksum"), it.Checksum)
	setString(m, eiproto.Field(md, "url"), it.URL)
	if it.Compressed {
		m.Set(eiproto.Field(md, "compressed"), protoreflect.ValueOfBool(true))
	}
	if it.OriginalSize != 0 {
		m.Set(eiproto.Field(md, "original_size"), protoreflect.ValueOfUint64(it.OriginalSize))
	}
	return m
}

func pieceFrom(m protoreflect.Message) Piece {
	md := eiproto.ShellPiece
	return Piece{
		AssetType: AssetType(m.Get(eiproto.Field(md, "asset_type")).Enum()),
		DLC:       itemFrom(m.Get(eiproto.Field(md, "dlc")).Message()),
	}
}

func pieceMessage(p Piece) *dynamicpb.Message {
	md := eiproto.ShellPiece
	m := eiproto.New(md)
	setAssetType(m, eiproto.Field(md, "asset_type"), p.AssetType)
	m.Set(eiproto.Field(md, "dlc"), protoreflect.ValueOfMessage(itemMessage(p.DLC)))
	return m
}

func shellFrom(m protoreflect.Message) Shell {
	md := eiproto.ShellSpec
	s := Shell{
		Identifier:    m.Get(eiproto.Field(md, "identifier")).String(),
		Name:          m.Get(eiproto.Field(md, "name")).String(),
		SetIdentifier: m.Get(eiproto.Field(md, "set_identifier")).String(),
		Price:         uint32(m.Get(eiproto.Field(md, "price")).Uint()),
	}
	if fd := eiproto.Field(md, "primary_piece"); m.Has(fd) {
		p := pieceFrom(m.Get(fd).Message())
		s.PrimaryPiece = &p
	}
	eachMessage(m, eiproto.Field(md, "pieces"), func(e protoreflect.Message) {
		s.Pieces = append(s.Pieces, pieceFrom(e))
	})
	return s
}

func shellMessage(s Shell) *dynamicpb.Message {
	md := eiproto.ShellSpec
	m := eiproto.New(md)
	setString(m, eiproto.Field(md, "identifier"), s.Identifier)
	setString(m, eiproto.Field(md, "name"), s.Name)
	setString(m, eiproto.Field(md, "set_identifier"), s.SetIdentifier)
	setUint32(m, eiproto.Field(md, "price"), s.Price)
	if s.PrimaryPiece != nil {
		m.Set(eiproto.Field(md, "primary_piece"), protoreflect.ValueOfMessage(pieceMessage(*s.PrimaryPiece)))
	}
	for _, p := range s.Pieces {
		appendMessage(m, eiproto.Field(md, "pieces"), pieceMessage(p))
	}
	return m
}

func setFrom(m protoreflect.Message) ShellSet {
	md := eiproto.ShellSetSpec
	return ShellSet{
		Identifier: m.Get(eiproto.Field(md, "identifier")).String(),
		Name:       m.Get(eiproto.Field(md, "name")).String(),
		Price:      uint32(m.Get(eiproto.Field(md, "price")).Uint()),
	}
}

func setMessage(s ShellSet) *dynamicpb.Message {
	md := eiproto.ShellSetSpec
	m := eiproto.New(md)
	setString(m, eiproto.Field(md, "identifier"), s.Identifier)
	setString(m, eiproto.Field(md, "name"), s.Name)
	setUint32(m, eiproto.Field(md, "price"), s.Price)
	return m
}

func objectFrom(m protoreflect.Message) ShellObject {
	md := eiproto.ShellObjectSpec
	o := ShellObject{
		Identifier: m.Get(eiproto.Field(md, "identifier")).String(),
		Name:       m.Get(eiproto.Field(md, "name")).String(),
		AssetType:  AssetType(m.Get(eiproto.Field(md, "asset_type")).Enum()),
		Price:      uint32(m.Get(eiproto.Field(md, "price")).Uint()),
	}
	eachMessage(m, eiproto.Field(md, "pieces"), func(e protoreflect.Message) {
		o.Pieces = append(o.Pieces, pieceFrom(e))
	})
	return o
}

func objectMessage(o ShellObject) *dynamicpb.Message {
	md := eiproto.ShellObjectSpec
	m := eiproto.New(md)
	setString(m, eiproto.Field(md, "identifier"), o.Identifier)
	setString(m, eiproto.Field(md, "name"), o.Name)
	setAssetType(m, eiproto.Field(md, "asset_type"), o.AssetType)
	setUint32(m, eiproto.Field(md, "price"), o.Price)
	for _, p := range o.Pieces {
		appendMessage(m, eiproto.Field(md, "pieces"), pieceMessage(p))
	}
	return m
}
