// Package eiproto holds the subset of the game's config API schema that
// shellcat reads and writes.
//
// The schema is declared as descriptors in Go so the module does not require a
// protoc/codegen toolchain. Messages are handled through dynamicpb; field
// numbers follow the published ei.proto.
package eiproto

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Package is the protobuf package of the config API.
const Package = "ei"

var file = mustBuild()

// Message descriptors.
var (
	BasicRequestInfo     = file.Messages().ByName("BasicRequestInfo")
	ConfigRequest        = file.Messages().ByName("ConfigRequest")
	AuthenticatedMessage = file.Messages().ByName("AuthenticatedMessage")
	ConfigResponse       = file.Messages().ByName("ConfigResponse")
	DLCCatalog           = file.Messages().ByName("DLCCatalog")
	DLCItem              = file.Messages().ByName("DLCItem")
	ShellSpec            = file.Messages().ByName("ShellSpec")
	ShellPiece           = ShellSpec.Messages().ByName("ShellPiece")
	ShellSetSpec         = file.Messages().ByName("ShellSetSpec")
	ShellObjectSpec      = file.Messages().ByName("ShellObjectSpec")
)

// AssetType is the ShellSpec.AssetType enum.
var AssetType = ShellSpec.Enums().ByName("AssetType")

// File returns the schema's file descriptor.
func File() protoreflect.FileDescriptor { return file }

// New returns an empty dynamic message of the given type.
func New(md protoreflect.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.NewMessage(md)
}

// Field returns the named field of md. It panics on an unknown name, which
// is a programming error against the static schema above.
func Field(md protoreflect.MessageDescriptor, name protoreflect.Name) protoreflect.FieldDescriptor {
	fd := md.Fields().ByName(name)
	if fd == nil {
		panic(fmt.Sprintf("eiproto: %s has no field %q", md.FullName(), name))
	}
	return fd
}

// AssetTypeName returns the enum value name for n, or its decimal form when
// the number is not part of the schema.
func AssetTypeName(n protoreflect.EnumNumber) string {
	if v := AssetType.Values().ByNumber(n); v != nil {
		return string(v.Name())
	}
	return strconv.Itoa(int(n))
}

// AssetTypeNumber returns the number for an enum value name.
func AssetTypeNumber(name string) (protoreflect.EnumNumber, bool) {
	v := AssetType.Values().ByName(protoreflect.Name(name))
	if v == nil {
		return 0, false
	}
	return v.Number(), true
}

func mustBuild() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fileProto(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("eiproto: invalid schema: %v", err))
	}
	return fd
}

type (
	fieldType  = descriptorpb.FieldDescriptorProto_Type
	fieldLabel = descriptorpb.FieldDescriptorProto_Label
)

const (
	tString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	tBytes   = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	tBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	tUint32  = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	tUint64  = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	tEnum    = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	tMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE

	optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
)

func field(name string, num int32, typ fieldType, label fieldLabel, typeName string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Type:   typ.Enum(),
		Label:  label.Enum(),
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

const (
	refBasicRequestInfo = ".ei.BasicRequestInfo"
	refDLCItem          = ".ei.DLCItem"
	refDLCCatalog       = ".ei.DLCCatalog"
	refShellSpec        = ".ei.ShellSpec"
	refShellPiece       = ".ei.ShellSpec.ShellPiece"
	refAssetType        = ".ei.ShellSpec.AssetType"
	refShellSetSpec     = ".ei.ShellSetSpec"
	refShellObjectSpec  = ".ei.ShellObjectSpec"
)

func fileProto() *descriptorpb.FileDescriptorProto {
	shellSpec := message("ShellSpec",
		field("identifier", 1, tString, optional, ""),
		field("pieces", 2, tMessage, repeated, refShellPiece),
		field("name", 3, tString, optional, ""),
		field("set_identifier", 4, tString, optional, ""),
		field("price", 5, tUint32, optional, ""),
		field("primary_piece", 12, tMessage, optional, refShellPiece),
	)
	shellSpec.NestedType = []*descriptorpb.DescriptorProto{
		message("ShellPiece",
			field("asset_type", 1, tEnum, optional, refAssetType),
			field("dlc", 2, tMessage, optional, refDLCItem),
		),
	}
	shellSpec.EnumType = []*descriptorpb.EnumDescriptorProto{assetTypeEnum()}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("ei/config.proto"),
		Package: proto.String(Package),
		Syntax:  proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("BasicRequestInfo",
				field("ei_user_id", 1, tString, optional, ""),
				field("client_version", 2, tUint32, optional, ""),
				field("version", 3, tString, optional, ""),
				field("build", 4, tString, optional, ""),
				field("platform", 5, tString, optional, ""),
			),
			message("ConfigRequest",
				field("rinfo", 1, tMessage, optional, refBasicRequestInfo),
				field("ei_user_id", 2, tString, optional, ""),
			),
			message("AuthenticatedMessage",
				field("message", 1, tBytes, optional, ""),
				field("code", 2, tString, optional, ""),
				field("version", 3, tUint32, optional, ""),
				field("compressed", 4, tBool, optional, ""),
				field("original_size", 5, tUint32, optional, ""),
			),
			message("DLCItem",
				field("name", 1, tString, optional, ""),
				field("directory", 2, tString, optional, ""),
				field("ext", 3, tString, optional, ""),
				field("checksum", 4, tString, optional, ""),
				field("url", 5, tString, optional, ""),
				field("compressed", 6, tBool, optional, ""),
				field("original_size", 7, tUint64, optional, ""),
			),
			shellSpec,
			message("ShellSetSpec",
				field("identifier", 1, tString, optional, ""),
				field("name", 2, tString, optional, ""),
				field("price", 3, tUint32, optional, ""),
			),
			message("ShellObjectSpec",
				field("identifier", 1, tString, optional, ""),
				field("name", 2, tString, optional, ""),
				field("asset_type", 3, tEnum, optional, refAssetType),
				field("price", 4, tUint32, optional, ""),
				field("pieces", 7, tMessage, repeated, refShellPiece),
			),
			message("DLCCatalog",
				field("items", 1, tMessage, repeated, refDLCItem),
				field("shells", 2, tMessage, repeated, refShellSpec),
				field("shell_sets", 3, tMessage, repeated, refShellSetSpec),
				field("shell_objects", 4, tMessage, repeated, refShellObjectSpec),
				field("url_base", 5, tString, optional, ""),
				field("decorators", 7, tMessage, repeated, refShellSetSpec),
			),
			message("ConfigResponse",
				field("dlc_catalog", 3, tMessage, optional, refDLCCatalog),
			),
		},
	}
}
