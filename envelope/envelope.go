// Package envelope decodes the config endpoint's authenticated response into
// a catalog.Catalog.
//
// The response is base64 text wrapping an ei.AuthenticatedMessage whose
// message field is a zlib stream of an ei.ConfigResponse. Decoding is
// all-or-nothing: every step is a precondition for the next and no partial
// catalog is ever returned.
package envelope

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/klauspost/compress/zlib"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"xdao.co/shellcat/catalog"
	"xdao.co/shellcat/eiproto"
	"xdao.co/shellcat/fault"
)

// MaxInflatedSize bounds the decompressed ConfigResponse.
const MaxInflatedSize = 256 << 20

// presizeSlack is added to the compressed length when pre-sizing the
// inflate buffer.
const presizeSlack = 64 << 10

// Envelope is the decoded ei.AuthenticatedMessage.
type Envelope struct {
	Message      []byte
	Code         string
	Version      uint32
	Compressed   bool
	OriginalSize uint32
}

// Decode runs the full pipeline: Unwrap, Inflate, ParseCatalog.
func Decode(raw []byte) (*catalog.Catalog, error) {
	env, err := Unwrap(raw)
	if err != nil {
		return nil, err
	}
	payload, err := Inflate(env)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(payload)
}

// Unwrap base64-decodes raw and parses it as an ei.AuthenticatedMessage.
// Surrounding whitespace is ignored.
func Unwrap(raw []byte) (Envelope, error) {
	text := bytes.TrimSpace(raw)
	b := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(b, text)
	if err != nil {
		return Envelope{}, fault.Wrap(fault.KindEnvelope, fault.RuleBase64, "response is not base64", err)
	}
	b = b[:n]

	md := eiproto.AuthenticatedMessage
	m := eiproto.New(md)
	if err := proto.Unmarshal(b, m); err != nil {
		return Envelope{}, fault.Wrap(fault.KindEnvelope, fault.RuleEnvelopeMessage, "parse authenticated message", err)
	}
	env := Envelope{
		Message:      m.Get(eiproto.Field(md, "message")).Bytes(),
		Code:         m.Get(eiproto.Field(md, "code")).String(),
		Version:      uint32(m.Get(eiproto.Field(md, "version")).Uint()),
		Compressed:   m.Get(eiproto.Field(md, "compressed")).Bool(),
		OriginalSize: uint32(m.Get(eiproto.Field(md, "original_size")).Uint()),
	}
	return env, nil
}

// Inflate decompresses the envelope payload. The payload is always treated as
// a zlib stream regardless of the Compressed flag.
func Inflate(env Envelope) ([]byte, error) {
	if len(env.Message) == 0 {
		return nil, fault.New(fault.KindDecompression, fault.RuleEmptyMessage, "authenticated message has no payload")
	}
	zr, err := zlib.NewReader(bytes.NewReader(env.Message))
	if err != nil {
		return nil, fault.Wrap(fault.KindDecompression, fault.RuleInflate, "open zlib stream", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	buf.Grow(presize(env))
	n, err := io.Copy(&buf, io.LimitReader(zr, MaxInflatedSize+1))
	if err != nil {
		return nil, fault.Wrap(fault.KindDecompression, fault.RuleInflate, "inflate payload", err)
	}
	if n > MaxInflatedSize {
		return nil, fault.New(fault.KindDecompression, fault.RuleInflate, "inflated payload exceeds size limit")
	}
	return buf.Bytes(), nil
}

// presize is the initial inflate buffer size. OriginalSize is only a hint
// from the server, so it is bounded by the compressed length.
func presize(env Envelope) int {
	n := int64(env.OriginalSize)
	if limit := 4*int64(len(env.Message)) + presizeSlack; n > limit {
		n = limit
	}
	if n > MaxInflatedSize {
		n = MaxInflatedSize
	}
	return int(n)
}

// ParseCatalog parses an inflated ei.ConfigResponse and returns its DLC catalog.
func ParseCatalog(payload []byte) (*catalog.Catalog, error) {
	md := eiproto.ConfigResponse
	m := eiproto.New(md)
	if err := proto.Unmarshal(payload, m); err != nil {
		return nil, fault.Wrap(fault.KindCatalog, fault.RuleConfigResponse, "parse config response", err)
	}
	fd := eiproto.Field(md, "dlc_catalog")
	if !m.Has(fd) {
		return nil, fault.New(fault.KindCatalog, fault.RuleMissingCatalog, "config response has no dlc_catalog")
	}
	return catalog.FromMessage(m.Get(fd).Message()), nil
}

// Encode produces a response in the server's wire format for c. It is the
// inverse of Decode and is used for fixtures and mirrored responses.
func Encode(c *catalog.Catalog) ([]byte, error) {
	md := eiproto.ConfigResponse
	resp := eiproto.New(md)
	resp.Set(eiproto.Field(md, "dlc_catalog"), protoreflect.ValueOfMessage(c.Message()))
	payload, err := proto.MarshalOptions{Deterministic: true}.Marshal(resp)
	if err != nil {
		return nil, fault.Wrap(fault.KindCatalog, fault.RuleConfigResponse, "encode config response", err)
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write(payload); err != nil {
		return nil, fault.Wrap(fault.KindDecompression, fault.RuleInflate, "deflate payload", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fault.Wrap(fault.KindDecompression, fault.RuleInflate, "deflate payload", err)
	}
	return Wrap(Envelope{Message: z.Bytes(), Compressed: true, OriginalSize: uint32(len(payload))})
}

// Wrap serializes env as base64 text of an ei.AuthenticatedMessage.
func Wrap(env Envelope) ([]byte, error) {
	md := eiproto.AuthenticatedMessage
	m := eiproto.New(md)
	m.Set(eiproto.Field(md, "message"), protoreflect.ValueOfBytes(env.Message))
	if env.Code != "" {
		m.Set(eiproto.Field(md, "code"), protoreflect.ValueOfString(env.Code))
	}
	if env.Version != 0 {
		m.Set(eiproto.Field(md, "version"), protoreflect.ValueOfUint32(env.Version))
	}
	if env.Compressed {
		m.Set(eiproto.Field(md, "compressed"), protoreflect.ValueOfBool(true))
	}
	if env.OriginalSize != 0 {
		m.Set(eiproto.Field(md, "original_size"), protoreflect.ValueOfUint32(env.OriginalSize))
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(m)
	if err != nil {
		return nil, fault.Wrap(fault.KindEnvelope, fault.RuleEnvelopeMessage, "encode authenticated message", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out, nil
}
