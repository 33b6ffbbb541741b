// Package request builds the ConfigRequest sent to the config endpoint.
package request

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"xdao.co/shellcat/eiproto"
	"xdao.co/shellcat/fault"
)

// ClientVersion is the client protocol version announced to the server.
const ClientVersion uint32 = 127

// ConfigRequest identifies the player and client asking for the config.
//
// The user identifier is opaque; the server is the authority on its format.
type ConfigRequest struct {
	UserID        string
	ClientVersion uint32

	// Optional BasicRequestInfo fields; omitted from the wire when empty.
	AppVersion string
	Platform   string
}

// Option adjusts a request under construction.
type Option func(*ConfigRequest)

func WithClientVersion(v uint32) Option {
	return func(r *ConfigRequest) { r.ClientVersion = v }
}

func WithAppVersion(v string) Option {
	return func(r *ConfigRequest) { r.AppVersion = v }
}

func WithPlatform(p string) Option {
	return func(r *ConfigRequest) { r.Platform = p }
}

// Build returns a request for userID with the fixed client version.
func Build(userID string, opts ...Option) ConfigRequest {
	r := ConfigRequest{UserID: userID, ClientVersion: ClientVersion}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Message returns r as an ei.ConfigRequest message.
func (r ConfigRequest) Message() *dynamicpb.Message {
	rinfo := eiproto.New(eiproto.BasicRequestInfo)
	rinfo.Set(eiproto.Field(eiproto.BasicRequestInfo, "ei_user_id"), protoreflect.ValueOfString(r.UserID))
	rinfo.Set(eiproto.Field(eiproto.BasicRequestInfo, "client_version"), protoreflect.ValueOfUint32(r.ClientVersion))
	if r.AppVersion != "" {
		rinfo.Set(eiproto.Field(eiproto.BasicRequestInfo, "version"), protoreflect.ValueOfString(r.AppVersion))
	}
	if r.Platform != "" {
		rinfo.Set(eiproto.Field(eiproto.BasicRequestInfo, "platform"), protoreflect.ValueOfString(r.Platform))
	}

	msg := eiproto.New(eiproto.ConfigRequest)
	msg.Set(eiproto.Field(eiproto.ConfigRequest, "rinfo"), protoreflect.ValueOfMessage(rinfo))
	return msg
}

// Encode returns the deterministic wire bytes of r.
func (r ConfigRequest) Encode() ([]byte, error) {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(r.Message())
	if err != nil {
		return nil, fault.Wrap(fault.KindRequest, fault.RuleRequestEncode, "encode config request", err)
	}
	return b, nil
}

// Decode parses wire bytes produced by Encode.
func Decode(b []byte) (ConfigRequest, error) {
	msg := eiproto.New(eiproto.ConfigRequest)
	if err := proto.Unmarshal(b, msg); err != nil {
		return ConfigRequest{}, fault.Wrap(fault.KindRequest, fault.RuleRequestEncode, "decode config request", err)
	}
	rinfo := msg.Get(eiproto.Field(eiproto.ConfigRequest, "rinfo")).Message()
	return ConfigRequest{
		UserID:        rinfo.Get(eiproto.Field(eiproto.BasicRequestInfo, "ei_user_id")).String(),
		ClientVersion: uint32(rinfo.Get(eiproto.Field(eiproto.BasicRequestInfo, "client_version")).Uint()),
		AppVersion:    rinfo.Get(eiproto.Field(eiproto.BasicRequestInfo, "version")).String(),
		Platform:      rinfo.Get(eiproto.Field(eiproto.BasicRequestInfo, "platform")).String(),
	}, nil
}
