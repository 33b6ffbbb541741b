// Package mirror serves and consumes the ConfigMirror gRPC service.
//
// A mirror sits between shellcat clients and the game server: it forwards
// config requests upstream, checks that each response decodes, stores it in a
// snapshot store and tells the caller which snapshot answered. A mirror can be
// pinned to one snapshot to serve a fixed catalog without contacting upstream.
package mirror

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/shellcat/envelope"
	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/transport"
)

// Server implements ConfigMirrorServer.
type Server struct {
	UnimplementedConfigMirrorServer

	// Upstream reaches the game server. Unused when Pin is set.
	Upstream transport.Transport
	// Store keeps every verified response. May be nil when Pin is unset.
	Store snapshot.Store
	// Pin, when defined, answers every GetConfig from this snapshot.
	Pin    cid.Cid
	Logger *zap.Logger
}

func (s *Server) GetConfig(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing server")
	}
	log := s.logger()

	if s.Pin.Defined() {
		if s.Store == nil {
			return nil, status.Error(codes.FailedPrecondition, "pinned snapshot without store")
		}
		raw, err := s.Store.Get(s.Pin)
		if err != nil {
			return nil, mapErr(err)
		}
		setSnapshotHeader(ctx, s.Pin)
		log.Debug("served pinned snapshot", zap.Stringer("cid", s.Pin))
		return wrapperspb.Bytes(raw), nil
	}

	if s.Upstream == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing upstream")
	}
	raw, err := s.Upstream.Send(ctx, in.GetValue())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, status.FromContextError(ctxErr).Err()
		}
		log.Warn("upstream exchange failed", zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	if _, err := envelope.Decode(raw); err != nil {
		log.Warn("upstream response rejected", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, status.Error(codes.DataLoss, err.Error())
	}

	if s.Store != nil {
		id, err := s.Store.Put(raw)
		if err != nil {
			log.Error("snapshot store failed", zap.Error(err))
			return nil, mapErr(err)
		}
		setSnapshotHeader(ctx, id)
		log.Info("config mirrored", zap.Stringer("cid", id), zap.Int("bytes", len(raw)))
	}
	return wrapperspb.Bytes(raw), nil
}

func (s *Server) Snapshot(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing snapshot store")
	}
	id, err := snapshot.Parse(in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	raw, err := s.Store.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bytes(raw), nil
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// setSnapshotHeader is best effort: outside a gRPC call it is a no-op.
func setSnapshotHeader(ctx context.Context, id cid.Cid) {
	_ = grpc.SetHeader(ctx, metadata.Pairs(SnapshotHeader, id.String()))
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, snapshot.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, snapshot.ErrInvalidCID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, snapshot.ErrCIDMismatch), errors.Is(err, snapshot.ErrImmutable):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
