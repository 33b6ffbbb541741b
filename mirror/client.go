package mirror

import (
	"context"
	"io"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/shellcat/fault"
	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/transport"
)

// Client reaches a ConfigMirror. It satisfies transport.Transport, so a
// pipeline can fetch through a mirror instead of the game server.
type Client struct {
	client ConfigMirrorClient
	closer io.Closer

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ transport.Transport = (*Client)(nil)

type DialOptions struct {
	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

// Dial connects to a mirror at target without transport security.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fault.Wrap(fault.KindTransport, fault.RuleExchange, "dial mirror "+target, err)
	}
	c := NewClient(cc)
	c.closer = cc
	c.Timeout = opts.Timeout
	return c, nil
}

// NewClient wraps an existing connection. Close does not close cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{client: NewConfigMirrorClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Send implements transport.Transport.
func (c *Client) Send(ctx context.Context, body []byte) ([]byte, error) {
	raw, _, err := c.Fetch(ctx, body)
	return raw, err
}

// Fetch forwards an encoded request through the mirror. It returns the raw
// response and the CID of the snapshot that answered ("" when the mirror
// keeps none). Every failure is a TRN-001 transport error.
func (c *Client) Fetch(ctx context.Context, body []byte) ([]byte, string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	var header metadata.MD
	reply, err := c.client.GetConfig(ctx, wrapperspb.Bytes(body), grpc.Header(&header))
	if err != nil {
		return nil, "", fault.Wrap(fault.KindTransport, fault.RuleExchange, "mirror GetConfig", err)
	}
	raw := reply.GetValue()

	var snapshotCID string
	if v := header.Get(SnapshotHeader); len(v) > 0 {
		snapshotCID = v[0]
		id, err := snapshot.Parse(snapshotCID)
		if err == nil {
			err = snapshot.Verify(id, raw)
		}
		if err != nil {
			return nil, "", fault.Wrap(fault.KindTransport, fault.RuleExchange, "mirror snapshot "+snapshotCID, err)
		}
	}
	return raw, snapshotCID, nil
}

// Snapshot reads a stored response from the mirror and verifies it against id.
// Errors are the snapshot package sentinels where the mirror reports one.
func (c *Client) Snapshot(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, snapshot.ErrInvalidCID
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Snapshot(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	raw := reply.GetValue()
	if err := snapshot.Verify(id, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Snapshots returns a read-only snapshot.Store over the mirror's Snapshot
// RPC. Put always fails with snapshot.ErrReadOnly.
func (c *Client) Snapshots() snapshot.Store {
	return remoteSnapshots{c: c}
}

type remoteSnapshots struct{ c *Client }

func (r remoteSnapshots) Put([]byte) (cid.Cid, error) {
	return cid.Undef, snapshot.ErrReadOnly
}

func (r remoteSnapshots) Get(id cid.Cid) ([]byte, error) {
	return r.c.Snapshot(context.Background(), id)
}

func (r remoteSnapshots) Has(id cid.Cid) bool {
	_, err := r.Get(id)
	return err == nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
