package mirror

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/shellcat/fault"
	"xdao.co/shellcat/internal/fixture"
	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/transport"
)

func serve(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterConfigMirrorServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	cc, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	c := NewClient(cc)
	c.Timeout = 5 * time.Second
	return c
}

func upstream(raw []byte, err error, calls *int32) transport.Transport {
	return transport.Func(func(context.Context, []byte) ([]byte, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		return raw, err
	})
}

func TestGetConfig_ForwardsAndSnapshots(t *testing.T) {
	store := snapshot.NewMemory()
	var gotBody []byte
	up := transport.Func(func(_ context.Context, body []byte) ([]byte, error) {
		gotBody = body
		return fixture.Response(), nil
	})
	c := serve(t, &Server{Upstream: up, Store: store})

	raw, cidStr, err := c.Fetch(context.Background(), []byte("request"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(raw) != string(fixture.Response()) {
		t.Fatalf("response not forwarded verbatim")
	}
	if string(gotBody) != "request" {
		t.Fatalf("upstream body: got %q", gotBody)
	}

	id, err := snapshot.Parse(cidStr)
	if err != nil {
		t.Fatalf("snapshot header %q: %v", cidStr, err)
	}
	if !store.Has(id) {
		t.Fatalf("response not stored under %s", id)
	}

	again, err := c.Snapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if string(again) != string(raw) {
		t.Fatalf("snapshot bytes mismatch")
	}
}

func TestGetConfig_WithoutStoreHasNoHeader(t *testing.T) {
	c := serve(t, &Server{Upstream: upstream(fixture.Response(), nil, nil)})
	_, cidStr, err := c.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if cidStr != "" {
		t.Fatalf("unexpected snapshot header %q", cidStr)
	}
}

func TestGetConfig_PinnedSkipsUpstream(t *testing.T) {
	store := snapshot.NewMemory()
	id, err := store.Put(fixture.Response())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	var calls int32
	c := serve(t, &Server{Upstream: upstream(nil, errors.New("offline"), &calls), Store: store, Pin: id})

	raw, cidStr, err := c.Fetch(context.Background(), []byte("request"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if cidStr != id.String() || string(raw) != string(fixture.Response()) {
		t.Fatalf("pinned reply mismatch: cid=%q", cidStr)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("upstream contacted %d times", calls)
	}
}

func TestGetConfig_StatusMapping(t *testing.T) {
	missing, _ := snapshot.ID([]byte("never stored"))
	cases := []struct {
		name string
		srv  *Server
		want codes.Code
	}{
		{"upstream down", &Server{Upstream: upstream(nil, errors.New("connection refused"), nil)}, codes.Unavailable},
		{"undecodable", &Server{Upstream: upstream([]byte("not base64!"), nil, nil)}, codes.DataLoss},
		{"pinned missing", &Server{Store: snapshot.NewMemory(), Pin: missing}, codes.NotFound},
		{"no upstream", &Server{}, codes.FailedPrecondition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.srv.GetConfig(context.Background(), wrapperspb.Bytes(nil))
			if got := status.Code(err); got != tc.want {
				t.Fatalf("code: got %v want %v (%v)", got, tc.want, err)
			}
		})
	}
}

func TestSnapshot_StatusMapping(t *testing.T) {
	srv := &Server{Store: snapshot.NewMemory()}
	missing, _ := snapshot.ID([]byte("never stored"))

	_, err := srv.Snapshot(context.Background(), wrapperspb.String("garbage"))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("malformed cid: got %v", err)
	}
	_, err = srv.Snapshot(context.Background(), wrapperspb.String(missing.String()))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("missing cid: got %v", err)
	}
	_, err = (&Server{}).Snapshot(context.Background(), wrapperspb.String(missing.String()))
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("no store: got %v", err)
	}
}

func TestClient_ErrorsAreTransportFaults(t *testing.T) {
	c := serve(t, &Server{Upstream: upstream(nil, errors.New("boom"), nil)})
	_, err := c.Send(context.Background(), nil)
	if !fault.IsKind(err, fault.KindTransport) || fault.RuleID(err) != fault.RuleExchange {
		t.Fatalf("expected TRN-001, got %v", err)
	}
}

func TestClient_SnapshotMapsSentinels(t *testing.T) {
	c := serve(t, &Server{Store: snapshot.NewMemory()})
	missing, _ := snapshot.ID([]byte("never stored"))
	if _, err := c.Snapshot(context.Background(), missing); !snapshot.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Snapshot(context.Background(), cid.Undef); !errors.Is(err, snapshot.ErrInvalidCID) {
		t.Fatalf("expected ErrInvalidCID, got %v", err)
	}
}

func TestClient_SnapshotsStoreIsReadOnly(t *testing.T) {
	mem := snapshot.NewMemory()
	id, err := mem.Put(fixture.Response())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	store := serve(t, &Server{Store: mem}).Snapshots()

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(fixture.Response()) {
		t.Fatalf("Get returned different bytes")
	}
	if !store.Has(id) {
		t.Fatalf("Has(%s) = false", id)
	}
	missing, _ := snapshot.ID([]byte("never stored"))
	if store.Has(missing) {
		t.Fatalf("Has(missing) = true")
	}
	if _, err := store.Put([]byte("x")); !errors.Is(err, snapshot.ErrReadOnly) {
		t.Fatalf("Put: expected ErrReadOnly, got %v", err)
	}
}

func TestUnimplemented(t *testing.T) {
	var u UnimplementedConfigMirrorServer
	if _, err := u.GetConfig(context.Background(), nil); status.Code(err) != codes.Unimplemented {
		t.Fatalf("GetConfig: %v", err)
	}
	if _, err := u.Snapshot(context.Background(), nil); status.Code(err) != codes.Unimplemented {
		t.Fatalf("Snapshot: %v", err)
	}
}
