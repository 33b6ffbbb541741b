package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"xdao.co/shellcat/config"
	"xdao.co/shellcat/internal/logging"
	"xdao.co/shellcat/mirror"
	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/snapshot/localfs"
	"xdao.co/shellcat/snapshot/registry"
	"xdao.co/shellcat/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("shellcat-mirrord", flag.ContinueOnError)
	fs.SetOutput(errOut)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	configPath := fs.String("config", config.DefaultPath, "config file (YAML)")
	snapshotDir := fs.String("snapshot-dir", "", "localfs snapshot directory (when the config names no snapshot backends)")
	pin := fs.String("pin", "", "answer every GetConfig from this snapshot CID")
	logLevel := fs.String("log-level", "", "log level override")
	listBackends := fs.Bool("list-backends", false, "List supported snapshot backends and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *listBackends {
		for _, b := range registry.List(registry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	var pinID cid.Cid
	if *pin != "" {
		id, err := snapshot.Parse(*pin)
		if err != nil {
			fmt.Fprintf(errOut, "pin: %v\n", err)
			return 2
		}
		pinID = id
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "load config: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger, err := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(errOut, "logging: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := openStore(cfg, *snapshotDir)
	if err != nil {
		fmt.Fprintf(errOut, "snapshots: %v\n", err)
		return 1
	}
	defer func() { _ = closeStore() }()

	if pinID.Defined() && !store.Has(pinID) {
		fmt.Fprintf(errOut, "pin: snapshot %s not in store\n", pinID)
		return 1
	}

	srv := &mirror.Server{
		Upstream: transport.NewHTTP(cfg.HTTPConfig(), logging.Component(logger, "upstream")),
		Store:    store,
		Pin:      pinID,
		Logger:   logging.Component(logger, "mirror"),
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	logger.Info("shellcat-mirrord listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("upstream", cfg.Endpoint),
		zap.Bool("pinned", pinID.Defined()))
	if err := serve(ctx, lis, srv); err != nil {
		logger.Error("serve failed", zap.Error(err))
		return 1
	}
	logger.Info("shellcat-mirrord stopped")
	return 0
}

// openStore opens the configured snapshot backends, else a localfs store at
// dir, else an in-memory store.
func openStore(cfg *config.Config, dir string) (snapshot.Store, func() error, error) {
	noop := func() error { return nil }
	switch {
	case cfg.Snapshots.Enabled():
		return cfg.Snapshots.Open(registry.UsageDaemon)
	case dir != "":
		s, err := localfs.New(dir)
		return s, noop, err
	default:
		s, closeFn, err := registry.Open("memory", registry.UsageDaemon, nil)
		if closeFn == nil {
			closeFn = noop
		}
		return s, closeFn, err
	}
}

// serve runs the gRPC server on lis until ctx is done, then drains in-flight
// calls.
func serve(ctx context.Context, lis net.Listener, srv *mirror.Server) error {
	s := grpc.NewServer()
	mirror.RegisterConfigMirrorServer(s, srv)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.GracefulStop()
		return nil
	})
	return g.Wait()
}
