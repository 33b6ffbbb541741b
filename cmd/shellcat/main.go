package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"text/tabwriter"

	"go.uber.org/zap"

	"xdao.co/shellcat/config"
	"xdao.co/shellcat/dlc"
	"xdao.co/shellcat/extract"
	"xdao.co/shellcat/fault"
	"xdao.co/shellcat/internal/logging"
	"xdao.co/shellcat/mirror"
	"xdao.co/shellcat/pipeline"
	"xdao.co/shellcat/records"
	"xdao.co/shellcat/request"
	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/snapshot/registry"
	"xdao.co/shellcat/transport"

	_ "xdao.co/shellcat/snapshot/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "fetch":
		return cmdFetch(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "search":
		return cmdSearch(args[1:], out, errOut)
	case "download":
		return cmdDownload(args[1:], out, errOut)
	case "request":
		return cmdRequest(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "backends":
		return cmdBackends(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "shellcat: fetch the Egg, Inc. shell catalog as pipe-delimited records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  shellcat fetch [--config <file>] [--user <EID>] [--out <file>] [--types <file>] [--endpoint <url> | --mirror <host:port>]")
	fmt.Fprintln(w, "  shellcat decode (--in <file> | --snapshot <CID>) [--config <file>] [--out <file>] [--types <file>]")
	fmt.Fprintln(w, "  shellcat search --term <text> [--in <file>] [--urls] [--base <url>]")
	fmt.Fprintln(w, "  shellcat download --term <text> [--in <file>] [--dir <dir>] [--inflate] [--config <file>]")
	fmt.Fprintln(w, "  shellcat request [--config <file>] [--user <EID>]")
	fmt.Fprintln(w, "  shellcat cid <file>")
	fmt.Fprintln(w, "  shellcat backends")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintf(w, "  - the user id may also come from $%s\n", config.EnvUserID)
	fmt.Fprintln(w, "  - with snapshots configured, fetch stores every raw response and prints its CID")
	fmt.Fprintln(w, "  - decode --snapshot reads the configured store, or the mirror when none is configured")
	fmt.Fprintln(w, "  - request prints the base64 form value posted as data=...")
	fmt.Fprintln(w, "  - search --urls prints one download URL per line")
	fmt.Fprintln(w, "  - download saves each match as <id>.rpoz, or <id>.rpo with --inflate")
}

// commonFlags are shared by the commands that load a config file.
type commonFlags struct {
	configPath string
	logLevel   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", config.DefaultPath, "config file (YAML)")
	fs.StringVar(&c.logLevel, "log-level", "", "log level override (debug|info|warn|error)")
}

func (c *commonFlags) load(errOut io.Writer) (*config.Config, *zap.Logger, bool) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(errOut, "load config: %v\n", err)
		return nil, nil, false
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	logger, err := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(errOut, "logging: %v\n", err)
		return nil, nil, false
	}
	return cfg, logger, true
}

func cmdFetch(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "player id (EID)")
	outPath := fs.String("out", "", "record file (default from config)")
	typesPath := fs.String("types", "", "optional shell_type/chicken_type summary file")
	endpoint := fs.String("endpoint", "", "config endpoint URL override")
	mirrorTarget := fs.String("mirror", "", "fetch through a ConfigMirror at host:port")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: shellcat fetch [--user <EID>] [--out <file>] [--types <file>]")
		return 2
	}

	cfg, logger, ok := common.load(errOut)
	if !ok {
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if *user != "" {
		cfg.UserID = *user
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *mirrorTarget != "" {
		cfg.Mirror = *mirrorTarget
	}
	if *outPath != "" {
		cfg.Output = *outPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	if err := cfg.RequireUserID(); err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}

	tr, closeTr, err := openTransport(cfg, logger)
	if err != nil {
		fmt.Fprintf(errOut, "transport: %v\n", err)
		return 1
	}
	defer closeTr()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "snapshots: %v\n", err)
		return 1
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.GetTimeout())
	defer cancel()

	f := &pipeline.Fetcher{Transport: tr, Store: store, Logger: logger}
	req := request.Build(cfg.UserID, cfg.RequestOptions()...)
	rep, err := f.Fetch(ctx, req, pipeline.Output{Records: cfg.Output, Types: *typesPath})
	if err != nil {
		reportFault(errOut, "fetch", err)
		return 1
	}

	printResult(out, cfg.Output, rep.Result)
	if rep.Snapshot.Defined() {
		fmt.Fprintf(out, "snapshot %s\n", rep.Snapshot)
	}
	return 0
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "file holding a raw server response")
	snapshotID := fs.String("snapshot", "", "CID of a stored response")
	outPath := fs.String("out", "", "record file (default from config)")
	typesPath := fs.String("types", "", "optional shell_type/chicken_type summary file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 || (*in == "") == (*snapshotID == "") {
		fmt.Fprintln(errOut, "usage: shellcat decode (--in <file> | --snapshot <CID>) [--out <file>] [--types <file>]")
		return 2
	}

	cfg, logger, ok := common.load(errOut)
	if !ok {
		return 1
	}
	defer func() { _ = logger.Sync() }()
	if *outPath != "" {
		cfg.Output = *outPath
	}

	output := pipeline.Output{Records: cfg.Output, Types: *typesPath}
	var res extract.Result
	if *in != "" {
		raw, err := os.ReadFile(*in)
		if err != nil {
			fmt.Fprintf(errOut, "read response: %v\n", err)
			return 1
		}
		res, err = pipeline.Process(raw, output, logger)
		if err != nil {
			reportFault(errOut, "decode", err)
			return 1
		}
		printResult(out, cfg.Output, res)
		return 0
	}

	id, err := snapshot.Parse(*snapshotID)
	if err != nil {
		fmt.Fprintf(errOut, "snapshot: %v\n", err)
		return 2
	}
	store, closeStore, err := snapshotSource(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "snapshots: %v\n", err)
		return 1
	}
	defer closeStore()

	res, err = pipeline.Replay(store, id, output, logger)
	if err != nil {
		reportFault(errOut, "decode", err)
		return 1
	}
	printResult(out, cfg.Output, res)
	return 0
}

func cmdSearch(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(errOut)
	term := fs.String("term", "", "case-insensitive text to look for in any field")
	in := fs.String("in", config.DefaultOutput, "record file")
	urls := fs.Bool("urls", false, "print download URLs only")
	base := fs.String("base", config.DefaultDLCBaseURL, "download URL base")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 || *term == "" {
		fmt.Fprintln(errOut, "usage: shellcat search --term <text> [--in <file>] [--urls] [--base <url>]")
		return 2
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(errOut, "open records: %v\n", err)
		return 1
	}
	defer f.Close()
	entries, err := records.Read(f)
	if err != nil {
		fmt.Fprintf(errOut, "read records: %v\n", err)
		return 1
	}

	matches := records.Search(entries, *term)
	if *urls {
		for _, e := range matches {
			fmt.Fprintln(out, records.DownloadURL(*base, e))
		}
		return 0
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tLABEL\tID\tKEY\tSIZE")
	for _, e := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Kind, e.Label, e.ID, e.Key, records.HumanSize(e.Size))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}

	sum := records.Summarize(matches)
	fmt.Fprintf(out, "\n%d shells (%s), %d chickens (%s), total %s\n",
		sum.Shells, records.HumanSize(sum.ShellBytes),
		sum.Chickens, records.HumanSize(sum.ChickenBytes),
		records.HumanSize(sum.TotalBytes()))
	return 0
}

func cmdDownload(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.register(fs)
	term := fs.String("term", "", "case-insensitive text to look for in any field")
	in := fs.String("in", "", "record file (default from config)")
	dir := fs.String("dir", ".", "output directory")
	base := fs.String("base", "", "download URL base (default from config)")
	inflate := fs.Bool("inflate", false, "write inflated .rpo files instead of .rpoz")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 || *term == "" {
		fmt.Fprintln(errOut, "usage: shellcat download --term <text> [--in <file>] [--dir <dir>] [--inflate]")
		return 2
	}

	cfg, logger, ok := common.load(errOut)
	if !ok {
		return 1
	}
	defer func() { _ = logger.Sync() }()
	if *in == "" {
		*in = cfg.Output
	}
	if *base == "" {
		*base = cfg.DLCBaseURL
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(errOut, "open records: %v\n", err)
		return 1
	}
	entries, err := records.Read(f)
	_ = f.Close()
	if err != nil {
		fmt.Fprintf(errOut, "read records: %v\n", err)
		return 1
	}
	matches := records.Search(entries, *term)
	if len(matches) == 0 {
		fmt.Fprintf(out, "no results for %q\n", *term)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := &dlc.Downloader{
		Client:  transport.NewHTTP(cfg.HTTPConfig(), logging.Component(logger, "http")),
		BaseURL: *base,
		Dir:     *dir,
		Inflate: *inflate,
		Logger:  logging.Component(logger, "dlc"),
	}
	saved, err := d.Download(ctx, matches)
	for _, s := range saved {
		fmt.Fprintf(out, "%s -> %s\n", path.Base(s.URL), s.Path)
	}
	if err != nil {
		reportFault(errOut, "download", err)
		return 1
	}
	return 0
}

func cmdRequest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.register(fs)
	user := fs.String("user", "", "player id (EID)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, _, ok := common.load(errOut)
	if !ok {
		return 1
	}
	if *user != "" {
		cfg.UserID = *user
	}
	if err := cfg.RequireUserID(); err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}

	body, err := request.Build(cfg.UserID, cfg.RequestOptions()...).Encode()
	if err != nil {
		reportFault(errOut, "request", err)
		return 1
	}
	fmt.Fprintln(out, base64.StdEncoding.EncodeToString(body))
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: shellcat cid <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	id, err := snapshot.ID(b)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, id)
	return 0
}

func cmdBackends(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintln(errOut, "usage: shellcat backends")
		return 2
	}
	for _, b := range registry.List(registry.UsageCLI) {
		if b.Description == "" {
			fmt.Fprintln(out, b.Name)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
	}
	return 0
}

func openTransport(cfg *config.Config, logger *zap.Logger) (transport.Transport, func(), error) {
	if cfg.Mirror != "" {
		c, err := mirror.Dial(cfg.Mirror, mirror.DialOptions{Timeout: cfg.GetTimeout()})
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using mirror", zap.String("target", cfg.Mirror))
		return c, func() { _ = c.Close() }, nil
	}
	return transport.NewHTTP(cfg.HTTPConfig(), logging.Component(logger, "http")), func() {}, nil
}

func openStore(cfg *config.Config) (snapshot.Store, func(), error) {
	if !cfg.Snapshots.Enabled() {
		return nil, func() {}, nil
	}
	s, closeFn, err := cfg.Snapshots.Open(registry.UsageCLI)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = closeFn() }, nil
}

// snapshotSource opens the configured store, or the mirror's read-only
// snapshot view when no store is configured.
func snapshotSource(cfg *config.Config) (snapshot.Store, func(), error) {
	if cfg.Snapshots.Enabled() {
		return openStore(cfg)
	}
	if cfg.Mirror != "" {
		c, err := mirror.Dial(cfg.Mirror, mirror.DialOptions{Timeout: cfg.GetTimeout()})
		if err != nil {
			return nil, nil, err
		}
		return c.Snapshots(), func() { _ = c.Close() }, nil
	}
	return nil, nil, fmt.Errorf("no snapshot store or mirror configured")
}

func printResult(w io.Writer, path string, res extract.Result) {
	fmt.Fprintf(w, "wrote %d shells and %d chickens to %s\n", len(res.Shells), len(res.Chickens), path)
	if n := len(res.Dropped); n > 0 {
		fmt.Fprintf(w, "skipped %d shells with malformed asset keys\n", n)
	}
}

func reportFault(w io.Writer, cmd string, err error) {
	if id := fault.RuleID(err); id != "" {
		fmt.Fprintf(w, "%s: [%s] %v\n", cmd, id, err)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", cmd, err)
}
