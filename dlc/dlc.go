// Package dlc downloads the shell assets named by record entries.
//
// Assets are served as <base><id>_<key>.rpoz, a zlib stream of an RPO1
// mesh. A Downloader saves each one as <id>.rpoz, or inflated as <id>.rpo.
package dlc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"xdao.co/shellcat/envelope"
	"xdao.co/shellcat/fault"
	"xdao.co/shellcat/records"
)

const (
	ExtCompressed = ".rpoz"
	ExtRaw        = ".rpo"
)

var (
	zlibMagic = []byte{0x78, 0x9c}
	rpoMagic  = []byte("RPO1")
)

// Getter fetches a URL. *transport.HTTP satisfies it.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Saved describes one downloaded asset.
type Saved struct {
	Entry records.Entry
	URL   string
	Path  string
	Bytes int
}

// Downloader fetches assets into Dir.
type Downloader struct {
	Client  Getter
	BaseURL string
	Dir     string
	// Inflate writes the decompressed .rpo instead of the .rpoz as served.
	Inflate bool
	Logger  *zap.Logger
}

// Download fetches every entry in order and stops at the first failure.
// The assets saved before the failure are returned with the error.
func (d *Downloader) Download(ctx context.Context, entries []records.Entry) ([]Saved, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, fault.Wrap(fault.KindOutput, fault.RuleWrite, "create "+d.Dir, err)
	}
	var saved []Saved
	var total int
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return saved, fault.Wrap(fault.KindTransport, fault.RuleExchange, "download canceled", err)
		}
		s, err := d.One(ctx, e)
		if err != nil {
			return saved, err
		}
		saved = append(saved, s)
		total += s.Bytes
	}
	d.logger().Info("assets downloaded",
		zap.Int("assets", len(saved)),
		zap.Int("bytes", total),
		zap.String("dir", d.Dir))
	return saved, nil
}

// One fetches a single entry and writes it into Dir.
func (d *Downloader) One(ctx context.Context, e records.Entry) (Saved, error) {
	url := records.DownloadURL(d.BaseURL, e)
	body, err := d.Client.Get(ctx, url)
	if err != nil {
		return Saved{}, err
	}
	if !bytes.HasPrefix(body, zlibMagic) {
		return Saved{}, fault.New(fault.KindAsset, fault.RuleAssetFormat,
			fmt.Sprintf("%s: not a zlib stream", url))
	}

	ext := ExtCompressed
	if d.Inflate {
		if body, err = Decode(body); err != nil {
			return Saved{}, fmt.Errorf("%s: %w", url, err)
		}
		ext = ExtRaw
	}

	path := filepath.Join(d.Dir, FileName(e)+ext)
	if err := writeFile(path, body); err != nil {
		return Saved{}, err
	}
	d.logger().Debug("asset saved",
		zap.String("url", url),
		zap.String("path", path),
		zap.Int("bytes", len(body)))
	return Saved{Entry: e, URL: url, Path: path, Bytes: len(body)}, nil
}

// Decode returns the RPO1 mesh in b, inflating it first when b is a zlib
// stream.
func Decode(b []byte) ([]byte, error) {
	if bytes.HasPrefix(b, zlibMagic) {
		inflated, err := envelope.Inflate(envelope.Envelope{Message: b})
		if err != nil {
			return nil, err
		}
		b = inflated
	}
	if !bytes.HasPrefix(b, rpoMagic) {
		return nil, fault.New(fault.KindAsset, fault.RuleAssetFormat, "not an RPO1 mesh")
	}
	return b, nil
}

// FileName is the file stem for e: its ID with path separators replaced,
// or its key when the ID is empty.
func FileName(e records.Entry) string {
	name := e.ID
	if name == "" {
		name = e.Key
	}
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "." || name == ".." {
		name = "_" + name
	}
	return name
}

func writeFile(path string, data []byte) error {
	return records.ReplaceFile(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fault.Wrap(fault.KindOutput, fault.RuleWrite, "write "+path, err)
		}
		return nil
	})
}

func (d *Downloader) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
