package transport

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"xdao.co/shellcat/fault"
)

const (
	// DefaultTimeout bounds one exchange when the caller sets none.
	DefaultTimeout = 30 * time.Second
	// MaxResponseBytes caps the response body read from the server.
	MaxResponseBytes = 64 << 20

	formField = "data"
)

// HTTPConfig holds connection settings for the HTTP transport.
type HTTPConfig struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// HTTP posts the request as an url-encoded form with a single "data" field
// carrying the base64 request bytes.
type HTTP struct {
	HTTPClient *http.Client
	Config     HTTPConfig
	Logger     *zap.Logger
}

var _ Transport = (*HTTP)(nil)

// NewHTTP returns an HTTP transport. Empty settings take their defaults.
func NewHTTP(cfg HTTPConfig, logger *zap.Logger) *HTTP {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTP{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Config:     cfg,
		Logger:     logger,
	}
}

// EncodeForm returns the form body for an encoded request.
func EncodeForm(body []byte) string {
	return url.Values{formField: {base64.StdEncoding.EncodeToString(body)}}.Encode()
}

// Send posts body and returns the response body. Network failures are
// TRN-001, a non-200 status is TRN-002.
func (h *HTTP) Send(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Config.Endpoint, strings.NewReader(EncodeForm(body)))
	if err != nil {
		return nil, fault.Wrap(fault.KindTransport, fault.RuleExchange, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	raw, err := h.do(req, "post "+h.Config.Endpoint)
	if err != nil {
		return nil, err
	}
	h.logger().Debug("config exchange complete",
		zap.String("endpoint", h.Config.Endpoint),
		zap.Int("request_bytes", len(body)),
		zap.Int("response_bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)))
	return raw, nil
}

// Get fetches rawURL with the same client, timeout and size cap as Send.
// Errors follow the same rules.
func (h *HTTP) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fault.Wrap(fault.KindTransport, fault.RuleExchange, "build request", err)
	}

	start := time.Now()
	raw, err := h.do(req, "get "+rawURL)
	if err != nil {
		return nil, err
	}
	h.logger().Debug("download complete",
		zap.String("url", rawURL),
		zap.Int("response_bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)))
	return raw, nil
}

// do sends req and reads a 200 response body of at most MaxResponseBytes.
func (h *HTTP) do(req *http.Request, what string) ([]byte, error) {
	if h.Config.UserAgent != "" {
		req.Header.Set("User-Agent", h.Config.UserAgent)
	}
	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.KindTransport, fault.RuleExchange, what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fault.New(fault.KindTransport, fault.RuleStatus,
			fmt.Sprintf("%s: status %d: %s", what, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fault.Wrap(fault.KindTransport, fault.RuleExchange, "read response", err)
	}
	if len(raw) > MaxResponseBytes {
		return nil, fault.New(fault.KindTransport, fault.RuleExchange,
			fmt.Sprintf("response exceeds %d bytes", MaxResponseBytes))
	}
	return raw, nil
}

func (h *HTTP) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
