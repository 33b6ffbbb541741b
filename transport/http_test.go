package transport

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"xdao.co/shellcat/fault"
)

func TestHTTP_PostsBase64Form(t *testing.T) {
	body := []byte{0x0a, 0x05, 0x08, 0x7f, 0x00, 0xff}
	var gotData, gotCT, gotUA, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotData = r.PostForm.Get("data")
		_, _ = w.Write([]byte("cmVzcG9uc2U=\n"))
	}))
	defer srv.Close()

	h := NewHTTP(HTTPConfig{Endpoint: srv.URL, UserAgent: "shellcat-test"}, nil)
	raw, err := h.Send(context.Background(), body)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(raw) != "cmVzcG9uc2U=\n" {
		t.Fatalf("response must be returned verbatim, got %q", raw)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method: got %s", gotMethod)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Fatalf("content type: got %q", gotCT)
	}
	if gotUA != "shellcat-test" {
		t.Fatalf("user agent: got %q", gotUA)
	}
	if gotData != base64.StdEncoding.EncodeToString(body) {
		t.Fatalf("form data: got %q", gotData)
	}
}

func TestHTTP_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP(HTTPConfig{Endpoint: srv.URL}, nil).Send(context.Background(), []byte("x"))
	if !fault.IsKind(err, fault.KindTransport) || fault.RuleID(err) != fault.RuleStatus {
		t.Fatalf("expected TRN-002 transport error, got %v", err)
	}
}

func TestHTTP_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := NewHTTP(HTTPConfig{Endpoint: endpoint, Timeout: time.Second}, nil).Send(context.Background(), []byte("x"))
	if !fault.IsKind(err, fault.KindTransport) || fault.RuleID(err) != fault.RuleExchange {
		t.Fatalf("expected TRN-001 transport error, got %v", err)
	}
}

func TestHTTP_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTP(HTTPConfig{Endpoint: srv.URL}, nil).Send(ctx, []byte("x"))
	if !fault.IsKind(err, fault.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestHTTP_Get(t *testing.T) {
	var gotMethod, gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotUA, gotPath = r.Method, r.Header.Get("User-Agent"), r.URL.Path
		if r.URL.Path == "/missing.rpoz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte{0x78, 0x9c, 0x01})
	}))
	defer srv.Close()

	h := NewHTTP(HTTPConfig{Endpoint: srv.URL, UserAgent: "shellcat-test"}, nil)
	raw, err := h.Get(context.Background(), srv.URL+"/s1_key.rpoz")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != "\x78\x9c\x01" {
		t.Fatalf("body: got %x", raw)
	}
	if gotMethod != http.MethodGet || gotUA != "shellcat-test" || gotPath != "/s1_key.rpoz" {
		t.Fatalf("request: method=%s ua=%q path=%s", gotMethod, gotUA, gotPath)
	}

	_, err = h.Get(context.Background(), srv.URL+"/missing.rpoz")
	if fault.RuleID(err) != fault.RuleStatus {
		t.Fatalf("expected TRN-002, got %v", err)
	}
}

func TestNewHTTP_Defaults(t *testing.T) {
	h := NewHTTP(HTTPConfig{}, nil)
	if h.Config.Endpoint != DefaultEndpoint {
		t.Fatalf("endpoint: got %q", h.Config.Endpoint)
	}
	if h.HTTPClient.Timeout != DefaultTimeout {
		t.Fatalf("timeout: got %v", h.HTTPClient.Timeout)
	}
}

func TestEncodeForm(t *testing.T) {
	// "+/" in base64 must be percent-encoded in the form body.
	if got := EncodeForm([]byte{0xfb, 0xff}); got != "data=%2B%2F8%3D" {
		t.Fatalf("EncodeForm: got %q", got)
	}
}

func TestFunc(t *testing.T) {
	var tr Transport = Func(func(_ context.Context, body []byte) ([]byte, error) {
		return append([]byte("echo:"), body...), nil
	})
	got, err := tr.Send(context.Background(), []byte("x"))
	if err != nil || string(got) != "echo:x" {
		t.Fatalf("Func: %q, %v", got, err)
	}
}
