package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":       zapcore.InfoLevel,
		"debug":  zapcore.DebugLevel,
		"INFO":   zapcore.InfoLevel,
		" warn ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q): got %v want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_ConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	Component(logger, "fetch").Info("visible", zap.Int("shells", 3))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered, got: %s", out)
	}
	for _, want := range []string{"INFO", "fetch", "visible", `"shells": 3`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("json check")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), `"level":"DEBUG"`) {
		t.Fatalf("expected json level field, got: %s", buf.String())
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestComponent_NilLogger(t *testing.T) {
	Component(nil, "x").Info("dropped")
}
