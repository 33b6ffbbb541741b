package fault

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestWrap_PreservesCauseAndKind(t *testing.T) {
	err := Wrap(KindTransport, RuleExchange, "post config", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("fetch: %w", err)

	if !IsKind(wrapped, KindTransport) {
		t.Fatalf("expected KindTransport")
	}
	if IsKind(wrapped, KindEnvelope) {
		t.Fatalf("unexpected KindEnvelope")
	}
	if got := RuleID(wrapped); got != RuleExchange {
		t.Fatalf("RuleID: got %q want %q", got, RuleExchange)
	}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if got := KindOf(wrapped); got != KindTransport {
		t.Fatalf("KindOf: got %q", got)
	}
}

func TestUnstructuredError(t *testing.T) {
	err := errors.New("plain")
	if IsKind(err, KindTransport) {
		t.Fatalf("plain error should not match a kind")
	}
	if RuleID(err) != "" || KindOf(err) != "" {
		t.Fatalf("plain error should have no rule or kind")
	}
}

func TestError_Message(t *testing.T) {
	err := New(KindCatalog, RuleMissingCatalog, "response has no dlc_catalog")
	if got, want := err.Error(), "CatalogParse: response has no dlc_catalog"; got != want {
		t.Fatalf("Error(): got %q want %q", got, want)
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil *Error should render <nil>")
	}
}
