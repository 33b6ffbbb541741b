// Package fault is the error taxonomy shared by every stage of a shellcat run.
//
// Fatal failures carry the stage that produced them (Kind) and a stable RuleID.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// A malformed asset key is not a fault: it is a per-record outcome reported by
// package extract.
package fault

import "errors"

// Kind names the pipeline stage that failed.
type Kind string

const (
	KindRequest       Kind = "Request"
	KindTransport     Kind = "Transport"
	KindEnvelope      Kind = "EnvelopeDecode"
	KindDecompression Kind = "Decompression"
	KindCatalog       Kind = "CatalogParse"
	KindOutput        Kind = "Output"
	KindConfig        Kind = "Config"
	KindAsset         Kind = "Asset"
)

// Stable rule identifiers.
const (
	RuleRequestEncode   = "REQ-001"
	RuleExchange        = "TRN-001"
	RuleStatus          = "TRN-002"
	RuleBase64          = "ENV-001"
	RuleEnvelopeMessage = "ENV-002"
	RuleInflate         = "ZLB-001"
	RuleEmptyMessage    = "ZLB-002"
	RuleConfigResponse  = "CAT-001"
	RuleMissingCatalog  = "CAT-002"
	RuleWrite           = "OUT-001"
	RuleConfigFile      = "CFG-001"
	RuleConfigValue     = "CFG-002"
	RuleAssetFormat     = "DLC-001"
)

// Error is the structured error type returned by shellcat packages.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a structured error without a cause.
func New(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// Wrap returns a structured error wrapping cause. A nil cause is allowed.
func Wrap(kind Kind, ruleID, msg string, cause error) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
