package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"datamine/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "LiveConfig", "fetch", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"LiveConfig", "fetch", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestKindMapping(t *testing.T) {
	cases := map[string]error{
		"unsupported_version":   services.Wrap(services.ErrUnsupportedVersion, "econ", "decode", "", nil),
		"truncated_stream":      fmt.Errorf("outer: %w", services.ErrTruncatedStream),
		"likely_format_drift":   services.ErrLikelyFormatDrift,
		"missing_upstream_file": services.Wrap(services.ErrMissingUpstreamFile, "", "", "", nil),
		"transport_failure":     services.ErrTransport,
		"configuration":         services.ErrConfiguration,
		"unexpected":            errors.New("plain"),
	}
	for want, err := range cases {
		if got := services.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
	if services.Kind(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
}

func TestIsFatalOnlyForConfiguration(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrConfiguration, "cli", "scenario", "unknown", nil)) {
		t.Fatal("expected configuration errors to be fatal")
	}
	if services.IsFatal(services.ErrTransport) {
		t.Fatal("transport failures must be contained")
	}
}
