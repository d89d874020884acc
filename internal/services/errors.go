package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedVersion marks a binary stream whose schema version is not understood.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrTruncatedStream marks a binary stream that ended mid-record.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrLikelyFormatDrift marks output that decoded cleanly but looks suspiciously empty.
	ErrLikelyFormatDrift = errors.New("likely format drift")
	// ErrMissingUpstreamFile marks a required manifest or artifact that is absent.
	ErrMissingUpstreamFile = errors.New("missing upstream file")
	// ErrTransport marks a failed fetch.
	ErrTransport = errors.New("transport failure")
	// ErrExternalTool marks a failed external process.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks invalid paths, scenario names, or settings.
	ErrConfiguration = errors.New("configuration error")
)

var kinds = []struct {
	marker error
	label  string
}{
	{ErrUnsupportedVersion, "unsupported_version"},
	{ErrTruncatedStream, "truncated_stream"},
	{ErrLikelyFormatDrift, "likely_format_drift"},
	{ErrMissingUpstreamFile, "missing_upstream_file"},
	{ErrTransport, "transport_failure"},
	{ErrExternalTool, "external_tool"},
	{ErrConfiguration, "configuration"},
}

// Wrap builds an error message that includes source context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, source, operation, message string, err error) error {
	detail := buildDetail(source, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the short taxonomy label for err, suitable for the error_kind
// log field. Unclassified errors report "unexpected".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.label
		}
	}
	return "unexpected"
}

// IsFatal reports whether err should abort the whole process rather than a
// single source.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(source, operation, message string) string {
	parts := make([]string, 0, 3)
	if source = strings.TrimSpace(source); source != "" {
		parts = append(parts, source)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
