// Package unityversion extracts the engine version string embedded near the
// start of a Unity globalgamemanagers file.
package unityversion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"datamine/internal/services"
)

const (
	// FileName is the Unity asset that carries the version.
	FileName = "globalgamemanagers"
	// OutputFile records the detected version at the output root.
	OutputFile = ".unityversion"

	headerSize = 48
	maxLength  = 32
)

// Path returns the globalgamemanagers location inside a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Parse returns the version string from the raw header bytes.
func Parse(r io.Reader) (string, error) {
	if _, err := io.CopyN(io.Discard, r, headerSize); err != nil {
		return "", services.Wrap(services.ErrTruncatedStream, "unity_version", "header", "", err)
	}
	buf := make([]byte, maxLength)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read version: %w", err)
	}
	end := bytes.IndexByte(buf[:n], 0)
	if end < 0 {
		return "", services.Wrap(services.ErrLikelyFormatDrift, "unity_version", "parse",
			fmt.Sprintf("no terminator within %d bytes", maxLength), nil)
	}
	version := strings.TrimSpace(string(buf[:end]))
	if version == "" || !strings.HasPrefix(version, "202") {
		return "", services.Wrap(services.ErrLikelyFormatDrift, "unity_version", "parse", fmt.Sprintf("unexpected version %q", version), nil)
	}
	return version, nil
}

// Read opens the file at path and parses its version.
func Read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrMissingUpstreamFile, "unity_version", "open", FileName+" not found", err)
		}
		return "", fmt.Errorf("open %s: %w", FileName, err)
	}
	defer f.Close()
	return Parse(f)
}
