package steamcmd_test

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"datamine/internal/services"
	"datamine/internal/steamcmd"
	"datamine/internal/testsupport"
)

type fakeDownloader struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeDownloader) Bytes(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatalf("tar header: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("tar write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestInstallExtractsTarball(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "SteamCMD")
	dl := &fakeDownloader{data: tarGz(t, map[string]string{
		"steamcmd.sh":      "#!/bin/sh\n",
		"linux32/steamcmd": "elf",
	})}
	inst := steamcmd.NewInstaller(dir, "https://example.test/steamcmd_linux.tar.gz", dl, nil).ForGOOS("linux")

	path, err := inst.Install(context.Background())
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if path != filepath.Join(dir, "steamcmd.sh") {
		t.Fatalf("unexpected binary path %q", path)
	}
	if got := testsupport.ReadFile(t, filepath.Join(dir, "linux32", "steamcmd")); got != "elf" {
		t.Fatalf("unexpected nested file content %q", got)
	}

	if _, err := inst.Install(context.Background()); err != nil {
		t.Fatalf("second Install returned error: %v", err)
	}
	if dl.calls != 1 {
		t.Fatalf("expected cached binary reuse, downloader called %d times", dl.calls)
	}
}

func TestInstallExtractsZipOnWindows(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{data: zipArchive(t, map[string]string{"steamcmd.exe": "MZ"})}
	inst := steamcmd.NewInstaller(dir, "https://example.test/steamcmd.zip", dl, nil).ForGOOS("windows")

	path, err := inst.Install(context.Background())
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if filepath.Base(path) != "steamcmd.exe" {
		t.Fatalf("unexpected binary %q", path)
	}
}

func TestInstallRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{data: tarGz(t, map[string]string{"../evil.sh": "x"})}
	inst := steamcmd.NewInstaller(dir, "https://example.test/a.tar.gz", dl, nil).ForGOOS("linux")

	if _, err := inst.Install(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "evil.sh")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no file outside install dir, stat err=%v", err)
	}
}

func TestInstallReportsMissingBinary(t *testing.T) {
	dl := &fakeDownloader{data: tarGz(t, map[string]string{"readme.txt": "hi"})}
	inst := steamcmd.NewInstaller(t.TempDir(), "https://example.test/a.tar.gz", dl, nil).ForGOOS("linux")
	if _, err := inst.Install(context.Background()); !errors.Is(err, services.ErrMissingUpstreamFile) {
		t.Fatalf("expected ErrMissingUpstreamFile, got %v", err)
	}
}

func TestInstallPropagatesDownloadError(t *testing.T) {
	dl := &fakeDownloader{err: services.Wrap(services.ErrTransport, "fetch", "get", "503", nil)}
	inst := steamcmd.NewInstaller(t.TempDir(), "https://example.test/a.tar.gz", dl, nil).ForGOOS("linux")
	if _, err := inst.Install(context.Background()); !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
