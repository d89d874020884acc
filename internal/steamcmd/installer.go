package steamcmd

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"datamine/internal/logging"
	"datamine/internal/services"
)

// Downloader fetches installer archives.
type Downloader interface {
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// BinaryName returns the SteamCMD entry point for goos.
func BinaryName(goos string) string {
	if goos == "windows" {
		return "steamcmd.exe"
	}
	return "steamcmd.sh"
}

// Installer places SteamCMD under a directory.
type Installer struct {
	dir        string
	url        string
	goos       string
	downloader Downloader
	logger     *slog.Logger
}

// NewInstaller builds an installer that downloads url into dir when needed.
func NewInstaller(dir, url string, downloader Downloader, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Installer{
		dir:        dir,
		url:        strings.TrimSpace(url),
		goos:       runtime.GOOS,
		downloader: downloader,
		logger:     logging.NewComponentLogger(logger, "steamcmd"),
	}
}

// ForGOOS returns a copy of the installer targeting goos.
func (i *Installer) ForGOOS(goos string) *Installer {
	clone := *i
	clone.goos = goos
	return &clone
}

// BinaryPath is the location of the SteamCMD entry point.
func (i *Installer) BinaryPath() string {
	return filepath.Join(i.dir, BinaryName(i.goos))
}

// Install returns the SteamCMD binary path, downloading and unpacking the
// archive when the binary is not already present.
func (i *Installer) Install(ctx context.Context) (string, error) {
	binary := i.BinaryPath()
	if info, err := os.Stat(binary); err == nil && !info.IsDir() {
		i.logger.Debug("reusing installed steamcmd", logging.String("path", binary))
		return binary, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat steamcmd: %w", err)
	}

	if i.url == "" {
		return "", services.Wrap(services.ErrConfiguration, "steamcmd", "install", "installer url not configured", nil)
	}
	if i.downloader == nil {
		return "", services.Wrap(services.ErrConfiguration, "steamcmd", "install", "no downloader configured", nil)
	}
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return "", fmt.Errorf("create steamcmd dir: %w", err)
	}

	i.logger.Info("downloading steamcmd", logging.String("url", i.url))
	data, err := i.downloader.Bytes(ctx, i.url)
	if err != nil {
		return "", err
	}
	if i.goos == "windows" {
		err = extractZip(data, i.dir)
	} else {
		err = extractTarGz(data, i.dir)
	}
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "steamcmd", "extract", i.url, err)
	}
	if _, err := os.Stat(binary); err != nil {
		return "", services.Wrap(services.ErrMissingUpstreamFile, "steamcmd", "install", BinaryName(i.goos)+" missing from archive", err)
	}
	i.logger.Info("steamcmd installed", logging.String("path", binary))
	return binary, nil
}

func extractTarGz(data []byte, dir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, fs.FileMode(hdr.Mode)&0o777); err != nil {
				return err
			}
		}
	}
}

func extractZip(data []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		target, err := safeJoin(dir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		err = writeEntry(target, rc, 0o755)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes %s", name, dir)
	}
	return target, nil
}

func writeEntry(target string, r io.Reader, mode fs.FileMode) error {
	if mode == 0 {
		mode = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	return f.Close()
}
