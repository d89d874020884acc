package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"datamine/internal/config"
)

// ConfigOption adjusts a test configuration after defaults are applied.
type ConfigOption func(t testing.TB, cfg *config.Config)

// NewConfig returns config.Default with every directory moved under a fresh
// temp dir and two workers.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Steam.SteamCMDDir = filepath.Join(base, "steamcmd")
	cfg.Workflow.Workers = 2
	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// BaseDir returns the temp dir NewConfig placed the state directory under.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WithWebsites serves every website source from baseURL. The host ban list
// gets a primary and a mirror URL.
func WithWebsites(baseURL string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Websites.LiveConfigURL = baseURL + "/UnturnedLiveConfig.dat"
		cfg.Websites.HostBansIndexURL = baseURL + "/UnturnedHostBans/index.html"
		cfg.Websites.HostBansFiltersURLs = []string{
			baseURL + "/UnturnedHostBans/filters.bin",
			baseURL + "/mirror/UnturnedHostBans/filters.bin",
		}
	}
}

// WithStubbedBinaries puts no-op executables named names (default: the
// configured decompiler) first on PATH for the rest of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		if len(names) == 0 {
			names = []string{cfg.Decompiler.Binary}
		}
		bin := filepath.Join(BaseDir(cfg), "bin")
		for _, name := range names {
			WriteFile(t, filepath.Join(bin, name), nil)
			if err := os.Chmod(filepath.Join(bin, name), 0o755); err != nil {
				t.Fatalf("chmod stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}
