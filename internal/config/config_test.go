package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"datamine/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_DATA_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "datamine")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Workflow.Workers != runtime.NumCPU() {
		t.Fatalf("expected workers to default to NumCPU, got %d", cfg.Workflow.Workers)
	}
	if len(cfg.Decompiler.Modules) != 8 {
		t.Fatalf("expected eight default modules, got %v", cfg.Decompiler.Modules)
	}
	if len(cfg.Websites.HostBansFiltersURLs) != 2 {
		t.Fatalf("expected primary and fallback filter urls, got %v", cfg.Websites.HostBansFiltersURLs)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.History.RetentionDays != 180 || cfg.Logging.RetentionDays != 30 {
		t.Fatalf("expected independent retention defaults, got history=%d logging=%d",
			cfg.History.RetentionDays, cfg.Logging.RetentionDays)
	}
}

func TestStateDirHonoursXDGDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StateDir != filepath.Join(dataHome, "datamine") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	custom := map[string]any{
		"paths": map[string]any{
			"state_dir": "~/state",
			"log_dir":   "~/logs",
		},
		"steam": map[string]any{
			"steamcmd_dir": "~/steamcmd",
			"beta":         "  ",
		},
		"decompiler": map[string]any{
			"modules": []string{" Assembly-CSharp ", "Assembly-CSharp", "UnityEx"},
		},
		"workflow": map[string]any{
			"workers": 3,
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.SteamCMDDir("/games/unturned") != filepath.Join(tempHome, "steamcmd") {
		t.Fatalf("unexpected steamcmd dir: %q", cfg.SteamCMDDir("/games/unturned"))
	}
	if cfg.Steam.Beta != "" {
		t.Fatalf("expected blank beta to trim to empty, got %q", cfg.Steam.Beta)
	}
	if got := strings.Join(cfg.Decompiler.Modules, ","); got != "Assembly-CSharp,UnityEx" {
		t.Fatalf("unexpected modules: %q", got)
	}
	if cfg.Workflow.Workers != 3 {
		t.Fatalf("unexpected workers: %d", cfg.Workflow.Workers)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestSteamCMDDirDefaultsUnderRoot(t *testing.T) {
	cfg := config.Default()
	if got := cfg.SteamCMDDir("/games/unturned"); got != filepath.Join("/games/unturned", "SteamCMD") {
		t.Fatalf("unexpected steamcmd dir: %q", got)
	}
	if cfg.AppID(true) != 304930 || cfg.AppID(false) != 1110390 {
		t.Fatalf("unexpected app ids: client=%d dedicated=%d", cfg.AppID(true), cfg.AppID(false))
	}
	if !strings.HasSuffix(cfg.InstallerURL("windows"), ".zip") || !strings.HasSuffix(cfg.InstallerURL("linux"), ".tar.gz") {
		t.Fatalf("unexpected installer urls: %q %q", cfg.InstallerURL("windows"), cfg.InstallerURL("linux"))
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[fetch]\ntimeout = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"timeout", func(c *config.Config) { c.Fetch.TimeoutSeconds = 0 }, "fetch.timeout_seconds"},
		{"filters", func(c *config.Config) { c.Websites.HostBansFiltersURLs = nil }, "host_bans_filters_urls"},
		{"scheme", func(c *config.Config) { c.Websites.LiveConfigURL = "ftp://example.com/x" }, "live_config_url"},
		{"module path", func(c *config.Config) { c.Decompiler.Modules = []string{"a/b"} }, "decompiler.modules"},
		{"app id", func(c *config.Config) { c.Steam.ClientAppID = 0 }, "steam.client_app_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Decompiler.Binary != "ilspycmd" {
		t.Fatalf("unexpected decompiler binary: %q", cfg.Decompiler.Binary)
	}
}
