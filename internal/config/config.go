package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Steam contains SteamCMD installation and app update settings.
type Steam struct {
	SteamCMDDir         string `toml:"steamcmd_dir"`
	DedicatedAppID      int    `toml:"dedicated_app_id"`
	ClientAppID         int    `toml:"client_app_id"`
	Beta                string `toml:"beta"`
	InstallerURLLinux   string `toml:"installer_url_linux"`
	InstallerURLWindows string `toml:"installer_url_windows"`
}

// Decompiler contains settings for the external .NET decompiler.
type Decompiler struct {
	Binary         string   `toml:"binary"`
	Modules        []string `toml:"modules"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Websites contains the upstream URLs polled by the websites scenario.
type Websites struct {
	LiveConfigURL       string   `toml:"live_config_url"`
	HostBansFiltersURLs []string `toml:"host_bans_filters_urls"`
	HostBansIndexURL    string   `toml:"host_bans_index_url"`
}

// Fetch contains HTTP client settings.
type Fetch struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Workflow contains pipeline concurrency settings.
type Workflow struct {
	Workers int `toml:"workers"`
}

// History controls the run history database. Runs older than RetentionDays
// are pruned after each run; 0 keeps every run.
type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for datamine.
//
// Configuration sections by subsystem:
//   - Paths: state (history, lock) and log directories
//   - Steam: SteamCMD location, app ids, and installer URLs
//   - Decompiler: ilspycmd binary, module list, and timeout
//   - Websites: live config and host ban URLs
//   - Fetch: HTTP timeout and user agent
//   - Workflow: pipeline worker count
//   - History: run history recording
//   - Logging: log format, level, and retention
type Config struct {
	Paths      Paths      `toml:"paths"`
	Steam      Steam      `toml:"steam"`
	Decompiler Decompiler `toml:"decompiler"`
	Websites   Websites   `toml:"websites"`
	Fetch      Fetch      `toml:"fetch"`
	Workflow   Workflow   `toml:"workflow"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("datamine.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SteamCMDDir returns the SteamCMD installation directory for the given game root.
func (c *Config) SteamCMDDir(root string) string {
	if dir := strings.TrimSpace(c.Steam.SteamCMDDir); dir != "" {
		return dir
	}
	return filepath.Join(root, "SteamCMD")
}

// AppID returns the Steam app id for the client or dedicated server build.
func (c *Config) AppID(client bool) int {
	if client {
		return c.Steam.ClientAppID
	}
	return c.Steam.DedicatedAppID
}

// InstallerURL returns the SteamCMD archive URL for goos.
func (c *Config) InstallerURL(goos string) string {
	if goos == "windows" {
		return c.Steam.InstallerURLWindows
	}
	return c.Steam.InstallerURLLinux
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// FetchTimeout returns the HTTP timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// DecompilerTimeout returns the per-module decompiler timeout as a duration.
func (c *Config) DecompilerTimeout() time.Duration {
	return time.Duration(c.Decompiler.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "datamine")
	}
	return "~/.local/share/datamine"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
