package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSteam()
	c.normalizeDecompiler()
	c.normalizeWebsites()
	c.normalizeFetch()
	c.normalizeWorkflow()
	c.normalizeLogging()
	c.normalizeHistory()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, defaultLogDirSuffix)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Steam.SteamCMDDir = strings.TrimSpace(c.Steam.SteamCMDDir); c.Steam.SteamCMDDir != "" {
		if c.Steam.SteamCMDDir, err = expandPath(c.Steam.SteamCMDDir); err != nil {
			return fmt.Errorf("steam.steamcmd_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSteam() {
	c.Steam.Beta = strings.TrimSpace(c.Steam.Beta)
	c.Steam.InstallerURLLinux = strings.TrimSpace(c.Steam.InstallerURLLinux)
	if c.Steam.InstallerURLLinux == "" {
		c.Steam.InstallerURLLinux = defaultInstallerURLLinux
	}
	c.Steam.InstallerURLWindows = strings.TrimSpace(c.Steam.InstallerURLWindows)
	if c.Steam.InstallerURLWindows == "" {
		c.Steam.InstallerURLWindows = defaultInstallerURLWindows
	}
}

func (c *Config) normalizeDecompiler() {
	c.Decompiler.Binary = strings.TrimSpace(c.Decompiler.Binary)
	if c.Decompiler.Binary == "" {
		c.Decompiler.Binary = defaultDecompilerBinary
	}
	c.Decompiler.Modules = trimList(c.Decompiler.Modules)
	if len(c.Decompiler.Modules) == 0 {
		c.Decompiler.Modules = append([]string(nil), defaultDecompilerModules...)
	}
}

func (c *Config) normalizeWebsites() {
	c.Websites.LiveConfigURL = strings.TrimSpace(c.Websites.LiveConfigURL)
	c.Websites.HostBansIndexURL = strings.TrimSpace(c.Websites.HostBansIndexURL)
	c.Websites.HostBansFiltersURLs = trimList(c.Websites.HostBansFiltersURLs)
}

func (c *Config) normalizeFetch() {
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers <= 0 {
		c.Workflow.Workers = runtime.NumCPU()
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeHistory() {
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
