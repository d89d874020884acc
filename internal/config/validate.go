package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSteam(); err != nil {
		return err
	}
	if err := c.validateDecompiler(); err != nil {
		return err
	}
	if err := c.validateWebsites(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSteam() error {
	if c.Steam.DedicatedAppID <= 0 {
		return errors.New("steam.dedicated_app_id must be positive")
	}
	if c.Steam.ClientAppID <= 0 {
		return errors.New("steam.client_app_id must be positive")
	}
	for key, value := range map[string]string{
		"steam.installer_url_linux":   c.Steam.InstallerURLLinux,
		"steam.installer_url_windows": c.Steam.InstallerURLWindows,
	} {
		if err := validateURL(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDecompiler() error {
	if c.Decompiler.TimeoutSeconds <= 0 {
		return errors.New("decompiler.timeout_seconds must be positive")
	}
	for _, module := range c.Decompiler.Modules {
		if strings.ContainsAny(module, `/\`) {
			return fmt.Errorf("decompiler.modules: %q must be an assembly name, not a path", module)
		}
	}
	return nil
}

func (c *Config) validateWebsites() error {
	if err := validateURL("websites.live_config_url", c.Websites.LiveConfigURL); err != nil {
		return err
	}
	if err := validateURL("websites.host_bans_index_url", c.Websites.HostBansIndexURL); err != nil {
		return err
	}
	if len(c.Websites.HostBansFiltersURLs) == 0 {
		return errors.New("websites.host_bans_filters_urls must include at least one url")
	}
	for _, value := range c.Websites.HostBansFiltersURLs {
		if err := validateURL("websites.host_bans_filters_urls", value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateURL(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", key)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", key, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s: missing host", key)
	}
	return nil
}
