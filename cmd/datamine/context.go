package main

import (
	"strings"

	"github.com/spf13/cobra"

	"datamine/internal/config"
)

// annotationNoConfig marks commands that must run without a loaded config.
const annotationNoConfig = "datamine/no-config"

// commandContext carries the --config flag and the config it resolves to.
// The CLI is single-threaded, so the first load is simply memoized.
type commandContext struct {
	configFlag *string
	loaded     bool
	cfg        *config.Config
	err        error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if !c.loaded {
		c.loaded = true
		c.cfg, c.err = loadConfig(c.flagValue())
		if c.err != nil {
			c.cfg = nil
		}
	}
	return c.cfg, c.err
}

func (c *commandContext) flagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// loadConfig reads path, or the default location when empty, and creates
// the state and log directories.
func loadConfig(path string) (*config.Config, error) {
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if _, ok := cmd.Annotations[annotationNoConfig]; ok {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
