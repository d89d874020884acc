package steamcmd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"datamine/internal/logging"
	"datamine/internal/services"
)

// windowsSelfUpdateExit is returned by SteamCMD on Windows after it updated itself.
const windowsSelfUpdateExit = 7

// ExitError carries an unexpected SteamCMD exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("steamcmd exited with code %d", e.Code)
}

// Unwrap classifies the failure as an external tool error.
func (e *ExitError) Unwrap() error {
	return services.ErrExternalTool
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithGOOS overrides the platform used for exit code handling.
func WithGOOS(goos string) Option {
	return func(c *Client) {
		if goos = strings.TrimSpace(goos); goos != "" {
			c.goos = goos
		}
	}
}

// Client runs SteamCMD app updates.
type Client struct {
	binary string
	exec   Executor
	goos   string
	logger *slog.Logger
}

// NewClient constructs a client for the SteamCMD binary at path.
func NewClient(binary string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Client{
		binary: strings.TrimSpace(binary),
		exec:   commandExecutor{},
		goos:   runtime.GOOS,
		logger: logging.NewComponentLogger(logger, "steamcmd"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateArgs returns the SteamCMD argument list for an anonymous app update.
func UpdateArgs(installDir string, appID int, beta string) []string {
	args := []string{
		"+force_install_dir", installDir,
		"+login", "anonymous",
		"+app_update", strconv.Itoa(appID),
	}
	if beta = strings.TrimSpace(beta); beta != "" {
		args = append(args, "-beta", beta)
	}
	return append(args, "+quit")
}

// Update installs or updates appID into installDir.
func (c *Client) Update(ctx context.Context, installDir string, appID int, beta string) error {
	if c.binary == "" {
		return services.Wrap(services.ErrConfiguration, "steamcmd", "update", "binary path required", nil)
	}
	if strings.TrimSpace(installDir) == "" {
		return services.Wrap(services.ErrConfiguration, "steamcmd", "update", "install directory required", nil)
	}

	c.logger.Info("updating app",
		logging.Int("app_id", appID),
		logging.String("beta", beta),
		logging.String("install_dir", installDir),
	)
	code, err := c.exec.Run(ctx, c.binary, UpdateArgs(installDir, appID, beta), func(line string) {
		if line = strings.TrimSpace(line); line != "" {
			c.logger.Debug(line)
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "steamcmd", "run", c.binary, err)
	}
	if !c.successful(code) {
		logging.ErrorWithContext(c.logger, "app update failed", "steamcmd_failed",
			logging.Int("exit_code", code),
			logging.String(logging.FieldErrorKind, "external_tool"),
			logging.String(logging.FieldErrorHint, "rerun with --nosteam to reuse the existing install"),
		)
		return &ExitError{Code: code}
	}
	c.logger.Info("app update finished", logging.Int("exit_code", code))
	return nil
}

func (c *Client) successful(code int) bool {
	if code == 0 {
		return true
	}
	return code == windowsSelfUpdateExit && c.goos == "windows"
}
