package scenario

import (
	"context"
	"log/slog"
	"runtime"

	"datamine/internal/config"
	"datamine/internal/logging"
	"datamine/internal/steamcmd"
)

// SteamUpdater installs SteamCMD on demand and updates the game through it.
type SteamUpdater struct {
	cfg        *config.Config
	downloader steamcmd.Downloader
	logger     *slog.Logger
	opts       []steamcmd.Option
}

// NewSteamUpdater builds an updater that downloads the SteamCMD archive with
// downloader when it is not installed yet.
func NewSteamUpdater(cfg *config.Config, downloader steamcmd.Downloader, logger *slog.Logger, opts ...steamcmd.Option) *SteamUpdater {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SteamUpdater{cfg: cfg, downloader: downloader, logger: logger, opts: opts}
}

// Update installs appID into root. A *steamcmd.ExitError is returned
// unchanged so callers can exit with the same code.
func (u *SteamUpdater) Update(ctx context.Context, root string, appID int) error {
	installer := steamcmd.NewInstaller(u.cfg.SteamCMDDir(root), u.cfg.InstallerURL(runtime.GOOS), u.downloader, u.logger)
	binary, err := installer.Install(ctx)
	if err != nil {
		return err
	}
	return steamcmd.NewClient(binary, u.logger, u.opts...).Update(ctx, root, appID, u.cfg.Steam.Beta)
}
