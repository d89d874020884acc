package config

const (
	defaultConfigPath          = "~/.config/datamine/config.toml"
	defaultLogDirSuffix        = "logs"
	defaultLogRetentionDays    = 30
	defaultHistoryRetention    = 180
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultDedicatedAppID      = 1110390
	defaultClientAppID         = 304930
	defaultBeta                = "preview"
	defaultInstallerURLLinux   = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz"
	defaultInstallerURLWindows = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip"
	defaultDecompilerBinary    = "ilspycmd"
	defaultDecompilerTimeout   = 600
	defaultLiveConfigURL       = "https://smartlydressedgames.com/UnturnedLiveConfig.dat"
	defaultHostBansIndexURL    = "https://smartlydressedgames.com/UnturnedHostBans/index.html"
	defaultFetchTimeout        = 30
	defaultUserAgent           = "datamine/dev"
)

var defaultHostBansFiltersURLs = []string{
	"https://smartlydressedgames.com/UnturnedHostBans/filters.bin",
	"http://chaotic-island-paradise.s3-website-us-west-2.amazonaws.com/UnturnedHostBans/filters.bin",
}

var defaultDecompilerModules = []string{
	"Assembly-CSharp",
	"SDG.HostBans.Runtime",
	"SDG.NetPak.Runtime",
	"SDG.NetTransport",
	"Unturned.LiveConfig.Runtime",
	"UnityEx",
	"SystemEx",
	"UnturnedDat",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Steam: Steam{
			DedicatedAppID:      defaultDedicatedAppID,
			ClientAppID:         defaultClientAppID,
			Beta:                defaultBeta,
			InstallerURLLinux:   defaultInstallerURLLinux,
			InstallerURLWindows: defaultInstallerURLWindows,
		},
		Decompiler: Decompiler{
			Binary:         defaultDecompilerBinary,
			Modules:        append([]string(nil), defaultDecompilerModules...),
			TimeoutSeconds: defaultDecompilerTimeout,
		},
		Websites: Websites{
			LiveConfigURL:       defaultLiveConfigURL,
			HostBansFiltersURLs: append([]string(nil), defaultHostBansFiltersURLs...),
			HostBansIndexURL:    defaultHostBansIndexURL,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeout,
			UserAgent:      defaultUserAgent,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
