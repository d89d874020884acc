// Package steamcmd installs the SteamCMD update client and drives anonymous
// app updates through it.
//
// Install reuses a cached steamcmd.sh (or steamcmd.exe on Windows) under the
// configured directory and otherwise downloads and unpacks the platform
// archive. Update runs the client with a forced install directory and a beta
// branch. Exit code 0 is success; exit code 7 is also success on Windows,
// where SteamCMD reports it after a self-update. Any other exit code surfaces
// as an *ExitError so the CLI can exit with the same code.
package steamcmd
