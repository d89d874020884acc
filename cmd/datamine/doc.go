// Command datamine extracts, decodes, and renders game data into a
// diffable tree of Markdown and JSON files.
//
// Usage:
//
//	datamine <path> <scenario> [--force] [--client] [--nosteam]
//
// The decompile scenario updates the game with SteamCMD, gates on the app
// manifest build id, and regenerates the econ catalog, the Unity version, and
// the decompiled assemblies. The websites scenario polls the live config and
// host ban endpoints. A commit message is written to <path>/.commit whenever
// anything changed.
//
// Helper commands:
//
//	datamine history        recent runs recorded in the state directory
//	datamine check          preflight checks for a root and scenario
//	datamine config init    write a sample configuration file
package main
