// Package config loads, normalizes, and validates datamine configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// XDG_DATA_HOME. The Config type centralizes every knob the scenarios need:
// SteamCMD app ids, decompiler modules, upstream URLs, fetch timeouts, worker
// counts, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
