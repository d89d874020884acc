// Package hostbans decodes the host ban filter list published alongside the
// game's server browser and renders it as Markdown and JSON.
//
// The stream is little-endian with uint16 length-prefixed strings (see
// binreader.NetPak): a version byte followed by five counted sections for
// address, name, description, thumbnail and Steam id filters. A stream that
// decodes cleanly but holds no filters at all is reported as
// services.ErrLikelyFormatDrift so callers keep the previous report.
package hostbans
