// Package econ decodes the versioned item economy stream shipped with the
// game into records and bundle memberships, and renders them as Markdown
// tables and JSON.
//
// Decoding is a single sequential pass over a binreader.Reader. A version
// other than CurrentVersion fails with services.ErrUnsupportedVersion before
// any further bytes are read; any short read fails with
// services.ErrTruncatedStream and no partial catalog is returned. Duplicate
// item or bundle ids keep the first occurrence.
//
// The package also normalizes the shipped EconInfo.json (see PrettyJSON).
package econ
