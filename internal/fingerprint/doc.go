// Package fingerprint decides whether a run needs to do any work.
//
// Two independent gates are tracked under a root directory. The build gate
// compares the upstream build id against the persisted .buildid file and,
// when it differs or is absent, persists the new id immediately. The artifact
// gate compares freshly rendered content byte for byte against the file that
// is currently on disk; a missing file counts as changed. All writes replace
// whole files through a temp file and rename, and writes to one artifact name
// are serialized.
package fingerprint
