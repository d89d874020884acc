// Package pipeline sequences datamining sources through fetch, decode,
// render, compare, and persist.
//
// Each Source runs its own state machine on a bounded worker pool:
//
//	Idle -> [Comparing build id] -> Fetching -> Decoding -> Rendering
//	     -> Comparing artifacts -> Persisting -> Done
//
// Skipped is reached from either Comparing state: when the persisted build
// id matches and the run is not forced, no source is fetched at all; when
// every rendered artifact is byte-identical to what is on disk, nothing is
// written. Failed is reached from Fetching, Decoding, Rendering, and
// Persisting. A failure only ends its own source. A decode result flagged as
// likely format drift fails the source without touching prior artifacts.
//
// Run state lives in an explicit RunContext value, and every outcome lands
// in a mutex-guarded collector that is sorted before the Summary is built.
package pipeline
