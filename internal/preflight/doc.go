// Package preflight provides readiness checks for the filesystem paths and
// external tools datamine depends on.
//
// These checks run in two contexts:
//   - The run command calls CheckRoot before taking the run lock; a missing
//     or unwritable root is a configuration error and aborts the process.
//   - The CLI "datamine check" command uses RunAll to display every check.
//
// Tool checks are gated by scenario: the decompiler binary only matters for
// the decompile scenario.
package preflight
