// Package scenario defines the datamine scenarios and runs them through the
// pipeline coordinator.
//
// A scenario turns a root directory and the CLI flags into a Plan: the
// observed build id (if any), the sources to process, and how to phrase the
// commit headline. Run executes the plan, then writes the summary message to
// <root>/.commit when at least one source changed.
//
// Two scenarios are registered:
//   - decompile updates the game through SteamCMD (unless --nosteam), gates
//     on the app manifest build id, and processes the econ catalog, the
//     shipped EconInfo.json, the Unity version, and one decompiled source
//     tree per configured assembly.
//   - websites fetches the live config, the host ban filter list (with a
//     fallback mirror), and the host ban index page.
package scenario
