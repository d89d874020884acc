package preflight

import (
	"fmt"
	"os"

	"datamine/internal/config"
	"datamine/internal/deps"
	"datamine/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config and
// root. Tool checks follow the scenario.
func RunAll(cfg *config.Config, root, scenario string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if root != "" {
		results = append(results, CheckDirectoryAccess("Root directory", root))
	}
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	for _, f := range deps.Probe(Requirements(cfg, scenario)...) {
		r := Result{Name: f.Name, Passed: f.Found() || f.Optional}
		switch {
		case f.Found():
			r.Detail = fmt.Sprintf("%s (found)", f.Path)
		case f.Optional:
			r.Detail = fmt.Sprintf("%s (optional: %s)", f.Command, f.Problem)
		case f.Purpose != "":
			r.Detail = fmt.Sprintf("%s (%s)", f.Problem, f.Purpose)
		default:
			r.Detail = f.Problem
		}
		results = append(results, r)
	}
	return results
}

// Requirements lists the external binaries scenario needs.
func Requirements(cfg *config.Config, scenario string) []deps.Tool {
	if scenario != "decompile" {
		return nil
	}
	return []deps.Tool{{
		Name:    "ilspycmd",
		Command: cfg.Decompiler.Binary,
		Purpose: "decompiles managed assemblies",
	}}
}

// CheckRoot validates the datamining root. Failures are configuration errors.
func CheckRoot(path string) error {
	result := CheckDirectoryAccess("Root directory", path)
	if !result.Passed {
		return services.Wrap(services.ErrConfiguration, "preflight", "root", result.Detail, nil)
	}
	return nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
