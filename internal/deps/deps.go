package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tool is an external program a scenario shells out to.
type Tool struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
}

// Finding reports whether a Tool could be resolved.
type Finding struct {
	Tool
	Path    string
	Problem string
}

// Found reports whether the tool resolved to an executable.
func (f Finding) Found() bool { return f.Problem == "" }

// Probe resolves each tool via PATH, or directly when Command names a file.
func Probe(tools ...Tool) []Finding {
	findings := make([]Finding, 0, len(tools))
	for _, tool := range tools {
		tool.Command = strings.TrimSpace(tool.Command)
		path, err := resolve(tool.Command)
		finding := Finding{Tool: tool, Path: path}
		if err != nil {
			finding.Problem = err.Error()
		}
		findings = append(findings, finding)
	}
	return findings
}

var errNotConfigured = errors.New("command not configured")

func resolve(command string) (string, error) {
	if command == "" {
		return "", errNotConfigured
	}
	if !strings.ContainsRune(command, os.PathSeparator) {
		path, err := exec.LookPath(command)
		if err != nil {
			return "", fmt.Errorf("%q not found on PATH", command)
		}
		return path, nil
	}
	info, err := os.Stat(command)
	switch {
	case err != nil:
		return "", fmt.Errorf("%q: %w", command, err)
	case info.IsDir():
		return "", fmt.Errorf("%q is a directory", command)
	case info.Mode().Perm()&0o111 == 0:
		return "", fmt.Errorf("%q is not executable", command)
	}
	return command, nil
}
