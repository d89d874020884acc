//go:build !unix

package preflight

import (
	"errors"
	"os"
)

// checkAccess only inspects the permission bits where access(2) is unavailable.
func checkAccess(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 == 0 {
		return errors.New("directory is read-only")
	}
	return nil
}
