// Package runlock keeps two datamine runs from working on the same root.
package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"datamine/internal/services"
)

// FileName is the lock file created at the root.
const FileName = ".datamine.lock"

// Lock is a held advisory lock on one root directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock for root without blocking. A lock held by another
// process is reported as a configuration error.
func Acquire(root string) (*Lock, error) {
	path := filepath.Join(root, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "runlock", "acquire",
			"another datamine run is already working on "+root, nil)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
