package fingerprint

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"datamine/internal/fileutil"
	"datamine/internal/logging"
	"datamine/internal/services"
)

// BuildIDFile is the name of the persisted build id under the tracker root.
const BuildIDFile = ".buildid"

// Tracker owns the persisted fingerprints below one root directory.
type Tracker struct {
	root   string
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a tracker rooted at root.
func New(root string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tracker{
		root:   root,
		logger: logging.NewComponentLogger(logger, "fingerprint"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Root returns the tracker's root directory.
func (t *Tracker) Root() string {
	return t.root
}

// BuildID returns the persisted build id, if any.
func (t *Tracker) BuildID() (string, bool, error) {
	data, ok, err := fileutil.ReadOptional(filepath.Join(t.root, BuildIDFile))
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", BuildIDFile, err)
	}
	if !ok {
		return "", false, nil
	}
	return strings.TrimSpace(string(data)), true, nil
}

// ShouldProceed reports whether buildID differs from the persisted one. A new
// or absent id is persisted before returning so a crash later in the run does
// not reprocess the same build forever.
func (t *Tracker) ShouldProceed(ctx context.Context, buildID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	buildID = strings.TrimSpace(buildID)
	if buildID == "" {
		return false, services.Wrap(services.ErrMissingUpstreamFile, "fingerprint", "build gate", "empty build id", nil)
	}

	previous, ok, err := t.BuildID()
	if err != nil {
		return false, err
	}
	if ok && previous == buildID {
		logging.WithContext(ctx, t.logger).Debug("build unchanged",
			logging.String("build_id", buildID),
			logging.String(logging.FieldEventType, "build_unchanged"))
		return false, nil
	}
	if err := t.RecordBuildID(buildID); err != nil {
		return false, err
	}
	logging.WithContext(ctx, t.logger).Info("new build detected",
		logging.String("build_id", buildID),
		logging.String("previous_build_id", previous),
		logging.String(logging.FieldEventType, "build_changed"))
	return true, nil
}

// RecordBuildID persists buildID.
func (t *Tracker) RecordBuildID(buildID string) error {
	unlock := t.lock(BuildIDFile)
	defer unlock()
	if err := fileutil.WriteFileAtomic(filepath.Join(t.root, BuildIDFile), []byte(strings.TrimSpace(buildID)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", BuildIDFile, err)
	}
	return nil
}

// HasArtifactChanged reports whether content differs from the persisted
// artifact. A never-written artifact counts as changed.
func (t *Tracker) HasArtifactChanged(name string, content []byte) (bool, error) {
	path, err := t.Path(name)
	if err != nil {
		return false, err
	}
	unlock := t.lock(name)
	defer unlock()
	return t.changed(path, content)
}

// RecordArtifact persists content under name.
func (t *Tracker) RecordArtifact(name string, content []byte) error {
	path, err := t.Path(name)
	if err != nil {
		return err
	}
	unlock := t.lock(name)
	defer unlock()
	if err := fileutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	return nil
}

// Observe compares and, when changed, persists content in one step while
// holding the artifact's lock.
func (t *Tracker) Observe(name string, content []byte) (bool, error) {
	path, err := t.Path(name)
	if err != nil {
		return false, err
	}
	unlock := t.lock(name)
	defer unlock()
	changed, err := t.changed(path, content)
	if err != nil || !changed {
		return false, err
	}
	if err := fileutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write artifact %s: %w", name, err)
	}
	return true, nil
}

// Path resolves an artifact name to its location under the root. Names must
// be relative and stay inside the root.
func (t *Tracker) Path(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimSpace(name)))
	if cleaned == "." || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrConfiguration, "fingerprint", "resolve artifact", fmt.Sprintf("invalid artifact name %q", name), nil)
	}
	return filepath.Join(t.root, cleaned), nil
}

func (t *Tracker) changed(path string, content []byte) (bool, error) {
	existing, ok, err := fileutil.ReadOptional(path)
	if err != nil {
		return false, fmt.Errorf("read artifact: %w", err)
	}
	if !ok {
		return true, nil
	}
	return !bytes.Equal(existing, content), nil
}

func (t *Tracker) lock(name string) func() {
	key := filepath.ToSlash(filepath.Clean(name))
	t.mu.Lock()
	m, ok := t.locks[key]
	if !ok {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	t.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Digest returns the hex BLAKE3-256 digest of content.
func Digest(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// DigestAll hashes several blobs as one stream, each prefixed by its name so
// that moving bytes between artifacts changes the digest.
func DigestAll(names []string, contents [][]byte) (string, error) {
	if len(names) != len(contents) {
		return "", errors.New("digest: names and contents differ in length")
	}
	h := blake3.New()
	for i, name := range names {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(contents[i])
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
