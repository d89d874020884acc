package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"datamine/internal/fingerprint"
	"datamine/internal/logging"
	"datamine/internal/services"
)

// Coordinator runs sources concurrently against one fingerprint tracker.
type Coordinator struct {
	tracker *fingerprint.Tracker
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

// NewCoordinator builds a coordinator with at most workers concurrent sources.
func NewCoordinator(tracker *fingerprint.Tracker, workers int, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		tracker: tracker,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		now:     time.Now,
	}
}

// collector is the only state shared between units.
type collector struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (c *collector) add(o Outcome) {
	c.mu.Lock()
	c.outcomes = append(c.outcomes, o)
	c.mu.Unlock()
}

func (c *collector) sorted() []Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.outcomes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Run evaluates the build gate once and then drives every source to a
// terminal state. The returned error is non-nil only when the build gate
// itself could not be evaluated or sources share a name.
func (c *Coordinator) Run(ctx context.Context, rc RunContext, sources []Source) (Summary, error) {
	ctx = rc.Context(ctx)
	logger := logging.WithContext(ctx, c.logger)
	summary := Summary{
		RunID:    rc.RunID,
		Scenario: rc.Scenario,
		BuildID:  rc.BuildID,
		Headline: rc.Headline,
		Started:  rc.Started,
	}
	if summary.Started.IsZero() {
		summary.Started = c.now().UTC()
	}
	if err := uniqueNames(sources); err != nil {
		return summary, err
	}

	gated := rc.BuildID != ""
	proceed := true
	if gated {
		var err error
		proceed, err = c.tracker.ShouldProceed(ctx, rc.BuildID)
		if err != nil {
			return summary, err
		}
		if !proceed && rc.Force {
			logger.Info("build unchanged, forced run continues", logging.String("build_id", rc.BuildID))
			proceed = true
		}
	}

	results := &collector{}
	if !proceed {
		logger.Info("build unchanged, skipping all sources",
			logging.String("build_id", rc.BuildID),
			logging.String(logging.FieldEventType, "build_unchanged"),
		)
		for _, src := range sources {
			results.add(Outcome{
				Source: src.Name(),
				State:  StateSkipped,
				Trail:  []State{StateIdle, StateComparing, StateSkipped},
			})
		}
		summary.BuildSkipped = true
		summary.Outcomes = results.sorted()
		summary.Finished = c.now().UTC()
		return summary, nil
	}

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results.add(Outcome{
					Source: src.Name(),
					State:  StateFailed,
					Trail:  []State{StateIdle, StateFailed},
					Err:    ctx.Err(),
				})
				return
			}
			defer func() { <-sem }()
			results.add(c.runSource(ctx, src, gated))
		}(src)
	}
	wg.Wait()

	summary.Outcomes = results.sorted()
	summary.Finished = c.now().UTC()
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("done", summary.Count(StateDone)),
		logging.Int("skipped", summary.Count(StateSkipped)),
		logging.Int("failed", summary.Count(StateFailed)),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	return summary, nil
}

type unit struct {
	src     Source
	outcome Outcome
	logger  *slog.Logger
	ctx     context.Context
}

func (u *unit) enter(next State) {
	from := u.outcome.State
	if !CanTransition(from, next) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", from, next))
	}
	u.outcome.State = next
	u.outcome.Trail = append(u.outcome.Trail, next)
	u.ctx = services.WithStage(u.ctx, string(next))
	if !next.Terminal() {
		logging.WithContext(u.ctx, u.logger).Debug("source stage", logging.String(logging.FieldEventType, "stage_start"))
	}
}

func (u *unit) fail(err error) Outcome {
	u.enter(StateFailed)
	u.outcome.Err = err
	logger := logging.WithContext(u.ctx, u.logger)
	if errors.Is(err, services.ErrLikelyFormatDrift) {
		logging.WarnWithContext(logger, "source output looks like format drift, keeping previous artifacts", "format_drift",
			logging.ErrorKind(err),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the upstream file; the decoder may need a new version"),
			logging.String(logging.FieldImpact, "previous artifacts left unchanged"),
		)
		return u.outcome
	}
	logging.ErrorWithContext(logger, "source failed", "source_failure",
		logging.ErrorKind(err),
		logging.Error(err),
	)
	return u.outcome
}

func (c *Coordinator) runSource(ctx context.Context, src Source, gated bool) Outcome {
	started := c.now()
	u := &unit{
		src:     src,
		outcome: Outcome{Source: src.Name(), State: StateIdle, Trail: []State{StateIdle}},
		logger:  c.logger,
		ctx:     services.WithSource(ctx, src.Name()),
	}
	out := c.drive(u, gated)
	out.Duration = c.now().Sub(started)
	return out
}

func (c *Coordinator) drive(u *unit, gated bool) Outcome {
	if gated {
		u.enter(StateComparing)
	}

	u.enter(StateFetching)
	raw, err := u.src.Fetch(u.ctx)
	if err != nil {
		return u.fail(err)
	}

	u.enter(StateDecoding)
	decoded, err := u.src.Decode(u.ctx, raw)
	if err != nil {
		return u.fail(err)
	}

	u.enter(StateRendering)
	artifacts, err := decoded.Render()
	if err != nil {
		return u.fail(err)
	}
	if err := checkArtifacts(artifacts); err != nil {
		return u.fail(err)
	}

	u.enter(StateComparing)
	names := make([]string, len(artifacts))
	contents := make([][]byte, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name
		contents[i] = a.Content
	}
	digest, err := fingerprint.DigestAll(names, contents)
	if err != nil {
		return u.fail(err)
	}
	u.outcome.Digest = digest

	var changed []Artifact
	for _, a := range artifacts {
		diff, err := c.tracker.HasArtifactChanged(a.Name, a.Content)
		if err != nil {
			return u.fail(err)
		}
		if diff {
			changed = append(changed, a)
		}
	}
	stale, err := c.stale(u.src, names)
	if err != nil {
		return u.fail(err)
	}
	if len(changed) == 0 && len(stale) == 0 {
		u.enter(StateSkipped)
		logging.WithContext(u.ctx, u.logger).Info("artifacts unchanged",
			logging.String(logging.FieldEventType, "source_unchanged"),
			logging.Int("artifacts", len(artifacts)),
			logging.String("digest", digest),
		)
		return u.outcome
	}

	u.enter(StatePersisting)
	for _, a := range changed {
		if _, err := c.tracker.Observe(a.Name, a.Content); err != nil {
			return u.fail(err)
		}
		u.outcome.Paths = append(u.outcome.Paths, a.Name)
	}
	for _, name := range stale {
		if err := c.remove(name); err != nil {
			return u.fail(err)
		}
	}
	u.outcome.Changed = true
	u.enter(StateDone)
	logging.WithContext(u.ctx, u.logger).Info("artifacts persisted",
		logging.String(logging.FieldEventType, "source_complete"),
		logging.Int("written", len(changed)),
		logging.Int("pruned", len(stale)),
		logging.String("digest", digest),
	)
	return u.outcome
}

// stale lists files below the source's owned directories that were not
// rendered in this run.
func (c *Coordinator) stale(src Source, rendered []string) ([]string, error) {
	pruner, ok := src.(Pruner)
	if !ok {
		return nil, nil
	}
	keep := make(map[string]struct{}, len(rendered))
	for _, name := range rendered {
		keep[path.Clean(name)] = struct{}{}
	}
	var stale []string
	for _, dir := range pruner.OwnedDirs() {
		root, err := c.tracker.Path(dir)
		if err != nil {
			return nil, err
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(c.tracker.Root(), p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if _, ok := keep[rel]; !ok {
				stale = append(stale, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
	}
	slices.Sort(stale)
	return stale, nil
}

func (c *Coordinator) remove(name string) error {
	p, err := c.tracker.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("prune %s: %w", name, err)
	}
	// Drop directories left empty, stopping at the first non-empty one.
	root := filepath.Clean(c.tracker.Root())
	for dir := filepath.Dir(p); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break
		}
	}
	return nil
}

func checkArtifacts(artifacts []Artifact) error {
	seen := make(map[string]struct{}, len(artifacts))
	for _, a := range artifacts {
		name := path.Clean(a.Name)
		if _, dup := seen[name]; dup {
			return services.Wrap(services.ErrConfiguration, "pipeline", "render", "artifact "+name+" rendered twice", nil)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func uniqueNames(sources []Source) error {
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if _, dup := seen[src.Name()]; dup {
			return services.Wrap(services.ErrConfiguration, "pipeline", "run", "duplicate source "+src.Name(), nil)
		}
		seen[src.Name()] = struct{}{}
	}
	return nil
}
