package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"datamine/internal/services"
)

// RunContext carries the state of one invocation through the coordinator.
type RunContext struct {
	RunID    string
	Scenario string
	// BuildID is the upstream build observed for this run. Empty disables the
	// build gate.
	BuildID string
	Force   bool
	// Headline opens the summary message, e.g. "18 October 2026 - Version 3.24.7.3 (18372615)".
	Headline string
	Started  time.Time
}

// NewRunContext stamps a fresh run id and start time.
func NewRunContext(scenario string, force bool) RunContext {
	return RunContext{
		RunID:    uuid.NewString(),
		Scenario: strings.TrimSpace(scenario),
		Force:    force,
		Started:  time.Now().UTC(),
	}
}

// Context attaches the run id and scenario to ctx for logging.
func (rc RunContext) Context(ctx context.Context) context.Context {
	ctx = services.WithRunID(ctx, rc.RunID)
	return services.WithScenario(ctx, rc.Scenario)
}
