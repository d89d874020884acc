package services_test

import (
	"context"
	"testing"

	"datamine/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithScenario(ctx, "websites")
	ctx = services.WithSource(ctx, "LiveConfig")
	ctx = services.WithStage(ctx, "fetching")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if scenario, ok := services.ScenarioFromContext(ctx); !ok || scenario != "websites" {
		t.Fatalf("unexpected scenario: %v %v", scenario, ok)
	}
	if source, ok := services.SourceFromContext(ctx); !ok || source != "LiveConfig" {
		t.Fatalf("unexpected source: %v %v", source, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "fetching" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
