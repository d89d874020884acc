package scenario

import (
	"datamine/internal/history"
	"datamine/internal/pipeline"
)

// ToHistory converts a run summary into its history record.
func ToHistory(summary pipeline.Summary) history.Run {
	run := history.Run{
		RunID:        summary.RunID,
		Scenario:     summary.Scenario,
		BuildID:      summary.BuildID,
		Headline:     summary.Headline,
		BuildSkipped: summary.BuildSkipped,
		Started:      summary.Started,
		Finished:     summary.Finished,
		Outcomes:     make([]history.Outcome, 0, len(summary.Outcomes)),
	}
	for _, o := range summary.Outcomes {
		rec := history.Outcome{
			Source:        o.Source,
			State:         string(o.State),
			Changed:       o.Changed,
			ArtifactCount: len(o.Paths),
			Digest:        o.Digest,
			ErrorKind:     o.ErrorKind(),
			Duration:      o.Duration,
		}
		if o.Err != nil {
			rec.ErrorMessage = o.Err.Error()
		}
		run.Outcomes = append(run.Outcomes, rec)
	}
	return run
}
