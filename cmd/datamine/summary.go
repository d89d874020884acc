package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"datamine/internal/pipeline"
)

var stateColors = map[pipeline.State]text.Colors{
	pipeline.StateDone:    {text.FgGreen},
	pipeline.StateSkipped: {text.FgHiBlack},
	pipeline.StateFailed:  {text.FgRed, text.Bold},
}

func renderSummary(summary pipeline.Summary, colorize bool) string {
	var b strings.Builder
	title := fmt.Sprintf("%s run %s", summary.Scenario, shortID(summary.RunID))
	if summary.BuildID != "" {
		title += " (build " + summary.BuildID + ")"
	}

	rows := make([][]string, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		state := string(o.State)
		if colors, ok := stateColors[o.State]; ok && colorize {
			state = colors.Sprint(state)
		}
		detail := ""
		if o.Err != nil {
			detail = o.ErrorKind()
		}
		rows = append(rows, []string{
			o.Source,
			state,
			strconv.Itoa(len(o.Paths)),
			formatDuration(o.Duration),
			detail,
		})
	}
	b.WriteString(renderTable(title,
		[]string{"Source", "State", "Written", "Duration", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))

	switch {
	case summary.BuildSkipped:
		b.WriteString("Build unchanged; nothing to do.\n")
	case summary.HasChanges():
		fmt.Fprintf(&b, "%s\n", summary.Headline)
	default:
		b.WriteString("No changes.\n")
	}
	if failed := summary.Failed(); len(failed) > 0 {
		b.WriteString("\nFailures:\n")
		for _, o := range failed {
			fmt.Fprintf(&b, "  %s: %v\n", o.Source, o.Err)
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
