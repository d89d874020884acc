package logging

import "strings"

// FormatSubject builds the scenario/source/stage subject string used in console output.
func FormatSubject(scenario, source, stage string) string {
	scenario = strings.TrimSpace(scenario)
	source = strings.TrimSpace(source)
	stage = strings.TrimSpace(stage)
	parts := make([]string, 0, 2)
	if scenario != "" {
		parts = append(parts, strings.ToUpper(scenario[:1])+scenario[1:])
	}
	switch {
	case source != "" && stage != "":
		parts = append(parts, source+" ("+stage+")")
	case source != "":
		parts = append(parts, source)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
