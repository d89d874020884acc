package econ

import (
	"strings"

	"datamine/internal/render"
	"datamine/internal/services"
)

// PrettyJSON re-indents the shipped EconInfo.json. Escaped characters are
// written literally and embedded newlines are dropped from strings so the
// file diffs line by line.
func PrettyJSON(data []byte) ([]byte, error) {
	out, err := render.Reindent(data, func(s string) string {
		return strings.ReplaceAll(s, "\n", "")
	})
	if err != nil {
		return nil, services.Wrap(services.ErrLikelyFormatDrift, "econ_json", "reindent", "EconInfo.json is not valid JSON", err)
	}
	return out, nil
}
