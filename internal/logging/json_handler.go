package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// jsonKeys renames the built-in record keys in JSON output.
var jsonKeys = map[string]string{
	slog.TimeKey:    "ts",
	slog.LevelKey:   "level",
	slog.MessageKey: "msg",
	slog.SourceKey:  "caller",
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: rewriteJSONAttr,
	})
}

func rewriteJSONAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	renamed, builtin := jsonKeys[a.Key]
	if !builtin {
		return a
	}
	switch v := a.Value.Any().(type) {
	case time.Time:
		a.Value = slog.StringValue(v.UTC().Format(time.RFC3339))
	case slog.Level:
		a.Value = slog.StringValue(strings.ToLower(v.String()))
	case *slog.Source:
		if v != nil {
			a.Value = slog.StringValue(filepath.Base(v.File) + ":" + strconv.Itoa(v.Line))
		}
	}
	a.Key = renamed
	return a
}
