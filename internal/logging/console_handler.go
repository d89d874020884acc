package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// subjectKeys are lifted out of the field list into the header line.
var subjectKeys = [...]string{FieldComponent, FieldScenario, FieldSource, FieldStage}

type field struct {
	key   string
	value slog.Value
}

// consoleHandler writes one header line per record followed by indented
// fields:
//
//	2026-10-18 09:30:00 INFO [pipeline] Websites · econ (decoding) – decoded
//	    - Artifact: Econ/EconInfo.md
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	prefix    string
	fields    []field
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.fields)
	record.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)
		return true
	})

	var subject [len(subjectKeys)]string
	rest := make([]field, 0, len(fields))
	for _, f := range fields {
		if i := slices.Index(subjectKeys[:], f.key); i >= 0 {
			if subject[i] == "" {
				subject[i] = plainString(f.value)
			}
			continue
		}
		rest = append(rest, f)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var b strings.Builder
	b.WriteString(formatTimestamp(record.Time))
	b.WriteByte(' ')
	b.WriteString(levelLabel(record.Level))
	if subject[0] != "" {
		b.WriteString(" [" + subject[0] + "]")
	}
	if s := FormatSubject(subject[1], subject[2], subject[3]); s != "" {
		b.WriteString(" " + s)
	}
	b.WriteString(" – " + message)
	if h.addSource {
		if src := record.Source(); src != nil {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	b.WriteByte('\n')
	for _, f := range selectFields(lastWins(rest), record.Level < slog.LevelInfo) {
		b.WriteString("    - " + f.label + ": " + f.value + "\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = slices.Clone(h.fields)
	for _, a := range attrs {
		clone.fields = flatten(clone.fields, h.prefix, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// flatten appends a, expanding groups into dotted keys.
func flatten(dst []field, prefix string, a slog.Attr) []field {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range v.Group() {
			dst = flatten(dst, prefix, member)
		}
		return dst
	}
	key := prefix + a.Key
	if a.Key == "" {
		key = strings.TrimSuffix(prefix, ".")
	}
	if key == "" {
		return dst
	}
	return append(dst, field{key: key, value: v})
}

// lastWins keeps the first position of each key with its last value.
func lastWins(fields []field) []field {
	index := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
