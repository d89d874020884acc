package logging

import "strings"

type infoField struct {
	label string
	value string
}

// infoHighlightKeys are printed first, in this order, when present.
var infoHighlightKeys = []string{
	FieldEventType,
	FieldErrorKind,
	"error",
	FieldErrorHint,
	FieldImpact,
	FieldArtifact,
	"build_id",
	"state",
	"changed",
	"path",
	"url",
}

// debugOnlyKeys are suppressed from info-level console output.
var debugOnlyKeys = map[string]struct{}{
	FieldRunID:  {},
	"digest":    {},
	"byte_size": {},
}

func selectFields(attrs []field, includeDebug bool) []infoField {
	if len(attrs) == 0 {
		return nil
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))

	add := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if _, debugOnly := debugOnlyKeys[attr.key]; debugOnly && !includeDebug {
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: formatValue(attr.value)})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				add(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			add(idx)
		}
	}
	return result
}

func displayLabel(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return key
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '.' })
	for i, word := range words {
		switch word {
		case "id":
			words[i] = "ID"
		case "url":
			words[i] = "URL"
		default:
			if i == 0 {
				words[i] = strings.ToUpper(word[:1]) + word[1:]
			}
		}
	}
	return strings.Join(words, " ")
}
