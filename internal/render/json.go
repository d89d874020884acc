package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const jsonIndent = "  "

// JSON encodes v with two-space indentation, literal non-ASCII and HTML
// characters, and a trailing newline.
func JSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// Reindent pretty-prints an arbitrary JSON document, preserving key order and
// number formatting. String escapes are decoded so non-ASCII characters are
// written literally. When transform is non-nil it is applied to every string
// key and value before re-encoding.
func Reindent(data []byte, transform func(string) string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	r := reindenter{dec: dec, transform: transform}
	if err := r.value(0); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: trailing data after document")
	}
	r.out.WriteByte('\n')
	return r.out.Bytes(), nil
}

type reindenter struct {
	dec       *json.Decoder
	out       bytes.Buffer
	transform func(string) string
}

func (r *reindenter) value(depth int) error {
	tok, err := r.dec.Token()
	if err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return r.container(depth, '}', true)
		case '[':
			return r.container(depth, ']', false)
		default:
			return fmt.Errorf("decode json: unexpected delimiter %q", v)
		}
	case string:
		return r.str(v)
	case json.Number:
		r.out.WriteString(v.String())
	case bool:
		if v {
			r.out.WriteString("true")
		} else {
			r.out.WriteString("false")
		}
	case nil:
		r.out.WriteString("null")
	default:
		return fmt.Errorf("decode json: unexpected token %v", v)
	}
	return nil
}

func (r *reindenter) container(depth int, closing byte, object bool) error {
	open := byte('[')
	if object {
		open = '{'
	}
	r.out.WriteByte(open)
	count := 0
	for r.dec.More() {
		if count > 0 {
			r.out.WriteByte(',')
		}
		r.newline(depth + 1)
		if object {
			tok, err := r.dec.Token()
			if err != nil {
				return fmt.Errorf("decode json: %w", err)
			}
			key, ok := tok.(string)
			if !ok {
				return fmt.Errorf("decode json: expected object key, got %v", tok)
			}
			if err := r.str(key); err != nil {
				return err
			}
			r.out.WriteString(": ")
		}
		if err := r.value(depth + 1); err != nil {
			return err
		}
		count++
	}
	if _, err := r.dec.Token(); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if count > 0 {
		r.newline(depth)
	}
	r.out.WriteByte(closing)
	return nil
}

func (r *reindenter) newline(depth int) {
	r.out.WriteByte('\n')
	r.out.WriteString(strings.Repeat(jsonIndent, depth))
}

func (r *reindenter) str(s string) error {
	if r.transform != nil {
		s = r.transform(s)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode json string: %w", err)
	}
	r.out.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return nil
}
