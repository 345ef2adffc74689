// Package wirejson rewrites the snake_case field names of API
// responses into the camelCase names the typed records decode from.
package wirejson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Normalize rewrites every object key in data from snake_case to
// camelCase, recursing through nested objects and arrays. The rewrite
// is token-level so field order survives, and values of every kind
// pass through untouched (numbers keep their exact text).
func Normalize(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out bytes.Buffer
	out.Grow(len(data))
	if err := rewriteValue(dec, &out); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return out.Bytes(), nil
}

func rewriteValue(dec *json.Decoder, out *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if d, ok := tok.(json.Delim); ok {
		switch d {
		case '{':
			return rewriteObject(dec, out)
		case '[':
			return rewriteArray(dec, out)
		}
		return fmt.Errorf("unexpected %q", d)
	}
	return writeScalar(out, tok)
}

func rewriteObject(dec *json.Decoder, out *bytes.Buffer) error {
	out.WriteByte('{')
	first := true
	for dec.More() {
		if !first {
			out.WriteByte(',')
		}
		first = false

		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("object key is not a string: %v", tok)
		}
		kb, err := json.Marshal(CamelKey(key))
		if err != nil {
			return err
		}
		out.Write(kb)
		out.WriteByte(':')

		if err := rewriteValue(dec, out); err != nil {
			return err
		}
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	out.WriteByte('}')
	return nil
}

func rewriteArray(dec *json.Decoder, out *bytes.Buffer) error {
	out.WriteByte('[')
	first := true
	for dec.More() {
		if !first {
			out.WriteByte(',')
		}
		first = false
		if err := rewriteValue(dec, out); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	out.WriteByte(']')
	return nil
}

func writeScalar(out *bytes.Buffer, tok json.Token) error {
	switch v := tok.(type) {
	case nil:
		out.WriteString("null")
	case bool:
		if v {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
	case json.Number:
		out.WriteString(v.String())
	case string:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out.Write(b)
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

// CamelKey converts a snake_case key to camelCase: exp_month becomes
// expMonth. Keys without underscores pass through unchanged, and
// consecutive underscores collapse.
func CamelKey(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	wrote := false
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if !wrote {
			b.WriteString(part)
			wrote = true
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
