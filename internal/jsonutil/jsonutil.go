// Package jsonutil provides JSON encoding helpers for ActivityPub documents.
// The standard encoder escapes <, >, and & into \u003c escape sequences, which would
// mangle HTML note content and actor summaries; these helpers keep them as-is.
// It also supports emitting objects with an explicit field order, which
// encoding/json cannot do for maps.
package jsonutil

import (
	"bytes"
	"encoding/json"
)

// Field is one key/value pair of a JSON object emitted in declaration order.
type Field struct {
	Key   string
	Value any
}

// MarshalNoEscape encodes v into compact JSON without escaping <, >, and &.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent encodes v into indented JSON without HTML escaping.
// Types implementing json.Marshaler keep the field order their MarshalJSON
// produces; the encoder only compacts and re-indents their output.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalObject serializes fields as one compact JSON object, preserving the
// given order. Values go through MarshalNoEscape, so nested json.Marshaler
// implementations keep their own ordering too.
func MarshalObject(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := MarshalNoEscape(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := MarshalNoEscape(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
