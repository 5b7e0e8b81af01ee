// Package jsonhelper provides JSON-related helper functions.
package jsonhelper

import (
	"bytes"
	"encoding/json"

	"github.com/peterbourgon/mergemap"
)

// Option sets an option on json.Decoder.
type Option func(*json.Decoder)

// DisallowUnknownFields causes json.Decoder to reject unknown struct fields.
var DisallowUnknownFields Option = func(d *json.Decoder) { d.DisallowUnknownFields() }

// Roundtrip marshals the input to JSON then unmarshals it into ptr.
// This is useful for converting between structures.
func Roundtrip(input, ptr any, options ...Option) error {
	j, e := json.Marshal(input)
	if e != nil {
		return e
	}

	decoder := json.NewDecoder(bytes.NewReader(j))
	for _, option := range options {
		option(decoder)
	}
	return decoder.Decode(ptr)
}

// ToMap converts a value to a JSON object.
func ToMap(input any) (m map[string]any, e error) {
	m = map[string]any{}
	if e = Roundtrip(input, &m); e != nil {
		return nil, e
	}
	return m, nil
}

// Merge overlays a JSON object onto the JSON representation of base.
// Nested objects are merged recursively; other values in overlay replace those in base.
func Merge(base any, overlay map[string]any) (map[string]any, error) {
	m, e := ToMap(base)
	if e != nil {
		return nil, e
	}
	return mergemap.Merge(m, overlay), nil
}
