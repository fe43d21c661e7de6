package domain

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// pickVariant finds the single non-null variant key of a tagged union payload.
// Keys not listed in variants are ignored, as the backend tolerates extra fields.
func pickVariant(union string, data []byte, variants []string) (string, []byte, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, fmt.Errorf("%s: invalid JSON", union)
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return "", nil, fmt.Errorf("%s: expected object, got %s", union, obj.Type)
	}

	var populated []string
	var raw []byte
	for _, key := range variants {
		v := obj.Get(key)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		populated = append(populated, key)
		raw = []byte(v.Raw)
	}
	if len(populated) != 1 {
		return "", nil, &VariantError{Union: union, Allowed: variants, Populated: populated}
	}
	return populated[0], raw, nil
}

// marshalVariant encodes a union as a single-key object.
func marshalVariant(key string, value any) ([]byte, error) {
	return json.Marshal(map[string]any{key: value})
}
