package events

import (
	"encoding/json"
	"fmt"
)

// Encode renders a payload for the wire. Decode(Encode(v)) == v for every
// value representable by the subject's schema.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

// Decode parses a payload into the subject's typed schema. Unknown fields are
// ignored so producers can grow payloads without breaking consumers.
func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
