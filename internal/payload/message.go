package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tessro/jukebox/internal/core"
)

// ErrUnsupportedMessage is returned by DecodeMessage for payload types it
// cannot interpret.
var ErrUnsupportedMessage = errors.New("unsupported push message")

// envelopeKey wraps push payloads on some server versions.
const envelopeKey = "data"

// DecodeMessage interprets a push message. Text and binary frames are decoded
// as JSON; already decoded objects and arrays pass through.
func DecodeMessage(data any) (any, error) {
	switch v := data.(type) {
	case string:
		return decodeJSON([]byte(v))
	case []byte:
		return decodeJSON(v)
	case json.RawMessage:
		return decodeJSON(v)
	case map[string]any, []any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMessage, data)
	}
}

// Unwrap strips the optional {"data": ...} envelope.
func Unwrap(payload any) any {
	obj, ok := payload.(map[string]any)
	if !ok {
		return payload
	}
	if inner, ok := obj[envelopeKey]; ok && inner != nil {
		return inner
	}
	return payload
}

// Message decodes, unwraps, and normalizes a push message in one step.
func Message(data any) (core.Snapshot, error) {
	decoded, err := DecodeMessage(data)
	if err != nil {
		return core.Snapshot{}, err
	}
	return Normalize(Unwrap(decoded)), nil
}

func decodeJSON(b []byte) (any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode push message: %w", err)
	}
	return v, nil
}
