package payload

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// reading is a resolved numeric field value.
type reading struct {
	value float64
	clock bool // parsed from H:MM:SS or M:SS
}

// seconds applies the millisecond heuristic.
func (r reading) seconds() float64 {
	if !r.clock && r.value > MillisecondThreshold {
		return r.value / 1000
	}
	return r.value
}

// ParseClock parses "H:MM:SS" or "M:SS" into seconds. Every part must be a
// finite, non-negative number.
func ParseClock(s string) (float64, bool) {
	if !strings.Contains(s, ":") {
		return 0, false
	}

	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	nums := make([]float64, len(parts))
	for i, part := range parts {
		n, ok := parseNumber(part)
		if !ok {
			return 0, false
		}
		nums[i] = n
	}

	if len(nums) == 3 {
		return nums[0]*3600 + nums[1]*60 + nums[2], true
	}
	return nums[0]*60 + nums[1], true
}

// firstReading returns the first alias in obj that resolves to a finite,
// non-negative number.
func firstReading(obj map[string]any, aliases []string) (reading, bool) {
	for _, alias := range aliases {
		v, ok := obj[alias]
		if !ok {
			continue
		}
		if r, ok := coerce(v); ok {
			return r, true
		}
	}
	return reading{}, false
}

// coerce converts a raw JSON value to a reading. Clock strings are tried
// before plain numeric parsing; null, booleans, and blank strings are absent.
func coerce(v any) (reading, bool) {
	var n float64

	switch t := v.(type) {
	case string:
		if secs, ok := ParseClock(t); ok {
			return reading{value: secs, clock: true}, true
		}
		parsed, ok := parseNumber(t)
		if !ok {
			return reading{}, false
		}
		n = parsed
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return reading{}, false
		}
		n = parsed
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case uint:
		n = float64(t)
	case uint32:
		n = float64(t)
	case uint64:
		n = float64(t)
	default:
		return reading{}, false
	}

	if !usable(n) {
		return reading{}, false
	}
	return reading{value: n}, true
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(n) {
		return 0, false
	}
	return n, true
}

func usable(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0) && n >= 0
}
