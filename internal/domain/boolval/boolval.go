// Package boolval coerces loosely typed scalar values into booleans.
//
// Legacy clients send boolean query parameters in many spellings
// ("yes", "Y", "1", "True"), and snapshot records may carry numeric
// flags. Parse maps all of them onto a tri-state outcome so that
// "could not parse" is never conflated with "parsed false".
package boolval

import "strings"

var affirmative = map[string]struct{}{
	"yes": {}, "y": {}, "true": {}, "t": {}, "1": {},
}

var negative = map[string]struct{}{
	"no": {}, "n": {}, "false": {}, "f": {}, "0": {},
}

// Parse coerces v into a boolean. ok is false when the value is
// undetermined: a string outside both recognized sets, or an
// unsupported type. Parse never fails; every input has a
// deterministic outcome.
func Parse(v any) (value, ok bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		s := strings.ToLower(x)
		if _, hit := affirmative[s]; hit {
			return true, true
		}
		if _, hit := negative[s]; hit {
			return false, true
		}
		return false, false
	case int:
		return x > 0, true
	case int8:
		return x > 0, true
	case int16:
		return x > 0, true
	case int32:
		return x > 0, true
	case int64:
		return x > 0, true
	case uint:
		return x > 0, true
	case uint8:
		return x > 0, true
	case uint16:
		return x > 0, true
	case uint32:
		return x > 0, true
	case uint64:
		return x > 0, true
	case float32:
		return x > 0, true
	case float64:
		return x > 0, true
	default:
		return false, false
	}
}

// ParseDefault coerces v like Parse but substitutes def for an
// undetermined value. Callers must treat the fallback as
// "not authoritative", not as a validated false.
func ParseDefault(v any, def bool) bool {
	if value, ok := Parse(v); ok {
		return value
	}
	return def
}
