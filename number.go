package kanon

import (
	"math"
	"strconv"
)

// NumberSchema is the chainable builder for number schemas.
type NumberSchema struct{ handle }

func (s NumberSchema) with(r Refinement) NumberSchema {
	return NumberSchema{handle{s.n.withRefinement(r)}}
}

// Refine appends a custom predicate over the float64 view of the value.
func (s NumberSchema) Refine(pred func(float64) bool, message ...string) NumberSchema {
	return s.with(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: messageOr(message, msg("custom")),
		test:    func(v any) bool { f, _ := toFloat(v); return pred(f) },
	})
}

// Min requires v >= min.
func (s NumberSchema) Min(min float64, message ...string) NumberSchema {
	return s.bound("min", min, true, true, message)
}

// Max requires v <= max.
func (s NumberSchema) Max(max float64, message ...string) NumberSchema {
	return s.bound("max", max, false, true, message)
}

// Gt requires v > min.
func (s NumberSchema) Gt(min float64, message ...string) NumberSchema {
	return s.bound("gt", min, true, false, message)
}

// Lt requires v < max.
func (s NumberSchema) Lt(max float64, message ...string) NumberSchema {
	return s.bound("lt", max, false, false, message)
}

// Positive requires v > 0.
func (s NumberSchema) Positive(message ...string) NumberSchema { return s.bound("positive", 0, true, false, message) }

// Negative requires v < 0.
func (s NumberSchema) Negative(message ...string) NumberSchema { return s.bound("negative", 0, false, false, message) }

// NonNegative requires v >= 0.
func (s NumberSchema) NonNegative(message ...string) NumberSchema {
	return s.bound("nonnegative", 0, true, true, message)
}

// NonPositive requires v <= 0.
func (s NumberSchema) NonPositive(message ...string) NumberSchema {
	return s.bound("nonpositive", 0, false, true, message)
}

func (s NumberSchema) bound(name string, limit float64, lower, inclusive bool, message []string) NumberSchema {
	lim := formatFloat(limit)
	incl := strconv.FormatBool(inclusive)
	r := Refinement{name: name}
	switch {
	case lower && inclusive:
		r.code, r.params = CodeTooSmall, map[string]any{"minimum": limit}
		r.message = messageOr(message, msg("too_small", "min", lim, "inclusive", incl))
		r.test = func(v any) bool { f, _ := toFloat(v); return f >= limit }
	case lower:
		r.code, r.params = CodeTooSmall, map[string]any{"exclusiveMinimum": limit}
		r.message = messageOr(message, msg("too_small", "min", lim, "inclusive", incl))
		r.test = func(v any) bool { f, _ := toFloat(v); return f > limit }
	case inclusive:
		r.code, r.params = CodeTooBig, map[string]any{"maximum": limit}
		r.message = messageOr(message, msg("too_big", "max", lim, "inclusive", incl))
		r.test = func(v any) bool { f, _ := toFloat(v); return f <= limit }
	default:
		r.code, r.params = CodeTooBig, map[string]any{"exclusiveMaximum": limit}
		r.message = messageOr(message, msg("too_big", "max", lim, "inclusive", incl))
		r.test = func(v any) bool { f, _ := toFloat(v); return f < limit }
	}
	return s.with(r)
}

// Int requires an integral value.
func (s NumberSchema) Int(message ...string) NumberSchema {
	return s.with(Refinement{
		name:    "int",
		code:    CodeNotInteger,
		message: messageOr(message, msg("not_integer")),
		params:  map[string]any{"type": "integer"},
		test: func(v any) bool {
			f, _ := toFloat(v)
			return !math.IsInf(f, 0) && f == math.Trunc(f)
		},
	})
}

// Finite rejects ±Inf.
func (s NumberSchema) Finite(message ...string) NumberSchema {
	return s.with(Refinement{
		name:    "finite",
		code:    CodeNotFinite,
		message: messageOr(message, msg("not_finite")),
		test:    func(v any) bool { f, _ := toFloat(v); return !math.IsInf(f, 0) },
	})
}

// MultipleOf requires v to be an integer multiple of step.
func (s NumberSchema) MultipleOf(step float64, message ...string) NumberSchema {
	if step == 0 {
		panic("kanon: multipleOf step must be non-zero")
	}
	return s.with(Refinement{
		name:    "multipleOf",
		code:    CodeNotMultipleOf,
		message: messageOr(message, msg("not_multiple_of", "multipleOf", formatFloat(step))),
		params:  map[string]any{"multipleOf": step},
		test: func(v any) bool {
			f, _ := toFloat(v)
			q := f / step
			return math.Abs(q-math.Round(q)) < 1e-9
		},
	})
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
