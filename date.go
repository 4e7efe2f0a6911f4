package kanon

import "time"

// DateSchema is the chainable builder for time.Time schemas.
type DateSchema struct{ handle }

func (s DateSchema) with(r Refinement) DateSchema {
	return DateSchema{handle{s.n.withRefinement(r)}}
}

func timeOf(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

// Refine appends a custom predicate.
func (s DateSchema) Refine(pred func(time.Time) bool, message ...string) DateSchema {
	return s.with(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: messageOr(message, msg("custom")),
		test:    func(v any) bool { return pred(timeOf(v)) },
	})
}

// Min requires v not before min.
func (s DateSchema) Min(min time.Time, message ...string) DateSchema {
	return s.with(Refinement{
		name:    "min",
		code:    CodeTooSmall,
		message: messageOr(message, msg("date_too_early", "min", min.Format(time.RFC3339Nano))),
		test:    func(v any) bool { return !timeOf(v).Before(min) },
	})
}

// Max requires v not after max.
func (s DateSchema) Max(max time.Time, message ...string) DateSchema {
	return s.with(Refinement{
		name:    "max",
		code:    CodeTooBig,
		message: messageOr(message, msg("date_too_late", "max", max.Format(time.RFC3339Nano))),
		test:    func(v any) bool { return !timeOf(v).After(max) },
	})
}
