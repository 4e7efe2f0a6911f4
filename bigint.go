package kanon

import "math/big"

// BigIntSchema is the chainable builder for *big.Int schemas.
type BigIntSchema struct{ handle }

func (s BigIntSchema) with(r Refinement) BigIntSchema {
	return BigIntSchema{handle{s.n.withRefinement(r)}}
}

func bigOf(v any) *big.Int {
	b, _ := v.(*big.Int)
	if b == nil {
		return new(big.Int)
	}
	return b
}

// Refine appends a custom predicate.
func (s BigIntSchema) Refine(pred func(*big.Int) bool, message ...string) BigIntSchema {
	return s.with(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: messageOr(message, msg("custom")),
		test:    func(v any) bool { return pred(bigOf(v)) },
	})
}

// Min requires v >= min.
func (s BigIntSchema) Min(min *big.Int, message ...string) BigIntSchema {
	lim := new(big.Int).Set(min)
	return s.with(Refinement{
		name:    "min",
		code:    CodeTooSmall,
		message: messageOr(message, msg("too_small", "min", lim.String(), "inclusive", "true")),
		params:  map[string]any{"minimum": lim.String()},
		test:    func(v any) bool { return bigOf(v).Cmp(lim) >= 0 },
	})
}

// Max requires v <= max.
func (s BigIntSchema) Max(max *big.Int, message ...string) BigIntSchema {
	lim := new(big.Int).Set(max)
	return s.with(Refinement{
		name:    "max",
		code:    CodeTooBig,
		message: messageOr(message, msg("too_big", "max", lim.String(), "inclusive", "true")),
		params:  map[string]any{"maximum": lim.String()},
		test:    func(v any) bool { return bigOf(v).Cmp(lim) <= 0 },
	})
}

// Positive requires v > 0.
func (s BigIntSchema) Positive(message ...string) BigIntSchema {
	return s.with(Refinement{
		name:    "positive",
		code:    CodeTooSmall,
		message: messageOr(message, msg("too_small", "min", "0")),
		test:    func(v any) bool { return bigOf(v).Sign() > 0 },
	})
}

// Negative requires v < 0.
func (s BigIntSchema) Negative(message ...string) BigIntSchema {
	return s.with(Refinement{
		name:    "negative",
		code:    CodeTooBig,
		message: messageOr(message, msg("too_big", "max", "0")),
		test:    func(v any) bool { return bigOf(v).Sign() < 0 },
	})
}

// NonNegative requires v >= 0.
func (s BigIntSchema) NonNegative(message ...string) BigIntSchema {
	return s.with(Refinement{
		name:    "nonnegative",
		code:    CodeTooSmall,
		message: messageOr(message, msg("too_small", "min", "0", "inclusive", "true")),
		test:    func(v any) bool { return bigOf(v).Sign() >= 0 },
	})
}

// MultipleOf requires v mod step == 0.
func (s BigIntSchema) MultipleOf(step *big.Int, message ...string) BigIntSchema {
	if step == nil || step.Sign() == 0 {
		panic("kanon: multipleOf step must be non-zero")
	}
	st := new(big.Int).Set(step)
	return s.with(Refinement{
		name:    "multipleOf",
		code:    CodeNotMultipleOf,
		message: messageOr(message, msg("not_multiple_of", "multipleOf", st.String())),
		test:    func(v any) bool { return new(big.Int).Rem(bigOf(v), st).Sign() == 0 },
	})
}
