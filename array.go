package kanon

import (
	"context"
	"strconv"
)

// ArraySchema is the chainable builder for []any schemas.
type ArraySchema struct{ handle }

// Array validates every element of a []any against elem.
func Array(elem Schema, message ...string) ArraySchema {
	if elem == nil {
		panic("kanon: nil array element schema")
	}
	n := newNode(KindArray, message)
	n.elem = elem.Node()
	return ArraySchema{handle{n}}
}

func (s ArraySchema) with(r Refinement) ArraySchema {
	return ArraySchema{handle{s.n.withRefinement(r)}}
}

func sliceOf(v any) []any {
	a, _ := v.([]any)
	return a
}

// Refine appends a predicate over the whole (possibly coerced) slice.
func (s ArraySchema) Refine(pred func([]any) bool, message ...string) ArraySchema {
	return s.with(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: messageOr(message, msg("custom")),
		test:    func(v any) bool { return pred(sliceOf(v)) },
	})
}

// Min requires at least n elements.
func (s ArraySchema) Min(n int, message ...string) ArraySchema {
	return s.with(Refinement{
		name:    "min",
		code:    CodeTooShort,
		message: messageOr(message, msg("too_short", "min", strconv.Itoa(n), "unit", "element(s)")),
		params:  map[string]any{"minItems": n},
		test:    func(v any) bool { return len(sliceOf(v)) >= n },
	})
}

// Max allows at most n elements.
func (s ArraySchema) Max(n int, message ...string) ArraySchema {
	return s.with(Refinement{
		name:    "max",
		code:    CodeTooLong,
		message: messageOr(message, msg("too_long", "max", strconv.Itoa(n), "unit", "element(s)")),
		params:  map[string]any{"maxItems": n},
		test:    func(v any) bool { return len(sliceOf(v)) <= n },
	})
}

// Length requires exactly n elements.
func (s ArraySchema) Length(n int, message ...string) ArraySchema {
	return s.with(Refinement{
		name:    "length",
		code:    CodeInvalidLength,
		message: messageOr(message, msg("exact_length", "length", strconv.Itoa(n), "unit", "element(s)")),
		params:  map[string]any{"minItems": n, "maxItems": n},
		test:    func(v any) bool { return len(sliceOf(v)) == n },
	})
}

// NonEmpty is Min(1).
func (s ArraySchema) NonEmpty(message ...string) ArraySchema { return s.Min(1, message...) }

// arrayShape validates each element in order. On the first coerced element
// the prefix is copied into a fresh slice; later elements are appended.
func arrayShape(ctx context.Context, n *Node, v any, elem runner) Result {
	a, ok := v.([]any)
	if !ok {
		return n.mismatch("array", v)
	}
	var out []any
	for i, x := range a {
		r := elem.run(ctx, x)
		if !r.OK() {
			return r.underIndex(i)
		}
		if r.IsCoerced() && out == nil {
			out = make([]any, i, len(a))
			copy(out, a[:i])
		}
		if out != nil {
			out = append(out, r.Output(x))
		}
	}
	if out != nil {
		return Coerced(out)
	}
	return Valid()
}

// Tuple validates a []any of exactly len(items) elements positionally.
func Tuple(items []Schema, message ...string) *Node {
	n := newNode(KindTuple, message)
	n.items = nodesOf(items)
	n.runners = runnersOf(n.items)
	return n
}

func tupleShape(ctx context.Context, n *Node, v any, items []runner) Result {
	a, ok := v.([]any)
	if !ok {
		return n.mismatch("array", v)
	}
	if len(a) != len(items) {
		return n.failWith(CodeInvalidLength, "invalid_length",
			"expected", strconv.Itoa(len(items)), "received", strconv.Itoa(len(a)))
	}
	var out []any
	for i, x := range a {
		r := items[i].run(ctx, x)
		if !r.OK() {
			return r.underIndex(i)
		}
		if r.IsCoerced() && out == nil {
			out = make([]any, i, len(a))
			copy(out, a[:i])
		}
		if out != nil {
			out = append(out, r.Output(x))
		}
	}
	if out != nil {
		return Coerced(out)
	}
	return Valid()
}
