package kanon

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strconv"
)

// MapSchema is the chainable builder for map[any]any schemas.
type MapSchema struct{ handle }

// SetSchema is the chainable builder for map[any]struct{} schemas.
type SetSchema struct{ handle }

// RecordSchema is the chainable builder for map[string]any schemas whose keys
// are all validated by one key schema.
type RecordSchema struct{ handle }

// Map validates every key of a map[any]any against key and every value
// against value.
func Map(key, value Schema, message ...string) MapSchema {
	n := newNode(KindMap, message)
	n.key, n.value = keyValue(key, value)
	return MapSchema{handle{n}}
}

// Set validates every member of a map[any]struct{} against elem.
func Set(elem Schema, message ...string) SetSchema {
	if elem == nil {
		panic("kanon: nil set element schema")
	}
	n := newNode(KindSet, message)
	n.elem = elem.Node()
	return SetSchema{handle{n}}
}

// Record validates a map[string]any whose keys match key and values match
// value.
func Record(key, value Schema, message ...string) RecordSchema {
	n := newNode(KindRecord, message)
	n.key, n.value = keyValue(key, value)
	return RecordSchema{handle{n}}
}

func keyValue(key, value Schema) (*Node, *Node) {
	if key == nil || value == nil {
		panic("kanon: nil key or value schema")
	}
	return key.Node(), value.Node()
}

// ---- size constraints ----

func sizeOf(v any) int {
	switch x := v.(type) {
	case map[any]any:
		return len(x)
	case map[any]struct{}:
		return len(x)
	case map[string]any:
		return len(x)
	}
	return 0
}

func minSize(n int, message []string) Refinement {
	return Refinement{
		name:    "minSize",
		code:    CodeTooShort,
		message: messageOr(message, msg("too_short", "min", strconv.Itoa(n), "unit", "entries")),
		params:  map[string]any{"minProperties": n},
		test:    func(v any) bool { return sizeOf(v) >= n },
	}
}

func maxSize(n int, message []string) Refinement {
	return Refinement{
		name:    "maxSize",
		code:    CodeTooLong,
		message: messageOr(message, msg("too_long", "max", strconv.Itoa(n), "unit", "entries")),
		params:  map[string]any{"maxProperties": n},
		test:    func(v any) bool { return sizeOf(v) <= n },
	}
}

func exactSize(n int, message []string) Refinement {
	return Refinement{
		name:    "size",
		code:    CodeInvalidLength,
		message: messageOr(message, msg("exact_length", "length", strconv.Itoa(n), "unit", "entries")),
		params:  map[string]any{"minProperties": n, "maxProperties": n},
		test:    func(v any) bool { return sizeOf(v) == n },
	}
}

func custom(test func(v any) bool, message []string) Refinement {
	return Refinement{name: "refine", code: CodeCustom, message: messageOr(message, msg("custom")), test: test}
}

// MinSize requires at least n entries.
func (s MapSchema) MinSize(n int, message ...string) MapSchema {
	return MapSchema{handle{s.n.withRefinement(minSize(n, message))}}
}

// MaxSize allows at most n entries.
func (s MapSchema) MaxSize(n int, message ...string) MapSchema {
	return MapSchema{handle{s.n.withRefinement(maxSize(n, message))}}
}

// Size requires exactly n entries.
func (s MapSchema) Size(n int, message ...string) MapSchema {
	return MapSchema{handle{s.n.withRefinement(exactSize(n, message))}}
}

// NonEmpty is MinSize(1).
func (s MapSchema) NonEmpty(message ...string) MapSchema { return s.MinSize(1, message...) }

// Refine appends a predicate over the whole (possibly coerced) map.
func (s MapSchema) Refine(pred func(map[any]any) bool, message ...string) MapSchema {
	return MapSchema{handle{s.n.withRefinement(custom(func(v any) bool {
		m, _ := v.(map[any]any)
		return pred(m)
	}, message))}}
}

func (s SetSchema) MinSize(n int, message ...string) SetSchema {
	return SetSchema{handle{s.n.withRefinement(minSize(n, message))}}
}

func (s SetSchema) MaxSize(n int, message ...string) SetSchema {
	return SetSchema{handle{s.n.withRefinement(maxSize(n, message))}}
}

func (s SetSchema) Size(n int, message ...string) SetSchema {
	return SetSchema{handle{s.n.withRefinement(exactSize(n, message))}}
}

func (s SetSchema) NonEmpty(message ...string) SetSchema { return s.MinSize(1, message...) }

// Refine appends a predicate over the whole (possibly coerced) set.
func (s SetSchema) Refine(pred func(map[any]struct{}) bool, message ...string) SetSchema {
	return SetSchema{handle{s.n.withRefinement(custom(func(v any) bool {
		m, _ := v.(map[any]struct{})
		return pred(m)
	}, message))}}
}

func (s RecordSchema) MinSize(n int, message ...string) RecordSchema {
	return RecordSchema{handle{s.n.withRefinement(minSize(n, message))}}
}

func (s RecordSchema) MaxSize(n int, message ...string) RecordSchema {
	return RecordSchema{handle{s.n.withRefinement(maxSize(n, message))}}
}

func (s RecordSchema) Size(n int, message ...string) RecordSchema {
	return RecordSchema{handle{s.n.withRefinement(exactSize(n, message))}}
}

func (s RecordSchema) NonEmpty(message ...string) RecordSchema { return s.MinSize(1, message...) }

// Refine appends a predicate over the whole (possibly coerced) record.
func (s RecordSchema) Refine(pred func(map[string]any) bool, message ...string) RecordSchema {
	return RecordSchema{handle{s.n.withRefinement(custom(func(v any) bool {
		m, _ := v.(map[string]any)
		return pred(m)
	}, message))}}
}

// ---- shapes ----

// Go map iteration order is random. The shapes below validate in iteration
// order and, once any entry fails, re-scan in sorted key order so the
// reported failure does not depend on the run.

func mapShape(ctx context.Context, n *Node, v any, key, value runner) Result {
	m, ok := v.(map[any]any)
	if !ok {
		return n.mismatch("map", v)
	}
	var out map[any]any
	for k, x := range m {
		kr := key.run(ctx, k)
		vr := Valid()
		if kr.OK() {
			vr = value.run(ctx, x)
		}
		if !kr.OK() || !vr.OK() {
			return firstEntryFailure(ctx, m, key, value)
		}
		if kr.IsCoerced() || vr.IsCoerced() {
			if out == nil {
				out = maps.Clone(m)
			}
			if kr.IsCoerced() {
				delete(out, k)
			}
			out[kr.Output(k)] = vr.Output(x)
		}
	}
	if out != nil {
		return Coerced(out)
	}
	return Valid()
}

func setShape(ctx context.Context, n *Node, v any, elem runner) Result {
	m, ok := v.(map[any]struct{})
	if !ok {
		return n.mismatch("set", v)
	}
	var out map[any]struct{}
	for k := range m {
		r := elem.run(ctx, k)
		if !r.OK() {
			for _, sk := range sortedKeys(m) {
				if r := elem.run(ctx, sk); !r.OK() {
					return r.under(formatValue(sk))
				}
			}
			return r.under(formatValue(k))
		}
		if r.IsCoerced() {
			if out == nil {
				out = maps.Clone(m)
			}
			delete(out, k)
			out[r.value] = struct{}{}
		}
	}
	if out != nil {
		return Coerced(out)
	}
	return Valid()
}

func recordShape(ctx context.Context, n *Node, v any, key, value runner) Result {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return n.mismatch("record", v)
	}
	var out map[string]any
	for k, x := range m {
		kr := Valid()
		if ok, handled := stringKeyOK(n.key, k); !handled {
			kr = key.run(ctx, k)
		} else if !ok {
			return firstRecordFailure(ctx, m, key, value)
		}
		vr := Valid()
		if kr.OK() {
			vr = value.run(ctx, x)
		}
		if !kr.OK() || !vr.OK() {
			return firstRecordFailure(ctx, m, key, value)
		}
		if kr.IsCoerced() || vr.IsCoerced() {
			if out == nil {
				out = cloneObject(m)
			}
			nk := k
			if kr.IsCoerced() {
				nk = formatValue(kr.value)
				delete(out, k)
			}
			out[nk] = vr.Output(x)
		}
	}
	if out != nil {
		return Coerced(out)
	}
	return Valid()
}

func firstEntryFailure(ctx context.Context, m map[any]any, key, value runner) Result {
	for _, k := range sortedKeys(m) {
		if r := key.run(ctx, k); !r.OK() {
			return r.under(formatValue(k))
		}
		if r := value.run(ctx, m[k]); !r.OK() {
			return r.under(formatValue(k))
		}
	}
	return Invalid(CodeCustom, msg("custom"))
}

// stringKeyOK checks a record key against key without converting it to an
// interface value, which would allocate per entry. handled is false when key
// needs the generic runner: anything other than a string or enum schema, or a
// string schema carrying a refinement that only works on interface values.
func stringKeyOK(key *Node, k string) (ok, handled bool) {
	switch key.kind {
	case KindString:
		for i := range key.refinements {
			if key.refinements[i].str == nil {
				return false, false
			}
		}
		for i := range key.refinements {
			if !key.refinements[i].str(k) {
				return false, true
			}
		}
		return true, true
	case KindEnum:
		if len(key.refinements) > 0 {
			return false, false
		}
		return slices.Contains(key.enum, k), true
	}
	return false, false
}

func firstRecordFailure(ctx context.Context, m map[string]any, key, value runner) Result {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if r := key.run(ctx, k); !r.OK() {
			return r.under(k)
		}
		if r := value.run(ctx, m[k]); !r.OK() {
			return r.under(k)
		}
	}
	return Invalid(CodeCustom, msg("custom"))
}

// sortedKeys orders keys numerically when both are numbers and by their
// rendered form otherwise.
func sortedKeys[V any](m map[any]V) []any {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b any) int {
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			return cmp.Compare(af, bf)
		}
		return cmp.Compare(formatValue(a), formatValue(b))
	})
	return keys
}
