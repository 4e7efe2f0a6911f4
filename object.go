package kanon

import (
	"context"
	"maps"
	"slices"
)

// ObjectSchema is the chainable builder for object schemas over
// map[string]any. Keys are validated in declaration order.
type ObjectSchema struct{ handle }

// Object builds an object schema from fields in declaration order. A later
// field with the same key replaces the earlier one in place.
func Object(fields ...Entry) ObjectSchema {
	return ObjectSchema{handle{newObject(KindObject, dedupe(fields), UnknownPassthrough, "", nil)}}
}

// ObjectWithMessage is Object with a custom type-mismatch message.
func ObjectWithMessage(message string, fields ...Entry) ObjectSchema {
	return ObjectSchema{handle{newObject(KindObject, dedupe(fields), UnknownPassthrough, message, nil)}}
}

func newObject(kind Kind, entries []Entry, unknown UnknownPolicy, message string, source *Node) *Node {
	n := &Node{kind: kind, message: message, entries: entries, unknown: unknown, source: source}
	n.index = make(map[string]int, len(entries))
	nodes := make([]*Node, len(entries))
	for i, e := range entries {
		n.index[e.key] = i
		nodes[i] = e.schema
	}
	n.runners = runnersOf(nodes)
	return n
}

func dedupe(fields []Entry) []Entry {
	out := make([]Entry, 0, len(fields))
	pos := make(map[string]int, len(fields))
	for _, f := range fields {
		if f.schema == nil {
			panic("kanon: nil schema for field " + f.key)
		}
		if i, ok := pos[f.key]; ok {
			out[i] = f
			continue
		}
		pos[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

// derive copies the object with a different unknown-key policy, keeping its
// refinements.
func (s ObjectSchema) derive(unknown UnknownPolicy) ObjectSchema {
	c := *s.n
	c.unknown = unknown
	return ObjectSchema{handle{&c}}
}

// Strict rejects keys the schema does not declare.
func (s ObjectSchema) Strict() ObjectSchema { return s.derive(UnknownStrict) }

// Strip removes undeclared keys from the output.
func (s ObjectSchema) Strip() ObjectSchema { return s.derive(UnknownStrip) }

// Passthrough keeps undeclared keys untouched (the default).
func (s ObjectSchema) Passthrough() ObjectSchema { return s.derive(UnknownPassthrough) }

// Refine appends a predicate over the whole (possibly coerced) object.
func (s ObjectSchema) Refine(pred func(map[string]any) bool, message ...string) ObjectSchema {
	return ObjectSchema{handle{s.n.withRefinement(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: messageOr(message, msg("custom")),
		test:    func(v any) bool { m, _ := v.(map[string]any); return pred(m) },
	})}}
}

// Extend returns a plain object with fields added or replaced. Refinements of
// s are not carried over.
func (s ObjectSchema) Extend(fields ...Entry) ObjectSchema {
	all := append(slices.Clone(s.n.entries), fields...)
	return ObjectSchema{handle{newObject(KindObject, dedupe(all), s.n.unknown, s.n.message, nil)}}
}

// Pick projects the schema onto keys. Unknown names are ignored.
func (s ObjectSchema) Pick(keys ...string) ObjectSchema {
	keep := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keep[k] = struct{}{}
	}
	var entries []Entry
	for _, e := range s.n.entries {
		if _, ok := keep[e.key]; ok {
			entries = append(entries, e)
		}
	}
	return ObjectSchema{handle{newObject(KindPick, entries, s.n.unknown, s.n.message, s.n)}}
}

// Omit projects the schema without keys; omitted keys are neither validated
// nor required.
func (s ObjectSchema) Omit(keys ...string) ObjectSchema {
	var entries []Entry
	for _, e := range s.n.entries {
		if !slices.Contains(keys, e.key) {
			entries = append(entries, e)
		}
	}
	return ObjectSchema{handle{newObject(KindOmit, entries, s.n.unknown, s.n.message, s.n)}}
}

// Partial makes keys optional, or every key when none are given.
func (s ObjectSchema) Partial(keys ...string) ObjectSchema {
	entries := make([]Entry, len(s.n.entries))
	for i, e := range s.n.entries {
		if len(keys) == 0 || slices.Contains(keys, e.key) {
			e = Entry{key: e.key, schema: Optional(e.schema)}
		}
		entries[i] = e
	}
	return ObjectSchema{handle{newObject(KindPartial, entries, s.n.unknown, s.n.message, s.n)}}
}

// objectShape validates map[string]any input against the entries of n. The
// input map is cloned at most once, on the first coerced child or stripped
// key; otherwise the input is accepted unchanged without allocation.
func objectShape(ctx context.Context, n *Node, v any, fields []runner) Result {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return n.mismatch("object", v)
	}
	var out map[string]any
	for i := range n.entries {
		key := n.entries[i].key
		val, present := m[key]
		if !present {
			val = Absent
		}
		r := fields[i].run(ctx, val)
		if !r.OK() {
			if !present {
				return missingField(n.entries[i].schema).under(key)
			}
			return r.under(key)
		}
		if r.IsCoerced() {
			if out == nil {
				out = cloneObject(m)
			}
			out[key] = r.value
		}
	}
	switch n.unknown {
	case UnknownStrict:
		if k, found := firstUnknown(n, m); found {
			return Invalid(CodeUnknownKey, msg("unknown_key", "key", k)).under(k)
		}
	case UnknownStrip:
		for k := range m {
			if _, known := n.index[k]; known {
				continue
			}
			if out == nil {
				out = cloneObject(m)
			}
			delete(out, k)
		}
	}
	if out != nil {
		return Coerced(out)
	}
	return Valid()
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	maps.Copy(out, m)
	return out
}

func missingField(child *Node) Result {
	if child.message != "" {
		return Invalid(CodeRequired, child.message)
	}
	return Invalid(CodeRequired, msg("required"))
}

// firstUnknown reports the smallest undeclared key of m. The scan allocates
// only once an unknown key exists.
func firstUnknown(n *Node, m map[string]any) (string, bool) {
	var unknown []string
	for k := range m {
		if _, known := n.index[k]; !known {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return "", false
	}
	return slices.Min(unknown), true
}
