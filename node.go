package kanon

import (
	"context"
	"slices"
	"strings"
)

// Schema is satisfied by every schema value: *Node, the family builders
// (StringSchema, ObjectSchema, ...) and *Compiled.
type Schema interface {
	// Node returns the immutable description backing the schema.
	Node() *Node
	// Validate checks v and returns the verdict.
	Validate(v any) Result
	// ValidateContext is Validate with ctx handed to context-aware refinements.
	ValidateContext(ctx context.Context, v any) Result
}

// runner is the internal validation contract shared by interpreted nodes and
// compiled closures.
type runner interface {
	run(ctx context.Context, v any) Result
}

// Node is an immutable schema description plus its validation semantics.
// Nodes are never modified after construction; every derivation returns a new
// Node that shares children with its source.
type Node struct {
	kind        Kind
	message     string
	coerce      bool
	refinements []Refinement

	entries []Entry          // object, pick, omit, partial
	index   map[string]int   // entry position by key
	unknown UnknownPolicy    // object-like kinds
	source  *Node            // pick/omit/partial: projected object
	elem    *Node            // array, set, optional, nullable
	key     *Node            // map, record
	value   *Node            // map, record
	items   []*Node          // tuple
	options []*Node          // union
	runners []runner         // entries/items/options as runners, same order
	literal any              // literal
	enum    []string         // enum
	lazy    func() Schema    // lazy
	custom  func(any) Result // custom
	names   string           // union: "a | b" for failure messages
}

// Entry is a named child of an object schema.
type Entry struct {
	key    string
	schema *Node
}

// Field pairs key with schema for Object and Extend.
func Field(key string, s Schema) Entry {
	if s == nil {
		panic("kanon: nil schema for field " + key)
	}
	return Entry{key: key, schema: s.Node()}
}

// Key returns the property name.
func (e Entry) Key() string { return e.key }

// Schema returns the property schema.
func (e Entry) Schema() *Node { return e.schema }

// Refinement is a predicate applied after the base check succeeded.
type Refinement struct {
	name    string
	code    string
	message string
	params  map[string]any
	test    func(v any) bool
	testCtx func(ctx context.Context, v any) error
	str     func(s string) bool // string refinements only; same predicate as test
}

// Name identifies the refinement ("min", "email", "refine", ...).
func (r Refinement) Name() string { return r.name }

// Code is the issue code reported on failure.
func (r Refinement) Code() string { return r.code }

// Message is the failure message.
func (r Refinement) Message() string { return r.message }

// Params returns constraint parameters keyed by their JSON Schema keyword.
func (r Refinement) Params() map[string]any { return r.params }

func (r *Refinement) check(ctx context.Context, v any) Result {
	if r.test != nil {
		if !r.test(v) {
			return Invalid(r.code, r.message)
		}
		return Valid()
	}
	if err := r.testCtx(ctx, v); err != nil {
		m := r.message
		if m == "" {
			m = err.Error()
		}
		return Invalid(r.code, m)
	}
	return Valid()
}

// ---- accessors ----

func (n *Node) Node() *Node { return n }

// Kind returns the discriminant.
func (n *Node) Kind() Kind { return n.kind }

// Message returns the custom failure message, or "" for the default.
func (n *Node) Message() string { return n.message }

// Coerces reports whether the node converts mismatched input instead of
// rejecting it.
func (n *Node) Coerces() bool { return n.coerce }

// Refinements returns a copy of the refinement chain in application order.
func (n *Node) Refinements() []Refinement { return slices.Clone(n.refinements) }

// Entries returns a copy of the object entries in declaration order.
func (n *Node) Entries() []Entry { return slices.Clone(n.entries) }

// Unknown returns the unknown-key policy of object-like nodes.
func (n *Node) Unknown() UnknownPolicy { return n.unknown }

// Source returns the object a pick/omit/partial node projects.
func (n *Node) Source() *Node { return n.source }

// Element returns the element schema of arrays and sets, or the inner schema
// of optional and nullable nodes.
func (n *Node) Element() *Node { return n.elem }

// Key returns the key schema of maps and records.
func (n *Node) Key() *Node { return n.key }

// Value returns the value schema of maps and records.
func (n *Node) Value() *Node { return n.value }

// Items returns a copy of the tuple item schemas.
func (n *Node) Items() []*Node { return slices.Clone(n.items) }

// Options returns a copy of the union options in declared order.
func (n *Node) Options() []*Node { return slices.Clone(n.options) }

// Literal returns the expected value of literal nodes.
func (n *Node) Literal() any { return n.literal }

// EnumValues returns a copy of the members of enum nodes.
func (n *Node) EnumValues() []string { return slices.Clone(n.enum) }

// Resolve returns the target of a lazy node, or n itself.
func (n *Node) Resolve() *Node {
	for n.kind == KindLazy {
		n = n.lazy().Node()
	}
	return n
}

// ---- validation ----

// Validate checks v and returns the verdict.
func (n *Node) Validate(v any) Result { return n.run(context.Background(), v) }

// ValidateContext is Validate with ctx handed to context-aware refinements.
func (n *Node) ValidateContext(ctx context.Context, v any) Result { return n.run(ctx, v) }

func (n *Node) run(ctx context.Context, v any) Result {
	r := n.base(ctx, v)
	if len(n.refinements) == 0 || !r.OK() {
		return r
	}
	return n.refine(ctx, r, v)
}

// refine runs the refinement chain on the possibly coerced value of a
// successful base result; the first failure wins.
func (n *Node) refine(ctx context.Context, r Result, v any) Result {
	out := r.Output(v)
	for i := range n.refinements {
		if f := n.refinements[i].check(ctx, out); !f.OK() {
			return f
		}
	}
	return r
}

// base is the type/shape check without refinements.
func (n *Node) base(ctx context.Context, v any) Result {
	switch n.kind {
	case KindString:
		if n.coerce {
			return coerceString(n, v)
		}
		return checkString(n, v)
	case KindNumber:
		if n.coerce {
			return coerceNumber(n, v)
		}
		return checkNumber(n, v)
	case KindBoolean:
		if n.coerce {
			return coerceBoolean(n, v)
		}
		return checkBoolean(n, v)
	case KindBigInt:
		if n.coerce {
			return coerceBigInt(n, v)
		}
		return checkBigInt(n, v)
	case KindDate:
		if n.coerce {
			return coerceDate(n, v)
		}
		return checkDate(n, v)
	case KindSymbol:
		return checkSymbol(n, v)
	case KindLiteral:
		return checkLiteral(n, v)
	case KindEnum:
		return checkEnum(n, v)
	case KindNull:
		return checkNull(n, v)
	case KindUndefined, KindVoid:
		return checkUndefined(n, v)
	case KindAny, KindUnknown:
		return Valid()
	case KindNever:
		return checkNever(n, v)
	case KindObject, KindPick, KindOmit, KindPartial:
		return objectShape(ctx, n, v, n.runners)
	case KindArray:
		return arrayShape(ctx, n, v, n.elem)
	case KindTuple:
		return tupleShape(ctx, n, v, n.runners)
	case KindMap:
		return mapShape(ctx, n, v, n.key, n.value)
	case KindSet:
		return setShape(ctx, n, v, n.elem)
	case KindRecord:
		return recordShape(ctx, n, v, n.key, n.value)
	case KindUnion:
		return unionShape(ctx, n, v, n.runners)
	case KindOptional:
		return optionalShape(ctx, v, n.elem)
	case KindNullable:
		return nullableShape(ctx, v, n.elem)
	case KindLazy:
		return n.lazy().Node().run(ctx, v)
	case KindCustom:
		return n.custom(v)
	}
	return Invalid(CodeInvalidType, "unsupported schema kind "+n.kind.String())
}

// mismatch is the type-mismatch failure of n, honoring its custom message.
func (n *Node) mismatch(expected string, v any) Result {
	if n.message != "" {
		return Invalid(CodeInvalidType, n.message)
	}
	return Invalid(CodeInvalidType, msg("invalid_type", "expected", expected, "received", typeName(v)))
}

// failWith returns a failure of code using the custom message or the default
// template key with kv parameters.
func (n *Node) failWith(code, key string, kv ...string) Result {
	if n.message != "" {
		return Invalid(code, n.message)
	}
	return Invalid(code, msg(key, kv...))
}

// ---- construction helpers ----

func newNode(kind Kind, message []string) *Node {
	return &Node{kind: kind, message: firstMessage(message)}
}

func firstMessage(message []string) string {
	if len(message) > 0 {
		return message[0]
	}
	return ""
}

// messageOr returns the caller's message when given, otherwise def.
func messageOr(message []string, def string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return def
}

// withRefinement derives a node with r appended to the chain. The source
// slice is clipped so the two nodes never share a backing array tail.
func (n *Node) withRefinement(r Refinement) *Node {
	c := *n
	c.refinements = append(slices.Clip(n.refinements), r)
	return &c
}

func nodesOf(schemas []Schema) []*Node {
	out := make([]*Node, len(schemas))
	for i, s := range schemas {
		if s == nil {
			panic("kanon: nil schema")
		}
		out[i] = s.Node()
	}
	return out
}

func runnersOf(nodes []*Node) []runner {
	out := make([]runner, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func describe(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.describe()
	}
	return strings.Join(parts, " | ")
}

// describe names the node in union failure messages.
func (n *Node) describe() string {
	switch n.kind {
	case KindLiteral:
		return quoteValue(n.literal)
	case KindEnum:
		return strings.Join(n.enum, " | ")
	case KindPick, KindOmit, KindPartial:
		return "object"
	case KindOptional:
		return n.elem.describe() + " | undefined"
	case KindNullable:
		return n.elem.describe() + " | null"
	case KindUnion:
		return n.names
	}
	return n.kind.String()
}

// handle embeds the node in family builders.
type handle struct{ n *Node }

func (h handle) Node() *Node                                        { return h.n }
func (h handle) Validate(v any) Result                              { return h.n.run(context.Background(), v) }
func (h handle) ValidateContext(ctx context.Context, v any) Result { return h.n.run(ctx, v) }
