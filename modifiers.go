package kanon

import "context"

// Union accepts the first option, in declared order, that validates v. The
// winning option's result is returned as is, coercion included. Options are
// not ranked; put the most specific first.
func Union(options []Schema, message ...string) *Node {
	if len(options) == 0 {
		panic("kanon: union requires at least one option")
	}
	n := newNode(KindUnion, message)
	n.options = nodesOf(options)
	n.runners = runnersOf(n.options)
	n.names = describe(n.options)
	return n
}

func unionShape(ctx context.Context, n *Node, v any, options []runner) Result {
	for _, o := range options {
		if r := o.run(ctx, v); r.OK() {
			return r
		}
	}
	return n.failWith(CodeInvalidUnion, "invalid_union", "options", n.names)
}

// Optional additionally accepts Absent, which makes an object key omittable.
func Optional(s Schema) *Node {
	if s == nil {
		panic("kanon: nil schema")
	}
	return &Node{kind: KindOptional, elem: s.Node()}
}

// Nullable additionally accepts nil.
func Nullable(s Schema) *Node {
	if s == nil {
		panic("kanon: nil schema")
	}
	return &Node{kind: KindNullable, elem: s.Node()}
}

func optionalShape(ctx context.Context, v any, elem runner) Result {
	if v == Absent {
		return Valid()
	}
	return elem.run(ctx, v)
}

func nullableShape(ctx context.Context, v any, elem runner) Result {
	if v == nil {
		return Valid()
	}
	return elem.run(ctx, v)
}

// Lazy defers schema construction to validation time so a schema can refer
// to itself. get is called on every validation and must return the same
// schema each time.
func Lazy(get func() Schema) *Node {
	if get == nil {
		panic("kanon: nil lazy getter")
	}
	return &Node{kind: KindLazy, lazy: get}
}

// Custom wraps a user validator that speaks Result directly. A non-empty
// message replaces the message of any failure fn reports.
func Custom(fn func(v any) Result, message ...string) *Node {
	if fn == nil {
		panic("kanon: nil custom validator")
	}
	n := newNode(KindCustom, message)
	n.custom = fn
	if n.message != "" {
		m := n.message
		n.custom = func(v any) Result {
			r := fn(v)
			if r.OK() {
				return r
			}
			return Invalid(r.Code(), m)
		}
	}
	return n
}

// Refine appends pred to any schema. The typed Refine methods of the family
// builders are usually more convenient.
func Refine(s Schema, pred func(v any) bool, message ...string) *Node {
	if s == nil {
		panic("kanon: nil schema")
	}
	return s.Node().withRefinement(custom(pred, message))
}

// RefineContext appends a refinement that receives the validation context.
// A nil error passes; otherwise the failure message is message, or the
// error text when message is empty.
func RefineContext(s Schema, fn func(ctx context.Context, v any) error, message ...string) *Node {
	if s == nil {
		panic("kanon: nil schema")
	}
	return s.Node().withRefinement(Refinement{
		name:    "refine",
		code:    CodeCustom,
		message: firstMessage(message),
		testCtx: fn,
	})
}
