package kanon

import "context"

// Compiled is a schema whose kind dispatch was resolved once by Compile. It
// produces the same results as the schema it was built from.
type Compiled struct {
	src       *Node
	root      runner
	fallbacks int
}

// compiledFunc is a specialized validator for one node.
type compiledFunc func(ctx context.Context, v any) Result

func (f compiledFunc) run(ctx context.Context, v any) Result { return f(ctx, v) }

// Compile walks s once and returns a validator with every dispatch decision
// made up front: leaves are bound to their check function, objects to a
// flat slice of field validators, collections to their element validators.
// Nodes that cannot be specialized (lazy) keep using the interpreter; see
// Fallbacks.
func Compile(s Schema) *Compiled {
	if s == nil {
		panic("kanon: nil schema")
	}
	if c, ok := s.(*Compiled); ok {
		return c
	}
	cc := &compiler{memo: make(map[*Node]runner)}
	src := s.Node()
	return &Compiled{src: src, root: cc.compile(src), fallbacks: cc.fallbacks}
}

// Node returns the schema the validator was compiled from.
func (c *Compiled) Node() *Node { return c.src }

// Validate checks v and returns the verdict.
func (c *Compiled) Validate(v any) Result { return c.root.run(context.Background(), v) }

// ValidateContext is Validate with ctx handed to context-aware refinements.
func (c *Compiled) ValidateContext(ctx context.Context, v any) Result { return c.root.run(ctx, v) }

// Fallbacks reports how many nodes are validated by the interpreter.
func (c *Compiled) Fallbacks() int { return c.fallbacks }

type compiler struct {
	memo      map[*Node]runner
	fallbacks int
}

func (c *compiler) compile(n *Node) runner {
	if r, ok := c.memo[n]; ok {
		return r
	}
	var f compiledFunc
	switch n.kind {
	case KindObject, KindPick, KindOmit, KindPartial:
		fields := c.all(n.entrySchemas())
		f = func(ctx context.Context, v any) Result { return objectShape(ctx, n, v, fields) }
	case KindArray:
		elem := c.compile(n.elem)
		f = func(ctx context.Context, v any) Result { return arrayShape(ctx, n, v, elem) }
	case KindTuple:
		items := c.all(n.items)
		f = func(ctx context.Context, v any) Result { return tupleShape(ctx, n, v, items) }
	case KindMap:
		key, value := c.compile(n.key), c.compile(n.value)
		f = func(ctx context.Context, v any) Result { return mapShape(ctx, n, v, key, value) }
	case KindSet:
		elem := c.compile(n.elem)
		f = func(ctx context.Context, v any) Result { return setShape(ctx, n, v, elem) }
	case KindRecord:
		key, value := c.compile(n.key), c.compile(n.value)
		f = func(ctx context.Context, v any) Result { return recordShape(ctx, n, v, key, value) }
	case KindUnion:
		options := c.all(n.options)
		f = func(ctx context.Context, v any) Result { return unionShape(ctx, n, v, options) }
	case KindOptional:
		elem := c.compile(n.elem)
		f = func(ctx context.Context, v any) Result { return optionalShape(ctx, v, elem) }
	case KindNullable:
		elem := c.compile(n.elem)
		f = func(ctx context.Context, v any) Result { return nullableShape(ctx, v, elem) }
	case KindCustom:
		fn := n.custom
		f = func(_ context.Context, v any) Result { return fn(v) }
	default:
		check := leafCheck(n)
		if check == nil {
			c.fallbacks++
			c.memo[n] = n
			return n
		}
		f = func(_ context.Context, v any) Result { return check(n, v) }
	}
	if len(n.refinements) > 0 {
		base := f
		f = func(ctx context.Context, v any) Result {
			r := base(ctx, v)
			if !r.OK() {
				return r
			}
			return n.refine(ctx, r, v)
		}
	}
	c.memo[n] = f
	return f
}

func (c *compiler) all(nodes []*Node) []runner {
	out := make([]runner, len(nodes))
	for i, n := range nodes {
		out[i] = c.compile(n)
	}
	return out
}

// entrySchemas returns the entry schemas of an object-like node in order.
func (n *Node) entrySchemas() []*Node {
	out := make([]*Node, len(n.entries))
	for i, e := range n.entries {
		out[i] = e.schema
	}
	return out
}

// leafCheck selects the check for leaf kinds, or nil when the kind has no
// specialized form.
func leafCheck(n *Node) func(*Node, any) Result {
	switch n.kind {
	case KindString:
		if n.coerce {
			return coerceString
		}
		return checkString
	case KindNumber:
		if n.coerce {
			return coerceNumber
		}
		return checkNumber
	case KindBoolean:
		if n.coerce {
			return coerceBoolean
		}
		return checkBoolean
	case KindBigInt:
		if n.coerce {
			return coerceBigInt
		}
		return checkBigInt
	case KindDate:
		if n.coerce {
			return coerceDate
		}
		return checkDate
	case KindSymbol:
		return checkSymbol
	case KindLiteral:
		return checkLiteral
	case KindEnum:
		return checkEnum
	case KindNull:
		return checkNull
	case KindUndefined, KindVoid:
		return checkUndefined
	case KindAny, KindUnknown:
		return acceptAll
	case KindNever:
		return checkNever
	}
	return nil
}

func acceptAll(*Node, any) Result { return Valid() }
