package schemadef

import (
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/reoring/kanon"
	"gopkg.in/yaml.v3"
)

// structural keys hold child schema nodes rather than options.
var structuralKeys = []string{"fields", "items", "options", "key", "value", "definitions"}

type node struct {
	path  string
	spec  nodeSpec
	child map[string]*yaml.Node
}

// take hands out a structural child once; leftovers are reported as unused.
func (n *node) take(key string) *yaml.Node {
	c := n.child[key]
	delete(n.child, key)
	return resolve(c)
}

func (l *loader) build(path string, yn *yaml.Node) (kanon.Schema, error) {
	yn = resolve(yn)
	if yn == nil {
		return nil, fmt.Errorf("schemadef: %s: missing schema", path)
	}
	n, err := l.parse(path, yn)
	if err != nil {
		return nil, err
	}
	s, err := l.base(n)
	if err != nil {
		return nil, err
	}
	if path == "$" {
		delete(n.child, "definitions")
	}
	for k := range n.child {
		l.d.warnf("%s: %q is not used by type %s", path, k, n.spec.Type)
	}
	s, err = l.checks(n, s)
	if err != nil {
		return nil, err
	}
	if n.spec.Nullable {
		s = kanon.Nullable(s)
	}
	if n.spec.Optional {
		s = kanon.Optional(s)
	}
	return s, nil
}

// parse splits a node into decoded options and structural children.
func (l *loader) parse(path string, yn *yaml.Node) (*node, error) {
	n := &node{path: path, child: map[string]*yaml.Node{}}
	if yn.Kind == yaml.ScalarNode {
		n.spec.Type = yn.Value
		return n, nil
	}
	ps, err := pairs(path, yn)
	if err != nil {
		return nil, fmt.Errorf("schemadef: %w", err)
	}
	raw := make(map[string]any, len(ps))
	for _, p := range ps {
		if slices.Contains(structuralKeys, p.key) {
			n.child[p.key] = p.value
			continue
		}
		var v any
		if err := p.value.Decode(&v); err != nil {
			return nil, fmt.Errorf("schemadef: %s.%s: %w", path, p.key, err)
		}
		raw[p.key] = v
	}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &n.spec,
		Metadata:    &md,
		ErrorUnused: l.opts.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("schemadef: %s: %w", path, err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("schemadef: %s: %w", path, err)
	}
	slices.Sort(md.Unused)
	for _, k := range md.Unused {
		l.d.warnf("%s: unknown option %q ignored", path, k)
	}
	if n.spec.Type == "" {
		return nil, fmt.Errorf("schemadef: %s: missing type", path)
	}
	return n, nil
}

func messages(n *node) []string {
	if n.spec.Message == "" {
		return nil
	}
	return []string{n.spec.Message}
}

func (l *loader) base(n *node) (kanon.Schema, error) {
	msgs := messages(n)
	switch n.spec.Type {
	case "string":
		return l.stringSchema(n)
	case "number", "integer":
		return l.numberSchema(n), nil
	case "boolean":
		if n.spec.Coerce {
			return kanon.CoerceBoolean(msgs...), nil
		}
		return kanon.Boolean(msgs...), nil
	case "bigint":
		return l.bigIntSchema(n), nil
	case "date":
		return l.dateSchema(n)
	case "null":
		return kanon.Null(msgs...), nil
	case "undefined":
		return kanon.Undefined(msgs...), nil
	case "any":
		return kanon.Any(msgs...), nil
	case "unknown":
		return kanon.Unknown(msgs...), nil
	case "never":
		return kanon.Never(msgs...), nil
	case "literal":
		switch n.spec.Literal.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("schemadef: %s: literal must be a scalar", n.path)
		}
		return kanon.Literal(n.spec.Literal, msgs...), nil
	case "enum":
		if len(n.spec.Values) == 0 {
			return nil, fmt.Errorf("schemadef: %s: enum needs values", n.path)
		}
		return kanon.Enum(n.spec.Values, msgs...), nil
	case "object":
		return l.objectSchema(n)
	case "array":
		elem, err := l.required(n, "items")
		if err != nil {
			return nil, err
		}
		a := kanon.Array(elem, msgs...)
		if v := n.spec.Min; v != nil {
			a = a.Min(int(*v))
		}
		if v := n.spec.Max; v != nil {
			a = a.Max(int(*v))
		}
		if v := n.spec.Length; v != nil {
			a = a.Length(*v)
		}
		return a, nil
	case "tuple":
		items, err := l.list(n, "items")
		if err != nil {
			return nil, err
		}
		return kanon.Tuple(items, msgs...), nil
	case "union":
		options, err := l.list(n, "options")
		if err != nil {
			return nil, err
		}
		if len(options) == 0 {
			return nil, fmt.Errorf("schemadef: %s: union needs options", n.path)
		}
		return kanon.Union(options, msgs...), nil
	case "set":
		elem, err := l.required(n, "items")
		if err != nil {
			return nil, err
		}
		s := kanon.Set(elem, msgs...)
		if v := n.spec.MinSize; v != nil {
			s = s.MinSize(*v)
		}
		if v := n.spec.MaxSize; v != nil {
			s = s.MaxSize(*v)
		}
		if v := n.spec.Size; v != nil {
			s = s.Size(*v)
		}
		return s, nil
	case "map":
		key, value, err := l.keyValue(n)
		if err != nil {
			return nil, err
		}
		m := kanon.Map(key, value, msgs...)
		if v := n.spec.MinSize; v != nil {
			m = m.MinSize(*v)
		}
		if v := n.spec.MaxSize; v != nil {
			m = m.MaxSize(*v)
		}
		if v := n.spec.Size; v != nil {
			m = m.Size(*v)
		}
		return m, nil
	case "record":
		key, value, err := l.keyValue(n)
		if err != nil {
			return nil, err
		}
		r := kanon.Record(key, value, msgs...)
		if v := n.spec.MinSize; v != nil {
			r = r.MinSize(*v)
		}
		if v := n.spec.MaxSize; v != nil {
			r = r.MaxSize(*v)
		}
		if v := n.spec.Size; v != nil {
			r = r.Size(*v)
		}
		return r, nil
	case "ref":
		name := n.spec.Ref
		if _, ok := l.defs[name]; !ok {
			return nil, fmt.Errorf("schemadef: %s: unknown definition %q", n.path, name)
		}
		return kanon.Lazy(func() kanon.Schema { return l.built[name] }), nil
	}
	return nil, fmt.Errorf("schemadef: %s: unknown type %q", n.path, n.spec.Type)
}

func (l *loader) stringSchema(n *node) (kanon.Schema, error) {
	sp := n.spec
	s := kanon.String(messages(n)...)
	if sp.Coerce {
		s = kanon.CoerceString(messages(n)...)
	}
	if sp.Min != nil {
		s = s.Min(int(*sp.Min))
	}
	if sp.Max != nil {
		s = s.Max(int(*sp.Max))
	}
	if sp.Length != nil {
		s = s.Length(*sp.Length)
	}
	switch sp.Format {
	case "":
	case "email":
		s = s.Email()
	case "url", "uri":
		s = s.URL()
	case "uuid":
		s = s.UUID()
	default:
		l.d.warnf("%s: format %q is not supported and was ignored", n.path, sp.Format)
	}
	if sp.Pattern != "" {
		re, err := regexp.Compile(sp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("schemadef: %s: pattern: %w", n.path, err)
		}
		s = s.Regex(re)
	}
	if sp.StartsWith != "" {
		s = s.StartsWith(sp.StartsWith)
	}
	if sp.EndsWith != "" {
		s = s.EndsWith(sp.EndsWith)
	}
	if sp.Includes != "" {
		s = s.Includes(sp.Includes)
	}
	return s, nil
}

func (l *loader) numberSchema(n *node) kanon.NumberSchema {
	sp := n.spec
	s := kanon.Number(messages(n)...)
	if sp.Coerce {
		s = kanon.CoerceNumber(messages(n)...)
	}
	if sp.Type == "integer" || sp.Int {
		s = s.Int()
	}
	if sp.Finite {
		s = s.Finite()
	}
	if sp.Min != nil {
		s = s.Min(*sp.Min)
	}
	if sp.Max != nil {
		s = s.Max(*sp.Max)
	}
	if sp.Gt != nil {
		s = s.Gt(*sp.Gt)
	}
	if sp.Lt != nil {
		s = s.Lt(*sp.Lt)
	}
	if sp.Positive {
		s = s.Positive()
	}
	if sp.Negative {
		s = s.Negative()
	}
	if sp.NonNegative {
		s = s.NonNegative()
	}
	if sp.NonPositive {
		s = s.NonPositive()
	}
	if sp.MultipleOf != nil && *sp.MultipleOf != 0 {
		s = s.MultipleOf(*sp.MultipleOf)
	}
	return s
}

func (l *loader) bigIntSchema(n *node) kanon.BigIntSchema {
	sp := n.spec
	s := kanon.BigInt(messages(n)...)
	if sp.Coerce {
		s = kanon.CoerceBigInt(messages(n)...)
	}
	if sp.Min != nil {
		s = s.Min(bigOf(*sp.Min))
	}
	if sp.Max != nil {
		s = s.Max(bigOf(*sp.Max))
	}
	if sp.Positive {
		s = s.Positive()
	}
	if sp.Negative {
		s = s.Negative()
	}
	if sp.NonNegative {
		s = s.NonNegative()
	}
	if sp.MultipleOf != nil && *sp.MultipleOf != 0 {
		s = s.MultipleOf(bigOf(*sp.MultipleOf))
	}
	return s
}

func bigOf(f float64) *big.Int {
	b, _ := big.NewFloat(f).Int(nil)
	return b
}

func (l *loader) dateSchema(n *node) (kanon.Schema, error) {
	sp := n.spec
	s := kanon.Date(messages(n)...)
	if sp.Coerce {
		s = kanon.CoerceDate(messages(n)...)
	}
	if sp.After != "" {
		t, err := time.Parse(time.RFC3339, sp.After)
		if err != nil {
			return nil, fmt.Errorf("schemadef: %s: after: %w", n.path, err)
		}
		s = s.Min(t)
	}
	if sp.Before != "" {
		t, err := time.Parse(time.RFC3339, sp.Before)
		if err != nil {
			return nil, fmt.Errorf("schemadef: %s: before: %w", n.path, err)
		}
		s = s.Max(t)
	}
	return s, nil
}

func (l *loader) objectSchema(n *node) (kanon.Schema, error) {
	var fields []kanon.Entry
	if fn := n.take("fields"); fn != nil {
		ps, err := pairs(n.path+".fields", fn)
		if err != nil {
			return nil, fmt.Errorf("schemadef: %w", err)
		}
		for _, p := range ps {
			fs, err := l.build(n.path+"."+p.key, p.value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, kanon.Field(p.key, fs))
		}
	}
	o := kanon.Object(fields...)
	if n.spec.Message != "" {
		o = kanon.ObjectWithMessage(n.spec.Message, fields...)
	}
	policy := l.opts.Unknown
	if n.spec.Unknown != "" {
		p, ok := parseUnknown(n.spec.Unknown)
		if !ok {
			return nil, fmt.Errorf("schemadef: %s: unknown policy %q", n.path, n.spec.Unknown)
		}
		policy = p
	}
	switch policy {
	case kanon.UnknownStrict:
		o = o.Strict()
	case kanon.UnknownStrip:
		o = o.Strip()
	}
	return o, nil
}

func (l *loader) required(n *node, key string) (kanon.Schema, error) {
	c := n.take(key)
	if c == nil {
		return nil, fmt.Errorf("schemadef: %s: %s needs %q", n.path, n.spec.Type, key)
	}
	return l.build(n.path+"."+key, c)
}

func (l *loader) list(n *node, key string) ([]kanon.Schema, error) {
	c := n.take(key)
	if c == nil {
		return nil, fmt.Errorf("schemadef: %s: %s needs %q", n.path, n.spec.Type, key)
	}
	if c.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("schemadef: %s.%s: expected a list", n.path, key)
	}
	out := make([]kanon.Schema, len(c.Content))
	for i, item := range c.Content {
		s, err := l.build(fmt.Sprintf("%s.%s[%d]", n.path, key, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// keyValue builds the key and value schemas of maps and records; a missing
// key schema accepts any key.
func (l *loader) keyValue(n *node) (kanon.Schema, kanon.Schema, error) {
	var key kanon.Schema = kanon.Any()
	if n.spec.Type == "record" {
		key = kanon.String()
	}
	if c := n.take("key"); c != nil {
		k, err := l.build(n.path+".key", c)
		if err != nil {
			return nil, nil, err
		}
		key = k
	}
	value, err := l.required(n, "value")
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}
