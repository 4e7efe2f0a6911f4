package kanon

import (
	"errors"
	"fmt"
	"strconv"

	js "github.com/reoring/kanon/jsonschema"
)

// ErrNotRepresentable is returned by JSONSchema for schemas JSON Schema
// cannot describe (symbol, undefined, void).
var ErrNotRepresentable = errors.New("kanon: schema has no JSON Schema form")

// JSONSchema projects s into a JSON Schema document. Refinement parameters
// (minLength, minimum, format, ...) become keywords; predicates without a
// keyword are omitted. Lazy schemas are emitted once under $defs and
// referenced with $ref.
func JSONSchema(s Schema) (*js.Schema, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	e := &exporter{names: make(map[*Node]string), defs: make(map[string]*js.Schema)}
	out, err := e.export(s.Node())
	if err != nil {
		return nil, err
	}
	out.Schema = js.Draft
	if len(e.defs) > 0 {
		out.Defs = e.defs
	}
	return out, nil
}

type exporter struct {
	names map[*Node]string
	defs  map[string]*js.Schema
}

func (e *exporter) export(n *Node) (*js.Schema, error) {
	out, err := e.shape(n)
	if err != nil {
		return nil, err
	}
	for _, r := range n.refinements {
		applyParams(out, r.params)
	}
	return out, nil
}

func (e *exporter) shape(n *Node) (*js.Schema, error) {
	switch n.kind {
	case KindString:
		return &js.Schema{Type: "string"}, nil
	case KindNumber:
		return &js.Schema{Type: "number"}, nil
	case KindBoolean:
		return &js.Schema{Type: "boolean"}, nil
	case KindBigInt:
		return &js.Schema{Type: "integer"}, nil
	case KindDate:
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	case KindLiteral:
		if n.literal == nil {
			return &js.Schema{Type: "null"}, nil
		}
		if n.literal == Absent {
			return nil, fmt.Errorf("%w: literal undefined", ErrNotRepresentable)
		}
		return &js.Schema{Const: n.literal}, nil
	case KindEnum:
		vals := make([]any, len(n.enum))
		for i, v := range n.enum {
			vals[i] = v
		}
		return &js.Schema{Type: "string", Enum: vals}, nil
	case KindNull:
		return &js.Schema{Type: "null"}, nil
	case KindAny, KindUnknown, KindCustom:
		return &js.Schema{}, nil
	case KindNever:
		return &js.Schema{Not: &js.Schema{}}, nil
	case KindObject, KindPick, KindOmit, KindPartial:
		return e.object(n)
	case KindArray:
		items, err := e.export(n.elem)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case KindTuple:
		out := &js.Schema{Type: "array", PrefixItems: make([]*js.Schema, len(n.items))}
		for i, it := range n.items {
			s, err := e.export(it)
			if err != nil {
				return nil, err
			}
			out.PrefixItems[i] = s
		}
		size := len(n.items)
		out.MinItems, out.MaxItems = &size, &size
		return out, nil
	case KindSet:
		items, err := e.export(n.elem)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items, UniqueItems: true}, nil
	case KindMap, KindRecord:
		key, err := e.export(n.key)
		if err != nil {
			return nil, err
		}
		value, err := e.export(n.value)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", PropertyNames: key, AdditionalProperties: value}, nil
	case KindUnion:
		out := &js.Schema{AnyOf: make([]*js.Schema, len(n.options))}
		for i, o := range n.options {
			s, err := e.export(o)
			if err != nil {
				return nil, err
			}
			out.AnyOf[i] = s
		}
		return out, nil
	case KindOptional:
		return e.export(n.elem)
	case KindNullable:
		inner, err := e.export(n.elem)
		if err != nil {
			return nil, err
		}
		return &js.Schema{AnyOf: []*js.Schema{inner, {Type: "null"}}}, nil
	case KindLazy:
		return e.lazy(n)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRepresentable, n.kind)
}

func (e *exporter) object(n *Node) (*js.Schema, error) {
	out := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(n.entries))}
	for _, f := range n.entries {
		ps, err := e.export(f.schema)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", f.key, err)
		}
		out.Properties[f.key] = ps
		if !acceptsAbsent(f.schema) {
			out.Required = append(out.Required, f.key)
		}
	}
	switch n.unknown {
	case UnknownStrict:
		out.AdditionalProperties = false
	default:
		// Strip accepts unknown keys before dropping them.
		out.AdditionalProperties = true
	}
	return out, nil
}

func (e *exporter) lazy(n *Node) (*js.Schema, error) {
	name, seen := e.names[n]
	if !seen {
		name = "Lazy" + strconv.Itoa(len(e.names)+1)
		e.names[n] = name
		def, err := e.export(n.lazy().Node())
		if err != nil {
			return nil, err
		}
		e.defs[name] = def
	}
	return &js.Schema{Ref: "#/$defs/" + name}, nil
}

// acceptsAbsent reports whether an object key using n may be left out.
func acceptsAbsent(n *Node) bool {
	switch n.kind {
	case KindOptional, KindAny, KindUnknown, KindUndefined, KindVoid:
		return true
	case KindNullable:
		return acceptsAbsent(n.elem)
	case KindUnion:
		for _, o := range n.options {
			if acceptsAbsent(o) {
				return true
			}
		}
	}
	return false
}

func applyParams(s *js.Schema, params map[string]any) {
	for k, v := range params {
		switch k {
		case "type":
			if t, ok := v.(string); ok {
				s.Type = t
			}
		case "format":
			s.Format, _ = v.(string)
		case "pattern":
			s.Pattern, _ = v.(string)
		case "minLength":
			s.MinLength = intParam(v)
		case "maxLength":
			s.MaxLength = intParam(v)
		case "minItems":
			s.MinItems = intParam(v)
		case "maxItems":
			s.MaxItems = intParam(v)
		case "minProperties":
			s.MinProperties = intParam(v)
		case "maxProperties":
			s.MaxProperties = intParam(v)
		case "minimum":
			s.Minimum = floatParam(v)
		case "maximum":
			s.Maximum = floatParam(v)
		case "exclusiveMinimum":
			s.ExclusiveMinimum = floatParam(v)
		case "exclusiveMaximum":
			s.ExclusiveMaximum = floatParam(v)
		case "multipleOf":
			s.MultipleOf = floatParam(v)
		}
	}
}

func intParam(v any) *int {
	i, ok := v.(int)
	if !ok {
		return nil
	}
	return &i
}

func floatParam(v any) *float64 {
	if f, ok := toFloat(v); ok {
		return &f
	}
	if str, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return &f
		}
	}
	return nil
}
