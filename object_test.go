package kanon_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reoring/kanon"
)

func person() kanon.ObjectSchema {
	return kanon.Object(
		kanon.Field("a", kanon.String()),
		kanon.Field("b", kanon.Number()),
	)
}

// TestObject_ShortCircuit reports the first failing key in declaration order.
func TestObject_ShortCircuit(t *testing.T) {
	r := person().Validate(map[string]any{"a": 1, "b": "x"})
	if r.Message() != "a: expected string, received number" {
		t.Fatalf("message = %q", r.Message())
	}
	if r.Path() != "/a" || r.Code() != kanon.CodeInvalidType {
		t.Fatalf("path/code = %q %q", r.Path(), r.Code())
	}
}

// TestObject_Required reports missing keys unless the field accepts Absent.
func TestObject_Required(t *testing.T) {
	r := person().Validate(map[string]any{"b": 1})
	if r.Code() != kanon.CodeRequired || r.Message() != "a: required" || r.Path() != "/a" {
		t.Fatalf("got %s %q %q", r.Code(), r.Message(), r.Path())
	}

	opt := kanon.Object(
		kanon.Field("a", kanon.Optional(kanon.String())),
		kanon.Field("u", kanon.Unknown()),
	)
	if r := opt.Validate(map[string]any{}); !r.OK() {
		t.Fatalf("optional keys rejected: %s", r.Message())
	}
	// an explicit null is a value, not a missing key
	if r := opt.Validate(map[string]any{"a": nil}); r.Code() != kanon.CodeInvalidType {
		t.Fatalf("null accepted by Optional(String): %v", r)
	}
	custom := kanon.Object(kanon.Field("id", kanon.String("id is mandatory")))
	if got := custom.Validate(map[string]any{}).Message(); got != "id: id is mandatory" {
		t.Fatalf("got %q", got)
	}
}

// TestObject_RejectsNonObjects covers arrays, nil and nil maps.
func TestObject_RejectsNonObjects(t *testing.T) {
	for in, received := range map[string]any{"array": []any{}, "null": nil, "string": "x"} {
		r := person().Validate(received)
		if r.Message() != "expected object, received "+in {
			t.Fatalf("%s: got %q", in, r.Message())
		}
	}
	var nilMap map[string]any
	if person().Validate(nilMap).OK() {
		t.Fatalf("nil map accepted")
	}
	if got := kanon.ObjectWithMessage("need an object").Validate(1).Message(); got != "need an object" {
		t.Fatalf("got %q", got)
	}
}

// TestObject_UnknownPolicies covers passthrough, strict and strip.
func TestObject_UnknownPolicies(t *testing.T) {
	in := map[string]any{"a": "x", "b": 1, "z": true, "c": 2}

	if r := person().Validate(in); !r.OK() || r.IsCoerced() {
		t.Fatalf("passthrough: %v", r)
	}

	r := person().Strict().Validate(in)
	if r.Code() != kanon.CodeUnknownKey || r.Message() != `c: unrecognized key "c"` || r.Path() != "/c" {
		t.Fatalf("strict: got %s %q %q", r.Code(), r.Message(), r.Path())
	}

	r = person().Strip().Validate(in)
	if !r.IsCoerced() {
		t.Fatalf("strip: want coerced, got %v", r)
	}
	if diff := cmp.Diff(map[string]any{"a": "x", "b": 1}, r.Value()); diff != "" {
		t.Fatalf("strip output (-want +got):\n%s", diff)
	}
	if len(in) != 4 {
		t.Fatalf("strip modified the input: %v", in)
	}

	// strip without unknown keys returns the input as is
	if r := person().Strip().Validate(map[string]any{"a": "x", "b": 1}); r.IsCoerced() {
		t.Fatalf("strip copied a clean input")
	}
}

// TestObject_UnknownPolicyKeepsRefinements derives a new policy without
// dropping object refinements.
func TestObject_UnknownPolicyKeepsRefinements(t *testing.T) {
	s := person().Refine(func(m map[string]any) bool { return m["a"] != "bad" }, "a must not be bad").Strict()
	if got := s.Validate(map[string]any{"a": "bad", "b": 1}).Message(); got != "a must not be bad" {
		t.Fatalf("got %q", got)
	}
	if s.Node().Unknown() != kanon.UnknownStrict {
		t.Fatalf("policy = %v", s.Node().Unknown())
	}
}

// TestObject_DuplicateFieldReplacesInPlace keeps the first position.
func TestObject_DuplicateFieldReplacesInPlace(t *testing.T) {
	s := kanon.Object(
		kanon.Field("a", kanon.String()),
		kanon.Field("b", kanon.String()),
		kanon.Field("a", kanon.Number()),
	)
	es := s.Node().Entries()
	if len(es) != 2 || es[0].Key() != "a" || es[0].Schema().Kind() != kanon.KindNumber {
		t.Fatalf("entries = %v", es)
	}
}

// TestObject_Transforms covers extend, pick, omit and partial.
func TestObject_Transforms(t *testing.T) {
	base := person().Strict()

	ext := base.Extend(kanon.Field("c", kanon.Boolean()), kanon.Field("a", kanon.Number()))
	if ext.Node().Kind() != kanon.KindObject || ext.Node().Unknown() != kanon.UnknownStrict {
		t.Fatalf("extend: kind/policy = %v %v", ext.Node().Kind(), ext.Node().Unknown())
	}
	if !ext.Validate(map[string]any{"a": 1, "b": 2, "c": true}).OK() {
		t.Fatalf("extend: replaced field not applied")
	}

	pick := base.Pick("b", "missing")
	if pick.Node().Source() != base.Node() || len(pick.Node().Entries()) != 1 {
		t.Fatalf("pick: entries = %v", pick.Node().Entries())
	}
	if r := pick.Validate(map[string]any{"b": 1, "a": "x"}); r.Code() != kanon.CodeUnknownKey {
		t.Fatalf("pick inherits strict: got %v", r)
	}

	omit := base.Omit("a")
	if !omit.Validate(map[string]any{"b": 1}).OK() {
		t.Fatalf("omit: omitted key still required")
	}

	part := base.Partial()
	if !part.Validate(map[string]any{}).OK() {
		t.Fatalf("partial: keys still required")
	}
	if r := part.Validate(map[string]any{"a": 1}); r.Message() != "a: expected string, received number" {
		t.Fatalf("partial: present keys must still validate, got %q", r.Message())
	}
	some := base.Partial("a")
	if r := some.Validate(map[string]any{}); r.Message() != "b: required" {
		t.Fatalf("partial(a): got %q", r.Message())
	}
}

// TestObject_NestedPath joins keys and indexes into the pointer.
func TestObject_NestedPath(t *testing.T) {
	s := kanon.Object(kanon.Field("users", kanon.Array(kanon.Object(
		kanon.Field("tags/x", kanon.Array(kanon.String())),
	))))
	in := map[string]any{"users": []any{
		map[string]any{"tags/x": []any{"ok"}},
		map[string]any{"tags/x": []any{"ok", 3}},
	}}
	r := s.Validate(in)
	if r.Path() != "/users/1/tags~1x/1" {
		t.Fatalf("path = %q", r.Path())
	}
	if r.Message() != "users: 1: tags/x: 1: expected string, received number" {
		t.Fatalf("message = %q", r.Message())
	}
}

// TestObject_NoCloneWhenValid returns the input itself from Parse.
func TestObject_NoCloneWhenValid(t *testing.T) {
	in := map[string]any{"a": "x", "b": 1}
	out, err := kanon.Parse(person(), in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := out.(map[string]any)
	got["marker"] = true
	if _, ok := in["marker"]; !ok {
		t.Fatalf("valid input was copied")
	}
}

// TestObject_ZeroAllocs checks that accepting a valid object allocates
// nothing, interpreted or compiled.
func TestObject_ZeroAllocs(t *testing.T) {
	s := kanon.Object(
		kanon.Field("name", kanon.String().Min(1)),
		kanon.Field("age", kanon.Number().Int().NonNegative()),
		kanon.Field("tags", kanon.Array(kanon.String())),
		kanon.Field("nick", kanon.Optional(kanon.String())),
	)
	in := map[string]any{"name": "ann", "age": 30, "tags": []any{"a", "b"}}
	c := kanon.Compile(s)
	for name, sch := range map[string]kanon.Schema{"interpreted": s, "compiled": c} {
		if !sch.Validate(in).OK() {
			t.Fatalf("%s: rejected", name)
		}
		if n := testing.AllocsPerRun(100, func() { sch.Validate(in) }); n != 0 {
			t.Fatalf("%s: %v allocs per run, want 0", name, n)
		}
	}
}
