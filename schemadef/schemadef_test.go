package schemadef_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reoring/kanon"
	"github.com/reoring/kanon/schemadef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDoc = `
type: object
unknown: strict
fields:
  name: {type: string, min: 1}
  age: {type: number, coerce: true, min: 0}
  tags: {type: array, items: string, max: 2}
  email: {type: string, format: email, optional: true}
  score:
    type: number
    checks:
      - {expr: "int(value) % 2 == 0", message: "must be even"}
`

func load(t *testing.T, doc string, opts schemadef.Options) (kanon.Schema, schemadef.Diag) {
	t.Helper()
	s, d, err := schemadef.Load([]byte(doc), opts)
	require.NoError(t, err)
	return s, d
}

func TestLoad_ObjectDocument(t *testing.T) {
	s, d := load(t, userDoc, schemadef.Options{})
	assert.False(t, d.HasWarnings(), "warnings: %v", d.Warnings())

	ok := map[string]any{"name": "Ann", "age": "30", "tags": []any{"a"}, "score": 4}
	r := s.Validate(ok)
	require.True(t, r.OK(), r.Message())
	require.True(t, r.IsCoerced())
	assert.Equal(t, 30.0, r.Value().(map[string]any)["age"])

	cases := map[string]map[string]any{
		"name: must contain at least 1 character(s)": {"name": "", "age": 1, "tags": []any{}, "score": 2},
		"tags: must contain at most 2 element(s)":    {"name": "a", "age": 1, "tags": []any{"a", "b", "c"}, "score": 2},
		"email: invalid email":                       {"name": "a", "age": 1, "tags": []any{}, "score": 2, "email": "x"},
		"score: must be even":                        {"name": "a", "age": 1, "tags": []any{}, "score": 3},
		`extra: unrecognized key "extra"`:            {"name": "a", "age": 1, "tags": []any{}, "score": 2, "extra": 1},
		"score: required":                            {"name": "a", "age": 1, "tags": []any{}},
	}
	for want, in := range cases {
		assert.Equal(t, want, s.Validate(in).Message())
	}
}

func TestLoad_FieldOrderFollowsDocument(t *testing.T) {
	s, _ := load(t, `{type: object, fields: {zeta: string, alpha: number, mid: boolean}}`, schemadef.Options{})
	var keys []string
	for _, e := range s.Node().Entries() {
		keys = append(keys, e.Key())
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	// the first failing field is the first in document order
	r := s.Validate(map[string]any{"zeta": 1, "alpha": "x", "mid": true})
	assert.Equal(t, "/zeta", r.Path())
}

func TestLoad_JSONDocument(t *testing.T) {
	s, _ := load(t, `{"type":"object","fields":{"id":{"type":"string","format":"uuid"},"n":"integer"}}`, schemadef.Options{})
	assert.True(t, s.Validate(map[string]any{"id": "123e4567-e89b-12d3-a456-426614174000", "n": 2}).OK())
	assert.Equal(t, "n: expected integer, received float", s.Validate(map[string]any{"id": "123e4567-e89b-12d3-a456-426614174000", "n": 2.5}).Message())
}

func TestLoad_Warnings(t *testing.T) {
	doc := `
type: object
fields:
  a: {type: string, minn: 1}
  b: {type: string, format: hostname}
  c: {type: string, items: number}
`
	_, d := load(t, doc, schemadef.Options{})
	assert.Equal(t, []string{
		`$.a: unknown option "minn" ignored`,
		`$.b: format "hostname" is not supported and was ignored`,
		`$.c: "items" is not used by type string`,
	}, d.Warnings())

	_, _, err := schemadef.Load([]byte(doc), schemadef.Options{Strict: true})
	require.Error(t, err)
	assert.ErrorContains(t, err, "minn")
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"missing type":   `{min: 1}`,
		"unknown type":   `{type: widget}`,
		"empty":          ``,
		"bad pattern":    `{type: string, pattern: "("}`,
		"bad check":      `{type: number, check: "value >"}`,
		"enum no values": `{type: enum}`,
		"array no items": `{type: array}`,
		"unknown ref":    `{type: ref, ref: Missing}`,
		"bad policy":     `{type: object, unknown: sometimes}`,
		"literal map":    `{type: literal, literal: {a: 1}}`,
		"bad date":       `{type: date, after: yesterday}`,
		"malformed":      `{type: [`,
	}
	for name, doc := range cases {
		_, _, err := schemadef.Load([]byte(doc), schemadef.Options{})
		assert.Error(t, err, name)
	}
}

func TestLoad_DuplicateKey(t *testing.T) {
	doc := "type: object\nfields:\n  a: string\n  a: number\n"
	_, _, err := schemadef.Load([]byte(doc), schemadef.Options{})
	var dup *schemadef.DuplicateKeyError
	require.True(t, errors.As(err, &dup), "err = %v", err)
	assert.Equal(t, "a", dup.Key)
	assert.Equal(t, "$.fields", dup.Path)
	assert.Equal(t, 3, dup.FirstLine)
	assert.Equal(t, 4, dup.Line)
}

func TestLoad_RecursiveDefinitions(t *testing.T) {
	doc := `
definitions:
  Node:
    type: object
    fields:
      name: string
      children: {type: array, items: {type: ref, ref: Node}}
type: ref
ref: Node
`
	s, d := load(t, doc, schemadef.Options{})
	assert.False(t, d.HasWarnings(), "warnings: %v", d.Warnings())

	leaf := map[string]any{"name": "leaf", "children": []any{}}
	assert.True(t, s.Validate(map[string]any{"name": "root", "children": []any{leaf}}).OK())

	bad := map[string]any{"name": "root", "children": []any{map[string]any{"name": 1, "children": []any{}}}}
	assert.Equal(t, "/children/0/name", s.Validate(bad).Path())
}

func TestLoad_Composites(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		ok   []any
		bad  []any
	}{
		{"union", `{type: union, options: [string, {type: number, coerce: true}]}`,
			[]any{"x", 1}, []any{nil}},
		{"tuple", `{type: tuple, items: [string, number]}`,
			[]any{[]any{"a", 1}}, []any{[]any{"a"}, []any{1, "a"}}},
		{"map", `{type: map, key: string, value: number, maxSize: 1}`,
			[]any{map[any]any{"a": 1}}, []any{map[any]any{1: 1}, map[any]any{"a": 1, "b": 2}}},
		{"record", `{type: record, value: boolean}`,
			[]any{map[string]any{"a": true}}, []any{map[string]any{"a": 1}}},
		{"set", `{type: set, items: number, minSize: 1}`,
			[]any{map[any]struct{}{1: {}}}, []any{map[any]struct{}{}, map[any]struct{}{"a": {}}}},
		{"literal", `{type: literal, literal: 1}`,
			[]any{1, 1.0}, []any{"1"}},
		{"enum", `{type: enum, values: [a, b]}`,
			[]any{"a"}, []any{"c"}},
		{"nullable", `{type: string, nullable: true}`,
			[]any{nil, "x"}, []any{1, kanon.Absent}},
		{"bigint", `{type: bigint, coerce: true, min: 10}`,
			[]any{"11", 12}, []any{"9", "x"}},
		{"date", `{type: date, coerce: true, after: "2024-01-01T00:00:00Z"}`,
			[]any{"2024-06-01"}, []any{"2023-06-01"}},
		{"string shape", `{type: string, startsWith: "id_", endsWith: "!", includes: "-"}`,
			[]any{"id_a-b!"}, []any{"id_ab!", "x_a-b!"}},
	}
	for _, tc := range cases {
		s, _ := load(t, tc.doc, schemadef.Options{})
		for _, v := range tc.ok {
			assert.True(t, s.Validate(v).OK(), "%s: %#v rejected: %s", tc.name, v, s.Validate(v).Message())
		}
		for _, v := range tc.bad {
			assert.False(t, s.Validate(v).OK(), "%s: %#v accepted", tc.name, v)
		}
	}
}

func TestLoad_DefaultUnknownPolicy(t *testing.T) {
	doc := `
type: object
fields:
  inner: {type: object, unknown: passthrough, fields: {a: string}}
`
	s, _ := load(t, doc, schemadef.Options{Unknown: kanon.UnknownStrip})
	r := s.Validate(map[string]any{"inner": map[string]any{"a": "x", "keep": 1}, "drop": 1})
	require.True(t, r.IsCoerced())
	assert.Equal(t, map[string]any{"inner": map[string]any{"a": "x", "keep": 1}}, r.Value())
}

func TestLoad_ChecksUseEnv(t *testing.T) {
	doc := `
type: number
check: "value <= limit"
checks:
  - {expr: "value != 3"}
`
	s, _ := load(t, doc, schemadef.Options{Env: map[string]any{"limit": 5}})
	assert.True(t, s.Validate(4).OK())
	assert.Equal(t, "check failed: value <= limit", s.Validate(6).Message())
	assert.Equal(t, "check failed: value != 3", s.Validate(3).Message())
	// the type check runs before any expression
	assert.Equal(t, kanon.CodeInvalidType, s.Validate("4").Code())
}

func TestLoad_Compile(t *testing.T) {
	s, _ := load(t, userDoc, schemadef.Options{Compile: true})
	c, ok := s.(*kanon.Compiled)
	require.True(t, ok, "got %T", s)
	assert.Zero(t, c.Fallbacks())
	assert.Equal(t, "score: must be even", c.Validate(map[string]any{"name": "a", "age": 1, "tags": []any{}, "score": 1}).Message())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	require.NoError(t, os.WriteFile(path, []byte(userDoc), 0o600))
	s, _, err := schemadef.LoadFile(path, schemadef.Options{})
	require.NoError(t, err)
	assert.Equal(t, kanon.KindObject, s.Node().Kind())

	_, _, err = schemadef.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), schemadef.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
