package kanon_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reoring/kanon"
)

// TestCoerceNumber covers the conversions and the no-op case.
func TestCoerceNumber(t *testing.T) {
	s := kanon.CoerceNumber()

	r := s.Validate("42")
	if !r.IsCoerced() || r.Value() != 42.0 {
		t.Fatalf(`"42": got %v %v`, r, r.Value())
	}
	if r := s.Validate(42); !r.OK() || r.IsCoerced() {
		t.Fatalf("42 must be valid without coercion, got %v", r)
	}
	coerced := map[any]float64{
		" 1.5 ": 1.5,
		"0x10":  16,
		true:    1,
		false:   0,
		"-5":    -5,
	}
	for in, want := range coerced {
		r := s.Validate(in)
		if !r.IsCoerced() || r.Value() != want {
			t.Fatalf("%#v: got %v %v, want %v", in, r, r.Value(), want)
		}
	}
	if r := s.Validate(big.NewInt(9)); r.Value() != 9.0 {
		t.Fatalf("bigint: got %v", r.Value())
	}
	if r := s.Validate(time.UnixMilli(1500)); r.Value() != 1500.0 {
		t.Fatalf("date: got %v", r.Value())
	}

	failures := map[string]any{
		`cannot convert "abc" to number`: "abc",
		`cannot convert "" to number`:    "",
		`cannot convert "  " to number`:  "  ",
		"cannot convert null to number":  nil,
		`cannot convert "NaN" to number`: "NaN",
	}
	for want, in := range failures {
		r := s.Validate(in)
		if r.Code() != kanon.CodeCoercion || r.Message() != want {
			t.Fatalf("%#v: got %s %q, want %q", in, r.Code(), r.Message(), want)
		}
	}
	if got := s.Validate(kanon.Absent).Message(); got != "cannot convert undefined to number" {
		t.Fatalf("absent: got %q", got)
	}
}

// TestCoerceBigInt distinguishes null from undefined and rejects fractions.
func TestCoerceBigInt(t *testing.T) {
	s := kanon.CoerceBigInt()
	for in, want := range map[any]int64{"123": 123, " 0x1f ": 31, 7: 7, uint16(8): 8, 9.0: 9, true: 1} {
		r := s.Validate(in)
		b, ok := r.Value().(*big.Int)
		if !r.IsCoerced() || !ok || b.Int64() != want {
			t.Fatalf("%#v: got %v %v", in, r, r.Value())
		}
	}
	if r := s.Validate(big.NewInt(1)); r.IsCoerced() || !r.OK() {
		t.Fatalf("*big.Int must pass unchanged")
	}
	nullMsg := s.Validate(nil).Message()
	undefMsg := s.Validate(kanon.Absent).Message()
	if nullMsg == undefMsg {
		t.Fatalf("null and undefined share message %q", nullMsg)
	}
	for _, in := range []any{1.5, "1.5", "", "abc"} {
		if r := s.Validate(in); r.Code() != kanon.CodeCoercion {
			t.Fatalf("%#v: got %v", in, r)
		}
	}
}

// TestCoerceBoolean accepts the usual textual spellings.
func TestCoerceBoolean(t *testing.T) {
	s := kanon.CoerceBoolean()
	for in, want := range map[any]bool{"true": true, "YES": true, "on": true, "1": true, 1: true, "false": false, "No": false, "off": false, 0: false} {
		r := s.Validate(in)
		if !r.IsCoerced() || r.Value() != want {
			t.Fatalf("%#v: got %v %v", in, r, r.Value())
		}
	}
	if r := s.Validate(true); r.IsCoerced() || !r.OK() {
		t.Fatalf("bool must pass unchanged")
	}
	for _, in := range []any{"maybe", 2, nil} {
		if s.Validate(in).OK() {
			t.Fatalf("%#v accepted", in)
		}
	}
}

// TestCoerceString renders scalars.
func TestCoerceString(t *testing.T) {
	s := kanon.CoerceString()
	d := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for in, want := range map[any]string{1.5: "1.5", 10: "10", true: "true", d: "2024-05-01T12:00:00Z"} {
		r := s.Validate(in)
		if !r.IsCoerced() || r.Value() != want {
			t.Fatalf("%#v: got %v %v", in, r, r.Value())
		}
	}
	if got := s.Validate(big.NewInt(-3)).Value(); got != "-3" {
		t.Fatalf("bigint: got %v", got)
	}
	for _, in := range []any{nil, kanon.Absent, []any{}} {
		if s.Validate(in).OK() {
			t.Fatalf("%#v accepted", in)
		}
	}
}

// TestCoerceDate parses strings and Unix milliseconds.
func TestCoerceDate(t *testing.T) {
	s := kanon.CoerceDate()
	want := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{"2024-02-03", "2024-02-03T00:00:00Z", float64(want.UnixMilli())} {
		r := s.Validate(in)
		got, ok := r.Value().(time.Time)
		if !r.IsCoerced() || !ok || !got.Equal(want) {
			t.Fatalf("%#v: got %v %v", in, r, r.Value())
		}
	}
	if s.Validate("yesterday").OK() {
		t.Fatalf("free text accepted")
	}
}

// TestCoerceDate_Range rejects millisecond values outside the date range
// instead of wrapping them.
func TestCoerceDate_Range(t *testing.T) {
	s := kanon.CoerceDate()
	for _, in := range []any{1e300, -8.64e15 - 1, 8.64e15 + 1} {
		if r := s.Validate(in); r.OK() || r.Code() != kanon.CodeCoercion {
			t.Fatalf("%v: got %v", in, r)
		}
	}
	r := s.Validate(8.64e15)
	got, ok := r.Value().(time.Time)
	if !r.IsCoerced() || !ok || got.Year() != 275760 {
		t.Fatalf("upper bound: got %v %v", r, r.Value())
	}
}

// TestCoerce_InsideObjectCopiesOnce checks copy-on-write through composites.
func TestCoerce_InsideObjectCopiesOnce(t *testing.T) {
	s := kanon.Object(
		kanon.Field("n", kanon.CoerceNumber()),
		kanon.Field("b", kanon.CoerceBoolean()),
		kanon.Field("s", kanon.String()),
	)
	in := map[string]any{"n": "1", "b": "yes", "s": "x", "extra": 1}
	r := s.Validate(in)
	if !r.IsCoerced() {
		t.Fatalf("want coerced, got %v", r)
	}
	want := map[string]any{"n": 1.0, "b": true, "s": "x", "extra": 1}
	if diff := cmp.Diff(want, r.Value()); diff != "" {
		t.Fatalf("coerced object mismatch (-want +got):\n%s", diff)
	}
	if in["n"] != "1" || in["b"] != "yes" {
		t.Fatalf("input was modified: %v", in)
	}
}
