package kanon

import (
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/reoring/kanon/internal/message"
)

// Zero-argument factories hand out these shared nodes; a custom message always
// builds a fresh node.
var (
	stringDefault    = StringSchema{handle{&Node{kind: KindString}}}
	numberDefault    = NumberSchema{handle{&Node{kind: KindNumber}}}
	bigIntDefault    = BigIntSchema{handle{&Node{kind: KindBigInt}}}
	dateDefault      = DateSchema{handle{&Node{kind: KindDate}}}
	booleanDefault   = &Node{kind: KindBoolean}
	symbolDefault    = &Node{kind: KindSymbol}
	nullDefault      = &Node{kind: KindNull}
	undefinedDefault = &Node{kind: KindUndefined}
	voidDefault      = &Node{kind: KindVoid}
	anyDefault       = &Node{kind: KindAny}
	unknownDefault   = &Node{kind: KindUnknown}
	neverDefault     = &Node{kind: KindNever}
)

// String accepts Go strings.
func String(message ...string) StringSchema {
	if len(message) == 0 {
		return stringDefault
	}
	return StringSchema{handle{newNode(KindString, message)}}
}

// Number accepts every Go numeric kind except NaN.
func Number(message ...string) NumberSchema {
	if len(message) == 0 {
		return numberDefault
	}
	return NumberSchema{handle{newNode(KindNumber, message)}}
}

// BigInt accepts non-nil *big.Int values.
func BigInt(message ...string) BigIntSchema {
	if len(message) == 0 {
		return bigIntDefault
	}
	return BigIntSchema{handle{newNode(KindBigInt, message)}}
}

// Date accepts time.Time values.
func Date(message ...string) DateSchema {
	if len(message) == 0 {
		return dateDefault
	}
	return DateSchema{handle{newNode(KindDate, message)}}
}

// Boolean accepts bool values.
func Boolean(message ...string) *Node { return leaf(KindBoolean, booleanDefault, message) }

// Symbol accepts *SymbolValue values (see NewSymbol).
func Symbol(message ...string) *Node { return leaf(KindSymbol, symbolDefault, message) }

// Null accepts only nil.
func Null(message ...string) *Node { return leaf(KindNull, nullDefault, message) }

// Undefined accepts only Absent.
func Undefined(message ...string) *Node { return leaf(KindUndefined, undefinedDefault, message) }

// Void accepts only Absent; it exists for symmetry with functions that return
// nothing.
func Void(message ...string) *Node { return leaf(KindVoid, voidDefault, message) }

// Any accepts every value, Absent included.
func Any(message ...string) *Node { return leaf(KindAny, anyDefault, message) }

// Unknown accepts every value, Absent included.
func Unknown(message ...string) *Node { return leaf(KindUnknown, unknownDefault, message) }

// Never rejects every value.
func Never(message ...string) *Node { return leaf(KindNever, neverDefault, message) }

func leaf(kind Kind, shared *Node, message []string) *Node {
	if len(message) == 0 {
		return shared
	}
	return newNode(kind, message)
}

// Literal accepts values equal to value. Numeric literals compare by numeric
// value regardless of Go type. value must be comparable.
func Literal(value any, message ...string) *Node {
	if value != nil && !reflect.ValueOf(value).Comparable() {
		panic("kanon: literal value of type " + reflect.TypeOf(value).String() + " is not comparable")
	}
	n := newNode(KindLiteral, message)
	n.literal = value
	return n
}

// Enum accepts one of the given strings.
func Enum(values []string, message ...string) *Node {
	if len(values) == 0 {
		panic("kanon: enum requires at least one value")
	}
	n := newNode(KindEnum, message)
	n.enum = slices.Clone(values)
	return n
}

// ---- leaf checks (shared by the interpreter and compiled validators) ----

func checkString(n *Node, v any) Result {
	if _, ok := v.(string); ok {
		return Valid()
	}
	return n.mismatch("string", v)
}

func checkNumber(n *Node, v any) Result {
	f, ok := toFloat(v)
	if ok && !math.IsNaN(f) {
		return Valid()
	}
	return n.mismatch("number", v)
}

func checkBoolean(n *Node, v any) Result {
	if _, ok := v.(bool); ok {
		return Valid()
	}
	return n.mismatch("boolean", v)
}

func checkBigInt(n *Node, v any) Result {
	if b, ok := v.(*big.Int); ok && b != nil {
		return Valid()
	}
	return n.mismatch("bigint", v)
}

func checkDate(n *Node, v any) Result {
	if _, ok := v.(time.Time); ok {
		return Valid()
	}
	return n.mismatch("date", v)
}

func checkSymbol(n *Node, v any) Result {
	if s, ok := v.(*SymbolValue); ok && s != nil {
		return Valid()
	}
	return n.mismatch("symbol", v)
}

func checkNull(n *Node, v any) Result {
	if v == nil {
		return Valid()
	}
	return n.mismatch("null", v)
}

func checkUndefined(n *Node, v any) Result {
	if v == Absent {
		return Valid()
	}
	return n.mismatch("undefined", v)
}

func checkNever(n *Node, v any) Result {
	return n.failWith(CodeInvalidType, "never", "received", typeName(v))
}

func checkLiteral(n *Node, v any) Result {
	if equalLiteral(n.literal, v) {
		return Valid()
	}
	return n.failWith(CodeInvalidLiteral, "invalid_literal", "expected", quoteValue(n.literal), "received", quoteValue(v))
}

func checkEnum(n *Node, v any) Result {
	if s, ok := v.(string); ok && slices.Contains(n.enum, s) {
		return Valid()
	}
	return n.failWith(CodeInvalidEnum, "invalid_enum", "options", strings.Join(n.enum, " | "), "received", quoteValue(v))
}

func equalLiteral(lit, v any) bool {
	if lf, ok := toFloat(lit); ok {
		vf, ok := toFloat(v)
		return ok && vf == lf
	}
	return v == lit
}

// ---- message helpers ----

// msg renders the default template key with alternating key/value params.
func msg(key string, kv ...string) string {
	if len(kv) == 0 {
		return message.T(key, nil)
	}
	data := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		data[kv[i]] = kv[i+1]
	}
	return message.T(key, data)
}

func quoteValue(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	if _, ok := v.(absent); ok || v == nil {
		return typeName(v)
	}
	if _, ok := toFloat(v); ok {
		return formatValue(v)
	}
	switch v.(type) {
	case bool, *big.Int, *SymbolValue, time.Time:
		return formatValue(v)
	}
	return typeName(v)
}
