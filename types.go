package kanon

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"
)

// Kind is the discriminant of a schema node.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindBigInt
	KindDate
	KindSymbol
	KindLiteral
	KindEnum
	KindNull
	KindUndefined
	KindVoid
	KindAny
	KindUnknown
	KindNever
	KindObject
	KindArray
	KindTuple
	KindMap
	KindSet
	KindRecord
	KindUnion
	KindOptional
	KindNullable
	KindPick
	KindOmit
	KindPartial
	KindLazy
	KindCustom
)

var kindNames = [...]string{
	KindString:    "string",
	KindNumber:    "number",
	KindBoolean:   "boolean",
	KindBigInt:    "bigint",
	KindDate:      "date",
	KindSymbol:    "symbol",
	KindLiteral:   "literal",
	KindEnum:      "enum",
	KindNull:      "null",
	KindUndefined: "undefined",
	KindVoid:      "void",
	KindAny:       "any",
	KindUnknown:   "unknown",
	KindNever:     "never",
	KindObject:    "object",
	KindArray:     "array",
	KindTuple:     "tuple",
	KindMap:       "map",
	KindSet:       "set",
	KindRecord:    "record",
	KindUnion:     "union",
	KindOptional:  "optional",
	KindNullable:  "nullable",
	KindPick:      "pick",
	KindOmit:      "omit",
	KindPartial:   "partial",
	KindLazy:      "lazy",
	KindCustom:    "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// UnknownPolicy controls how object schemas treat keys they do not declare.
type UnknownPolicy int

const (
	UnknownPassthrough UnknownPolicy = iota // Keep unknown keys (no allocation).
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownStrip:
		return "strip"
	default:
		return "passthrough"
	}
}

type absent struct{}

func (absent) String() string { return "undefined" }

// Absent stands for a missing value. Object schemas validate missing keys as
// Absent, and only schemas that accept it (Optional, Undefined, Void, Any,
// Unknown) let the key be omitted.
var Absent any = absent{}

// SymbolValue is a unique value compared by identity. Symbol schemas accept
// *SymbolValue.
type SymbolValue struct{ description string }

// NewSymbol returns a fresh symbol; two symbols are never equal.
func NewSymbol(description string) *SymbolValue { return &SymbolValue{description: description} }

func (s *SymbolValue) String() string { return "Symbol(" + s.description + ")" }

// typeName names the runtime type of v the way failure messages report it.
func typeName(v any) string {
	switch x := v.(type) {
	case absent:
		return "undefined"
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return "number"
	case float32:
		if math.IsNaN(float64(x)) {
			return "NaN"
		}
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case *big.Int:
		if x == nil {
			return "null"
		}
		return "bigint"
	case time.Time:
		return "date"
	case *SymbolValue:
		if x == nil {
			return "null"
		}
		return "symbol"
	case []any:
		return "array"
	case map[string]any:
		if x == nil {
			return "null"
		}
		return "object"
	case map[any]any:
		return "map"
	case map[any]struct{}:
		return "set"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "map"
	case reflect.Func:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// toFloat converts any Go numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// formatValue renders v for messages and map-entry paths.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case absent:
		return "undefined"
	case nil:
		return "null"
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	if f, ok := toFloat(v); ok {
		return formatFloat(f)
	}
	return fmt.Sprint(v)
}
