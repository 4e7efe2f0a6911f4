package kanon

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Coercing factories convert mismatched input instead of rejecting it.
// Already-typed input is reported Valid (not Coerced) so composites do not
// copy for a no-op.
var (
	coerceStringDefault  = StringSchema{handle{&Node{kind: KindString, coerce: true}}}
	coerceNumberDefault  = NumberSchema{handle{&Node{kind: KindNumber, coerce: true}}}
	coerceBigIntDefault  = BigIntSchema{handle{&Node{kind: KindBigInt, coerce: true}}}
	coerceDateDefault    = DateSchema{handle{&Node{kind: KindDate, coerce: true}}}
	coerceBooleanDefault = &Node{kind: KindBoolean, coerce: true}
)

func coercing(kind Kind, message []string) *Node {
	n := newNode(kind, message)
	n.coerce = true
	return n
}

// CoerceString converts numbers, booleans, big integers and dates to strings.
func CoerceString(message ...string) StringSchema {
	if len(message) == 0 {
		return coerceStringDefault
	}
	return StringSchema{handle{coercing(KindString, message)}}
}

// CoerceNumber converts booleans (1/0), numeric strings, big integers and
// dates (Unix milliseconds) to float64. Blank strings, nil and NaN results are
// rejected.
func CoerceNumber(message ...string) NumberSchema {
	if len(message) == 0 {
		return coerceNumberDefault
	}
	return NumberSchema{handle{coercing(KindNumber, message)}}
}

// CoerceBigInt converts integers, integral floats, booleans and integer
// strings (0x/0o/0b prefixes allowed) to *big.Int.
func CoerceBigInt(message ...string) BigIntSchema {
	if len(message) == 0 {
		return coerceBigIntDefault
	}
	return BigIntSchema{handle{coercing(KindBigInt, message)}}
}

// CoerceDate converts RFC 3339 / YYYY-MM-DD strings and Unix millisecond
// numbers to time.Time.
func CoerceDate(message ...string) DateSchema {
	if len(message) == 0 {
		return coerceDateDefault
	}
	return DateSchema{handle{coercing(KindDate, message)}}
}

// CoerceBoolean converts 0/1 and the strings true/false, 1/0, yes/no, on/off
// (case-insensitive) to bool.
func CoerceBoolean(message ...string) *Node {
	if len(message) == 0 {
		return coerceBooleanDefault
	}
	return coercing(KindBoolean, message)
}

func (n *Node) cannotCoerce(expected string, v any) Result {
	return n.failWith(CodeCoercion, "coercion_failed", "received", quoteValue(v), "expected", expected)
}

func coerceNumber(n *Node, v any) Result {
	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) {
			return n.cannotCoerce("number", v)
		}
		return Valid()
	}
	switch x := v.(type) {
	case bool:
		if x {
			return Coerced(float64(1))
		}
		return Coerced(float64(0))
	case string:
		if f, ok := parseNumber(x); ok {
			return Coerced(f)
		}
	case json.Number:
		if f, ok := parseNumber(string(x)); ok {
			return Coerced(f)
		}
	case *big.Int:
		if x != nil {
			f, _ := new(big.Float).SetInt(x).Float64()
			return Coerced(f)
		}
	case time.Time:
		return Coerced(float64(x.UnixMilli()))
	}
	return n.cannotCoerce("number", v)
}

// parseNumber parses a trimmed numeric string; blank input and NaN fail.
func parseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		i, ierr := strconv.ParseInt(t, 0, 64)
		if ierr != nil {
			return 0, false
		}
		f = float64(i)
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func coerceBigInt(n *Node, v any) Result {
	switch x := v.(type) {
	case *big.Int:
		if x != nil {
			return Valid()
		}
	case int:
		return Coerced(big.NewInt(int64(x)))
	case int8:
		return Coerced(big.NewInt(int64(x)))
	case int16:
		return Coerced(big.NewInt(int64(x)))
	case int32:
		return Coerced(big.NewInt(int64(x)))
	case int64:
		return Coerced(big.NewInt(x))
	case uint:
		return Coerced(new(big.Int).SetUint64(uint64(x)))
	case uint8:
		return Coerced(new(big.Int).SetUint64(uint64(x)))
	case uint16:
		return Coerced(new(big.Int).SetUint64(uint64(x)))
	case uint32:
		return Coerced(new(big.Int).SetUint64(uint64(x)))
	case uint64:
		return Coerced(new(big.Int).SetUint64(x))
	case float32:
		if b, ok := integralBig(float64(x)); ok {
			return Coerced(b)
		}
	case float64:
		if b, ok := integralBig(x); ok {
			return Coerced(b)
		}
	case bool:
		if x {
			return Coerced(big.NewInt(1))
		}
		return Coerced(big.NewInt(0))
	case string:
		if b, ok := parseBigInt(x); ok {
			return Coerced(b)
		}
	case json.Number:
		if b, ok := parseBigInt(string(x)); ok {
			return Coerced(b)
		}
	}
	return n.cannotCoerce("bigint", v)
}

func integralBig(f float64) (*big.Int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	b, _ := big.NewFloat(f).Int(nil)
	return b, true
}

func parseBigInt(s string) (*big.Int, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil, false
	}
	return new(big.Int).SetString(t, 0)
}

func coerceBoolean(n *Node, v any) Result {
	switch x := v.(type) {
	case bool:
		return Valid()
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "on":
			return Coerced(true)
		case "false", "0", "no", "off":
			return Coerced(false)
		}
	default:
		if f, ok := toFloat(v); ok {
			switch f {
			case 1:
				return Coerced(true)
			case 0:
				return Coerced(false)
			}
		}
	}
	return n.cannotCoerce("boolean", v)
}

func coerceString(n *Node, v any) Result {
	switch x := v.(type) {
	case string:
		return Valid()
	case json.Number:
		return Coerced(string(x))
	case bool:
		return Coerced(strconv.FormatBool(x))
	case float64:
		if !math.IsNaN(x) {
			return Coerced(formatFloat(x))
		}
	case float32:
		if !math.IsNaN(float64(x)) {
			return Coerced(strconv.FormatFloat(float64(x), 'f', -1, 32))
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Coerced(fmt.Sprint(x))
	case *big.Int:
		if x != nil {
			return Coerced(x.String())
		}
	case time.Time:
		return Coerced(x.Format(time.RFC3339Nano))
	}
	return n.cannotCoerce("string", v)
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// maxDateMillis bounds numeric date input to ±100,000,000 days around the
// epoch; larger magnitudes would wrap in the int64 conversion.
const maxDateMillis = 8.64e15

func coerceDate(n *Node, v any) Result {
	switch x := v.(type) {
	case time.Time:
		return Valid()
	case string:
		t := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, t); err == nil {
				return Coerced(d)
			}
		}
	default:
		if f, ok := toFloat(v); ok && !math.IsNaN(f) && math.Abs(f) <= maxDateMillis {
			return Coerced(time.UnixMilli(int64(f)).UTC())
		}
	}
	return n.cannotCoerce("date", v)
}
