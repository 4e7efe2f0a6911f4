package kanon

import (
	"strconv"

	"github.com/reoring/kanon/internal/jsondup"
)

type resultState uint8

const (
	stateValid resultState = iota
	stateCoerced
	stateInvalid
)

// Result is the verdict of a validator: valid, coerced to a new value, or
// invalid with an Issue. The zero Result is valid; returning it never
// allocates.
type Result struct {
	state resultState
	value any
	issue *Issue
}

// Valid reports that the input was accepted unchanged.
func Valid() Result { return Result{} }

// Coerced reports that the input was accepted after conversion to v.
func Coerced(v any) Result { return Result{state: stateCoerced, value: v} }

// Invalid reports a failure at the current value.
func Invalid(code, message string) Result {
	return Result{state: stateInvalid, issue: &Issue{Path: "/", Code: code, Message: message}}
}

// OK reports whether the result is valid or coerced.
func (r Result) OK() bool { return r.state != stateInvalid }

// IsCoerced reports whether validation produced a converted value.
func (r Result) IsCoerced() bool { return r.state == stateCoerced }

// Value returns the coerced value, or nil when nothing was coerced.
func (r Result) Value() any { return r.value }

// Output returns the coerced value if any, otherwise input.
func (r Result) Output(input any) any {
	if r.state == stateCoerced {
		return r.value
	}
	return input
}

// Issue returns the failure, if any.
func (r Result) Issue() (Issue, bool) {
	if r.issue == nil {
		return Issue{}, false
	}
	return *r.issue, true
}

// Message returns the failure message or "".
func (r Result) Message() string {
	if r.issue == nil {
		return ""
	}
	return r.issue.Message
}

// Code returns the failure code or "".
func (r Result) Code() string {
	if r.issue == nil {
		return ""
	}
	return r.issue.Code
}

// Path returns the JSON Pointer of the failing value or "".
func (r Result) Path() string {
	if r.issue == nil {
		return ""
	}
	return r.issue.Path
}

func (r Result) String() string {
	switch r.state {
	case stateValid:
		return "valid"
	case stateCoerced:
		return "coerced"
	default:
		return "invalid: " + r.issue.Message
	}
}

// under rebases a failure below key: the message gains a "key: " prefix and
// the path a "/key" segment.
func (r Result) under(key string) Result {
	if r.issue == nil {
		return r
	}
	seg := "/" + jsondup.Escape(key)
	p := r.issue.Path
	if p == "" || p == "/" {
		p = seg
	} else {
		p = seg + p
	}
	return Result{state: stateInvalid, issue: &Issue{Path: p, Code: r.issue.Code, Message: key + ": " + r.issue.Message}}
}

func (r Result) underIndex(i int) Result { return r.under(strconv.Itoa(i)) }
