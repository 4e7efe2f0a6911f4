package kanon

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// SafeParseResult is the outcome of SafeParse. On success Data holds the
// validated value (the coerced copy when coercion happened, the input
// otherwise); on failure Error holds the path-prefixed message and Issue the
// structured detail.
type SafeParseResult struct {
	Success bool
	Data    any
	Error   string
	Issue   Issue
}

// SafeParse validates data and never panics or returns an error for invalid
// input.
func SafeParse(s Schema, data any) SafeParseResult {
	return SafeParseContext(context.Background(), s, data)
}

// SafeParseContext is SafeParse with ctx handed to context-aware refinements.
func SafeParseContext(ctx context.Context, s Schema, data any) SafeParseResult {
	if s == nil {
		return SafeParseResult{Error: ErrNilSchema.Error(), Issue: Issue{Path: "/", Code: CodeParseError, Message: ErrNilSchema.Error()}}
	}
	return outcome(s.ValidateContext(ctx, data), data)
}

func outcome(r Result, data any) SafeParseResult {
	if iss, bad := r.Issue(); bad {
		return SafeParseResult{Error: iss.Message, Issue: iss}
	}
	return SafeParseResult{Success: true, Data: r.Output(data)}
}

// Parse returns the validated value or a *Error whose message equals the one
// SafeParse reports.
func Parse(s Schema, data any) (any, error) {
	return ParseContext(context.Background(), s, data)
}

// ParseContext is Parse with ctx handed to context-aware refinements.
func ParseContext(ctx context.Context, s Schema, data any) (any, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	return unwrap(outcome(s.ValidateContext(ctx, data), data))
}

func unwrap(res SafeParseResult) (any, error) {
	if !res.Success {
		return nil, &Error{Issue: res.Issue}
	}
	return res.Data, nil
}

// ParseAs is Parse followed by a type assertion of the output to T.
func ParseAs[T any](s Schema, data any) (T, error) {
	var zero T
	out, err := Parse(s, data)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("kanon: parsed value is %T, not %T", out, zero)
	}
	return t, nil
}

// ParseJSON decodes data into the generic JSON value model and parses it.
// Decoding errors are returned wrapped; they are not *Error.
func ParseJSON(s Schema, data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, decodeError(err)
	}
	return Parse(s, v)
}

// SafeParseJSON is the non-failing form of ParseJSON; malformed JSON becomes
// a parse_error issue at the root.
func SafeParseJSON(s Schema, data []byte) SafeParseResult {
	return SafeParseJSONContext(context.Background(), s, data)
}

// SafeParseJSONContext is SafeParseJSON with ctx handed to context-aware
// refinements.
func SafeParseJSONContext(ctx context.Context, s Schema, data []byte) SafeParseResult {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		m := decodeError(err).Error()
		return SafeParseResult{Error: m, Issue: Issue{Path: "/", Code: CodeParseError, Message: m}}
	}
	return SafeParseContext(ctx, s, v)
}

// SafeParseAsync validates data on its own goroutine with ctx handed to
// context-aware refinements. It returns once validation finishes or ctx is
// done, whichever comes first; in the latter case validation still runs to
// completion in the background and its result is discarded.
func SafeParseAsync(ctx context.Context, s Schema, data any) SafeParseResult {
	if s == nil {
		return SafeParseContext(ctx, s, data)
	}
	done := make(chan SafeParseResult, 1)
	go func() { done <- SafeParseContext(ctx, s, data) }()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		select {
		case res := <-done:
			return res
		default:
		}
		m := msg("canceled") + ": " + ctx.Err().Error()
		return SafeParseResult{Error: m, Issue: Issue{Path: "/", Code: CodeCanceled, Message: m}}
	}
}

// ParseAsync is the failing form of SafeParseAsync. When ctx is done first
// the returned error wraps ctx.Err().
func ParseAsync(ctx context.Context, s Schema, data any) (any, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	res := SafeParseAsync(ctx, s, data)
	if !res.Success && res.Issue.Code == CodeCanceled {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("kanon: %w", err)
		}
	}
	return unwrap(res)
}
