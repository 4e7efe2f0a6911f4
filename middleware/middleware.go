// Package middleware validates JSON request bodies with kanon schemas in
// front of net/http handlers.
package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/reoring/kanon"
	"github.com/reoring/kanon/internal/logging"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// ctxKeyParsed is the context key of the validated body.
type ctxKeyParsed struct{}

// ContextWithParsed attaches a validated body to ctx.
func ContextWithParsed(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyParsed{}, parsed{v})
}

// ParsedFromContext retrieves the validated body stored by Validate.
func ParsedFromContext(ctx context.Context) (any, bool) {
	v, ok := ctx.Value(ctxKeyParsed{}).(parsed)
	return v.v, ok
}

// ParsedAs is ParsedFromContext with a type assertion.
func ParsedAs[T any](ctx context.Context) (T, bool) {
	v, ok := ParsedFromContext(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// parsed wraps the body so a JSON null is still distinguishable from a
// missing value.
type parsed struct{ v any }

// Options configures Validate.
type Options struct {
	// MaxBodyBytes limits the request body; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Logger receives one debug record per rejected request. nil discards.
	Logger *slog.Logger
	// AllowDuplicateKeys accepts bodies that repeat an object key; the last
	// value wins. By default they are rejected with 400.
	AllowDuplicateKeys bool
}

// Rejection is the answer to a refused request body.
type Rejection struct {
	Status int
	Issue  kanon.Issue
}

// Check reads the JSON body of r and validates it against s with the request
// context. It returns the validated (possibly coerced) body, or the status
// and issue to answer with:
//
//	400 malformed JSON or duplicate key, 413 body too large, 422 validation failure.
//
// w is only used to signal an oversized body to the server.
func Check(w http.ResponseWriter, r *http.Request, s kanon.Schema, opts Options) (any, *Rejection) {
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Debug("request body rejected", "path", r.URL.Path, "error", err)
		return nil, &Rejection{Status: status, Issue: kanon.Issue{Path: "/", Code: kanon.CodeParseError, Message: err.Error()}}
	}
	if !opts.AllowDuplicateKeys {
		if iss, found := kanon.DuplicateKey(data); found {
			log.Debug("request body rejected", "path", r.URL.Path, "code", iss.Code, "pointer", iss.Path)
			return nil, &Rejection{Status: http.StatusBadRequest, Issue: iss}
		}
	}
	res := kanon.SafeParseJSONContext(r.Context(), s, data)
	if !res.Success {
		status := http.StatusUnprocessableEntity
		if res.Issue.Code == kanon.CodeParseError {
			status = http.StatusBadRequest
		}
		log.Debug("request body invalid", "path", r.URL.Path, "code", res.Issue.Code, "pointer", res.Issue.Path)
		return nil, &Rejection{Status: status, Issue: res.Issue}
	}
	return res.Data, nil
}

// Validate is Check as net/http middleware. Valid bodies are stored in the
// request context for next (see ParsedFromContext); rejections are answered
// with ErrorPayload.
func Validate(s kanon.Schema, opts Options) func(http.Handler) http.Handler {
	if s == nil {
		panic("middleware: nil schema")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, rej := Check(w, r, s, opts)
			if rej != nil {
				writeIssue(w, rej.Status, rej.Issue)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithParsed(r.Context(), v)))
		})
	}
}

// ErrorPayload shapes an Issue for JSON responses.
func ErrorPayload(iss kanon.Issue) map[string]any {
	return map[string]any{"issue": iss}
}

func writeIssue(w http.ResponseWriter, status int, iss kanon.Issue) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorPayload(iss))
}
