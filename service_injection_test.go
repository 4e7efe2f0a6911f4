package kanon_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reoring/kanon"
)

type usernames interface{ Taken(name string) bool }

type fakeUsernames map[string]bool

func (f fakeUsernames) Taken(name string) bool { return f[name] }

// TestService_InRefinement looks up a dependency from the validation context.
func TestService_InRefinement(t *testing.T) {
	s := kanon.RefineContext(kanon.String().Min(3), func(ctx context.Context, v any) error {
		repo, err := kanon.RequireService[usernames](ctx)
		if err != nil {
			return err
		}
		if repo.Taken(v.(string)) {
			return errors.New("username is taken")
		}
		return nil
	})

	ctx := kanon.WithService[usernames](context.Background(), fakeUsernames{"ann": true})
	if r := s.ValidateContext(ctx, "bob"); !r.OK() {
		t.Fatalf("bob rejected: %s", r.Message())
	}
	if got := s.ValidateContext(ctx, "ann").Message(); got != "username is taken" {
		t.Fatalf("got %q", got)
	}
	if got := s.Validate("bob").Message(); got != kanon.ErrServiceUnavailable.Error() {
		t.Fatalf("missing service: got %q", got)
	}
}

// TestService_TypedKeys keeps services of different types apart.
func TestService_TypedKeys(t *testing.T) {
	ctx := kanon.WithService(context.Background(), 42)
	ctx = kanon.WithService(ctx, "tenant-a")
	if n, ok := kanon.Service[int](ctx); !ok || n != 42 {
		t.Fatalf("int service = %v %v", n, ok)
	}
	if s, ok := kanon.Service[string](ctx); !ok || s != "tenant-a" {
		t.Fatalf("string service = %v %v", s, ok)
	}
	if _, err := kanon.RequireService[float64](ctx); !errors.Is(err, kanon.ErrServiceUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
