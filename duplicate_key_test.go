package kanon_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reoring/kanon"
)

// TestDuplicateKey_ReportsFirstRepeat locates the second occurrence of a key.
func TestDuplicateKey_ReportsFirstRepeat(t *testing.T) {
	iss, found := kanon.DuplicateKey([]byte(`{"users":[{"id":1},{"id":2,"tags/x":{"a":1,"a":2}}],"z":1,"z":2}`))
	if !found {
		t.Fatalf("duplicate not found")
	}
	want := kanon.Issue{
		Path:    "/users/1/tags~1x/a",
		Code:    kanon.CodeDuplicateKey,
		Message: `users: 1: tags/x: a: duplicate key "a"`,
	}
	if diff := cmp.Diff(want, iss); diff != "" {
		t.Fatalf("issue mismatch (-want +got):\n%s", diff)
	}
}

// TestDuplicateKey_NoneOrMalformed reports nothing for clean or broken input.
func TestDuplicateKey_NoneOrMalformed(t *testing.T) {
	for _, doc := range []string{`{"a":1,"b":{"a":1}}`, `[{"a":1},{"a":2}]`, `{"a":`, ``} {
		if iss, found := kanon.DuplicateKey([]byte(doc)); found {
			t.Fatalf("%q: unexpected %+v", doc, iss)
		}
	}
	iss, _ := kanon.DuplicateKey([]byte(`{"a":1,"a":2}`))
	if iss.Message != `a: duplicate key "a"` || iss.Path != "/a" {
		t.Fatalf("got %+v", iss)
	}
}
