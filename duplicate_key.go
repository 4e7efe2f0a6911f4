package kanon

import (
	"strings"

	"github.com/reoring/kanon/internal/jsondup"
)

// DuplicateKey reports the first object key that data declares twice in the
// same object, as a duplicate_key issue at the second occurrence. Decoding
// keeps only the last value of a repeated key, so callers that need to
// reject such documents check the raw bytes before parsing. Malformed JSON
// reports no duplicate; ParseJSON describes the syntax error.
func DuplicateKey(data []byte) (Issue, bool) {
	d, found, err := jsondup.First(data)
	if err != nil || !found {
		return Issue{}, false
	}
	prefix := strings.Join(append(d.Parents, d.Key), ": ")
	return Issue{
		Path:    d.Pointer(),
		Code:    CodeDuplicateKey,
		Message: prefix + ": " + msg("duplicate_key", "key", d.Key),
	}, true
}
