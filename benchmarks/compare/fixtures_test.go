package compare_test

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/reoring/kanon"
)

const (
	cmpHugeN = 2000
	cmpHugeK = 4
)

func userSchema() kanon.ObjectSchema {
	return kanon.Object(
		kanon.Field("id", kanon.String().Min(3).Regex(regexp.MustCompile(`^u_`))),
		kanon.Field("name", kanon.String().Min(1)),
		kanon.Field("age", kanon.Number().Int().Min(0).Max(150)),
		kanon.Field("active", kanon.Boolean()),
		kanon.Field("meta", kanon.Object(kanon.Field("score", kanon.Number()))),
	)
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice","age":30,"active":true,"meta":{"score":1}}`)
}

// generateHugeJSONArray renders n users matching userSchema, each padded with
// extra string fields.
func generateHugeJSONArray(n, extra int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * (80 + extra*16))
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"id":"u_`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","name":"n`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`","age":`)
		buf.WriteString(strconv.Itoa(i % 100))
		if i%2 == 0 {
			buf.WriteString(`,"active":true`)
		} else {
			buf.WriteString(`,"active":false`)
		}
		buf.WriteString(`,"meta":{"score":`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`}`)
		for k := 0; k < extra; k++ {
			buf.WriteString(`,"k`)
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString(`":"v`)
			buf.WriteString(strconv.Itoa(k))
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
