package benchmarks_test

import (
	"testing"

	"github.com/reoring/kanon"
)

func smallUserJSON() []byte {
	return []byte(`{"name":"Alice","email":"alice@example.com","age":30,"active":true,"role":"admin","tags":["a","b","c"]}`)
}

func Benchmark_ParseJSON_User_Interpreted(b *testing.B) {
	s := userSchema()
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := kanon.ParseJSON(s, data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseJSON_User_Compiled(b *testing.B) {
	s := kanon.Compile(userSchema())
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := kanon.ParseJSON(s, data); err != nil {
			b.Fatal(err)
		}
	}
}
