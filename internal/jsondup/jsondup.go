// Package jsondup finds object keys declared twice in one JSON object.
// Decoding into map[string]any silently keeps the last occurrence, so a
// strict boundary has to look at the token stream.
package jsondup

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Duplicate locates the second occurrence of a repeated key. Parents are the
// unescaped path segments of the enclosing object.
type Duplicate struct {
	Parents []string
	Key     string
}

// Pointer renders the location as an RFC 6901 JSON Pointer.
func (d Duplicate) Pointer() string {
	var b strings.Builder
	for _, seg := range d.Parents {
		b.WriteByte('/')
		b.WriteString(Escape(seg))
	}
	b.WriteByte('/')
	b.WriteString(Escape(d.Key))
	return b.String()
}

type frame struct {
	object    bool
	keys      map[string]struct{}
	wantKey   bool
	key       string // object: key of the value being read
	nextIndex int    // array: index of the value being read
}

// done marks the current member value as consumed.
func (f *frame) done() {
	if f.object {
		f.wantKey = true
		return
	}
	f.nextIndex++
}

func (f *frame) segment() string {
	if f.object {
		return f.key
	}
	return strconv.Itoa(f.nextIndex)
}

// First returns the first duplicate in document order. Syntax errors are
// returned as is.
func First(data []byte) (Duplicate, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []*frame
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return Duplicate{}, false, io.ErrUnexpectedEOF
			}
			return Duplicate{}, false, nil
		}
		if err != nil {
			return Duplicate{}, false, err
		}
		var top *frame
		if n := len(stack); n > 0 {
			top = stack[n-1]
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{':
				stack = append(stack, &frame{object: true, keys: map[string]struct{}{}, wantKey: true})
			case '[':
				stack = append(stack, &frame{})
			case '}', ']':
				stack = stack[:len(stack)-1]
				if n := len(stack); n > 0 {
					stack[n-1].done()
				}
			}
			continue
		}
		if top == nil {
			continue
		}
		if top.object && top.wantKey {
			key, _ := tok.(string)
			if _, dup := top.keys[key]; dup {
				return Duplicate{Parents: segments(stack[:len(stack)-1]), Key: key}, true, nil
			}
			top.keys[key] = struct{}{}
			top.key = key
			top.wantKey = false
			continue
		}
		top.done()
	}
}

func segments(parents []*frame) []string {
	out := make([]string, 0, len(parents))
	for _, f := range parents {
		out = append(out, f.segment())
	}
	return out
}

// Escape encodes one JSON Pointer reference token (RFC 6901): '~' becomes
// "~0" and '/' becomes "~1".
func Escape(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
