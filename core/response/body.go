package response

import (
	"bytes"
	"io"
	"reflect"
)

// Body is the payload of a Response. The zero value is an empty body.
// Use TextBody, BinaryBody or StreamBody to construct one.
type Body struct {
	data   []byte
	stream io.Reader
}

// EmptyBody is a body without content.
var EmptyBody = Body{}

// TextBody creates a body from a string. The byte length is the length
// of its UTF-8 encoding.
func TextBody(s string) Body {
	if s == "" {
		return Body{}
	}
	return Body{data: []byte(s)}
}

// BinaryBody creates a body from raw bytes. The slice is not copied.
func BinaryBody(b []byte) Body {
	return Body{data: b}
}

// StreamBody creates a body read from r when the response is rendered.
// A nil reader, including a typed nil pointer, yields an empty body.
func StreamBody(r io.Reader) Body {
	if isNilReader(r) {
		return Body{}
	}
	return Body{stream: r}
}

func isNilReader(r io.Reader) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// IsEmpty reports whether the body carries no content.
func (b Body) IsEmpty() bool {
	return b.stream == nil && len(b.data) == 0
}

// IsStream reports whether the body is read from a stream.
func (b Body) IsStream() bool {
	return b.stream != nil
}

// Len returns the exact byte length of the body.
// The second result is false for streams whose size cannot be known
// without consuming them.
func (b Body) Len() (int64, bool) {
	if b.stream == nil {
		return int64(len(b.data)), true
	}
	if l, ok := b.stream.(interface{ Len() int }); ok {
		return int64(l.Len()), true
	}
	return 0, false
}

// Bytes returns the buffered content. Streams return nil.
func (b Body) Bytes() []byte {
	if b.stream != nil {
		return nil
	}
	return b.data
}

// Reader returns a reader over the body content.
func (b Body) Reader() io.Reader {
	if b.stream != nil {
		return b.stream
	}
	return bytes.NewReader(b.data)
}
