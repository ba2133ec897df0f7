package mesh

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/anaminus/parse"
	"github.com/spaghettifunk/skelmesh/engine/math"
)

// reader decodes little-endian primitives from an in-memory buffer and
// checks every length prefix against the bytes left before allocating.
type reader struct {
	fr      *parse.BinaryReader
	size    int64
	section string
}

func newReader(data []byte) *reader {
	return &reader{
		fr:   parse.NewBinaryReader(bytes.NewReader(data)),
		size: int64(len(data)),
	}
}

func (r *reader) offset() int64 {
	return r.fr.N()
}

func (r *reader) remaining() int64 {
	return r.size - r.fr.N()
}

func (r *reader) fail(cause error) error {
	return DecodeError{Section: r.section, Offset: r.fr.N(), Cause: cause}
}

func (r *reader) malformed(format string, args ...interface{}) error {
	return r.fail(fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...)))
}

func (r *reader) outOfRange(id int) error {
	return r.fail(fmt.Errorf("%w: %d >= %d", ErrOutOfRangeID, id, BoneCapacity))
}

// need fails unless count entries of stride bytes fit in the remaining buffer.
func (r *reader) need(count int64, stride int64) error {
	if count*stride > r.remaining() {
		return r.malformed("%d entries of %d bytes exceed the %d remaining bytes", count, stride, r.remaining())
	}
	return nil
}

// number reads a fixed-size value, or a slice of them, into data.
func (r *reader) number(data interface{}) error {
	if r.fr.Number(data) {
		cause := r.fr.Err()
		if cause == nil {
			cause = io.ErrUnexpectedEOF
		}
		return r.malformed("truncated buffer: %v", cause)
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	var v uint8
	err := r.number(&v)
	return v, err
}

func (r *reader) u16() (uint16, error) {
	var v uint16
	err := r.number(&v)
	return v, err
}

func (r *reader) u32() (uint32, error) {
	var v uint32
	err := r.number(&v)
	return v, err
}

func (r *reader) f32() (float32, error) {
	var v float32
	err := r.number(&v)
	return v, err
}

func (r *reader) vec3() (math.Vec3, error) {
	var v [3]float32
	if err := r.number(&v); err != nil {
		return math.Vec3{}, err
	}
	return math.NewVec3(v[0], v[1], v[2]), nil
}

func (r *reader) vec4() (math.Vec4, error) {
	var v [4]float32
	if err := r.number(&v); err != nil {
		return math.Vec4{}, err
	}
	return math.NewVec4(v[0], v[1], v[2], v[3]), nil
}

// str reads a string prefixed by a 1-byte length.
func (r *reader) str() (string, error) {
	length, err := r.u8()
	if err != nil {
		return "", err
	}
	if err := r.need(int64(length), 1); err != nil {
		return "", err
	}
	b := make([]byte, length)
	if r.fr.Bytes(b) {
		return "", r.malformed("truncated string: %v", r.fr.Err())
	}
	if !utf8.Valid(b) {
		return "", r.malformed("invalid UTF-8 in name %q", b)
	}
	return string(b), nil
}

// count reads a 4-byte entry count and checks that count entries of stride
// bytes, plus extra leading bytes, are still available.
func (r *reader) count(stride int64, extra int64) (int, error) {
	n, err := r.u32()
	if err != nil {
		return 0, err
	}
	if err := r.need(1, extra+int64(n)*stride); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *reader) skip(n int64) error {
	if err := r.need(n, 1); err != nil {
		return err
	}
	if r.fr.Bytes(make([]byte, n)) {
		return r.malformed("truncated buffer: %v", r.fr.Err())
	}
	return nil
}
