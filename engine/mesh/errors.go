package mesh

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// Indicates a truncated buffer, a length prefix overrunning the buffer,
	// an invalid name or any other structural inconsistency.
	ErrMalformedInput = errors.New("malformed input")
	// Indicates a bone id that does not fit the fixed-capacity bone table.
	ErrOutOfRangeID = errors.New("bone id out of range")
)

// DecodeError wraps an error that occurred while decoding asset bytes.
type DecodeError struct {
	// Section is the name of the section being decoded, if any.
	Section string
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err DecodeError) Error() string {
	var s strings.Builder
	s.WriteString("decode error")
	if err.Section != "" {
		s.WriteString(" in section ")
		s.WriteString(err.Section)
	}
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DecodeError) Unwrap() error {
	return err.Cause
}
