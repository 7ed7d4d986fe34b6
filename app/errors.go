package app

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Decode error kinds. A *DecodeError unwraps to exactly one of these, so
// callers can branch with errors.Is.
var (
	// ErrInvalidToken is returned when the byte at a value boundary does not
	// start any bencode value, or when bytes trail a value that must stand alone.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedInteger is returned for empty digit runs, leading zeros,
	// negative zero, stray characters or overflow, in integers as well as
	// in byte string length prefixes.
	ErrMalformedInteger = errors.New("malformed integer")

	// ErrUnterminatedValue is returned when a list, dictionary or integer
	// is missing its terminating 'e'.
	ErrUnterminatedValue = errors.New("unterminated value")

	// ErrUnterminatedLength is returned when a byte string length prefix is
	// not followed by a colon.
	ErrUnterminatedLength = errors.New("unterminated length")

	// ErrTruncatedData is returned when a byte string declares more bytes
	// than the buffer holds.
	ErrTruncatedData = errors.New("truncated data")

	// ErrInvalidKeyType is returned when a dictionary key is not a byte string.
	ErrInvalidKeyType = errors.New("invalid key type")

	// ErrDuplicateKey is returned when a dictionary key appears twice.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNestingTooDeep is returned when lists and dictionaries nest deeper
	// than the configured maximum.
	ErrNestingTooDeep = errors.New("nesting too deep")

	// ErrEmptyInput is returned when there is nothing to decode.
	ErrEmptyInput = errors.New("empty input")
)

// DecodeError describes why and where decoding failed.
type DecodeError struct {
	// Kind is one of the Err* sentinels of this package.
	Kind error
	// Offset is the byte offset at which the problem was detected.
	Offset int
	// Token is the offending byte, when there is one.
	Token byte
	// Msg carries optional detail.
	Msg string
}

func newDecodeError(kind error, offset int, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Msg: msg}
}

// Error returns the string representation of the error.
func (e *DecodeError) Error() string {
	var s string
	if errors.Is(e.Kind, ErrInvalidToken) || errors.Is(e.Kind, ErrInvalidKeyType) {
		s = fmt.Sprintf("bencode: %v %s at offset %d", e.Kind, strconv.QuoteRune(rune(e.Token)), e.Offset)
	} else {
		s = fmt.Sprintf("bencode: %v at offset %d", e.Kind, e.Offset)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// ErrorOffset returns the offset carried by a *DecodeError anywhere in err's
// chain, or -1.
func ErrorOffset(err error) int {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset
	}
	return -1
}
