// Package codec is the reversible text transform applied to source code and
// custom input before transmission. The backend expects base64 over UTF-8
// bytes, so any Unicode text round-trips.
package codec

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// DecodeError reports malformed wire text. Callers at the display boundary
// substitute a placeholder instead of propagating it.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode wire text: %v", e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// Encode produces the transport-safe form of text.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode is the exact inverse of Encode.
func Decode(wireText string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(wireText)
	if err != nil {
		return "", &DecodeError{cause: err}
	}
	if !utf8.Valid(b) {
		return "", &DecodeError{cause: fmt.Errorf("decoded bytes are not valid UTF-8")}
	}
	return string(b), nil
}
