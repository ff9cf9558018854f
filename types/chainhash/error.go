// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"errors"
	"fmt"
)

var (
	// ErrHashStrSize describes an error that indicates the caller specified
	// a hash string that does not have the right number of characters.
	ErrHashStrSize = fmt.Errorf("hash string must be exactly %v hex characters", MaxHashStringSize)

	// ErrHashSize describes a byte slice that does not hold exactly HashSize
	// bytes.
	ErrHashSize = fmt.Errorf("hash must be exactly %v bytes", HashSize)

	// ErrMissingField is reported when a required document field is absent.
	ErrMissingField = errors.New("missing required field")
)

// DecodeError is returned for malformed wire or JSON input: bad hex, a
// missing field or a digest of the wrong length. It is never returned for
// input that parses but violates a chain rule.
type DecodeError struct {
	Field string
	Err   error
}

// NewDecodeError wraps err with the name of the offending field.
func NewDecodeError(field string, err error) *DecodeError {
	return &DecodeError{Field: field, Err: err}
}

// Error satisfies the error interface and prints human-readable errors.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return "decode: " + e.Err.Error()
	}
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying wrapped error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err carries a DecodeError in its chain.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
