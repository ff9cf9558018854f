// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"fmt"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ValidationError.
const (
	// ErrEmptyProof indicates a proof without a suffix.
	ErrEmptyProof = ErrorKind("ErrEmptyProof")

	// ErrInvalidParams indicates a proof whose m or k is zero, or whose m
	// differs from the m it is compared under.
	ErrInvalidParams = ErrorKind("ErrInvalidParams")

	// ErrShortSuffix indicates a suffix shorter than the required k.
	ErrShortSuffix = ErrorKind("ErrShortSuffix")

	// ErrNonIncreasingHeight indicates headers that are not sorted by
	// strictly increasing height.
	ErrNonIncreasingHeight = ErrorKind("ErrNonIncreasingHeight")

	// ErrBrokenPrefix indicates a prefix header that is neither referenced
	// by the interlinks of its successor nor its parent.
	ErrBrokenPrefix = ErrorKind("ErrBrokenPrefix")

	// ErrBrokenSuffix indicates a suffix header whose parent is not the
	// previous suffix header.
	ErrBrokenSuffix = ErrorKind("ErrBrokenSuffix")

	// ErrInsufficientLevel indicates a prefix header referenced by an
	// interlink of a level its proof of work does not reach.
	ErrInsufficientLevel = ErrorKind("ErrInsufficientLevel")

	// ErrInterlinksProof indicates interlinks that do not match the
	// commitment in the header extension root.
	ErrInterlinksProof = ErrorKind("ErrInterlinksProof")

	// ErrPowHit indicates a header whose proof of work misses its target or
	// can not be evaluated.
	ErrPowHit = ErrorKind("ErrPowHit")

	// ErrBadHeaderID indicates a header whose claimed id is not the hash of
	// its content.
	ErrBadHeaderID = ErrorKind("ErrBadHeaderID")

	// ErrWrongGenesis indicates a proof anchored at a different genesis
	// than the verifier.
	ErrWrongGenesis = ErrorKind("ErrWrongGenesis")

	// ErrNoCommonAncestor indicates two proofs that share no header.
	ErrNoCommonAncestor = ErrorKind("ErrNoCommonAncestor")

	// ErrChainTooShort indicates a chain too short to be proven with the
	// requested parameters.
	ErrChainTooShort = ErrorKind("ErrChainTooShort")

	// ErrNotAnchored indicates a chain that does not start at a genesis
	// header.
	ErrNotAnchored = ErrorKind("ErrNotAnchored")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ValidationError identifies a rule violation of a proof. Index is the
// position of the offending header in the headers chain of the proof, or -1
// when the violation is not tied to a header.
type ValidationError struct {
	Err         error
	Index       int
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e ValidationError) Error() string {
	if e.Index < 0 {
		return e.Description
	}
	return fmt.Sprintf("header %d: %s", e.Index, e.Description)
}

// Unwrap returns the underlying wrapped error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// validationError creates a ValidationError given a set of arguments.
func validationError(kind ErrorKind, index int, format string, args ...interface{}) ValidationError {
	return ValidationError{Err: kind, Index: index, Description: fmt.Sprintf(format, args...)}
}
