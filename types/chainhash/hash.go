// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"bytes"
	"encoding/hex"
)

// HashSize of array used to store hashes.  See Hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// Hash is used in several of the chain messages and common structures.  It
// typically represents the Blake2b-256 of data.
type Hash [HashSize]byte

// ZeroHash is the all-zero sentinel, used as the parent id of a genesis header.
var ZeroHash Hash

// String returns the Hash as the hexadecimal string.
func (hash Hash) String() string {
	return hex.EncodeToString(hash[:])
}

// CloneBytes returns a copy of the bytes which represent the hash as a byte
// slice.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])

	return newHash
}

// SetBytes sets the bytes which represent the hash.  An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return NewDecodeError("hash", ErrHashSize)
	}
	copy(hash[:], newHash)

	return nil
}

// IsEqual returns true if target is the same as hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// IsZero reports whether the hash is the all-zero sentinel.
func (hash *Hash) IsZero() bool {
	return *hash == ZeroHash
}

// Compare orders hashes byte-wise.
func (hash *Hash) Compare(target *Hash) int {
	return bytes.Compare(hash[:], target[:])
}

// MarshalText renders the hash as hex, so it can be used directly in JSON
// documents and as a map key.
func (hash Hash) MarshalText() ([]byte, error) {
	return []byte(hash.String()), nil
}

// UnmarshalText parses a hex encoded hash.
func (hash *Hash) UnmarshalText(text []byte) error {
	return Decode(hash, string(text))
}

// NewHash returns a new Hash from a byte slice.  An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	err := sh.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &sh, err
}

// NewHashFromStr creates a Hash from a hash string.  The string must be the
// hexadecimal encoding of exactly HashSize bytes.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the hexadecimal string encoding of a Hash to a destination.
func Decode(dst *Hash, src string) error {
	if len(src) != MaxHashStringSize {
		return NewDecodeError("hash", ErrHashStrSize)
	}

	var h Hash
	if _, err := hex.Decode(h[:], []byte(src)); err != nil {
		return NewDecodeError("hash", err)
	}
	*dst = h
	return nil
}
