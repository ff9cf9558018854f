// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// HashB calculates hash(b) and returns the resulting bytes.
func HashB(b []byte) []byte {
	hash := blake2b.Sum256(b)
	return hash[:]
}

// HashH calculates hash(b) and returns the resulting bytes as a Hash.
func HashH(b []byte) Hash {
	return Hash(blake2b.Sum256(b))
}

// PrefixedHashH calculates hash(prefix || chunks...). Merkle trees use it to
// separate leaf hashes from internal node hashes.
func PrefixedHashH(prefix byte, chunks ...[]byte) Hash {
	h := New()
	h.Write([]byte{prefix})
	for _, chunk := range chunks {
		h.Write(chunk)
	}

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// New returns a new hash.Hash computing the hash written to the object.
func New() hash.Hash {
	// blake2b.New256 only fails for oversized keys.
	h, _ := blake2b.New256(nil)
	return h
}
