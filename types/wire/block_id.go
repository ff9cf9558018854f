// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/thedlop/sigma-go/types/chainhash"
)

// BlockID identifies a block header. It is the hash of the serialized header.
type BlockID chainhash.Hash

// NewBlockIDFromStr parses a base16 block id.
func NewBlockIDFromStr(s string) (BlockID, error) {
	var h chainhash.Hash
	if err := chainhash.Decode(&h, s); err != nil {
		return BlockID{}, err
	}
	return BlockID(h), nil
}

// Hash returns the id as a plain digest.
func (id BlockID) Hash() chainhash.Hash {
	return chainhash.Hash(id)
}

// String returns the id as the hexadecimal string.
func (id BlockID) String() string {
	return chainhash.Hash(id).String()
}

// IsZero reports whether id is the sentinel parent of a genesis header.
func (id BlockID) IsZero() bool {
	return chainhash.Hash(id) == chainhash.ZeroHash
}

// MarshalText renders the id as hex.
func (id BlockID) MarshalText() ([]byte, error) {
	return chainhash.Hash(id).MarshalText()
}

// UnmarshalText parses a hex encoded id.
func (id *BlockID) UnmarshalText(text []byte) error {
	return (*chainhash.Hash)(id).UnmarshalText(text)
}
