// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
)

// Interlinks is the superblock interlink vector of a header. Index 0 holds
// the genesis id. Every index i >= 1 holds the most recent ancestor of level
// at least len-i, so the highest level comes first and level 1 last.
//
// The vector is taken as supplied; structural checks are left to the proof
// validator, which knows the levels of the referenced headers.
type Interlinks []BlockID

// NewInterlinksFromBytes splits a concatenation of ids.
func NewInterlinksFromBytes(b []byte) (Interlinks, error) {
	if len(b)%chainhash.HashSize != 0 {
		return nil, chainhash.NewDecodeError("interlinks",
			errors.Errorf("length %d is not a multiple of %d", len(b), chainhash.HashSize))
	}

	links := make(Interlinks, len(b)/chainhash.HashSize)
	for i := range links {
		copy(links[i][:], b[i*chainhash.HashSize:])
	}
	return links, nil
}

// Bytes concatenates the ids.
func (l Interlinks) Bytes() []byte {
	b := make([]byte, 0, len(l)*chainhash.HashSize)
	for i := range l {
		b = append(b, l[i][:]...)
	}
	return b
}

// Genesis returns the anchor of the vector.
func (l Interlinks) Genesis() (BlockID, bool) {
	if len(l) == 0 {
		return BlockID{}, false
	}
	return l[0], true
}

// Level returns the superblock level the entry at index i points at. The
// genesis slot is level 0 because it carries no level claim.
func (l Interlinks) Level(i int) int {
	if i <= 0 || i >= len(l) {
		return 0
	}
	return len(l) - i
}

// HighestLevelOf returns the highest level at which id is referenced. The
// second result is false when id is absent.
func (l Interlinks) HighestLevelOf(id BlockID) (int, bool) {
	for i := range l {
		if l[i] == id {
			return l.Level(i), true
		}
	}
	return 0, false
}

// IsEqual compares two vectors element-wise.
func (l Interlinks) IsEqual(o Interlinks) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of the vector.
func (l Interlinks) Copy() Interlinks {
	if l == nil {
		return nil
	}
	return append(Interlinks(nil), l...)
}

// UpdateInterlinks computes the interlinks of the child of prev. prevLinks
// are the interlinks of prev and prevLevel its superblock level.
func UpdateInterlinks(prev *BlockHeader, prevLinks Interlinks, prevLevel int) Interlinks {
	if prev == nil {
		return Interlinks{}
	}
	if prev.IsGenesis() {
		return Interlinks{prev.ID}
	}
	if prevLevel <= 0 || len(prevLinks) == 0 {
		return prevLinks.Copy()
	}

	tail := prevLinks[1:]
	keep := len(tail) - prevLevel
	if keep < 0 {
		keep = 0
	}

	links := make(Interlinks, 0, 1+keep+prevLevel)
	links = append(links, prevLinks[0])
	links = append(links, tail[:keep]...)
	for i := 0; i < prevLevel; i++ {
		links = append(links, prev.ID)
	}
	return links
}
