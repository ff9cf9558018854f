// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"errors"
	"sort"

	"github.com/thedlop/sigma-go/types/chainhash"
)

var (
	ErrEmptyTree        = errors.New("tree has no leaves")
	ErrIndexOutOfRange  = errors.New("leaf index out of range")
	ErrNoIndices        = errors.New("no leaf indices requested")
	ErrDuplicateIndices = errors.New("leaf indices must be unique")
)

// EmptyTreeRoot is the root of a tree without leaves.
var EmptyTreeRoot = chainhash.HashH(nil)

// Tree is a fully materialized Merkle tree. levels[0] holds the leaf hashes
// and the last level holds the root; nil entries are empty padding nodes.
type Tree struct {
	leaves [][]byte
	levels [][]*chainhash.Hash
}

// NewTree builds the tree over the given leaf data.
func NewTree(leaves ...[]byte) *Tree {
	tree := &Tree{leaves: make([][]byte, len(leaves))}
	if len(leaves) == 0 {
		return tree
	}

	level := make([]*chainhash.Hash, 0, len(leaves)+1)
	for i, data := range leaves {
		tree.leaves[i] = append([]byte(nil), data...)
		h := LeafHash(data)
		level = append(level, &h)
	}

	// A lone leaf still gets an empty sibling.
	if len(level) == 1 {
		level = append(level, nil)
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, nil)
		}
		tree.levels = append(tree.levels, level)

		next := make([]*chainhash.Hash, 0, len(level)/2+1)
		for i := 0; i < len(level); i += 2 {
			h := hashNodes(level[i], level[i+1])
			next = append(next, &h)
		}
		level = next
	}
	tree.levels = append(tree.levels, level)

	return tree
}

// LeafCount returns the number of real leaves.
func (t *Tree) LeafCount() int {
	return len(t.leaves)
}

// RootHash returns the commitment of the whole tree.
func (t *Tree) RootHash() chainhash.Hash {
	if len(t.levels) == 0 {
		return EmptyTreeRoot
	}
	return *t.levels[len(t.levels)-1][0]
}

// Proof returns the inclusion proof of the leaf at index.
func (t *Tree) Proof(index int) (*Proof, error) {
	if len(t.leaves) == 0 {
		return nil, ErrEmptyTree
	}
	if index < 0 || index >= len(t.leaves) {
		return nil, ErrIndexOutOfRange
	}

	proof := &Proof{LeafData: append([]byte(nil), t.leaves[index]...)}
	idx := index
	for _, level := range t.levels[:len(t.levels)-1] {
		side := Left
		if idx%2 == 1 {
			side = Right
		}
		proof.Levels = append(proof.Levels, LevelNode{
			Hash: cloneHash(level[idx^1]),
			Side: side,
		})
		idx /= 2
	}

	return proof, nil
}

// BatchProof returns one compact proof for all the requested leaves.
func (t *Tree) BatchProof(indices ...int) (*BatchProof, error) {
	if len(t.leaves) == 0 {
		return nil, ErrEmptyTree
	}
	if len(indices) == 0 {
		return nil, ErrNoIndices
	}

	a := append([]int(nil), indices...)
	sort.Ints(a)
	for i, index := range a {
		if index < 0 || index >= len(t.leaves) {
			return nil, ErrIndexOutOfRange
		}
		if i > 0 && a[i-1] == index {
			return nil, ErrDuplicateIndices
		}
	}

	proof := &BatchProof{}
	for _, index := range a {
		proof.Indices = append(proof.Indices, BatchIndex{
			Index: index,
			Hash:  *t.levels[0][index],
		})
	}

	for _, level := range t.levels[:len(t.levels)-1] {
		known := make(map[int]struct{}, len(a))
		for _, index := range a {
			known[index] = struct{}{}
		}

		next := make([]int, 0, len(a))
		for i := 0; i < len(a); i++ {
			index := a[i]
			sibling := index ^ 1
			if _, ok := known[sibling]; ok {
				// Both children are known, the pair is consumed at once.
				i++
			} else if index%2 == 0 {
				proof.Proofs = append(proof.Proofs, LevelNode{Hash: cloneHash(level[sibling]), Side: Right})
			} else {
				proof.Proofs = append(proof.Proofs, LevelNode{Hash: cloneHash(level[sibling]), Side: Left})
			}
			next = append(next, index/2)
		}
		a = next
	}

	return proof, nil
}

func cloneHash(h *chainhash.Hash) *chainhash.Hash {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}
