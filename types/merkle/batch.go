// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"bytes"
	"sort"

	"github.com/thedlop/sigma-go/types/chainhash"
)

// BatchIndex is a proven leaf: its position in the tree and its leaf hash.
type BatchIndex struct {
	Index int
	Hash  chainhash.Hash
}

// BatchProof proves several leaves of one tree at once. Unlike Proof, the
// Side of every node in Proofs is the side of the sibling itself: Left means
// the supplied hash is the left child.
type BatchProof struct {
	Indices []BatchIndex
	Proofs  []LevelNode
}

// RootHash reconstructs the root committed to by the proof. The second
// return value is false when the proof is structurally unusable: no indices,
// duplicated indices or too few proof nodes.
func (p *BatchProof) RootHash() (chainhash.Hash, bool) {
	if len(p.Indices) == 0 {
		return chainhash.Hash{}, false
	}

	entries := append([]BatchIndex(nil), p.Indices...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	a := make([]int, len(entries))
	hashes := make([]chainhash.Hash, len(entries))
	for i, entry := range entries {
		if entry.Index < 0 || (i > 0 && entries[i-1].Index == entry.Index) {
			return chainhash.Hash{}, false
		}
		a[i] = entry.Index
		hashes[i] = entry.Hash
	}

	pos := 0
	for {
		nextA := make([]int, 0, len(a))
		nextHashes := make([]chainhash.Hash, 0, len(a))

		for i := 0; i < len(a); {
			if i+1 < len(a) && a[i]/2 == a[i+1]/2 {
				nextHashes = append(nextHashes, hashNodes(&hashes[i], &hashes[i+1]))
				nextA = append(nextA, a[i]/2)
				i += 2
				continue
			}

			if pos >= len(p.Proofs) {
				return chainhash.Hash{}, false
			}
			node := p.Proofs[pos]
			pos++

			if node.Side == Left {
				nextHashes = append(nextHashes, hashNodes(node.Hash, &hashes[i]))
			} else {
				nextHashes = append(nextHashes, hashNodes(&hashes[i], node.Hash))
			}
			nextA = append(nextA, a[i]/2)
			i++
		}

		a, hashes = nextA, nextHashes
		if pos >= len(p.Proofs) && len(hashes) <= 1 {
			break
		}
	}

	return hashes[0], true
}

// Valid checks the proof against a raw root.
func (p *BatchProof) Valid(root []byte) bool {
	computed, ok := p.RootHash()
	if !ok {
		return false
	}
	return bytes.Equal(computed[:], root)
}

// Contains reports whether the proof covers a leaf with the given hash.
func (p *BatchProof) Contains(leafHash chainhash.Hash) bool {
	for _, index := range p.Indices {
		if index.Hash == leafHash {
			return true
		}
	}
	return false
}
