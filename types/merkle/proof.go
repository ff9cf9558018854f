// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/thedlop/sigma-go/types/chainhash"
)

const (
	// LeafPrefix separates leaf hashes from internal node hashes.
	LeafPrefix byte = 0
	// InternalPrefix is prepended to the children of an internal node.
	InternalPrefix byte = 1
)

// NodeSide tells on which side of its parent the proven node sits at a
// given level of a single-leaf Proof.
type NodeSide uint8

const (
	// Left means the proven node is the left child, the sibling is on the right.
	Left NodeSide = 0
	// Right means the proven node is the right child, the sibling is on the left.
	Right NodeSide = 1
)

func (s NodeSide) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("NodeSide(%d)", uint8(s))
	}
}

// LevelNode is one step of a Merkle path. A nil Hash stands for the empty
// node used to pad odd levels.
type LevelNode struct {
	Hash *chainhash.Hash
	Side NodeSide
}

// NewLevelNode returns a path step with the given sibling hash.
func NewLevelNode(hash chainhash.Hash, side NodeSide) LevelNode {
	return LevelNode{Hash: &hash, Side: side}
}

// Proof is an inclusion proof for a single leaf. It is a plain value: it is
// only meaningful against a root supplied by the caller, so nothing is
// checked at construction time.
type Proof struct {
	LeafData []byte
	Levels   []LevelNode
}

// NewProof builds a proof for leafData with the given path, bottom level first.
func NewProof(leafData []byte, levels ...LevelNode) *Proof {
	return &Proof{
		LeafData: append([]byte(nil), leafData...),
		Levels:   append([]LevelNode(nil), levels...),
	}
}

// AddNode appends a level to the path.
func (p *Proof) AddNode(hash chainhash.Hash, side NodeSide) {
	p.Levels = append(p.Levels, NewLevelNode(hash, side))
}

// RootHash folds the path starting from the leaf and returns the root it
// commits to.
func (p *Proof) RootHash() chainhash.Hash {
	current := LeafHash(p.LeafData)
	for _, level := range p.Levels {
		if level.Side == Right {
			current = hashNodes(level.Hash, &current)
		} else {
			current = hashNodes(&current, level.Hash)
		}
	}

	return current
}

// Valid checks the proof against a raw root. A root of the wrong length
// never matches.
func (p *Proof) Valid(root []byte) bool {
	computed := p.RootHash()
	return bytes.Equal(computed[:], root)
}

// ValidHex checks the proof against a base16 encoded root. It returns a
// DecodeError for malformed hex and otherwise behaves exactly as Valid.
func (p *Proof) ValidHex(root string) (bool, error) {
	raw, err := hex.DecodeString(root)
	if err != nil {
		return false, chainhash.NewDecodeError("root", err)
	}
	return p.Valid(raw), nil
}

// LeafHash returns the hash of a leaf holding data.
func LeafHash(data []byte) chainhash.Hash {
	return chainhash.PrefixedHashH(LeafPrefix, data)
}

// hashNodes hashes two children into their parent. A nil child is an empty
// node and contributes no bytes.
func hashNodes(left, right *chainhash.Hash) chainhash.Hash {
	switch {
	case left == nil && right == nil:
		return chainhash.PrefixedHashH(InternalPrefix)
	case right == nil:
		return chainhash.PrefixedHashH(InternalPrefix, left[:])
	case left == nil:
		return chainhash.PrefixedHashH(InternalPrefix, right[:])
	default:
		return chainhash.PrefixedHashH(InternalPrefix, left[:], right[:])
	}
}
