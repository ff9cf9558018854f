// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle implements the domain separated Merkle tree used for block
// commitments (transactions, extension data) together with single and batch
// inclusion proofs.
//
// Hashing rules:
//
//	leaf       = H(0x00 || data)
//	node       = H(0x01 || left || right)
//	node(odd)  = H(0x01 || left)          right sibling is empty
//	empty tree = H()
//
// Every level with an odd number of nodes is padded with an empty node, and
// a tree of a single leaf pairs it with an empty node as well, so the root is
// always an internal node hash.
package merkle
