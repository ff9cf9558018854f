// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the 32-byte digest type used for block ids,
// Merkle roots and every other commitment of the chain.
//
// The hash function is Blake2b-256. Digests are rendered as plain lowercase
// base16, without the byte reversal used by Bitcoin derived chains.
package chainhash
