// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package pow implements the proof-of-work arithmetic needed by a light client:
compact difficulty decoding, the Autolykos pow hit of a header and the
superblock level derived from it.

A header of difficulty D whose pow hit is h reaches level

	floor(log2(q / D) - log2(h))

where q is the order of the secp256k1 group. The genesis header is treated as
a superblock of every level.
*/
package pow
