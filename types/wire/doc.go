// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the block header data model consumed by the chain
verification core: block ids, headers with their Autolykos solutions, header
extensions, interlink vectors and PoPoW headers.

Headers can be built from the raw serialized form (DeserializeHeader) or from
the node API JSON shape (encoding/json). Malformed input of either kind is
reported as a *chainhash.DecodeError. The types never check chain rules on
construction; linkage and superblock levels are verified when a proof is
processed.

Serialized header layout:

	version            1 byte
	parent id          32 bytes
	ad proofs root     32 bytes
	transactions root  32 bytes
	state root         33 bytes
	timestamp          VLQ
	extension root     32 bytes
	nBits              4 bytes, big endian
	height             VLQ
	votes              3 bytes
	unparsed bytes     1 byte length + data, version > 1 only
	solution           pk 33, w 33, nonce 8, d (1 byte length + data) for
	                   version 1; pk 33, nonce 8 otherwise
*/
package wire
