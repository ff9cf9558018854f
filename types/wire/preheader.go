// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// PreHeader holds the header fields known before the block is mined. Script
// evaluation contexts are built from it.
type PreHeader struct {
	Version   uint8
	ParentID  BlockID
	Timestamp uint64
	NBits     uint64
	Height    uint32
	Votes     [3]byte
	MinerPk   [33]byte
}

// NewPreHeader extracts the pre-header of a mined header.
func NewPreHeader(h *BlockHeader) PreHeader {
	return PreHeader{
		Version:   h.Version,
		ParentID:  h.ParentID,
		Timestamp: h.Timestamp,
		NBits:     h.NBits,
		Height:    h.Height,
		Votes:     h.Votes,
		MinerPk:   h.Solution.MinerPk,
	}
}
