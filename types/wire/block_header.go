// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
)

const (
	// InitialVersion is the header version of Autolykos v1 blocks.
	InitialVersion uint8 = 1

	// Interpreter60Version is the first version mined with Autolykos v2.
	Interpreter60Version uint8 = 2

	// GenesisHeight is the height of the first block of the chain.
	GenesisHeight uint32 = 1

	// MaxBlockHeaderPayload bounds the size of a serialized header.
	MaxBlockHeaderPayload = 1 + 32*4 + 33 + MaxVLQPayload*2 + 4 + 3 + 1 + 255 + 33*2 + 8 + 1 + 255
)

// AutolykosSolution is the proof-of-work solution of a header. W and D are
// only carried by version 1 headers, later versions recompute the hit from
// the header itself.
type AutolykosSolution struct {
	MinerPk [33]byte
	W       [33]byte
	Nonce   [8]byte
	D       *big.Int
}

// IsEqual compares two solutions field by field.
func (s *AutolykosSolution) IsEqual(o *AutolykosSolution) bool {
	if s.MinerPk != o.MinerPk || s.W != o.W || s.Nonce != o.Nonce {
		return false
	}
	if s.D == nil || o.D == nil {
		return s.D == nil && o.D == nil
	}
	return s.D.Cmp(o.D) == 0
}

// BlockHeader holds the header fields needed to verify a chain of headers.
// A header is immutable once built; ID is either read from the source
// document or computed with ComputeID.
type BlockHeader struct {
	ID               BlockID
	Version          uint8
	ParentID         BlockID
	ADProofsRoot     chainhash.Hash
	StateRoot        [33]byte
	TransactionsRoot chainhash.Hash
	Timestamp        uint64
	NBits            uint64
	Height           uint32
	ExtensionRoot    chainhash.Hash
	Solution         AutolykosSolution
	Votes            [3]byte
	UnparsedBytes    []byte
}

// IsGenesis reports whether h is the first header of its chain.
func (h *BlockHeader) IsGenesis() bool {
	return h.Height == GenesisHeight && h.ParentID.IsZero()
}

// ComputeID returns the hash of the serialized header.
func (h *BlockHeader) ComputeID() (BlockID, error) {
	raw, err := h.Bytes()
	if err != nil {
		return BlockID{}, err
	}
	return BlockID(chainhash.HashH(raw)), nil
}

// Bytes returns the full serialized header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 256))
	if err := h.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BytesWithoutPow returns the header serialized without its solution. It is
// the message the miner solves for.
func (h *BlockHeader) BytesWithoutPow() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 256))
	if err := h.SerializeWithoutPow(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeWithoutPow writes every header field except the solution.
func (h *BlockHeader) SerializeWithoutPow(w io.Writer) error {
	if h.NBits > 0xffffffff {
		return errors.Errorf("nBits %d does not fit in 4 bytes", h.NBits)
	}

	err := WriteElements(w, h.Version, h.ParentID, h.ADProofsRoot,
		h.TransactionsRoot, h.StateRoot)
	if err != nil {
		return err
	}
	if err = WriteVLQ(w, h.Timestamp); err != nil {
		return err
	}
	if err = WriteElements(w, h.ExtensionRoot, uint32(h.NBits)); err != nil {
		return err
	}
	if err = WriteVLQ(w, uint64(h.Height)); err != nil {
		return err
	}
	if err = WriteElement(w, h.Votes); err != nil {
		return err
	}

	if h.Version > InitialVersion {
		return WriteVarBytes(w, "unparsed bytes", h.UnparsedBytes)
	}
	return nil
}

// Serialize writes the header including its solution.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := h.SerializeWithoutPow(w); err != nil {
		return err
	}
	return h.serializeSolution(w)
}

func (h *BlockHeader) serializeSolution(w io.Writer) error {
	s := &h.Solution
	if h.Version > InitialVersion {
		return WriteElements(w, s.MinerPk, s.Nonce)
	}

	if err := WriteElements(w, s.MinerPk, s.W, s.Nonce); err != nil {
		return err
	}
	return WriteVarBytes(w, "pow distance", unsignedBytes(s.D))
}

// Deserialize reads a header from r. The id is not set; callers working
// with raw bytes should use DeserializeHeader.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	var nBits uint32
	err := ReadElements(r, &h.Version, &h.ParentID, &h.ADProofsRoot,
		&h.TransactionsRoot, &h.StateRoot)
	if err != nil {
		return err
	}
	if h.Timestamp, err = ReadVLQ(r); err != nil {
		return errors.Wrap(err, "timestamp")
	}
	if err = ReadElements(r, &h.ExtensionRoot, &nBits); err != nil {
		return err
	}
	h.NBits = uint64(nBits)

	height, err := ReadVLQ(r)
	if err != nil {
		return errors.Wrap(err, "height")
	}
	if height > 0xffffffff {
		return errors.Errorf("height %d overflows uint32", height)
	}
	h.Height = uint32(height)

	if err = ReadElement(r, &h.Votes); err != nil {
		return err
	}

	h.UnparsedBytes = nil
	if h.Version > InitialVersion {
		if h.UnparsedBytes, err = ReadVarBytes(r, "unparsed bytes"); err != nil {
			return err
		}
	}

	s := &h.Solution
	*s = AutolykosSolution{}
	if h.Version > InitialVersion {
		return ReadElements(r, &s.MinerPk, &s.Nonce)
	}

	if err = ReadElements(r, &s.MinerPk, &s.W, &s.Nonce); err != nil {
		return err
	}
	d, err := ReadVarBytes(r, "pow distance")
	if err != nil {
		return err
	}
	s.D = new(big.Int).SetBytes(d)
	return nil
}

// DeserializeHeader builds a header from its serialized form. The id is the
// hash of raw. Oversized or truncated input and trailing bytes produce a
// DecodeError.
func DeserializeHeader(raw []byte) (*BlockHeader, error) {
	if len(raw) > MaxBlockHeaderPayload {
		return nil, chainhash.NewDecodeError("header",
			errors.Errorf("%d bytes exceed the %d bytes limit", len(raw), MaxBlockHeaderPayload))
	}
	r := bytes.NewReader(raw)
	h := new(BlockHeader)
	if err := h.Deserialize(r); err != nil {
		return nil, chainhash.NewDecodeError("header", err)
	}
	if r.Len() != 0 {
		return nil, chainhash.NewDecodeError("header",
			errors.Errorf("%d trailing bytes", r.Len()))
	}

	h.ID = BlockID(chainhash.HashH(raw))
	return h, nil
}

// IsEqual compares two headers structurally.
func (h *BlockHeader) IsEqual(o *BlockHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.ID == o.ID &&
		h.Version == o.Version &&
		h.ParentID == o.ParentID &&
		h.ADProofsRoot == o.ADProofsRoot &&
		h.StateRoot == o.StateRoot &&
		h.TransactionsRoot == o.TransactionsRoot &&
		h.Timestamp == o.Timestamp &&
		h.NBits == o.NBits &&
		h.Height == o.Height &&
		h.ExtensionRoot == o.ExtensionRoot &&
		h.Votes == o.Votes &&
		bytes.Equal(h.UnparsedBytes, o.UnparsedBytes) &&
		h.Solution.IsEqual(&o.Solution)
}

// Copy creates a deep copy of a BlockHeader so that the original does not get
// modified when the copy is manipulated.
func (h *BlockHeader) Copy() *BlockHeader {
	clone := *h
	if h.UnparsedBytes != nil {
		clone.UnparsedBytes = append([]byte(nil), h.UnparsedBytes...)
	}
	if h.Solution.D != nil {
		clone.Solution.D = new(big.Int).Set(h.Solution.D)
	}
	return &clone
}

// unsignedBytes mirrors the reference encoding of the pow distance: minimal
// big endian bytes, with zero encoded as a single zero byte.
func unsignedBytes(d *big.Int) []byte {
	if d == nil || d.Sign() == 0 {
		return []byte{0}
	}
	return d.Bytes()
}
