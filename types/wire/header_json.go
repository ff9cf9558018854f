// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
)

// headerJSON is the document shape served by the node API. Pointers mark
// required fields so that their absence can be told apart from zero values.
type headerJSON struct {
	ID               *string           `json:"id,omitempty"`
	Version          *uint8            `json:"version"`
	ParentID         *string           `json:"parentId"`
	ADProofsRoot     *string           `json:"adProofsRoot"`
	StateRoot        *string           `json:"stateRoot"`
	TransactionsRoot *string           `json:"transactionsRoot"`
	Timestamp        *uint64           `json:"timestamp"`
	NBits            *uint64           `json:"nBits"`
	Height           *uint32           `json:"height"`
	ExtensionHash    *string           `json:"extensionHash"`
	PowSolutions     *powSolutionsJSON `json:"powSolutions"`
	Votes            *string           `json:"votes"`
	UnparsedBytes    *string           `json:"unparsedBytes,omitempty"`
}

type powSolutionsJSON struct {
	Pk *string      `json:"pk"`
	W  *string      `json:"w,omitempty"`
	N  *string      `json:"n"`
	D  *json.Number `json:"d,omitempty"`
}

// MarshalJSON encodes the header in the node API shape. The pow distance is
// written as a decimal string so that it survives JSON number precision.
func (h *BlockHeader) MarshalJSON() ([]byte, error) {
	str := func(s string) *string { return &s }
	hexOf := func(b []byte) *string { return str(hex.EncodeToString(b)) }

	sol := &powSolutionsJSON{
		Pk: hexOf(h.Solution.MinerPk[:]),
		N:  hexOf(h.Solution.Nonce[:]),
	}
	if h.Version <= InitialVersion {
		d := json.Number(unsignedInt(h.Solution.D).String())
		sol.W = hexOf(h.Solution.W[:])
		sol.D = &d
	}

	doc := headerJSON{
		ID:               str(h.ID.String()),
		Version:          &h.Version,
		ParentID:         str(h.ParentID.String()),
		ADProofsRoot:     str(h.ADProofsRoot.String()),
		StateRoot:        hexOf(h.StateRoot[:]),
		TransactionsRoot: str(h.TransactionsRoot.String()),
		Timestamp:        &h.Timestamp,
		NBits:            &h.NBits,
		Height:           &h.Height,
		ExtensionHash:    str(h.ExtensionRoot.String()),
		PowSolutions:     sol,
		Votes:            hexOf(h.Votes[:]),
	}
	if h.Version > InitialVersion {
		doc.UnparsedBytes = hexOf(h.UnparsedBytes)
	}
	return json.Marshal(&doc)
}

// UnmarshalJSON decodes a header from the node API shape. When the document
// carries no id it is computed from the decoded fields.
func (h *BlockHeader) UnmarshalJSON(data []byte) error {
	var doc headerJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return chainhash.NewDecodeError("header", err)
	}

	var out BlockHeader
	if err := doc.fill(&out); err != nil {
		return err
	}

	if doc.ID != nil {
		if err := decodeFixed("id", *doc.ID, out.ID[:]); err != nil {
			return err
		}
	} else {
		id, err := out.ComputeID()
		if err != nil {
			return chainhash.NewDecodeError("header", err)
		}
		out.ID = id
	}

	*h = out
	return nil
}

// NewBlockHeaderFromJSON parses a single header document.
func NewBlockHeaderFromJSON(data []byte) (*BlockHeader, error) {
	h := new(BlockHeader)
	if err := json.Unmarshal(data, h); err != nil {
		return nil, asDecodeError("header", err)
	}
	return h, nil
}

func (doc *headerJSON) fill(h *BlockHeader) error {
	switch {
	case doc.Version == nil:
		return missing("version")
	case doc.Timestamp == nil:
		return missing("timestamp")
	case doc.NBits == nil:
		return missing("nBits")
	case doc.Height == nil:
		return missing("height")
	case doc.PowSolutions == nil:
		return missing("powSolutions")
	}
	h.Version = *doc.Version
	h.Timestamp = *doc.Timestamp
	h.NBits = *doc.NBits
	h.Height = *doc.Height

	fixed := []struct {
		name string
		src  *string
		dst  []byte
	}{
		{"parentId", doc.ParentID, h.ParentID[:]},
		{"adProofsRoot", doc.ADProofsRoot, h.ADProofsRoot[:]},
		{"stateRoot", doc.StateRoot, h.StateRoot[:]},
		{"transactionsRoot", doc.TransactionsRoot, h.TransactionsRoot[:]},
		{"extensionHash", doc.ExtensionHash, h.ExtensionRoot[:]},
		{"votes", doc.Votes, h.Votes[:]},
		{"powSolutions.pk", doc.PowSolutions.Pk, h.Solution.MinerPk[:]},
		{"powSolutions.n", doc.PowSolutions.N, h.Solution.Nonce[:]},
	}
	for _, f := range fixed {
		if f.src == nil {
			return missing(f.name)
		}
		if err := decodeFixed(f.name, *f.src, f.dst); err != nil {
			return err
		}
	}

	if doc.UnparsedBytes != nil {
		b, err := hex.DecodeString(*doc.UnparsedBytes)
		if err != nil {
			return chainhash.NewDecodeError("unparsedBytes", err)
		}
		if len(b) > 0 {
			h.UnparsedBytes = b
		}
	}

	if h.Version > InitialVersion {
		return nil
	}

	sol := doc.PowSolutions
	if sol.W == nil {
		return missing("powSolutions.w")
	}
	if err := decodeFixed("powSolutions.w", *sol.W, h.Solution.W[:]); err != nil {
		return err
	}
	if sol.D == nil {
		return missing("powSolutions.d")
	}
	d, ok := new(big.Int).SetString(sol.D.String(), 10)
	if !ok || d.Sign() < 0 {
		return chainhash.NewDecodeError("powSolutions.d",
			errors.Errorf("invalid distance %q", sol.D.String()))
	}
	h.Solution.D = d
	return nil
}

// decodeFixed decodes s into dst, requiring exactly len(dst) bytes.
func decodeFixed(field, s string, dst []byte) error {
	if hex.DecodedLen(len(s)) != len(dst) || len(s)%2 != 0 {
		return chainhash.NewDecodeError(field,
			errors.Errorf("expected %d bytes, got %d hex characters", len(dst), len(s)))
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return chainhash.NewDecodeError(field, err)
	}
	return nil
}

func missing(field string) error {
	return chainhash.NewDecodeError(field, chainhash.ErrMissingField)
}

// asDecodeError keeps a DecodeError raised by a nested decoder and wraps
// anything else, such as JSON syntax errors, into one.
func asDecodeError(field string, err error) error {
	if chainhash.IsDecodeError(err) {
		return err
	}
	return chainhash.NewDecodeError(field, err)
}

func unsignedInt(d *big.Int) *big.Int {
	if d == nil {
		return new(big.Int)
	}
	return d
}
