// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/json"

	"github.com/thedlop/sigma-go/types/merkle"
)

// PoPowHeader is a header together with its interlinks and, optionally, the
// batch proof tying the interlinks to the header extension root.
type PoPowHeader struct {
	Header          *BlockHeader
	Interlinks      Interlinks
	InterlinksProof *merkle.BatchProof
}

// ID returns the id of the underlying header.
func (p *PoPowHeader) ID() BlockID {
	return p.Header.ID
}

// Height returns the height of the underlying header.
func (p *PoPowHeader) Height() uint32 {
	return p.Header.Height
}

// CheckInterlinksProof verifies the interlinks commitment. A header without
// a proof passes; a proof must cover exactly the packed interlinks and
// resolve to the header extension root.
func (p *PoPowHeader) CheckInterlinksProof() bool {
	if p.InterlinksProof == nil {
		return true
	}

	fields, err := PackInterlinks(p.Interlinks)
	if err != nil {
		return false
	}
	if len(fields) == 0 {
		return len(p.InterlinksProof.Indices) == 0
	}
	if len(fields) != len(p.InterlinksProof.Indices) {
		return false
	}
	for _, f := range fields {
		if !p.InterlinksProof.Contains(merkle.LeafHash(f.LeafData())) {
			return false
		}
	}
	return p.InterlinksProof.Valid(p.Header.ExtensionRoot[:])
}

// IsEqual compares headers, interlinks and proofs structurally.
func (p *PoPowHeader) IsEqual(o *PoPowHeader) bool {
	if p == nil || o == nil {
		return p == o
	}
	if !p.Header.IsEqual(o.Header) || !p.Interlinks.IsEqual(o.Interlinks) {
		return false
	}
	if p.InterlinksProof == nil || o.InterlinksProof == nil {
		return p.InterlinksProof == nil && o.InterlinksProof == nil
	}

	a, errA := json.Marshal(p.InterlinksProof)
	b, errB := json.Marshal(o.InterlinksProof)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// Copy returns a deep copy of the header.
func (p *PoPowHeader) Copy() *PoPowHeader {
	clone := &PoPowHeader{
		Header:     p.Header.Copy(),
		Interlinks: p.Interlinks.Copy(),
	}
	if p.InterlinksProof != nil {
		proof := merkle.BatchProof{
			Indices: append([]merkle.BatchIndex(nil), p.InterlinksProof.Indices...),
			Proofs:  append([]merkle.LevelNode(nil), p.InterlinksProof.Proofs...),
		}
		clone.InterlinksProof = &proof
	}
	return clone
}

type popowHeaderJSON struct {
	Header          *BlockHeader       `json:"header"`
	Interlinks      *[]BlockID         `json:"interlinks"`
	InterlinksProof *merkle.BatchProof `json:"interlinksProof,omitempty"`
}

// MarshalJSON encodes the header in the node API shape.
func (p *PoPowHeader) MarshalJSON() ([]byte, error) {
	links := []BlockID(p.Interlinks)
	if links == nil {
		links = []BlockID{}
	}
	return json.Marshal(&popowHeaderJSON{
		Header:          p.Header,
		Interlinks:      &links,
		InterlinksProof: p.InterlinksProof,
	})
}

// UnmarshalJSON decodes a header document. Header and interlinks are
// required, the interlinks proof is optional.
func (p *PoPowHeader) UnmarshalJSON(data []byte) error {
	var doc popowHeaderJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return asDecodeError("popow header", err)
	}
	if doc.Header == nil {
		return missing("header")
	}
	if doc.Interlinks == nil {
		return missing("interlinks")
	}

	p.Header = doc.Header
	p.Interlinks = Interlinks(*doc.Interlinks)
	p.InterlinksProof = doc.InterlinksProof
	return nil
}

// NewPoPowHeaderFromJSON parses a single PoPowHeader document.
func NewPoPowHeaderFromJSON(data []byte) (*PoPowHeader, error) {
	p := new(PoPowHeader)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, asDecodeError("popow header", err)
	}
	return p, nil
}
