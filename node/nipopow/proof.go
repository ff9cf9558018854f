// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"encoding/json"

	"github.com/thedlop/sigma-go/types/chainhash"
	"github.com/thedlop/sigma-go/types/wire"
)

// PoPowParams are the security parameters of a proof.
type PoPowParams struct {
	// M is the minimal superchain length used when comparing proofs.
	M uint32
	// K is the suffix length.
	K uint32
	// Continuous marks proofs that also carry the headers needed for
	// difficulty recalculation.
	Continuous bool
}

// NipopowProof is a non-interactive proof of proof-of-work. The prefix holds
// superblocks sampled from the chain, anchored at genesis; the suffix holds
// the last k headers of the chain, SuffixHead first.
type NipopowProof struct {
	M          uint32
	K          uint32
	Prefix     []*wire.PoPowHeader
	SuffixHead *wire.PoPowHeader
	SuffixTail []*wire.BlockHeader
	Continuous bool
}

// Suffix returns the suffix headers in height order.
func (p *NipopowProof) Suffix() []*wire.BlockHeader {
	if p.SuffixHead == nil {
		return nil
	}
	suffix := make([]*wire.BlockHeader, 0, len(p.SuffixTail)+1)
	suffix = append(suffix, p.SuffixHead.Header)
	return append(suffix, p.SuffixTail...)
}

// HeadersChain returns every header of the proof, prefix first.
func (p *NipopowProof) HeadersChain() []*wire.BlockHeader {
	chain := make([]*wire.BlockHeader, 0, len(p.Prefix)+len(p.SuffixTail)+1)
	for _, h := range p.Prefix {
		chain = append(chain, h.Header)
	}
	return append(chain, p.Suffix()...)
}

// Tip returns the last header of the proof.
func (p *NipopowProof) Tip() *wire.BlockHeader {
	if len(p.SuffixTail) > 0 {
		return p.SuffixTail[len(p.SuffixTail)-1]
	}
	if p.SuffixHead != nil {
		return p.SuffixHead.Header
	}
	return nil
}

// Genesis returns the first header of the proof.
func (p *NipopowProof) Genesis() *wire.BlockHeader {
	if len(p.Prefix) > 0 {
		return p.Prefix[0].Header
	}
	if p.SuffixHead != nil {
		return p.SuffixHead.Header
	}
	return nil
}

// Copy returns a deep copy of the proof.
func (p *NipopowProof) Copy() *NipopowProof {
	clone := &NipopowProof{
		M:          p.M,
		K:          p.K,
		Continuous: p.Continuous,
		Prefix:     make([]*wire.PoPowHeader, len(p.Prefix)),
		SuffixTail: make([]*wire.BlockHeader, len(p.SuffixTail)),
	}
	for i, h := range p.Prefix {
		clone.Prefix[i] = h.Copy()
	}
	if p.SuffixHead != nil {
		clone.SuffixHead = p.SuffixHead.Copy()
	}
	for i, h := range p.SuffixTail {
		clone.SuffixTail[i] = h.Copy()
	}
	return clone
}

type proofJSON struct {
	M          *uint32              `json:"m"`
	K          *uint32              `json:"k"`
	Prefix     *[]*wire.PoPowHeader `json:"prefix"`
	SuffixHead *wire.PoPowHeader    `json:"suffixHead"`
	SuffixTail *[]*wire.BlockHeader `json:"suffixTail"`
	Continuous bool                 `json:"continuous"`
}

// MarshalJSON encodes the proof in the node API shape.
func (p *NipopowProof) MarshalJSON() ([]byte, error) {
	prefix := p.Prefix
	if prefix == nil {
		prefix = []*wire.PoPowHeader{}
	}
	tail := p.SuffixTail
	if tail == nil {
		tail = []*wire.BlockHeader{}
	}
	return json.Marshal(&proofJSON{
		M:          &p.M,
		K:          &p.K,
		Prefix:     &prefix,
		SuffixHead: p.SuffixHead,
		SuffixTail: &tail,
		Continuous: p.Continuous,
	})
}

// UnmarshalJSON decodes a proof. Every field but continuous is required.
func (p *NipopowProof) UnmarshalJSON(data []byte) error {
	var doc proofJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		if chainhash.IsDecodeError(err) {
			return err
		}
		return chainhash.NewDecodeError("nipopow proof", err)
	}

	switch {
	case doc.M == nil:
		return missing("m")
	case doc.K == nil:
		return missing("k")
	case doc.Prefix == nil:
		return missing("prefix")
	case doc.SuffixHead == nil:
		return missing("suffixHead")
	case doc.SuffixTail == nil:
		return missing("suffixTail")
	}
	for _, h := range *doc.Prefix {
		if h == nil {
			return missing("prefix")
		}
	}
	for _, h := range *doc.SuffixTail {
		if h == nil {
			return missing("suffixTail")
		}
	}

	*p = NipopowProof{
		M:          *doc.M,
		K:          *doc.K,
		Prefix:     *doc.Prefix,
		SuffixHead: doc.SuffixHead,
		SuffixTail: *doc.SuffixTail,
		Continuous: doc.Continuous,
	}
	return nil
}

// NewProofFromJSON parses a proof document.
func NewProofFromJSON(data []byte) (*NipopowProof, error) {
	p := new(NipopowProof)
	if err := json.Unmarshal(data, p); err != nil {
		if chainhash.IsDecodeError(err) {
			return nil, err
		}
		return nil, chainhash.NewDecodeError("nipopow proof", err)
	}
	return p, nil
}

func missing(field string) error {
	return chainhash.NewDecodeError(field, chainhash.ErrMissingField)
}
