// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
)

type proofJSON struct {
	LeafData *string           `json:"leafData"`
	Levels   []json.RawMessage `json:"levels"`
}

// MarshalJSON encodes the proof as {"leafData": hex, "levels": [[hex, side], ...]}.
// Empty padding siblings are written as "".
func (p Proof) MarshalJSON() ([]byte, error) {
	leaf := hex.EncodeToString(p.LeafData)
	levels := make([]json.RawMessage, 0, len(p.Levels))
	for _, level := range p.Levels {
		raw, err := json.Marshal([]interface{}{hashString(level.Hash), uint8(level.Side)})
		if err != nil {
			return nil, err
		}
		levels = append(levels, raw)
	}

	return json.Marshal(proofJSON{LeafData: &leaf, Levels: levels})
}

// UnmarshalJSON decodes the node API representation of a Merkle proof.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var doc proofJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return chainhash.NewDecodeError("merkle proof", err)
	}
	if doc.LeafData == nil {
		return chainhash.NewDecodeError("leafData", chainhash.ErrMissingField)
	}

	leaf, err := hex.DecodeString(*doc.LeafData)
	if err != nil {
		return chainhash.NewDecodeError("leafData", err)
	}

	levels := make([]LevelNode, 0, len(doc.Levels))
	for i, raw := range doc.Levels {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
			return chainhash.NewDecodeError(fmt.Sprintf("levels[%d]", i),
				errors.New("expected [hash, side] pair"))
		}

		var (
			hashStr string
			side    uint8
		)
		if err := json.Unmarshal(pair[0], &hashStr); err != nil {
			return chainhash.NewDecodeError(fmt.Sprintf("levels[%d].hash", i), err)
		}
		if err := json.Unmarshal(pair[1], &side); err != nil {
			return chainhash.NewDecodeError(fmt.Sprintf("levels[%d].side", i), err)
		}

		node, err := levelNode(hashStr, side)
		if err != nil {
			return chainhash.NewDecodeError(fmt.Sprintf("levels[%d]", i), err)
		}
		levels = append(levels, node)
	}

	p.LeafData = leaf
	p.Levels = levels
	return nil
}

// ProofFromJSON parses a proof from its JSON document.
func ProofFromJSON(data []byte) (*Proof, error) {
	p := new(Proof)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

type batchIndexJSON struct {
	Index  *int   `json:"index"`
	Digest string `json:"digest"`
}

type batchNodeJSON struct {
	Digest string `json:"digest"`
	Side   uint8  `json:"side"`
}

type batchProofJSON struct {
	Indices []batchIndexJSON `json:"indices"`
	Proofs  []batchNodeJSON  `json:"proofs"`
}

// MarshalJSON encodes the batch proof.
func (p BatchProof) MarshalJSON() ([]byte, error) {
	doc := batchProofJSON{
		Indices: make([]batchIndexJSON, 0, len(p.Indices)),
		Proofs:  make([]batchNodeJSON, 0, len(p.Proofs)),
	}
	for _, index := range p.Indices {
		i := index.Index
		doc.Indices = append(doc.Indices, batchIndexJSON{Index: &i, Digest: index.Hash.String()})
	}
	for _, node := range p.Proofs {
		doc.Proofs = append(doc.Proofs, batchNodeJSON{Digest: hashString(node.Hash), Side: uint8(node.Side)})
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a batch proof.
func (p *BatchProof) UnmarshalJSON(data []byte) error {
	var doc batchProofJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return chainhash.NewDecodeError("batch merkle proof", err)
	}

	indices := make([]BatchIndex, 0, len(doc.Indices))
	for i, index := range doc.Indices {
		if index.Index == nil {
			return chainhash.NewDecodeError(fmt.Sprintf("indices[%d].index", i), chainhash.ErrMissingField)
		}
		var h chainhash.Hash
		if err := chainhash.Decode(&h, index.Digest); err != nil {
			return chainhash.NewDecodeError(fmt.Sprintf("indices[%d].digest", i), err)
		}
		indices = append(indices, BatchIndex{Index: *index.Index, Hash: h})
	}

	proofs := make([]LevelNode, 0, len(doc.Proofs))
	for i, node := range doc.Proofs {
		level, err := levelNode(node.Digest, node.Side)
		if err != nil {
			return chainhash.NewDecodeError(fmt.Sprintf("proofs[%d]", i), err)
		}
		proofs = append(proofs, level)
	}

	p.Indices = indices
	p.Proofs = proofs
	return nil
}

func levelNode(hashStr string, side uint8) (LevelNode, error) {
	if side > uint8(Right) {
		return LevelNode{}, errors.Errorf("invalid node side %d", side)
	}

	node := LevelNode{Side: NodeSide(side)}
	if hashStr == "" {
		return node, nil
	}

	h, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return LevelNode{}, err
	}
	node.Hash = h
	return node, nil
}

func hashString(h *chainhash.Hash) string {
	if h == nil {
		return ""
	}
	return h.String()
}
