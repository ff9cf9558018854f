// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

// maxScoredLevel bounds the levels BestArg walks through. A header can not
// exceed it since hits are 256 bit values.
const maxScoredLevel = 256

// Algos holds the proof algorithms parametrized by a proof-of-work scheme.
type Algos struct {
	pow *pow.AutolykosPowScheme
}

// NewAlgos returns the algorithms for the given scheme. A nil scheme selects
// the mainnet parameters.
func NewAlgos(scheme *pow.AutolykosPowScheme) *Algos {
	if scheme == nil {
		scheme = pow.DefaultPowScheme()
	}
	return &Algos{pow: scheme}
}

// MaxLevelOf returns the superblock level of h.
func (a *Algos) MaxLevelOf(h *wire.BlockHeader) (int32, error) {
	return a.pow.MaxLevelOf(h)
}

// levelCache memoizes levels for the duration of one operation, the v2 pow
// hit being costly to recompute.
type levelCache struct {
	algos  *Algos
	levels map[wire.BlockID]int32
}

func (a *Algos) newLevelCache() *levelCache {
	return &levelCache{algos: a, levels: make(map[wire.BlockID]int32)}
}

func (c *levelCache) level(h *wire.BlockHeader) (int32, error) {
	if l, ok := c.levels[h.ID]; ok {
		return l, nil
	}
	l, err := c.algos.MaxLevelOf(h)
	if err != nil {
		return 0, err
	}
	c.levels[h.ID] = l
	return l, nil
}

// BestArg scores a chain the KMZ17 way: the maximum over levels mu of
// 2^mu times the number of headers of level at least mu, considering level
// 0 and then every level holding at least m headers.
func (a *Algos) BestArg(chain []*wire.BlockHeader, m uint32) (*big.Int, error) {
	return a.newLevelCache().bestArg(chain, m)
}

func (c *levelCache) bestArg(chain []*wire.BlockHeader, m uint32) (*big.Int, error) {
	levels := make([]int32, len(chain))
	for i, h := range chain {
		l, err := c.level(h)
		if err != nil {
			return nil, err
		}
		levels[i] = l
	}

	best := big.NewInt(int64(len(chain)))
	score := new(big.Int)
	for mu := int32(1); mu <= maxScoredLevel; mu++ {
		var count int64
		for _, l := range levels {
			if l >= mu {
				count++
			}
		}
		if count < int64(m) || count == 0 {
			break
		}

		score.Lsh(big.NewInt(count), uint(mu))
		if score.Cmp(best) > 0 {
			best.Set(score)
		}
	}
	return best, nil
}

// LowestCommonAncestor returns the highest header present in both chains.
// Chains whose first headers differ have no common ancestor.
func LowestCommonAncestor(left, right []*wire.BlockHeader) (*wire.BlockHeader, bool) {
	if len(left) == 0 || len(right) == 0 || left[0].ID != right[0].ID {
		return nil, false
	}

	inRight := make(map[wire.BlockID]struct{}, len(right))
	for _, h := range right {
		inRight[h.ID] = struct{}{}
	}

	var lca *wire.BlockHeader
	for _, h := range left {
		if _, ok := inRight[h.ID]; ok {
			lca = h
		}
	}
	return lca, true
}

// Validate checks the structure of a proof. The returned error is a
// ValidationError naming the violated rule and the offending header.
func (a *Algos) Validate(p *NipopowProof) error {
	return a.newLevelCache().validate(p)
}

func (c *levelCache) validate(p *NipopowProof) error {
	if p == nil || p.SuffixHead == nil || p.SuffixHead.Header == nil {
		return validationError(ErrEmptyProof, -1, "proof has no suffix")
	}
	if p.M == 0 || p.K == 0 {
		return validationError(ErrInvalidParams, -1, "invalid proof parameters m=%d k=%d", p.M, p.K)
	}
	for i, h := range p.Prefix {
		if h == nil || h.Header == nil {
			return validationError(ErrEmptyProof, i, "prefix entry is empty")
		}
	}
	for i, h := range p.SuffixTail {
		if h == nil {
			return validationError(ErrEmptyProof, len(p.Prefix)+1+i, "suffix entry is empty")
		}
	}

	suffix := p.Suffix()
	if uint32(len(suffix)) < p.K {
		return validationError(ErrShortSuffix, -1,
			"suffix holds %d headers, %d required", len(suffix), p.K)
	}

	chain := p.HeadersChain()
	for i := 1; i < len(chain); i++ {
		if chain[i].Height <= chain[i-1].Height {
			return validationError(ErrNonIncreasingHeight, i,
				"height %d follows height %d", chain[i].Height, chain[i-1].Height)
		}
	}

	linked := make([]*wire.PoPowHeader, 0, len(p.Prefix)+1)
	linked = append(linked, p.Prefix...)
	linked = append(linked, p.SuffixHead)
	for i := 1; i < len(linked); i++ {
		prev, next := linked[i-1], linked[i]

		claimed, ok := next.Interlinks.HighestLevelOf(prev.ID())
		if !ok {
			if next.Header.ParentID != prev.ID() {
				return validationError(ErrBrokenPrefix, i,
					"header %s does not link to %s", next.ID(), prev.ID())
			}
			continue
		}

		level, err := c.level(prev.Header)
		if err != nil {
			return validationError(ErrPowHit, i-1, "%v", err)
		}
		if int64(level) < int64(claimed) {
			return validationError(ErrInsufficientLevel, i-1,
				"header %s has level %d, referenced at level %d", prev.ID(), level, claimed)
		}
	}

	prefixLen := len(p.Prefix)
	for i := 1; i < len(suffix); i++ {
		if suffix[i].ParentID != suffix[i-1].ID {
			return validationError(ErrBrokenSuffix, prefixLen+i,
				"header %s is not a child of %s", suffix[i].ID, suffix[i-1].ID)
		}
	}

	for i, h := range linked {
		if !h.CheckInterlinksProof() {
			return validationError(ErrInterlinksProof, i,
				"interlinks of %s do not match extension root", h.ID())
		}
	}

	for i, h := range chain {
		level, err := c.level(h)
		if err != nil {
			return validationError(ErrPowHit, i, "%v", err)
		}
		if level < 0 {
			return validationError(ErrPowHit, i, "pow hit of %s is above target", h.ID)
		}
	}

	// Linkage above trusts the claimed ids, bind them to the content.
	for i, h := range chain {
		id, err := h.ComputeID()
		if err != nil {
			return validationError(ErrBadHeaderID, i, "can not hash header %s: %v", h.ID, err)
		}
		if id != h.ID {
			return validationError(ErrBadHeaderID, i, "header claims id %s, content hashes to %s", h.ID, id)
		}
	}

	return nil
}

// IsBetterThan reports whether p is a more convincing proof than o. An
// invalid p never wins and a valid p always beats an invalid o. Two valid
// proofs must declare the same m, otherwise ErrInvalidParams is returned.
// Their chains are cut at the lowest common ancestor and the parts above it
// scored with BestArg under that m; p wins only on a strictly higher score.
func (a *Algos) IsBetterThan(p, o *NipopowProof) (bool, error) {
	c := a.newLevelCache()
	pValid := c.validate(p) == nil
	oValid := c.validate(o) == nil
	if !pValid || !oValid {
		return pValid, nil
	}
	if p.M != o.M {
		return false, validationError(ErrInvalidParams, -1,
			"proofs declare different m: %d and %d", p.M, o.M)
	}
	return c.isBetterThan(p, o, p.M)
}

// isBetterThan compares two proofs known to be valid, scoring both with m.
func (c *levelCache) isBetterThan(p, o *NipopowProof, m uint32) (bool, error) {
	pChain, oChain := p.HeadersChain(), o.HeadersChain()
	lca, ok := LowestCommonAncestor(pChain, oChain)
	if !ok {
		return false, ErrNoCommonAncestor
	}

	pScore, err := c.bestArg(above(pChain, lca.Height), m)
	if err != nil {
		return false, errors.Wrap(err, "score proof")
	}
	oScore, err := c.bestArg(above(oChain, lca.Height), m)
	if err != nil {
		return false, errors.Wrap(err, "score proof")
	}
	return pScore.Cmp(oScore) > 0, nil
}

func above(chain []*wire.BlockHeader, height uint32) []*wire.BlockHeader {
	var out []*wire.BlockHeader
	for _, h := range chain {
		if h.Height > height {
			out = append(out, h)
		}
	}
	return out
}
