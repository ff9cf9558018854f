// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/wire"
)

// Prove builds a proof for a dense chain starting at genesis. The last k
// headers form the suffix. Going down from the highest level, the prefix
// collects every superblock of the level above the current anchor, and the
// anchor moves to the m-th last of them once the level holds m headers.
func (a *Algos) Prove(chain []*wire.PoPowHeader, params PoPowParams) (*NipopowProof, error) {
	m, k := int(params.M), int(params.K)
	if m == 0 || k == 0 {
		return nil, validationError(ErrInvalidParams, -1, "invalid proof parameters m=%d k=%d", m, k)
	}
	if len(chain) < k+m {
		return nil, validationError(ErrChainTooShort, -1,
			"can not prove chain of %d headers, at least %d required", len(chain), k+m)
	}
	if !chain[0].Header.IsGenesis() {
		return nil, validationError(ErrNotAnchored, 0, "chain does not start at genesis")
	}

	body := chain[:len(chain)-k]
	levels := make([]int32, len(body))
	cache := a.newLevelCache()
	for i, h := range body {
		l, err := cache.level(h.Header)
		if err != nil {
			return nil, errors.Wrapf(err, "level of header %d", i)
		}
		levels[i] = l
	}

	anchor := body[0].Height()
	included := make(map[wire.BlockID]*wire.PoPowHeader)
	top := len(body[len(body)-1].Interlinks) - 1
	if top < 0 {
		top = 0
	}
	for mu := top; mu >= 0; mu-- {
		var sub []*wire.PoPowHeader
		for i, h := range body {
			if int64(levels[i]) >= int64(mu) && h.Height() >= anchor {
				sub = append(sub, h)
			}
		}
		for _, h := range sub {
			included[h.ID()] = h
		}
		if len(sub) >= m {
			anchor = sub[len(sub)-m].Height()
		}
	}

	prefix := make([]*wire.PoPowHeader, 0, len(included))
	for _, h := range included {
		prefix = append(prefix, h)
	}
	sort.Slice(prefix, func(i, j int) bool { return prefix[i].Height() < prefix[j].Height() })

	suffix := chain[len(chain)-k:]
	tail := make([]*wire.BlockHeader, 0, k-1)
	for _, h := range suffix[1:] {
		tail = append(tail, h.Header)
	}

	proof := &NipopowProof{
		M:          params.M,
		K:          params.K,
		Prefix:     prefix,
		SuffixHead: suffix[0],
		SuffixTail: tail,
		Continuous: params.Continuous,
	}
	log.Debug().Int("prefix", len(prefix)).Uint32("tip", proof.Tip().Height).Msg("proof built")
	return proof, nil
}
