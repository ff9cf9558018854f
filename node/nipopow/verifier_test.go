// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedlop/sigma-go/types/chaincfg"
	"github.com/thedlop/sigma-go/types/wire"
)

func assertChain(t *testing.T, want *NipopowProof, got []*wire.BlockHeader) {
	t.Helper()
	suffix := want.Suffix()
	require.Len(t, got, len(suffix))
	for i := range suffix {
		assert.True(t, suffix[i].IsEqual(got[i]), "header %d", i)
	}
}

func TestVerifierScenario(t *testing.T) {
	s := newScenario(t)
	v := NewVerifier(s.genesis.headers[0].ID())

	assert.Empty(t, v.BestChain())
	assert.Nil(t, v.BestProof())
	_, ok := v.PreHeader()
	assert.False(t, ok)

	adopted, err := v.Process(s.p1)
	require.NoError(t, err)
	assert.True(t, adopted)

	chain := v.BestChain()
	assert.Len(t, chain, 10)
	assert.Equal(t, s.p1.Tip().ID, chain[len(chain)-1].ID)
	for i := 1; i < len(chain); i++ {
		assert.Less(t, chain[i-1].Height, chain[i].Height)
	}

	adopted, err = v.Process(s.p2)
	require.NoError(t, err)
	assert.False(t, adopted)
	assertChain(t, s.p1, v.BestChain())

	adopted, err = v.Process(s.p3)
	require.NoError(t, err)
	assert.True(t, adopted)
	assertChain(t, s.p3, v.BestChain())
	assert.Equal(t, s.c3.tip().ID, v.BestChain()[9].ID)

	full := v.BestHeadersChain()
	assert.Len(t, full, len(s.p3.Prefix)+10)
	assert.Equal(t, s.genesis.headers[0].ID(), full[0].ID)

	ph, ok := v.PreHeader()
	require.True(t, ok)
	assert.Equal(t, s.p3.Tip().Height, ph.Height)
	assert.Equal(t, s.p3.Tip().ParentID, ph.ParentID)
}

func TestVerifierIdempotent(t *testing.T) {
	s := newScenario(t)

	for _, p := range []*NipopowProof{s.p1, s.p2, s.p3} {
		once := NewVerifier(s.genesis.headers[0].ID())
		_, err := once.Process(p)
		require.NoError(t, err)

		twice := NewVerifier(s.genesis.headers[0].ID())
		adopted, err := twice.Process(p)
		require.NoError(t, err)
		assert.True(t, adopted)
		adopted, err = twice.Process(p)
		require.NoError(t, err)
		assert.False(t, adopted)

		assert.Equal(t, once.BestChain(), twice.BestChain())
	}
}

// permutations returns every ordering of 0..n-1.
func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, rest := range permutations(n - 1) {
		for pos := 0; pos <= len(rest); pos++ {
			order := make([]int, 0, n)
			order = append(order, rest[:pos]...)
			order = append(order, n-1)
			order = append(order, rest[pos:]...)
			out = append(out, order)
		}
	}
	return out
}

func TestVerifierOrderIndependent(t *testing.T) {
	s := newScenario(t)
	sparse := s.sparse(t, 1)
	proofs := []*NipopowProof{s.p1, s.p2, s.p3, sparse}

	orders := permutations(len(proofs))
	require.Len(t, orders, 24)
	for _, order := range orders {
		v := NewVerifier(s.genesis.headers[0].ID())
		for _, i := range order {
			_, err := v.Process(proofs[i])
			if proofs[i] == sparse {
				assert.True(t, errors.Is(err, ErrInvalidParams), "order %v: %v", order, err)
				continue
			}
			require.NoError(t, err)
		}
		assertChain(t, s.p3, v.BestChain())
	}

	// A verifier running with m = 1 scores every proof that way.
	low := PoPowParams{M: 1, K: 10}
	proofs = []*NipopowProof{s.c1.prove(t, low), s.c2.prove(t, low), s.c3.prove(t, low), sparse}
	for _, order := range orders {
		v := NewVerifier(s.genesis.headers[0].ID(), WithM(1))
		for _, i := range order {
			_, err := v.Process(proofs[i])
			require.NoError(t, err)
		}
		assertChain(t, sparse, v.BestChain())
	}
}

func TestVerifierDefaults(t *testing.T) {
	s := newScenario(t)
	genesisID := s.genesis.headers[0].ID()
	chain := s.genesis.fork(1).mine(t, 5, regularLevels(10, 2)...)

	v := NewVerifier(genesisID)
	adopted, err := v.Process(chain.prove(t, PoPowParams{M: 6, K: 1}))
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrShortSuffix), "got %v", err)

	adopted, err = v.Process(chain.prove(t, PoPowParams{M: 1, K: 1}))
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrInvalidParams), "got %v", err)
	assert.Empty(t, v.BestChain())

	// Explicit options relax the defaults.
	relaxed := NewVerifier(genesisID, WithM(1), WithMinSuffix(1))
	adopted, err = relaxed.Process(chain.prove(t, PoPowParams{M: 1, K: 1}))
	require.NoError(t, err)
	assert.True(t, adopted)

	params := chaincfg.SimNetParams
	params.GenesisID = genesisID
	params.GenesisHeight = 5
	moved := NewVerifier(genesisID, WithParams(&params))
	adopted, err = moved.Process(s.p1)
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrWrongGenesis), "got %v", err)
}

func TestVerifierRejects(t *testing.T) {
	s := newScenario(t)
	v := NewVerifier(s.genesis.headers[0].ID())
	_, err := v.Process(s.p1)
	require.NoError(t, err)
	before := v.BestChain()

	foreign := newGenesis(t, 1).mine(t, 0, regularLevels(200, 4)...).prove(t, testParams)
	adopted, err := v.Process(foreign)
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrWrongGenesis))
	assert.Equal(t, before, v.BestChain())

	strict := NewVerifier(s.genesis.headers[0].ID(), WithMinSuffix(12))
	adopted, err = strict.Process(s.p3)
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrShortSuffix))
	assert.Empty(t, strict.BestChain())

	broken := s.p3.Copy()
	broken.SuffixTail[2].ParentID = wire.BlockID{}
	adopted, err = v.Process(broken)
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrBrokenSuffix))
	assert.Equal(t, before, v.BestChain())

	forged := s.p3.Copy()
	forged.SuffixTail[8].Timestamp = 42
	forged.SuffixTail[8].TransactionsRoot[0] ^= 0xff
	adopted, err = v.Process(forged)
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrBadHeaderID), "got %v", err)
	assert.Equal(t, before, v.BestChain())

	adopted, err = v.Process(nil)
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrEmptyProof))

	adopted, err = v.Process(&NipopowProof{M: 6, K: 10, SuffixHead: s.p3.SuffixHead, Prefix: []*wire.PoPowHeader{nil}})
	assert.False(t, adopted)
	assert.True(t, errors.Is(err, ErrEmptyProof))
	assert.Equal(t, before, v.BestChain())
}

func TestVerifierIsolation(t *testing.T) {
	s := newScenario(t)
	v := NewVerifier(s.genesis.headers[0].ID())

	p := s.p1.Copy()
	_, err := v.Process(p)
	require.NoError(t, err)

	// Neither the processed proof nor returned headers alias the state.
	p.SuffixTail[0].Height = 0
	chain := v.BestChain()
	chain[0].Height = 0
	v.BestProof().SuffixTail[1].Height = 0

	assertChain(t, s.p1, v.BestChain())
}

type countingRecorder struct {
	mtx      sync.Mutex
	adopted  int
	rejected int
	lost     int
}

func (r *countingRecorder) ProofProcessed(adopted bool, err error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	switch {
	case err != nil:
		r.rejected++
	case adopted:
		r.adopted++
	default:
		r.lost++
	}
}

func TestVerifierConcurrent(t *testing.T) {
	s := newScenario(t)
	rec := &countingRecorder{}
	v := NewVerifier(s.genesis.headers[0].ID(), WithParams(&chaincfg.SimNetParams), WithRecorder(rec))

	proofs := []*NipopowProof{s.p1, s.p2, s.p3}
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(p *NipopowProof) {
			defer wg.Done()
			_, err := v.Process(p)
			assert.NoError(t, err)
			_ = v.BestChain()
		}(proofs[i%len(proofs)])
	}
	wg.Wait()

	assertChain(t, s.p3, v.BestChain())
	assert.Equal(t, 12, rec.adopted+rec.lost)
	assert.Zero(t, rec.rejected)
	assert.GreaterOrEqual(t, rec.adopted, 1)
}
