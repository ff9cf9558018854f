// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thedlop/sigma-go/types/chainhash"
	"github.com/thedlop/sigma-go/types/merkle"
	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

// difficultyOne makes the target equal the group order, so a distance picked
// with pow.TargetForLevel lands exactly on the wanted level.
const difficultyOne = 0x01010000

var testParams = PoPowParams{M: 6, K: 10}

// testChain is a dense chain of headers with their interlinks.
type testChain struct {
	headers []*wire.PoPowHeader
	levels  []int
}

func newGenesis(t *testing.T, timestamp uint64) *testChain {
	h := &wire.BlockHeader{
		Version:       wire.InitialVersion,
		Height:        wire.GenesisHeight,
		NBits:         difficultyOne,
		Timestamp:     timestamp,
		ExtensionRoot: chainhash.HashH(nil),
	}
	h.Solution.D = big.NewInt(1)

	var err error
	h.ID, err = h.ComputeID()
	require.NoError(t, err)

	genesis := &wire.PoPowHeader{
		Header:          h,
		Interlinks:      wire.Interlinks{},
		InterlinksProof: &merkle.BatchProof{},
	}
	return &testChain{headers: []*wire.PoPowHeader{genesis}, levels: []int{0}}
}

// fork returns a chain sharing the first n headers of c.
func (c *testChain) fork(n int) *testChain {
	return &testChain{
		headers: append([]*wire.PoPowHeader(nil), c.headers[:n]...),
		levels:  append([]int(nil), c.levels[:n]...),
	}
}

// mine appends one header per level. tag separates headers of competing
// forks mined at the same height with the same level.
func (c *testChain) mine(t *testing.T, tag byte, levels ...int) *testChain {
	for _, level := range levels {
		prev := c.headers[len(c.headers)-1]
		links := wire.UpdateInterlinks(prev.Header, prev.Interlinks, c.levels[len(c.levels)-1])

		ext, err := wire.NewInterlinksExtension(links)
		require.NoError(t, err)
		proof, err := ext.InterlinksProof()
		require.NoError(t, err)

		height := prev.Height() + 1
		var seed [5]byte
		seed[0] = tag
		binary.BigEndian.PutUint32(seed[1:], height)

		h := &wire.BlockHeader{
			Version:       wire.InitialVersion,
			ParentID:      prev.ID(),
			ADProofsRoot:  chainhash.HashH(seed[:]),
			Timestamp:     uint64(height) * 1000,
			NBits:         difficultyOne,
			Height:        height,
			ExtensionRoot: ext.RootHash(),
		}
		h.Solution.D, err = pow.TargetForLevel(difficultyOne, uint(level))
		require.NoError(t, err)
		h.ID, err = h.ComputeID()
		require.NoError(t, err)

		c.headers = append(c.headers, &wire.PoPowHeader{Header: h, Interlinks: links, InterlinksProof: proof})
		c.levels = append(c.levels, level)
	}
	return c
}

// regularLevels returns n levels where the i-th block, counting from one,
// reaches the number of trailing zero bits of i, capped at top.
func regularLevels(n, top int) []int {
	levels := make([]int, n)
	for i := range levels {
		l := bits.TrailingZeros(uint(i + 1))
		if l > top {
			l = top
		}
		levels[i] = l
	}
	return levels
}

func (c *testChain) tip() *wire.BlockHeader {
	return c.headers[len(c.headers)-1].Header
}

func (c *testChain) prove(t *testing.T, params PoPowParams) *NipopowProof {
	proof, err := NewAlgos(nil).Prove(c.headers, params)
	require.NoError(t, err)
	return proof
}

// scenario holds three competing proofs over one genesis: p1 has superblocks
// up to level 2, p2 only up to level 1 on a shorter chain, p3 up to level 3
// on a longer one.
type scenario struct {
	genesis    *testChain
	p1, p2, p3 *NipopowProof
	c1, c2, c3 *testChain
}

// sparse proves a short chain over the scenario genesis whose only
// superblock, its first header, reaches level 8. With m = 1 that header
// alone outscores every scenario chain; with m = 6 it does not count.
func (s *scenario) sparse(t *testing.T, m uint32) *NipopowProof {
	levels := make([]int, 21)
	levels[0] = 8
	return s.genesis.fork(1).mine(t, 4, levels...).prove(t, PoPowParams{M: m, K: 10})
}

func newScenario(t *testing.T) *scenario {
	s := &scenario{genesis: newGenesis(t, 0)}
	s.c1 = s.genesis.fork(1).mine(t, 1, regularLevels(64, 2)...)
	s.c2 = s.genesis.fork(1).mine(t, 2, regularLevels(48, 1)...)
	s.c3 = s.genesis.fork(1).mine(t, 3, regularLevels(128, 3)...)
	s.p1 = s.c1.prove(t, testParams)
	s.p2 = s.c2.prove(t, testParams)
	s.p3 = s.c3.prove(t, testParams)
	return s
}
