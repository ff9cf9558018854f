// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedlop/sigma-go/node/nipopow"
	"github.com/thedlop/sigma-go/types/chainhash"
	"github.com/thedlop/sigma-go/types/merkle"
	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

const difficultyOne = 0x01010000

var testParams = nipopow.PoPowParams{M: 6, K: 10}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "nipopow-verifier")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func genesisHeader(t *testing.T) *wire.PoPowHeader {
	h := &wire.BlockHeader{
		Version:       wire.InitialVersion,
		Height:        wire.GenesisHeight,
		NBits:         difficultyOne,
		ExtensionRoot: chainhash.HashH(nil),
	}
	h.Solution.D = big.NewInt(1)

	var err error
	h.ID, err = h.ComputeID()
	require.NoError(t, err)
	return &wire.PoPowHeader{Header: h, Interlinks: wire.Interlinks{}, InterlinksProof: &merkle.BatchProof{}}
}

// buildChain extends genesis with n level zero headers. tag tells forks
// apart.
func buildChain(t *testing.T, genesis *wire.PoPowHeader, n int, tag byte) []*wire.PoPowHeader {
	chain := []*wire.PoPowHeader{genesis}
	for i := 0; i < n; i++ {
		prev := chain[len(chain)-1]
		links := wire.UpdateInterlinks(prev.Header, prev.Interlinks, 0)
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
		h.Solution.D, err = pow.TargetForLevel(difficultyOne, 0)
		require.NoError(t, err)
		h.ID, err = h.ComputeID()
		require.NoError(t, err)

		chain = append(chain, &wire.PoPowHeader{Header: h, Interlinks: links, InterlinksProof: proof})
	}
	return chain
}

func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

func TestProveChain(t *testing.T) {
	chain := buildChain(t, genesisHeader(t), 20, 1)
	data, err := json.Marshal(chain)
	require.NoError(t, err)

	out, err := proveChain(nipopow.NewAlgos(nil), data, testParams)
	require.NoError(t, err)

	proof, err := nipopow.NewProofFromJSON(out)
	require.NoError(t, err)
	assert.Equal(t, chain[len(chain)-1].ID(), proof.Tip().ID)
	assert.Equal(t, chain[0].ID(), proof.Genesis().ID)
	assert.NoError(t, nipopow.NewAlgos(nil).Validate(proof))

	_, err = proveChain(nipopow.NewAlgos(nil), data[:len(data)/2], testParams)
	assert.Error(t, err)

	short, err := json.Marshal(chain[:10])
	require.NoError(t, err)
	_, err = proveChain(nipopow.NewAlgos(nil), short, testParams)
	assert.True(t, errors.Is(err, nipopow.ErrChainTooShort))
}

func TestVerifyFiles(t *testing.T) {
	dir := tempDir(t)
	genesis := genesisHeader(t)
	algos := nipopow.NewAlgos(nil)

	short, err := algos.Prove(buildChain(t, genesis, 20, 1), testParams)
	require.NoError(t, err)
	long, err := algos.Prove(buildChain(t, genesis, 30, 2), testParams)
	require.NoError(t, err)

	broken := short.Copy()
	broken.SuffixTail = broken.SuffixTail[:len(broken.SuffixTail)-1]

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, ioutil.WriteFile(garbage, []byte("{"), 0644))

	paths := []string{
		writeJSON(t, dir, "short.json", short),
		writeJSON(t, dir, "long.json", long),
		writeJSON(t, dir, "short-again.json", short),
		writeJSON(t, dir, "broken.json", broken),
		garbage,
		filepath.Join(dir, "missing.json"),
	}

	verifier := nipopow.NewVerifier(genesis.ID())
	rows := verifyFiles(verifier, paths)
	require.Len(t, rows, len(paths))

	outcomes := make([]string, len(rows))
	for i, r := range rows {
		outcomes[i] = r.Outcome
		assert.Equal(t, paths[i], r.File)
	}
	assert.Equal(t, []string{
		outcomeAdopted,
		outcomeAdopted,
		outcomeLost,
		outcomeRejected,
		outcomeMalformed,
		outcomeMalformed,
	}, outcomes)

	assert.Equal(t, long.Tip().ID.String(), rows[1].TipID)
	assert.Equal(t, uint32(31), rows[1].Height)
	assert.Equal(t, 10, rows[1].Suffix)
	assert.Equal(t, len(long.Prefix), rows[1].Prefix)
	assert.Contains(t, rows[3].Reason, "suffix")

	best := verifier.BestChain()
	require.Len(t, best, 10)
	assert.Equal(t, long.Tip().ID, best[len(best)-1].ID)

	csvPath := filepath.Join(dir, "report.csv")
	storage := NewCSVStorage(csvPath)
	require.NoError(t, storage.SaveRows(rows))
	file, err := os.Open(csvPath)
	require.NoError(t, err)
	defer file.Close()
	back := make([]ProofReport, 0)
	require.NoError(t, gocsv.UnmarshalFile(file, &back))
	assert.Equal(t, rows, back)

	var table bytes.Buffer
	renderTable(&table, rows)
	assert.Contains(t, table.String(), "OUTCOME")
	assert.Contains(t, table.String(), long.Tip().ID.String())
}

func TestCheckMerkleProof(t *testing.T) {
	leaves := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d"), []byte("e")}
	tree := merkle.NewTree(leaves...)
	root := tree.RootHash()
	rootHex := hex.EncodeToString(root[:])

	single, err := tree.Proof(2)
	require.NoError(t, err)
	data, err := json.Marshal(single)
	require.NoError(t, err)

	valid, err := checkMerkleProof(data, rootHex, false)
	require.NoError(t, err)
	assert.True(t, valid)

	other := chainhash.HashH([]byte("other"))
	valid, err = checkMerkleProof(data, hex.EncodeToString(other[:]), false)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = checkMerkleProof(data, "zz", false)
	assert.Error(t, err)

	batch, err := tree.BatchProof(0, 3, 4)
	require.NoError(t, err)
	data, err = json.Marshal(batch)
	require.NoError(t, err)

	valid, err = checkMerkleProof(data, rootHex, true)
	require.NoError(t, err)
	assert.True(t, valid)

	_, err = checkMerkleProof(data, "zz", true)
	assert.Error(t, err)
	_, err = checkMerkleProof([]byte("[]"), rootHex, true)
	assert.Error(t, err)
}
