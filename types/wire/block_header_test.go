// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedlop/sigma-go/types/chainhash"
)

const genesisHeaderJSON = `{
  "version": 1,
  "id": "06fa44cc86a2cf45312fb1587f5eed0d9611a984344446e3f21c6e18422fe334",
  "parentId": "0000000000000000000000000000000000000000000000000000000000000000",
  "adProofsRoot": "d6379a936c8f885b347cd3d03f068b41b7d268729843530650348cf0755fea6d",
  "stateRoot": "000000000000000000000000000000000000000000000000000000000000000000",
  "transactionsRoot": "024562cb92738cbe9f5345b6d78b0272f4823692d2a16a11d80459c6d61f7860",
  "timestamp": 0,
  "nBits": 16842752,
  "height": 1,
  "extensionHash": "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
  "powSolutions": {
    "pk": "038b0f29a60fa8d7e1aeafbe512288a6c6bc696547bbf8247db23c95e83014513c",
    "w": "02c80663dc9fcabee47c14a17c774eefda19cbcf2ea59f2dc70c2a544358ecb56b",
    "n": "8000000000000000",
    "d": "106003266939236557704060319805453778767683550618649496709275559630020036173535"
  },
  "votes": "000000"
}`

// Hash of the serialized fields of genesisHeaderJSON.
const genesisHeaderHash = "61dc1c8c28c22be34475f32cb87b38089b94fa41a20d843d70d575406180a340"

func TestBlockHeaderFromJSON(t *testing.T) {
	h, err := NewBlockHeaderFromJSON([]byte(genesisHeaderJSON))
	require.NoError(t, err)

	assert.Equal(t, "06fa44cc86a2cf45312fb1587f5eed0d9611a984344446e3f21c6e18422fe334", h.ID.String())
	assert.Equal(t, InitialVersion, h.Version)
	assert.True(t, h.ParentID.IsZero())
	assert.True(t, h.IsGenesis())
	assert.Equal(t, uint64(16842752), h.NBits)
	assert.Equal(t, GenesisHeight, h.Height)
	assert.Equal(t, chainhash.HashH(nil), h.ExtensionRoot)
	assert.Equal(t, byte(0x03), h.Solution.MinerPk[0])
	assert.Equal(t, [8]byte{0x80}, h.Solution.Nonce)
	assert.Equal(t, "106003266939236557704060319805453778767683550618649496709275559630020036173535",
		h.Solution.D.String())

	id, err := h.ComputeID()
	require.NoError(t, err)
	assert.Equal(t, genesisHeaderHash, id.String())
}

func TestBlockHeaderJSONWithoutID(t *testing.T) {
	doc := strings.Replace(genesisHeaderJSON,
		`"id": "06fa44cc86a2cf45312fb1587f5eed0d9611a984344446e3f21c6e18422fe334",`, "", 1)

	h, err := NewBlockHeaderFromJSON([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, genesisHeaderHash, h.ID.String())
}

func TestBlockHeaderJSONNumericDistance(t *testing.T) {
	doc := strings.Replace(genesisHeaderJSON,
		`"d": "106003266939236557704060319805453778767683550618649496709275559630020036173535"`,
		`"d": 106003266939236557704060319805453778767683550618649496709275559630020036173535`, 1)

	h, err := NewBlockHeaderFromJSON([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "106003266939236557704060319805453778767683550618649496709275559630020036173535",
		h.Solution.D.String())
}

func TestBlockHeaderJSONRoundTrip(t *testing.T) {
	h, err := NewBlockHeaderFromJSON([]byte(genesisHeaderJSON))
	require.NoError(t, err)

	raw, err := json.Marshal(h)
	require.NoError(t, err)

	back, err := NewBlockHeaderFromJSON(raw)
	require.NoError(t, err)
	assert.True(t, h.IsEqual(back), spew.Sdump(h, back))
}

func TestBlockHeaderJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		old   string
		new   string
		field string
	}{
		{
			name:  "missing parent",
			old:   `"parentId": "0000000000000000000000000000000000000000000000000000000000000000",`,
			new:   "",
			field: "parentId",
		},
		{
			name:  "short state root",
			old:   `"stateRoot": "000000000000000000000000000000000000000000000000000000000000000000"`,
			new:   `"stateRoot": "0000"`,
			field: "stateRoot",
		},
		{
			name:  "bad hex",
			old:   `"votes": "000000"`,
			new:   `"votes": "zz0000"`,
			field: "votes",
		},
		{
			name:  "bad distance",
			old:   `"d": "106003266939236557704060319805453778767683550618649496709275559630020036173535"`,
			new:   `"d": "-5"`,
			field: "powSolutions.d",
		},
		{
			name:  "missing height",
			old:   `"height": 1,`,
			new:   "",
			field: "height",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(genesisHeaderJSON, tt.old, tt.new, 1)
			require.NotEqual(t, genesisHeaderJSON, doc)

			_, err := NewBlockHeaderFromJSON([]byte(doc))
			require.Error(t, err)

			de, ok := err.(*chainhash.DecodeError)
			require.True(t, ok, "unexpected error type %T", err)
			assert.Equal(t, tt.field, de.Field)
		})
	}

	_, err := NewBlockHeaderFromJSON([]byte(`{"version": `))
	assert.True(t, chainhash.IsDecodeError(err))
}

func TestBlockHeaderSerialize(t *testing.T) {
	v1, err := NewBlockHeaderFromJSON([]byte(genesisHeaderJSON))
	require.NoError(t, err)

	v2 := v1.Copy()
	v2.Version = Interpreter60Version
	v2.Height = 300
	v2.Timestamp = 1611874199000
	v2.UnparsedBytes = []byte{0xca, 0xfe}
	v2.Solution.D = nil
	v2.Solution.W = [33]byte{}

	for _, h := range []*BlockHeader{v1, v2} {
		raw, err := h.Bytes()
		require.NoError(t, err)

		back, err := DeserializeHeader(raw)
		require.NoError(t, err)
		assert.Equal(t, chainhash.HashH(raw), back.ID.Hash())

		computed, err := h.ComputeID()
		require.NoError(t, err)
		assert.Equal(t, computed, back.ID)

		back.ID = h.ID
		assert.True(t, h.IsEqual(back), spew.Sdump(h, back))

		withoutPow, err := h.BytesWithoutPow()
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(raw, withoutPow))
	}

	raw, err := v1.Bytes()
	require.NoError(t, err)
	assert.Len(t, raw, 278)

	raw, err = v2.Bytes()
	require.NoError(t, err)
	withoutPow, err := v2.BytesWithoutPow()
	require.NoError(t, err)
	assert.Len(t, raw, len(withoutPow)+33+8)
}

func TestDeserializeHeaderErrors(t *testing.T) {
	h, err := NewBlockHeaderFromJSON([]byte(genesisHeaderJSON))
	require.NoError(t, err)
	raw, err := h.Bytes()
	require.NoError(t, err)

	oversized := append(append([]byte(nil), raw...), make([]byte, MaxBlockHeaderPayload)...)
	for _, b := range [][]byte{nil, raw[:10], raw[:len(raw)-1], append(raw, 0), oversized} {
		_, err := DeserializeHeader(b)
		assert.True(t, chainhash.IsDecodeError(err), "len %d", len(b))
	}
	assert.Less(t, len(raw), MaxBlockHeaderPayload)
}

func TestHeaderCopyIsDeep(t *testing.T) {
	h, err := NewBlockHeaderFromJSON([]byte(genesisHeaderJSON))
	require.NoError(t, err)

	c := h.Copy()
	c.Solution.D.Add(c.Solution.D, big.NewInt(1))
	assert.False(t, h.IsEqual(c))
}

func TestPreHeader(t *testing.T) {
	h, err := NewBlockHeaderFromJSON([]byte(genesisHeaderJSON))
	require.NoError(t, err)

	ph := NewPreHeader(h)
	assert.Equal(t, h.ParentID, ph.ParentID)
	assert.Equal(t, h.Height, ph.Height)
	assert.Equal(t, h.Solution.MinerPk, ph.MinerPk)
	assert.Equal(t, ph, NewPreHeader(h.Copy()))
}
