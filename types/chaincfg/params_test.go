// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thedlop/sigma-go/types/wire"
)

func TestNetNameParams(t *testing.T) {
	assert.Equal(t, &MainNetParams, MainNet.Params())
	assert.Equal(t, &SimNetParams, SimNet.Params())
	assert.Equal(t, &MainNetParams, NetName("unknown").Params())

	assert.Equal(t, "b0244dfc267baca974a4caee06120321562784303a8a688976ae56170e4d175b",
		MainNetParams.GenesisID.String())
	assert.True(t, SimNetParams.GenesisID.IsZero())
	assert.Equal(t, wire.GenesisHeight, MainNetParams.GenesisHeight)

	scheme := MainNetParams.PowScheme()
	assert.Equal(t, uint32(32), scheme.K)
	assert.Equal(t, uint32(26), scheme.N)
}
