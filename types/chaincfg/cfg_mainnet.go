// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

// mainNetGenesisID is the id of the first header of the main network.
var mainNetGenesisID = wire.BlockID{ // Make go vet happy.
	0xb0, 0x24, 0x4d, 0xfc, 0x26, 0x7b, 0xac, 0xa9,
	0x74, 0xa4, 0xca, 0xee, 0x06, 0x12, 0x03, 0x21,
	0x56, 0x27, 0x84, 0x30, 0x3a, 0x8a, 0x68, 0x89,
	0x76, 0xae, 0x56, 0x17, 0x0e, 0x4d, 0x17, 0x5b,
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:          string(MainNet),
	GenesisID:     mainNetGenesisID,
	GenesisHeight: wire.GenesisHeight,
	Autolykos: AutolykosParams{
		K: pow.DefaultK,
		N: pow.DefaultN,
	},
	Nipopow: NipopowParams{
		M: 6,
		K: 10,
	},
}
