// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

// SimNetParams defines the parameters for private test networks. The
// genesis id is left empty and must be provided by configuration.
var SimNetParams = Params{
	Name:          string(SimNet),
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
