// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

// NetName is the name of a known network.
type NetName string

const (
	// MainNet is the production network.
	MainNet NetName = "mainnet"

	// SimNet is a private network whose genesis is set by configuration.
	SimNet NetName = "simnet"
)

// Params returns the parameters of the named network. Unknown names fall
// back to mainnet.
func (n NetName) Params() *Params {
	switch n {
	case SimNet:
		return &SimNetParams
	default:
		return &MainNetParams
	}
}

// AutolykosParams are the proof-of-work parameters.
type AutolykosParams struct {
	// K is the number of elements in one solution.
	K uint32 `yaml:"k"`
	// N is the power of two of the initial table size.
	N uint32 `yaml:"n"`
}

// NipopowParams are the proof security parameters.
type NipopowParams struct {
	// M is the minimal superchain length used when comparing proofs.
	M uint32 `yaml:"m"`
	// K is the length of the proof suffix.
	K uint32 `yaml:"k"`
}

// Params defines a network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisID is the id of the first header of the chain.
	GenesisID wire.BlockID

	// GenesisHeight is the height of the genesis header.
	GenesisHeight uint32

	Autolykos AutolykosParams
	Nipopow   NipopowParams
}

// PowScheme builds the proof-of-work scheme of the network.
func (p *Params) PowScheme() *pow.AutolykosPowScheme {
	return pow.NewAutolykosPowScheme(p.Autolykos.K, p.Autolykos.N)
}
