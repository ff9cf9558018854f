// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/wire"
)

// GroupOrder is the order q of the secp256k1 group. The target of a header
// of difficulty D is q / D.
var GroupOrder, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// ErrZeroDifficulty is returned for headers whose nBits decode to a
// non-positive difficulty.
var ErrZeroDifficulty = errors.New("header difficulty is not positive")

// RequiredTarget returns q / difficulty for the given nBits.
func RequiredTarget(nBits uint64) (*big.Int, error) {
	difficulty := DecodeCompactBits(nBits)
	if difficulty.Sign() <= 0 {
		return nil, ErrZeroDifficulty
	}
	return new(big.Int).Quo(GroupOrder, difficulty), nil
}

// MaxLevelOf returns the superblock level of h. The genesis header is
// treated as a superblock of every level. A hit above the target yields a
// negative level.
func (s *AutolykosPowScheme) MaxLevelOf(h *wire.BlockHeader) (int32, error) {
	if h.Height == wire.GenesisHeight {
		return math.MaxInt32, nil
	}

	target, err := RequiredTarget(h.NBits)
	if err != nil {
		return 0, err
	}
	hit, err := s.PowHit(h)
	if err != nil {
		return 0, errors.Wrapf(err, "header %s", h.ID)
	}
	if hit.Sign() == 0 {
		return math.MaxInt32, nil
	}

	level := log2(target) - log2(hit)
	switch {
	case level >= math.MaxInt32:
		return math.MaxInt32, nil
	case level <= math.MinInt32:
		return math.MinInt32, nil
	}
	return int32(level), nil
}

// TargetForLevel returns a pow distance that puts a version 1 header with the
// given nBits exactly at level. It sits at two thirds of the level's range so
// float rounding can not move it across a level boundary.
func TargetForLevel(nBits uint64, level uint) (*big.Int, error) {
	target, err := RequiredTarget(nBits)
	if err != nil {
		return nil, err
	}

	d := new(big.Int).Mul(target, big.NewInt(2))
	d.Quo(d, big.NewInt(3))
	return d.Rsh(d, level), nil
}

func log2(n *big.Int) float64 {
	f, _ := new(big.Float).SetInt(n).Float64()
	return math.Log2(f)
}
