// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
	"github.com/thedlop/sigma-go/types/wire"
)

const (
	// DefaultK is the number of elements in one solution.
	DefaultK = 32

	// DefaultN is the power of two of the initial table size.
	DefaultN = 26

	// IncreaseStart is the height from which the table starts growing.
	IncreaseStart = 600 * 1024

	// IncreasePeriodForN is the number of blocks between table growth steps.
	IncreasePeriodForN = 50 * 1024

	// NIncreasementHeightMax is the height after which the table stops growing.
	NIncreasementHeightMax = 4198400

	// bigMSize is the count of 8 byte words in the constant M.
	bigMSize = 1024
)

var (
	// ErrMissingDistance is returned for a version 1 header without d.
	ErrMissingDistance = errors.New("version 1 header carries no pow distance")

	// ErrHitOverflow is returned when the index sum does not fit in 32
	// bytes, which cannot happen for well-formed parameters.
	ErrHitOverflow = errors.New("pow hit sum overflows 32 bytes")

	bigM = func() []byte {
		m := make([]byte, 8*bigMSize)
		for i := 0; i < bigMSize; i++ {
			binary.BigEndian.PutUint64(m[i*8:], uint64(i))
		}
		return m
	}()
)

// AutolykosPowScheme computes pow hits of Autolykos headers.
type AutolykosPowScheme struct {
	// K is the number of elements in one solution.
	K uint32
	// N is the power of two of the initial table size.
	N uint32
}

// NewAutolykosPowScheme returns a scheme with the given parameters.
func NewAutolykosPowScheme(k, n uint32) *AutolykosPowScheme {
	return &AutolykosPowScheme{K: k, N: n}
}

// DefaultPowScheme returns the scheme with mainnet parameters.
func DefaultPowScheme() *AutolykosPowScheme {
	return NewAutolykosPowScheme(DefaultK, DefaultN)
}

// CalcN returns the table size used for a header of the given version and
// height. From version 2 on it grows by 5% every IncreasePeriodForN blocks.
func (s *AutolykosPowScheme) CalcN(version uint8, height uint32) uint32 {
	nBase := uint32(1) << s.N
	if version <= wire.InitialVersion {
		return nBase
	}

	h := height
	if h > NIncreasementHeightMax {
		h = NIncreasementHeightMax
	}
	if h < IncreaseStart {
		return nBase
	}

	iters := (h-IncreaseStart)/IncreasePeriodForN + 1
	n := uint64(nBase)
	for i := uint32(0); i < iters; i++ {
		n = n / 100 * 105
	}
	return uint32(n)
}

// PowHit returns the value the header solution has to stay below. Version 1
// headers carry it as d, later versions recompute it from the header.
func (s *AutolykosPowScheme) PowHit(h *wire.BlockHeader) (*big.Int, error) {
	if h.Version <= wire.InitialVersion {
		if h.Solution.D == nil {
			return nil, ErrMissingDistance
		}
		return new(big.Int).Set(h.Solution.D), nil
	}

	raw, err := h.BytesWithoutPow()
	if err != nil {
		return nil, err
	}

	msg := chainhash.HashB(raw)
	nonce := h.Solution.Nonce[:]
	var heightBytes [4]byte
	binary.BigEndian.PutUint32(heightBytes[:], h.Height)

	n := s.CalcN(h.Version, h.Height)
	seed := s.calcSeedV2(n, msg, nonce, heightBytes[:])

	sum := new(big.Int)
	elem := new(big.Int)
	var idxBytes [4]byte
	for _, idx := range s.genIndexes(seed, n) {
		binary.BigEndian.PutUint32(idxBytes[:], idx)
		digest := hashConcat(idxBytes[:], heightBytes[:], bigM)
		sum.Add(sum, elem.SetBytes(digest[1:]))
	}

	b := sum.Bytes()
	if len(b) > chainhash.HashSize {
		return nil, ErrHitOverflow
	}
	var padded [chainhash.HashSize]byte
	copy(padded[chainhash.HashSize-len(b):], b)

	hit := chainhash.HashH(padded[:])
	return new(big.Int).SetBytes(hit[:]), nil
}

func (s *AutolykosPowScheme) calcSeedV2(n uint32, msg, nonce, heightBytes []byte) chainhash.Hash {
	pre := hashConcat(msg, nonce)
	i := binary.BigEndian.Uint64(pre[24:]) % uint64(n)

	var iBytes [4]byte
	binary.BigEndian.PutUint32(iBytes[:], uint32(i))
	f := hashConcat(iBytes[:], heightBytes, bigM)

	return hashConcat(f[1:], msg, nonce)
}

func (s *AutolykosPowScheme) genIndexes(seed chainhash.Hash, n uint32) []uint32 {
	extended := make([]byte, 0, chainhash.HashSize+3)
	extended = append(extended, seed[:]...)
	extended = append(extended, seed[:3]...)

	indexes := make([]uint32, s.K)
	for i := range indexes {
		indexes[i] = binary.BigEndian.Uint32(extended[i:i+4]) % n
	}
	return indexes
}

func hashConcat(chunks ...[]byte) chainhash.Hash {
	h := chainhash.New()
	for _, chunk := range chunks {
		h.Write(chunk)
	}

	var out chainhash.Hash
	copy(out[:], h.Sum(nil))
	return out
}
