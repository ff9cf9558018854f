// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nipopow

import (
	"sync"

	"github.com/thedlop/sigma-go/types/chaincfg"
	"github.com/thedlop/sigma-go/types/pow"
	"github.com/thedlop/sigma-go/types/wire"
)

// Recorder receives the outcome of every processed proof.
type Recorder interface {
	ProofProcessed(adopted bool, err error)
}

// Option configures a Verifier.
type Option func(v *Verifier)

// WithParams takes the pow scheme, the genesis height, m and the minimum
// suffix length from the network parameters.
func WithParams(params *chaincfg.Params) Option {
	return func(v *Verifier) {
		v.algos = NewAlgos(params.PowScheme())
		v.genesisHeight = params.GenesisHeight
		v.m = params.Nipopow.M
		v.minK = params.Nipopow.K
	}
}

// WithM sets the m every proof must declare and is scored with.
func WithM(m uint32) Option {
	return func(v *Verifier) {
		v.m = m
	}
}

// WithPowScheme overrides the proof-of-work scheme.
func WithPowScheme(scheme *pow.AutolykosPowScheme) Option {
	return func(v *Verifier) {
		v.algos = NewAlgos(scheme)
	}
}

// WithMinSuffix requires proofs to carry at least k suffix headers, on top
// of the k the proof itself declares.
func WithMinSuffix(k uint32) Option {
	return func(v *Verifier) {
		v.minK = k
	}
}

// WithRecorder reports processing outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(v *Verifier) {
		v.recorder = r
	}
}

// Verifier keeps the best proof seen for one genesis. It is safe for
// concurrent use; the adopted proof is a private copy that is never mutated.
type Verifier struct {
	mtx           sync.RWMutex
	genesisID     wire.BlockID
	genesisHeight uint32
	m             uint32
	minK          uint32
	algos         *Algos
	recorder      Recorder
	best          *NipopowProof
}

// NewVerifier creates a verifier for the chain starting at genesisID. It
// starts without a best proof. Unless overridden by options, m, the minimum
// suffix length and the genesis height are those of the main network.
func NewVerifier(genesisID wire.BlockID, opts ...Option) *Verifier {
	v := &Verifier{
		genesisID:     genesisID,
		genesisHeight: chaincfg.MainNetParams.GenesisHeight,
		m:             chaincfg.MainNetParams.Nipopow.M,
		minK:          chaincfg.MainNetParams.Nipopow.K,
		algos:         NewAlgos(nil),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// GenesisID returns the genesis the verifier is anchored at.
func (v *Verifier) GenesisID() wire.BlockID {
	return v.genesisID
}

// Process validates p and adopts it when it is the first valid proof or
// when it is better than the current best one. A proof that is valid but
// not better is a loss: Process returns false and no error. Invalid proofs
// return a ValidationError and leave the verifier unchanged.
func (v *Verifier) Process(p *NipopowProof) (bool, error) {
	adopted, err := v.process(p)
	if v.recorder != nil {
		v.recorder.ProofProcessed(adopted, err)
	}
	return adopted, err
}

func (v *Verifier) process(p *NipopowProof) (bool, error) {
	if err := v.checkAnchor(p); err != nil {
		log.Debug().Err(err).Msg("proof rejected")
		return false, err
	}

	// Validation runs outside the lock, it touches only the candidate.
	candidate := p.Copy()
	cache := v.algos.newLevelCache()
	if err := cache.validate(candidate); err != nil {
		log.Debug().Err(err).Str("tip", candidate.Tip().ID.String()).Msg("proof rejected")
		return false, err
	}

	v.mtx.Lock()
	defer v.mtx.Unlock()

	if v.best != nil {
		better, err := cache.isBetterThan(candidate, v.best, v.m)
		if err != nil {
			return false, err
		}
		if !better {
			log.Debug().Str("tip", candidate.Tip().ID.String()).Msg("proof is not better than current best")
			return false, nil
		}
	}

	v.best = candidate
	tip := candidate.Tip()
	log.Info().Str("tip", tip.ID.String()).Uint32("height", tip.Height).
		Int("prefix", len(candidate.Prefix)).Msg("adopted new best proof")
	return true, nil
}

func (v *Verifier) checkAnchor(p *NipopowProof) error {
	if p == nil || p.SuffixHead == nil || p.SuffixHead.Header == nil {
		return validationError(ErrEmptyProof, -1, "proof has no suffix")
	}
	for i, h := range p.Prefix {
		if h == nil || h.Header == nil {
			return validationError(ErrEmptyProof, i, "prefix entry is empty")
		}
	}
	for i, h := range p.SuffixTail {
		if h == nil {
			return validationError(ErrEmptyProof, len(p.Prefix)+1+i, "suffix entry is empty")
		}
	}

	if g := p.Genesis(); g == nil || g.ID != v.genesisID {
		return validationError(ErrWrongGenesis, 0, "proof is not anchored at genesis %s", v.genesisID)
	} else if g.Height != v.genesisHeight {
		return validationError(ErrWrongGenesis, 0,
			"genesis is at height %d, verifier expects %d", g.Height, v.genesisHeight)
	}

	// Scores are only comparable under one m, the verifier's.
	if p.M != v.m {
		return validationError(ErrInvalidParams, -1,
			"proof declares m %d, verifier requires %d", p.M, v.m)
	}

	if n := len(p.SuffixTail) + 1; uint32(n) < v.minK {
		return validationError(ErrShortSuffix, -1,
			"suffix holds %d headers, verifier requires %d", n, v.minK)
	}
	return nil
}

// BestChain returns the suffix of the best proof in ascending height order,
// or nothing before the first proof is adopted. The headers are copies.
func (v *Verifier) BestChain() []*wire.BlockHeader {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.best == nil {
		return []*wire.BlockHeader{}
	}
	return copyHeaders(v.best.Suffix())
}

// BestHeadersChain returns every header of the best proof, the sampled
// prefix included.
func (v *Verifier) BestHeadersChain() []*wire.BlockHeader {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.best == nil {
		return []*wire.BlockHeader{}
	}
	return copyHeaders(v.best.HeadersChain())
}

// BestProof returns a copy of the best proof, nil before any is adopted.
func (v *Verifier) BestProof() *NipopowProof {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.best == nil {
		return nil
	}
	return v.best.Copy()
}

// PreHeader returns the pre-header of the best tip, for building a script
// evaluation context.
func (v *Verifier) PreHeader() (wire.PreHeader, bool) {
	v.mtx.RLock()
	defer v.mtx.RUnlock()

	if v.best == nil {
		return wire.PreHeader{}, false
	}
	return wire.NewPreHeader(v.best.Tip()), true
}

func copyHeaders(headers []*wire.BlockHeader) []*wire.BlockHeader {
	out := make([]*wire.BlockHeader, len(headers))
	for i, h := range headers {
		out[i] = h.Copy()
	}
	return out
}
