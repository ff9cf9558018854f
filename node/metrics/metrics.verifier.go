// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/thedlop/sigma-go/node/nipopow"
	"github.com/thedlop/sigma-go/types/wire"
)

const namespace = "nipopow"

// ChainSource exposes the chain a verifier currently believes in.
type ChainSource interface {
	BestChain() []*wire.BlockHeader
	BestHeadersChain() []*wire.BlockHeader
}

// VerifierMetrics records processing outcomes and exposes the best chain
// of a verifier as gauges.
type VerifierMetrics struct {
	sync.RWMutex
	metricsByName map[string]prometheus.Gauge
	processed     *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	source        ChainSource
	registerer    prometheus.Registerer
	logger        *zap.Logger
	name          string
}

// NewVerifierMetrics registers the verifier collectors on reg. The source
// may be set later with SetSource.
func NewVerifierMetrics(reg prometheus.Registerer, name string, logger *zap.Logger) *VerifierMetrics {
	s := &VerifierMetrics{
		metricsByName: make(map[string]prometheus.Gauge),
		registerer:    reg,
		logger:        logger,
		name:          name,
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: name,
			Name:      "proofs_processed_total",
			Help:      "Processed proofs by outcome.",
		}, []string{"outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: name,
			Name:      "proofs_rejected_total",
			Help:      "Rejected proofs by violated rule.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{s.processed, s.rejected} {
		if err := reg.Register(c); err != nil {
			logger.Error("can't register metric", zap.Error(err))
		}
	}
	return s
}

// SetSource sets the verifier read by Read.
func (s *VerifierMetrics) SetSource(source ChainSource) {
	s.Lock()
	s.source = source
	s.Unlock()
}

// ProofProcessed counts one processed proof.
func (s *VerifierMetrics) ProofProcessed(adopted bool, err error) {
	switch {
	case err != nil:
		s.processed.WithLabelValues("rejected").Inc()
		s.rejected.WithLabelValues(reason(err)).Inc()
	case adopted:
		s.processed.WithLabelValues("adopted").Inc()
	default:
		s.processed.WithLabelValues("lost").Inc()
	}
}

// Read refreshes the best chain gauges.
func (s *VerifierMetrics) Read() {
	s.RLock()
	source := s.source
	s.RUnlock()
	if source == nil {
		return
	}

	suffix := source.BestChain()
	full := source.BestHeadersChain()
	if len(suffix) == 0 {
		s.logger.Debug("no best chain yet")
		return
	}

	tip := suffix[len(suffix)-1]
	s.updateGauge(prometheus.BuildFQName(namespace, s.name, "best_height"), float64(tip.Height))
	s.updateGauge(prometheus.BuildFQName(namespace, s.name, "best_timestamp"), float64(tip.Timestamp))
	s.updateGauge(prometheus.BuildFQName(namespace, s.name, "suffix_length"), float64(len(suffix)))
	s.updateGauge(prometheus.BuildFQName(namespace, s.name, "prefix_length"), float64(len(full)-len(suffix)))
}

func (s *VerifierMetrics) updateGauge(name string, value float64) {
	s.Lock()
	defer s.Unlock()

	m, ok := s.metricsByName[name]
	if !ok {
		m = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: name,
			Help: "Best chain of the verifier.",
		})
		if err := s.registerer.Register(m); err != nil {
			s.logger.Error("can't register metric", zap.Error(err))
		}
		s.metricsByName[name] = m
	}
	m.Set(value)
}

// reason names the violated rule, "other" for errors without a kind.
func reason(err error) string {
	var kind nipopow.ErrorKind
	if errors.As(err, &kind) {
		return string(kind)
	}
	return "other"
}
