// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//metricsManager metrics manager
type metricsManager struct {
	mtx      sync.Mutex
	metrics  []IMetric
	interval time.Duration
	gatherer prometheus.Gatherer
}

//IMetric metric reader
type IMetric interface {
	Read()
}

//IMetricManager metric manager
type IMetricManager interface {
	Add(metrics ...IMetric)
	ReadAll()
	Listen(ctx context.Context, route string, port uint16) error
}

//Metrics creates metric instance, collecting every interval until ctx is done
func Metrics(ctx context.Context, interval time.Duration, gatherer prometheus.Gatherer) IMetricManager {
	res := &metricsManager{
		interval: interval,
		gatherer: gatherer,
	}

	go res.collector(ctx)
	return res
}

func (m *metricsManager) Add(metrics ...IMetric) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.metrics = append(m.metrics, metrics...)
}

// ReadAll refreshes every registered metric once.
func (m *metricsManager) ReadAll() {
	m.mtx.Lock()
	metrics := append([]IMetric(nil), m.metrics...)
	m.mtx.Unlock()

	for _, v := range metrics {
		v.Read()
	}
}

func (m *metricsManager) collector(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
			m.ReadAll()
		}
	}
}

// Listen serves the gathered metrics on route until ctx is done.
func (m *metricsManager) Listen(ctx context.Context, route string, port uint16) error {
	mux := http.NewServeMux()
	mux.Handle(route, promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
