// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package metrics exports Prometheus metrics for connectivity builds and the snapshot service.
package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/openthread/ot-emd/connectivity"
)

// Collector bundles the engine's Prometheus metrics. It implements connectivity.Observer.
type Collector struct {
	gatherer prometheus.Gatherer

	Builds           *prometheus.CounterVec
	BuildDurations   *prometheus.HistogramVec
	PairEvaluations  *prometheus.CounterVec
	UnreachablePairs prometheus.Counter
	LastStations     prometheus.Gauge

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec
}

// NewCollector registers the metrics against the provided registerer, defaulting to the global
// Prometheus registry when nil. Registering twice on the same registerer reuses the existing metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.Builds, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emd_builds_total",
		Help: "Total number of connectivity builds, labeled by mode and result.",
	}, []string{"mode", "result"}), "emd_builds_total"); err != nil {
		return nil, err
	}

	if c.BuildDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emd_build_duration_seconds",
		Help:    "Connectivity build duration in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"mode"}), "emd_build_duration_seconds"); err != nil {
		return nil, err
	}

	if c.PairEvaluations, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emd_pair_evaluations_total",
		Help: "Total number of evaluated station pairs, labeled by mode.",
	}, []string{"mode"}), "emd_pair_evaluations_total"); err != nil {
		return nil, err
	}

	if c.UnreachablePairs, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "emd_unreachable_pairs_total",
		Help: "Total number of evaluated station pairs beyond line-of-sight range.",
	}), "emd_unreachable_pairs_total"); err != nil {
		return nil, err
	}

	if c.LastStations, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "emd_last_build_stations",
		Help: "Number of stations of the most recent successful build.",
	}), "emd_last_build_stations"); err != nil {
		return nil, err
	}

	if c.RPCRequests, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emd_rpc_requests_total",
		Help: "Total number of handled snapshot service RPCs, labeled by method and gRPC status code.",
	}, []string{"method", "code"}), "emd_rpc_requests_total"); err != nil {
		return nil, err
	}

	if c.RPCDurations, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emd_rpc_duration_seconds",
		Help:    "Snapshot service RPC latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method"}), "emd_rpc_duration_seconds"); err != nil {
		return nil, err
	}

	return c, nil
}

// OnBuildDone records a finished build.
func (c *Collector) OnBuildDone(mode connectivity.Mode, stats connectivity.BuildStats, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Builds.WithLabelValues(mode.String(), result).Inc()
	c.BuildDurations.WithLabelValues(mode.String()).Observe(stats.Duration.Seconds())
	c.PairEvaluations.WithLabelValues(mode.String()).Add(float64(stats.Pairs))
	c.UnreachablePairs.Add(float64(stats.Unreachable))
	if err == nil {
		c.LastStations.Set(float64(stats.Stations))
	}
}

// UnaryServerInterceptor records request counts and durations for unary RPCs.
func (c *Collector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if c == nil {
			return resp, err
		}

		method := "unknown"
		if info != nil {
			method = methodName(info.FullMethod)
		}
		c.RPCRequests.WithLabelValues(method, status.Code(err).String()).Inc()
		c.RPCDurations.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return resp, err
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// methodName returns the last path element of a full gRPC method name.
func methodName(fullMethod string) string {
	idx := strings.LastIndex(fullMethod, "/")
	if idx < 0 || idx == len(fullMethod)-1 {
		return "unknown"
	}
	return fullMethod[idx+1:]
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
