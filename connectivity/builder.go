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

// Package connectivity builds connectivity snapshots (graphs and matrices) for a list of stations.
package connectivity

import (
	"sync"
	"time"

	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/radiomodel"
	. "github.com/openthread/ot-emd/types"
)

// BuildStats summarizes a single build.
type BuildStats struct {
	Stations    int
	Pairs       int // number of evaluated (ordered or unordered) pairs
	Unreachable int // pairs beyond line-of-sight range
	Included    int // pairs with availability above the inclusion threshold
	Duration    time.Duration
}

// Observer gets notified after each build, successful or not.
type Observer interface {
	OnBuildDone(mode Mode, stats BuildStats, err error)
}

// Builder builds Snapshots. Each build evaluates all O(n^2) station pairs from scratch; there is no
// caching between builds. A Builder is safe for concurrent use, as long as the callers do not modify
// station lists passed to in-flight builds.
type Builder struct {
	ev       *radiomodel.Evaluator
	workers  int
	observer Observer
}

// NewBuilder creates a Builder using the given model parameters (or the defaults if nil).
func NewBuilder(params *radiomodel.ModelParams) (*Builder, error) {
	ev, err := radiomodel.NewEvaluator(params)
	if err != nil {
		return nil, err
	}
	return &Builder{
		ev:      ev,
		workers: 1,
	}, nil
}

// SetWorkers sets the number of goroutines that evaluate pairs concurrently (by matrix row).
// Results do not depend on this number.
func (b *Builder) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	b.workers = n
}

// Workers returns the configured number of workers.
func (b *Builder) Workers() int {
	return b.workers
}

// SetObserver sets the build observer, or removes it if nil.
func (b *Builder) SetObserver(o Observer) {
	b.observer = o
}

// Evaluator returns the link evaluator used by the Builder.
func (b *Builder) Evaluator() *radiomodel.Evaluator {
	return b.ev
}

// Build builds a Snapshot in the given mode.
func (b *Builder) Build(stations []Station, ch ChannelParams, mode Mode) (*Snapshot, error) {
	switch mode {
	case ModeGraph:
		g, err := b.BuildGraph(stations, ch)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Mode: mode, Graph: g}, nil
	case ModeMatrixBinary, ModeMatrixContinuous:
		m, err := b.BuildMatrix(stations, ch, mode == ModeMatrixBinary)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Mode: mode, Matrix: m}, nil
	default:
		return nil, DomainErrorf("unknown snapshot mode %d", int(mode))
	}
}

// BuildGraph builds the connectivity graph. Each unordered pair (i, j), i < j, is evaluated once, with
// station i as the transmitter.
func (b *Builder) BuildGraph(stations []Station, ch ChannelParams) (g *Graph, err error) {
	stats := BuildStats{Stations: len(stations)}
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		b.notify(ModeGraph, stats, err)
	}()

	if err = validateInputs(stations, &ch); err != nil {
		return nil, err
	}

	rows, err := b.evaluateRows(stations, &ch, true)
	if err != nil {
		return nil, err
	}

	threshold := b.ev.Params().InclusionThreshold
	g = newGraph(len(stations))
	for i, row := range rows {
		for j := i + 1; j < len(stations); j++ {
			lr := row[j]
			stats.Pairs++
			if !lr.Reachable {
				stats.Unreachable++
				continue
			}
			if lr.IsIncluded(threshold) {
				stats.Included++
				g.addEdge(i, j, lr.Availability)
			}
		}
	}
	logger.Debugf("built graph: %d nodes, %d edges, %d unreachable pairs", g.NumNodes(), len(g.Edges), stats.Unreachable)
	return g, nil
}

// BuildMatrix builds the n x n connectivity matrix. Each ordered pair (i, j), i != j, is evaluated
// with station i as transmitter. Unreachable pairs and the diagonal are 0. If binary is set, cells
// are 1 for availability above the inclusion threshold, else 0; otherwise cells hold the availability.
func (b *Builder) BuildMatrix(stations []Station, ch ChannelParams, binary bool) (m Matrix, err error) {
	mode := ModeMatrixContinuous
	if binary {
		mode = ModeMatrixBinary
	}
	stats := BuildStats{Stations: len(stations)}
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		b.notify(mode, stats, err)
	}()

	if err = validateInputs(stations, &ch); err != nil {
		return nil, err
	}

	rows, err := b.evaluateRows(stations, &ch, false)
	if err != nil {
		return nil, err
	}

	threshold := b.ev.Params().InclusionThreshold
	n := len(stations)
	m = NewMatrix(n, n)
	for i, row := range rows {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			lr := row[j]
			stats.Pairs++
			if !lr.Reachable {
				stats.Unreachable++
				continue
			}
			included := lr.IsIncluded(threshold)
			if included {
				stats.Included++
			}
			if !binary {
				m[i][j] = lr.Availability
			} else if included {
				m[i][j] = 1
			}
		}
	}
	logger.Debugf("built %s matrix %dx%d, %d unreachable pairs", mode, n, n, stats.Unreachable)
	return m, nil
}

// evaluateRows evaluates row i for each station i: all j != i, or only j > i if upperOnly is set.
// Row i is evaluated entirely by one worker, and stored at index i, so the result is independent of
// the number of workers. On failure, the error of the lowest failing row is returned.
func (b *Builder) evaluateRows(stations []Station, ch *ChannelParams, upperOnly bool) ([][]radiomodel.LinkResult, error) {
	n := len(stations)
	rows := make([][]radiomodel.LinkResult, n)
	rowErrs := make([]error, n)

	evalRow := func(i int) {
		row := make([]radiomodel.LinkResult, n)
		j0 := 0
		if upperOnly {
			j0 = i + 1
		}
		for j := j0; j < n; j++ {
			if i == j {
				continue
			}
			lr, err := b.ev.EvaluateLink(&stations[i], &stations[j], ch)
			if err != nil {
				rowErrs[i] = errorWithPair(err, i, j)
				return
			}
			row[j] = lr
		}
		rows[i] = row
	}

	if b.workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			evalRow(i)
		}
	} else {
		rowsCh := make(chan int, n)
		for i := 0; i < n; i++ {
			rowsCh <- i
		}
		close(rowsCh)

		var wg sync.WaitGroup
		for w := 0; w < b.workers && w < n; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range rowsCh {
					evalRow(i)
				}
			}()
		}
		wg.Wait()
	}

	for _, err := range rowErrs {
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (b *Builder) notify(mode Mode, stats BuildStats, err error) {
	if b.observer != nil {
		b.observer.OnBuildDone(mode, stats, err)
	}
}

func validateInputs(stations []Station, ch *ChannelParams) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	for i := range stations {
		if err := stations[i].Validate(); err != nil {
			return errorWithStation(err, i)
		}
	}
	return nil
}
