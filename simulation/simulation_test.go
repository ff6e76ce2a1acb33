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

package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/timeseries"
	. "github.com/openthread/ot-emd/types"
)

func newTestSimulation(t *testing.T) *Simulation {
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	sim, err := NewSimulation(cfg)
	require.Nil(t, err)
	for _, pos := range [][2]float64{{0, 0}, {1000, 1000}, {2000, 0}} {
		st, err := NewStation(pos[0], pos[1], 50, 30, 10)
		require.Nil(t, err)
		_, err = sim.AddStation(st)
		require.Nil(t, err)
	}
	return sim
}

func TestAddDeleteStation(t *testing.T) {
	sim := newTestSimulation(t)
	assert.Equal(t, 3, sim.NumStations())

	id, err := sim.AddStation(Station{X: 1, Y: 1, HeightM: -1})
	assert.True(t, IsDomainError(err))
	assert.Equal(t, InvalidStationId, id)
	assert.Equal(t, 3, sim.NumStations())

	require.Nil(t, sim.DeleteStation(0))
	st, err := sim.Station(0)
	require.Nil(t, err)
	assert.Equal(t, 1000.0, st.X)
	assert.NotNil(t, sim.DeleteStation(2))

	// returned list is a copy
	list := sim.Stations()
	list[0].X = 99
	st, _ = sim.Station(0)
	assert.Equal(t, 1000.0, st.X)

	sim.ClearStations()
	assert.Equal(t, 0, sim.NumStations())
}

func TestBuildSnapshotScenario(t *testing.T) {
	sim := newTestSimulation(t)

	snap, err := sim.BuildSnapshot(connectivity.ModeGraph)
	require.Nil(t, err)
	assert.Equal(t, 3, snap.NumLinks())
	assert.True(t, snap.Graph.HasEdge(0, 2))

	snap, err = sim.BuildSnapshot(connectivity.ModeMatrixBinary)
	require.Nil(t, err)
	assert.Equal(t, connectivity.Matrix{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}, snap.Matrix)

	lr, err := sim.EvaluateLink(0, 1)
	require.Nil(t, err)
	assert.True(t, lr.Reachable)
	assert.InDelta(t, 1.414, lr.DistanceKm, 1e-3)
	_, err = sim.EvaluateLink(0, 7)
	assert.NotNil(t, err)
}

func TestSetChannel(t *testing.T) {
	sim := newTestSimulation(t)
	ch := DefaultChannelParams()
	ch.SigmaDb = 0
	assert.True(t, IsDomainError(sim.SetChannel(ch)))
	assert.Equal(t, DefaultSigmaDb, sim.Channel().SigmaDb)

	ch.SigmaDb = 2
	ch.FrequencyMhz = 2400
	require.Nil(t, sim.SetChannel(ch))
	assert.Equal(t, 2400.0, sim.Channel().FrequencyMhz)
}

func TestRecordIntervalSeries(t *testing.T) {
	sim := newTestSimulation(t)
	_, err := sim.Series()
	assert.True(t, IsDomainError(err))

	ch := sim.Channel()
	for i := 0; i < 3; i++ {
		ch.WeatherLossPercent = float64(i) * 10
		m, err := sim.RecordInterval(ch)
		require.Nil(t, err)
		assert.Equal(t, 3, m.Rows())
	}
	assert.Equal(t, 0.0, sim.Channel().WeatherLossPercent)
	assert.Equal(t, 3, len(sim.History()))
	assert.Equal(t, 20.0, sim.History()[2].Channel.WeatherLossPercent)

	series, err := sim.Series()
	require.Nil(t, err)
	assert.Equal(t, 3, series.Rows())
	assert.Equal(t, 3, series.Cols())
	for c := range series {
		for _, v := range series[c] {
			// the diagonal zero is included in each row mean
			assert.InDelta(t, 2.0/3, v, 1e-6)
		}
	}

	// station count must not change within a series
	_, err = sim.AddStation(Station{X: 5000, Y: 0, HeightM: 10})
	require.Nil(t, err)
	_, err = sim.RecordInterval(ch)
	assert.True(t, IsDomainError(err))

	sim.ResetHistory()
	assert.Equal(t, 0, len(sim.History()))
	_, err = sim.RecordInterval(ch)
	assert.Nil(t, err)
}

func TestSeriesExcludeDiagonal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Aggregation.ExcludeDiagonal = true
	cfg.MaxIntervals = 2
	sim, err := NewSimulation(cfg)
	require.Nil(t, err)
	for _, x := range []float64{0, 1000} {
		_, err = sim.AddStation(Station{X: x, HeightM: 50, TxPowerDbm: 30, GainDb: 10})
		require.Nil(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err = sim.RecordInterval(sim.Channel())
		require.Nil(t, err)
	}
	series, err := sim.Series()
	require.Nil(t, err)
	assert.Equal(t, 2, series.Cols())
	assert.InDelta(t, 1.0, series[0][0], 1e-9)
}

func TestRestoreHistory(t *testing.T) {
	sim := newTestSimulation(t)
	ch := sim.Channel()
	ch.WeatherLossPercent = 40
	_, err := sim.RecordInterval(ch)
	require.Nil(t, err)
	saved := sim.History()

	sim.ResetHistory()
	require.Nil(t, sim.RestoreHistory(saved))
	assert.Equal(t, saved, sim.History())

	bad := append(saved, timeseries.Interval{Channel: ch, Matrix: connectivity.NewMatrix(2, 2)})
	assert.True(t, IsDomainError(sim.RestoreHistory(bad)))
	assert.Equal(t, 1, len(sim.History()))
}
