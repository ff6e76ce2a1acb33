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

package connectivity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-emd/radiomodel"
	. "github.com/openthread/ot-emd/types"
)

func scenarioStations(t *testing.T) []Station {
	var res []Station
	for _, pos := range [][2]float64{{0, 0}, {1000, 1000}, {2000, 0}} {
		s, err := NewStation(pos[0], pos[1], 50, 30, 10)
		require.Nil(t, err)
		res = append(res, s)
	}
	return res
}

// randomStations creates stations spread over a large area, with varied parameters, so that some pairs
// are out of line-of-sight and availabilities vary.
func randomStations(seed int64, n int) []Station {
	rnd := rand.New(rand.NewSource(seed))
	res := make([]Station, n)
	for i := range res {
		noise := -20 + rnd.Float64()*40
		res[i] = Station{
			X:          rnd.Float64() * 3_000_000,
			Y:          rnd.Float64() * 3_000_000,
			HeightM:    rnd.Float64() * 60,
			TxPowerDbm: 10 + rnd.Float64()*60,
			GainDb:     rnd.Float64() * 10,
		}
		if i%2 == 0 {
			res[i].NoisePowerDbm = &noise
		}
	}
	return res
}

type recordingObserver struct {
	modes []Mode
	stats []BuildStats
	errs  []error
}

func (ro *recordingObserver) OnBuildDone(mode Mode, stats BuildStats, err error) {
	ro.modes = append(ro.modes, mode)
	ro.stats = append(ro.stats, stats)
	ro.errs = append(ro.errs, err)
}

func TestBuildGraphScenario(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	ch := DefaultChannelParams()

	g, err := b.BuildGraph(scenarioStations(t), ch)
	require.Nil(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, []StationId{0, 1, 2}, g.Nodes)
	assert.Equal(t, 3, len(g.Edges))
	for _, e := range g.Edges {
		assert.Less(t, e.A, e.B)
		assert.Greater(t, e.Availability, radiomodel.DefaultInclusionThreshold)
		assert.InDelta(t, 1.0-e.Availability, e.Weight, 1e-15)
	}
	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(2, 0))
	assert.Equal(t, []StationId{0, 2}, g.Neighbors(1))
	assert.Equal(t, 2, g.Degree(0))
	assert.Equal(t, [][]StationId{{0, 1, 2}}, g.Components())
}

func TestBuildGraphThreshold(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	ch := DefaultChannelParams()
	stations := scenarioStations(t)

	// make the SNR margin hugely negative: all links are reachable, but none is available.
	ch.RequiredSnrDb = 1000
	g, err := b.BuildGraph(stations, ch)
	require.Nil(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 0, len(g.Edges))
	assert.Equal(t, 3, len(g.Components()))
}

func TestBuildMatrixScenario(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	ch := DefaultChannelParams()
	stations := scenarioStations(t)

	bin, err := b.BuildMatrix(stations, ch, true)
	require.Nil(t, err)
	assert.Equal(t, Matrix{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}, bin)

	prob, err := b.BuildMatrix(stations, ch, false)
	require.Nil(t, err)
	for i := range prob {
		assert.Equal(t, 0.0, prob[i][i])
		for j := range prob[i] {
			assert.GreaterOrEqual(t, prob[i][j], 0.0)
			assert.LessOrEqual(t, prob[i][j], 1.0)
		}
	}
}

func TestBinaryEqualsThresholdedContinuous(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)

	for seed := int64(1); seed <= 5; seed++ {
		stations := randomStations(seed, 25)
		ch := DefaultChannelParams()
		ch.FrequencyMhz = 900
		ch.RequiredSnrDb = 15
		bin, err := b.BuildMatrix(stations, ch, true)
		require.Nil(t, err)
		prob, err := b.BuildMatrix(stations, ch, false)
		require.Nil(t, err)
		assert.True(t, bin.Equal(prob.Threshold(radiomodel.DefaultInclusionThreshold)))
	}
}

func TestBuildUnreachableIsZero(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	ch := DefaultChannelParams()

	near, _ := NewStation(0, 0, 50, 30, 10)
	far, _ := NewStation(5_000_000, 0, 50, 1000, 100)
	m, err := b.BuildMatrix([]Station{near, far}, ch, false)
	require.Nil(t, err)
	assert.Equal(t, Matrix{{0, 0}, {0, 0}}, m)

	g, err := b.BuildGraph([]Station{near, far}, ch)
	require.Nil(t, err)
	assert.False(t, g.HasEdge(0, 1))
}

func TestBuildSmallStationCounts(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	ch := DefaultChannelParams()

	for _, stations := range [][]Station{nil, scenarioStations(t)[:1]} {
		g, err := b.BuildGraph(stations, ch)
		require.Nil(t, err)
		assert.Equal(t, len(stations), g.NumNodes())
		assert.Equal(t, 0, len(g.Edges))

		m, err := b.BuildMatrix(stations, ch, false)
		require.Nil(t, err)
		assert.Equal(t, len(stations), m.Rows())
	}
}

func TestBuildDomainErrors(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	obs := &recordingObserver{}
	b.SetObserver(obs)

	stations := scenarioStations(t)
	stations[1].HeightM = -10
	_, err = b.BuildMatrix(stations, DefaultChannelParams(), false)
	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "station 1")

	ch := DefaultChannelParams()
	ch.FrequencyMhz = -1
	g, err := b.BuildGraph(scenarioStations(t), ch)
	assert.Nil(t, g)
	assert.True(t, IsDomainError(err))

	// co-located stations cannot be evaluated
	stations = scenarioStations(t)
	stations[2] = stations[0]
	snap, err := b.Build(stations, DefaultChannelParams(), ModeMatrixBinary)
	assert.Nil(t, snap)
	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "link 0->2")

	require.Equal(t, 3, len(obs.errs))
	for _, e := range obs.errs {
		assert.NotNil(t, e)
	}
	assert.Equal(t, []Mode{ModeMatrixContinuous, ModeGraph, ModeMatrixBinary}, obs.modes)
}

func TestBuildIdempotentAndParallel(t *testing.T) {
	serial, err := NewBuilder(nil)
	require.Nil(t, err)
	parallel, err := NewBuilder(nil)
	require.Nil(t, err)
	parallel.SetWorkers(8)
	assert.Equal(t, 8, parallel.Workers())

	stations := randomStations(42, 40)
	ch := DefaultChannelParams()
	ch.FrequencyMhz = 433
	ch.RequiredSnrDb = 12
	ch.WeatherLossPercent = 10.87

	m1, err := serial.BuildMatrix(stations, ch, false)
	require.Nil(t, err)
	m2, err := serial.BuildMatrix(stations, ch, false)
	require.Nil(t, err)
	m3, err := parallel.BuildMatrix(stations, ch, false)
	require.Nil(t, err)
	assert.True(t, m1.Equal(m2))
	assert.True(t, m1.Equal(m3))

	g1, err := serial.BuildGraph(stations, ch)
	require.Nil(t, err)
	g2, err := parallel.BuildGraph(stations, ch)
	require.Nil(t, err)
	assert.Equal(t, g1.Edges, g2.Edges)
}

func TestBuildObserverStats(t *testing.T) {
	b, err := NewBuilder(nil)
	require.Nil(t, err)
	obs := &recordingObserver{}
	b.SetObserver(obs)

	near, _ := NewStation(0, 0, 50, 30, 10)
	far, _ := NewStation(5_000_000, 0, 50, 30, 10)
	stations := append(scenarioStations(t), far)

	snap, err := b.Build(stations, DefaultChannelParams(), ModeGraph)
	require.Nil(t, err)
	assert.Equal(t, 4, snap.Size())
	assert.Equal(t, 3, snap.NumLinks())
	_, err = b.Build(append(stations, near), DefaultChannelParams(), ModeMatrixContinuous)
	assert.NotNil(t, err) // 'near' is co-located with station 0

	require.Equal(t, 2, len(obs.stats))
	st := obs.stats[0]
	assert.Nil(t, obs.errs[0])
	assert.Equal(t, 4, st.Stations)
	assert.Equal(t, 6, st.Pairs)
	assert.Equal(t, 3, st.Unreachable)
	assert.Equal(t, 3, st.Included)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeGraph, ModeMatrixBinary, ModeMatrixContinuous} {
		pm, err := ParseMode(m.String())
		assert.Nil(t, err)
		assert.Equal(t, m, pm)
	}
	_, err := ParseMode("heatmap")
	assert.True(t, IsValidationError(err))
}
