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

package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-emd/connectivity"
	. "github.com/openthread/ot-emd/types"
)

func TestAggregateIdentical(t *testing.T) {
	m := connectivity.Matrix{{0, 1}, {1, 0}}
	res, err := Aggregate([]connectivity.Matrix{m, m}, 2)
	require.Nil(t, err)
	assert.Equal(t, connectivity.Matrix{{0.5, 0.5}, {0.5, 0.5}}, res)
}

func TestAggregateIncludesDiagonal(t *testing.T) {
	m1 := connectivity.Matrix{{0, 0.9, 0.6}, {0.3, 0, 0.3}, {1, 1, 0}}
	m2 := connectivity.Matrix{{0, 0, 0}, {0.6, 0, 0.9}, {0.5, 0.1, 0}}
	res, err := Aggregate([]connectivity.Matrix{m1, m2}, 0)
	require.Nil(t, err)
	require.Equal(t, 3, res.Rows())
	require.Equal(t, 2, res.Cols())
	assert.InDelta(t, 0.5, res[0][0], 1e-12)
	assert.InDelta(t, 0.2, res[1][0], 1e-12)
	assert.InDelta(t, 2.0/3, res[2][0], 1e-12)
	assert.InDelta(t, 0.0, res[0][1], 1e-12)
	assert.InDelta(t, 0.5, res[1][1], 1e-12)
	assert.InDelta(t, 0.2, res[2][1], 1e-12)

	res, err = AggregateWithOptions([]connectivity.Matrix{m1}, 0, Options{ExcludeDiagonal: true})
	require.Nil(t, err)
	assert.InDelta(t, 0.75, res[0][0], 1e-12)
	assert.InDelta(t, 0.3, res[1][0], 1e-12)
	assert.InDelta(t, 1.0, res[2][0], 1e-12)
}

func TestAggregateIntervalLimit(t *testing.T) {
	var snaps []connectivity.Matrix
	for i := 0; i < 5; i++ {
		v := float64(i) / 10
		snaps = append(snaps, connectivity.Matrix{{v, v}, {v, v}})
	}

	res, err := Aggregate(snaps, 3)
	require.Nil(t, err)
	assert.Equal(t, 3, res.Cols())
	assert.Equal(t, []float64{0, 0.1, 0.2}, res[0])

	res, err = Aggregate(snaps, 100)
	require.Nil(t, err)
	assert.Equal(t, 5, res.Cols())

	res, err = Aggregate(snaps, -1)
	require.Nil(t, err)
	assert.Equal(t, 5, res.Cols())
}

func TestAggregateErrors(t *testing.T) {
	_, err := Aggregate(nil, 10)
	assert.True(t, IsDomainError(err))

	a := connectivity.Matrix{{0, 1}, {1, 0}}
	b := connectivity.Matrix{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}}
	_, err = Aggregate([]connectivity.Matrix{a, b}, 10)
	assert.True(t, IsDomainError(err))

	// a mismatching snapshot beyond the interval limit still fails
	res, err := Aggregate([]connectivity.Matrix{a, b}, 1)
	assert.True(t, IsDomainError(err))
	assert.Nil(t, res)
	_, err = Aggregate([]connectivity.Matrix{a, a, a, b}, 2)
	assert.True(t, IsDomainError(err))

	_, err = AggregateWithOptions([]connectivity.Matrix{{{0, 1, 2}, {1, 0, 2}}}, 0, Options{ExcludeDiagonal: true})
	assert.True(t, IsDomainError(err))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(2)
	ch := DefaultChannelParams()
	m := connectivity.Matrix{{0, 1}, {1, 0}}
	require.Nil(t, r.Add(ch, m))
	ch.WeatherLossPercent = 36.9
	require.Nil(t, r.Add(ch, connectivity.Matrix{{0, 0}, {1, 0}}))
	require.Nil(t, r.Add(ch, m))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 36.9, r.Intervals()[1].Channel.WeatherLossPercent)

	err := r.Add(ch, connectivity.Matrix{{0}})
	assert.True(t, IsDomainError(err))

	// the recorder keeps its own copy
	m[0][1] = 0.25
	res, err := r.Aggregate(Options{})
	require.Nil(t, err)
	assert.Equal(t, connectivity.Matrix{{0.5, 0}, {0.5, 0.5}}, res)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	_, err = r.Aggregate(Options{})
	assert.True(t, IsDomainError(err))
}
