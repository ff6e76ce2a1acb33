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

package radiomodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/openthread/ot-emd/types"
)

func TestLineOfSightRange(t *testing.T) {
	r, err := LineOfSightRangeKm(50, 50)
	assert.Nil(t, err)
	assert.InDelta(t, 2*math.Sqrt(2*8500*50), r, 1e-9)
	assert.InDelta(t, 1843.9, r, 0.1)

	r, err = LineOfSightRangeKm(0, 0)
	assert.Nil(t, err)
	assert.Equal(t, 0.0, r)

	_, err = LineOfSightRangeKm(-1, 10)
	assert.True(t, IsDomainError(err))
	_, err = LineOfSightRangeKm(10, -0.001)
	assert.True(t, IsDomainError(err))
}

func TestLineOfSightRangeSymmetricMonotonic(t *testing.T) {
	heights := []float64{0, 0.5, 1, 2, 10, 35, 50, 120, 1000}
	for _, h1 := range heights {
		prev := -1.0
		for _, h2 := range heights {
			r12, err := LineOfSightRangeKm(h1, h2)
			assert.Nil(t, err)
			r21, err := LineOfSightRangeKm(h2, h1)
			assert.Nil(t, err)
			assert.Equal(t, r12, r21)
			assert.GreaterOrEqual(t, r12, prev)
			prev = r12
		}
	}
}

func TestFreeSpacePathLoss(t *testing.T) {
	loss, err := FreeSpacePathLossDb(300, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 60+20*math.Log10(300)-147.55, loss, 1e-9)

	for _, f := range []float64{1, 300, 2400, 12000} {
		for _, d := range []float64{0.001, 0.5, 1.414, 20, 500} {
			l1, err := FreeSpacePathLossDb(f, d)
			assert.Nil(t, err)
			l2, err := FreeSpacePathLossDb(f, 2*d)
			assert.Nil(t, err)
			assert.InDelta(t, 20*math.Log10(2), l2-l1, 1e-9)
			assert.InDelta(t, 6.02, l2-l1, 0.001)
		}
	}
}

func TestFreeSpacePathLossDomain(t *testing.T) {
	_, err := FreeSpacePathLossDb(0, 1)
	assert.True(t, IsDomainError(err))
	_, err = FreeSpacePathLossDb(-300, 1)
	assert.True(t, IsDomainError(err))
	_, err = FreeSpacePathLossDb(300, 0)
	assert.True(t, IsDomainError(err))
	_, err = FreeSpacePathLossDb(300, -2)
	assert.True(t, IsDomainError(err))
}

func TestWeatherAdjustedLoss(t *testing.T) {
	l, err := WeatherAdjustedLossDb(100, 0)
	assert.Nil(t, err)
	assert.Equal(t, 100.0, l)

	l, err = WeatherAdjustedLossDb(100, 10.87)
	assert.Nil(t, err)
	assert.InDelta(t, 110.87, l, 1e-9)

	l, err = WeatherAdjustedLossDb(80, 100)
	assert.Nil(t, err)
	assert.InDelta(t, 160.0, l, 1e-9)

	_, err = WeatherAdjustedLossDb(80, -1)
	assert.True(t, IsDomainError(err))
	_, err = WeatherAdjustedLossDb(80, 101)
	assert.True(t, IsDomainError(err))
}
