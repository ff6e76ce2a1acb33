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

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStation(t *testing.T) {
	s, err := NewStation(0, 0, 50, 30, 10)
	assert.Nil(t, err)
	assert.False(t, s.HasNoise())
	assert.Equal(t, 0.0, s.Noise())

	s, err = NewStationWithNoise(1000, 1000, 50, 30, 10, -100)
	assert.Nil(t, err)
	assert.True(t, s.HasNoise())
	assert.Equal(t, -100.0, s.Noise())

	_, err = NewStation(0, 0, -1, 30, 10)
	assert.True(t, IsDomainError(err))
	assert.False(t, IsValidationError(err))

	_, err = NewStation(math.NaN(), 0, 10, 30, 10)
	assert.True(t, IsValidationError(err))

	_, err = NewStationWithNoise(0, 0, 10, 30, 10, math.Inf(1))
	assert.True(t, IsValidationError(err))
}

func TestChannelParamsValidate(t *testing.T) {
	ch := DefaultChannelParams()
	assert.Nil(t, ch.Validate())
	assert.Equal(t, 3.0, ch.SigmaDb)

	ch.FrequencyMhz = 0
	assert.True(t, IsDomainError(ch.Validate()))

	ch = DefaultChannelParams()
	ch.SigmaDb = -3
	assert.True(t, IsDomainError(ch.Validate()))

	ch = DefaultChannelParams()
	ch.WeatherLossPercent = 100.5
	assert.True(t, IsDomainError(ch.Validate()))

	ch = DefaultChannelParams()
	ch.RequiredSnrDb = math.NaN()
	assert.True(t, IsValidationError(ch.Validate()))
}

func TestStationString(t *testing.T) {
	s, _ := NewStation(1, 2, 3, 4, 5)
	assert.Equal(t, "x=1.00 y=2.00 height=3.00 power=4.00 gain=5.00 noise_power=-", s.String())
}
