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

func TestSnr(t *testing.T) {
	assert.Equal(t, 30.0+10+10-100, SnrDb(30, 10, 10, 100, 0))
	assert.Equal(t, 30.0+10+10-100+95, SnrDb(30, 10, 10, 100, -95))
}

func TestAvailabilityAtThreshold(t *testing.T) {
	for _, snr := range []float64{-50, -3, 0, 10, 42.5} {
		for _, sigma := range []float64{0.1, 1, 3, 8.03} {
			p, err := AvailabilityProbability(snr, snr, sigma)
			assert.Nil(t, err)
			assert.Equal(t, 0.5, p)
		}
	}
}

func TestAvailabilityMonotonicBounded(t *testing.T) {
	prev := -1.0
	for snr := -100.0; snr <= 100.0; snr += 0.25 {
		p, err := AvailabilityProbability(snr, 10, DefaultSigmaDb)
		assert.Nil(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}

	p1, _ := AvailabilityProbability(9, 10, 3)
	p2, _ := AvailabilityProbability(11, 10, 3)
	assert.Less(t, p1, 0.5)
	assert.Greater(t, p2, 0.5)
	assert.InDelta(t, 1.0, p1+p2, 1e-12)

	// one sigma above threshold
	p, _ := AvailabilityProbability(13, 10, 3)
	assert.InDelta(t, 0.841344746, p, 1e-9)

	p, _ = AvailabilityProbability(math.Inf(1), 10, 3)
	assert.Equal(t, 1.0, p)
	p, _ = AvailabilityProbability(math.Inf(-1), 10, 3)
	assert.Equal(t, 0.0, p)
}

func TestAvailabilityInvalidSigma(t *testing.T) {
	_, err := AvailabilityProbability(10, 10, 0)
	assert.True(t, IsDomainError(err))
	_, err = AvailabilityProbability(10, 10, -1)
	assert.True(t, IsDomainError(err))
	_, err = AvailabilityProbability(10, 10, math.NaN())
	assert.True(t, IsDomainError(err))
	_, err = AvailabilityProbability(math.NaN(), 10, 3)
	assert.True(t, IsValidationError(err))
}
