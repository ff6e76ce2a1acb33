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

	. "github.com/openthread/ot-emd/types"
)

// LineOfSightRangeKm computes the max radio line-of-sight distance (km) between two antennas at heights
// h1 and h2 (m), using the default effective Earth radius.
func LineOfSightRangeKm(h1, h2 float64) (float64, error) {
	return lineOfSightRangeKm(DefaultEffectiveEarthRadiusKm, h1, h2)
}

func lineOfSightRangeKm(earthRadiusKm, h1, h2 float64) (float64, error) {
	if h1 < 0 || h2 < 0 {
		return math.NaN(), DomainErrorf("negative antenna height (h1=%v m, h2=%v m)", h1, h2)
	}
	return math.Sqrt(2*earthRadiusKm*h1) + math.Sqrt(2*earthRadiusKm*h2), nil
}

// FreeSpacePathLossDb computes the free-space path loss (dB) at frequency (MHz) over a distance (km).
func FreeSpacePathLossDb(frequencyMhz float64, distanceKm float64) (DbValue, error) {
	return freeSpacePathLossDb(DefaultFsplConstantDb, frequencyMhz, distanceKm)
}

func freeSpacePathLossDb(fsplConstantDb DbValue, frequencyMhz float64, distanceKm float64) (DbValue, error) {
	if frequencyMhz <= 0 {
		return math.NaN(), DomainErrorf("non-positive frequency %v MHz", frequencyMhz)
	}
	if distanceKm <= 0 {
		return math.NaN(), DomainErrorf("non-positive distance %v km", distanceKm)
	}
	return 20*math.Log10(distanceKm*defaultMeterPerKm) + 20*math.Log10(frequencyMhz) - fsplConstantDb, nil
}

// WeatherAdjustedLossDb increases a path loss by the given weather loss percentage.
func WeatherAdjustedLossDb(baseLossDb DbValue, weatherLossPercent float64) (DbValue, error) {
	if weatherLossPercent < 0 || weatherLossPercent > 100 {
		return math.NaN(), DomainErrorf("weather loss %v%% outside of range 0-100", weatherLossPercent)
	}
	return baseLossDb * (1.0 + weatherLossPercent/100.0), nil
}
