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

import "fmt"

// Station is a fixed radio station. Position is in meters, on a flat plane.
type Station struct {
	X, Y          float64
	HeightM       float64  // antenna height above ground (m)
	TxPowerDbm    DbValue  // transmit power (dBm)
	GainDb        DbValue  // antenna gain (dB), used both for Tx and Rx
	NoisePowerDbm *DbValue // noise/interference power at the station (dBm); nil if not specified.
}

// NewStation creates a validated Station without noise power.
func NewStation(x, y, heightM float64, txPowerDbm, gainDb DbValue) (Station, error) {
	s := Station{
		X:          x,
		Y:          y,
		HeightM:    heightM,
		TxPowerDbm: txPowerDbm,
		GainDb:     gainDb,
	}
	return s, s.Validate()
}

// NewStationWithNoise creates a validated Station that has a noise power value.
func NewStationWithNoise(x, y, heightM float64, txPowerDbm, gainDb, noisePowerDbm DbValue) (Station, error) {
	s := Station{
		X:             x,
		Y:             y,
		HeightM:       heightM,
		TxPowerDbm:    txPowerDbm,
		GainDb:        gainDb,
		NoisePowerDbm: &noisePowerDbm,
	}
	return s, s.Validate()
}

// Validate checks that all fields are finite and the antenna height is non-negative.
func (s *Station) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"x", s.X},
		{"y", s.Y},
		{"height", s.HeightM},
		{"power", s.TxPowerDbm},
		{"gain", s.GainDb},
	}
	for _, f := range fields {
		if !IsFinite(f.val) {
			return ValidationErrorf("station field '%s' is not a finite number: %v", f.name, f.val)
		}
	}
	if s.NoisePowerDbm != nil && !IsFinite(*s.NoisePowerDbm) {
		return ValidationErrorf("station field 'noise_power' is not a finite number: %v", *s.NoisePowerDbm)
	}
	if s.HeightM < 0 {
		return DomainErrorf("negative antenna height %v m", s.HeightM)
	}
	return nil
}

// HasNoise returns true if a noise power was specified for the station.
func (s *Station) HasNoise() bool {
	return s.NoisePowerDbm != nil
}

// Noise returns the noise power in dBm, or 0 if none was specified.
func (s *Station) Noise() DbValue {
	if s.NoisePowerDbm == nil {
		return 0
	}
	return *s.NoisePowerDbm
}

func (s Station) String() string {
	noise := "-"
	if s.NoisePowerDbm != nil {
		noise = fmt.Sprintf("%.2f", *s.NoisePowerDbm)
	}
	return fmt.Sprintf("x=%.2f y=%.2f height=%.2f power=%.2f gain=%.2f noise_power=%s",
		s.X, s.Y, s.HeightM, s.TxPowerDbm, s.GainDb, noise)
}
