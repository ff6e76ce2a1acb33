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
	. "github.com/openthread/ot-emd/types"
)

const (
	DefaultEffectiveEarthRadiusKm float64 = 8500.0 // Earth radius incl. standard atmospheric refraction (4/3 model)
	DefaultFsplConstantDb         DbValue = 147.55 // FSPL constant for distance in m and frequency in Hz, see Friis
	DefaultInclusionThreshold     float64 = 0.1    // a link counts as present if its availability exceeds this
	defaultMeterPerKm             float64 = 1000.0
)

// NoiseConvention selects which station's noise power is subtracted when computing a link's SNR.
type NoiseConvention int

const (
	// NoiseAtReceiver uses the noise power of the receiving (second) station of a link.
	NoiseAtReceiver NoiseConvention = iota
	// NoiseAtTransmitter uses the noise power of the transmitting (first) station of a link.
	NoiseAtTransmitter
)

func (nc NoiseConvention) String() string {
	switch nc {
	case NoiseAtReceiver:
		return "rx"
	case NoiseAtTransmitter:
		return "tx"
	default:
		return "unknown"
	}
}

// ModelParams are the fixed parameters of the propagation and availability model.
type ModelParams struct {
	EffectiveEarthRadiusKm float64         // effective Earth radius used for line-of-sight range (km)
	FsplConstantDb         DbValue         // constant term of the free-space path loss formula (dB)
	InclusionThreshold     float64         // min availability (exclusive) for a link to be included in graph/binary matrix
	MeterPerUnit           float64         // meters per station coordinate unit
	Noise                  NoiseConvention // which station's noise power governs a link
}

func DefaultModelParams() *ModelParams {
	return &ModelParams{
		EffectiveEarthRadiusKm: DefaultEffectiveEarthRadiusKm,
		FsplConstantDb:         DefaultFsplConstantDb,
		InclusionThreshold:     DefaultInclusionThreshold,
		MeterPerUnit:           1.0,
		Noise:                  NoiseAtReceiver,
	}
}

// Validate checks the model parameters.
func (p *ModelParams) Validate() error {
	if !IsFinite(p.EffectiveEarthRadiusKm) || p.EffectiveEarthRadiusKm <= 0 {
		return DomainErrorf("effective Earth radius must be > 0 km: %v", p.EffectiveEarthRadiusKm)
	}
	if !IsFinite(p.FsplConstantDb) {
		return ValidationErrorf("FSPL constant is not a finite number: %v", p.FsplConstantDb)
	}
	if !IsFinite(p.InclusionThreshold) || p.InclusionThreshold < 0 || p.InclusionThreshold >= 1 {
		return DomainErrorf("inclusion threshold must be in [0,1): %v", p.InclusionThreshold)
	}
	if !IsFinite(p.MeterPerUnit) || p.MeterPerUnit <= 0 {
		return DomainErrorf("meters per unit must be > 0: %v", p.MeterPerUnit)
	}
	if p.Noise != NoiseAtReceiver && p.Noise != NoiseAtTransmitter {
		return DomainErrorf("unknown noise convention %d", p.Noise)
	}
	return nil
}

// ParseNoiseConvention parses "rx" or "tx".
func ParseNoiseConvention(s string) (NoiseConvention, error) {
	switch s {
	case "rx", "receiver":
		return NoiseAtReceiver, nil
	case "tx", "transmitter":
		return NoiseAtTransmitter, nil
	default:
		return NoiseAtReceiver, ValidationErrorf("unknown noise convention: %s", s)
	}
}
