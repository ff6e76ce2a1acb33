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

const (
	DefaultSigmaDb DbValue = 3.0 // stddev of the normal availability model (dB)
)

// ChannelParams are the radio channel parameters shared by all links of one snapshot.
type ChannelParams struct {
	FrequencyMhz       float64 // carrier frequency (MHz), > 0
	RequiredSnrDb      DbValue // SNR needed for the link to be available (dB)
	WeatherLossPercent float64 // additional fractional path loss due to weather, 0-100 (%)
	SigmaDb            DbValue // stddev of the availability model (dB), > 0
}

func DefaultChannelParams() ChannelParams {
	return ChannelParams{
		FrequencyMhz:       300,
		RequiredSnrDb:      10,
		WeatherLossPercent: 0,
		SigmaDb:            DefaultSigmaDb,
	}
}

// Validate checks that the channel parameters are finite and physically meaningful.
func (ch *ChannelParams) Validate() error {
	if !IsFinite(ch.FrequencyMhz) {
		return ValidationErrorf("channel frequency is not a finite number: %v", ch.FrequencyMhz)
	}
	if !IsFinite(ch.RequiredSnrDb) {
		return ValidationErrorf("required SNR is not a finite number: %v", ch.RequiredSnrDb)
	}
	if !IsFinite(ch.WeatherLossPercent) {
		return ValidationErrorf("weather loss is not a finite number: %v", ch.WeatherLossPercent)
	}
	if !IsFinite(ch.SigmaDb) {
		return ValidationErrorf("sigma is not a finite number: %v", ch.SigmaDb)
	}
	if ch.FrequencyMhz <= 0 {
		return DomainErrorf("non-positive frequency %v MHz", ch.FrequencyMhz)
	}
	if ch.WeatherLossPercent < 0 || ch.WeatherLossPercent > 100 {
		return DomainErrorf("weather loss %v%% outside of range 0-100", ch.WeatherLossPercent)
	}
	if ch.SigmaDb <= 0 {
		return DomainErrorf("non-positive sigma %v dB", ch.SigmaDb)
	}
	return nil
}
