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

type ReportChannel struct {
	FrequencyMhz       float64 `json:"frequency_mhz"`
	RequiredSnrDb      float64 `json:"required_snr_db"`
	WeatherLossPercent float64 `json:"weather_loss_percent"`
	SigmaDb            float64 `json:"sigma_db"`
}

type ReportModel struct {
	EffectiveEarthRadiusKm float64 `json:"effective_earth_radius_km"`
	InclusionThreshold     float64 `json:"inclusion_threshold"`
	Noise                  string  `json:"noise_at"`
}

// ReportLinks counts ordered station pairs. The mean availability is taken over all pairs, counting
// unreachable pairs as 0; min and max only over reachable pairs.
type ReportLinks struct {
	Pairs            int     `json:"pairs"`
	Reachable        int     `json:"reachable"`
	Unreachable      int     `json:"unreachable"`
	Included         int     `json:"included"`
	MeanAvailability float64 `json:"mean_availability"`
	MinAvailability  float64 `json:"min_availability"`
	MaxAvailability  float64 `json:"max_availability"`
}

type ReportSeries struct {
	Intervals   int       `json:"intervals"`
	ChannelMean []float64 `json:"channel_mean"`
}

type Report struct {
	FileTime string        `json:"created"`
	Status   string        `json:"status"`
	Stations int           `json:"stations"`
	Channel  ReportChannel `json:"channel"`
	Model    ReportModel   `json:"model"`
	Links    ReportLinks   `json:"links"`
	Series   *ReportSeries `json:"series,omitempty"`
}
