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
	"fmt"
	"math"

	. "github.com/openthread/ot-emd/types"
)

// LinkResult is the outcome of evaluating a single (directed) radio link.
type LinkResult struct {
	// Reachable is false if the stations are beyond line-of-sight range. In that case, only
	// DistanceKm and LosRangeKm are valid.
	Reachable bool

	// Availability is the EMD probability in [0,1] of the link.
	Availability float64

	DistanceKm float64
	LosRangeKm float64
	PathLossDb DbValue
	SnrDb      DbValue
}

// Unreachable returns a LinkResult for a pair of stations out of line-of-sight.
func Unreachable(distKm, losRangeKm float64) LinkResult {
	return LinkResult{
		Reachable:  false,
		DistanceKm: distKm,
		LosRangeKm: losRangeKm,
		PathLossDb: math.NaN(),
		SnrDb:      math.NaN(),
	}
}

// IsIncluded returns true if the link is reachable and its availability exceeds the threshold.
func (lr LinkResult) IsIncluded(threshold float64) bool {
	return lr.Reachable && lr.Availability > threshold
}

func (lr LinkResult) String() string {
	if !lr.Reachable {
		return fmt.Sprintf("unreachable dist=%.3fkm los=%.1fkm", lr.DistanceKm, lr.LosRangeKm)
	}
	return fmt.Sprintf("emd=%.4f dist=%.3fkm los=%.1fkm loss=%.2fdB snr=%.2fdB", lr.Availability,
		lr.DistanceKm, lr.LosRangeKm, paround(lr.PathLossDb), paround(lr.SnrDb))
}

// Evaluator computes LinkResults for station pairs. It holds no mutable state and is safe for
// concurrent use.
type Evaluator struct {
	params ModelParams
}

// NewEvaluator creates an Evaluator for the given model parameters, or the defaults if params is nil.
func NewEvaluator(params *ModelParams) (*Evaluator, error) {
	if params == nil {
		params = DefaultModelParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{params: *params}, nil
}

// Params returns a copy of the model parameters.
func (ev *Evaluator) Params() ModelParams {
	return ev.params
}

// DistanceKm computes the planar distance (km) between two stations.
func (ev *Evaluator) DistanceKm(a, b *Station) float64 {
	dx := (b.X - a.X) * ev.params.MeterPerUnit
	dy := (b.Y - a.Y) * ev.params.MeterPerUnit
	return math.Sqrt(dx*dx+dy*dy) / defaultMeterPerKm
}

// EvaluateLink evaluates the link from transmitter tx to receiver rx. The transmitter supplies the Tx power
// and Tx gain, the receiver supplies the Rx gain. The noise power comes from the station selected by the
// model's NoiseConvention. Stations and channel are expected to be validated by the caller.
func (ev *Evaluator) EvaluateLink(tx, rx *Station, ch *ChannelParams) (LinkResult, error) {
	dist := ev.DistanceKm(tx, rx)
	losRange, err := lineOfSightRangeKm(ev.params.EffectiveEarthRadiusKm, tx.HeightM, rx.HeightM)
	if err != nil {
		return LinkResult{}, err
	}
	if dist > losRange {
		return Unreachable(dist, losRange), nil
	}

	loss, err := freeSpacePathLossDb(ev.params.FsplConstantDb, ch.FrequencyMhz, dist)
	if err != nil {
		return LinkResult{}, err
	}
	if ch.WeatherLossPercent != 0 {
		if loss, err = WeatherAdjustedLossDb(loss, ch.WeatherLossPercent); err != nil {
			return LinkResult{}, err
		}
	}

	noise := rx.Noise()
	if ev.params.Noise == NoiseAtTransmitter {
		noise = tx.Noise()
	}
	snr := SnrDb(tx.TxPowerDbm, tx.GainDb, rx.GainDb, loss, noise)
	emd, err := AvailabilityProbability(snr, ch.RequiredSnrDb, ch.SigmaDb)
	if err != nil {
		return LinkResult{}, err
	}

	return LinkResult{
		Reachable:    true,
		Availability: emd,
		DistanceKm:   dist,
		LosRangeKm:   losRange,
		PathLossDb:   loss,
		SnrDb:        snr,
	}, nil
}

// EvaluateLinkChecked validates both stations and the channel before evaluating the link.
func (ev *Evaluator) EvaluateLinkChecked(tx, rx *Station, ch *ChannelParams) (LinkResult, error) {
	if err := tx.Validate(); err != nil {
		return LinkResult{}, err
	}
	if err := rx.Validate(); err != nil {
		return LinkResult{}, err
	}
	if err := ch.Validate(); err != nil {
		return LinkResult{}, err
	}
	return ev.EvaluateLink(tx, rx, ch)
}
