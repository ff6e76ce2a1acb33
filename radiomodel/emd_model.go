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

// SnrDb computes the link SNR (dB) from the link budget. Use noisePowerDbm = 0 if no noise power is known.
func SnrDb(txPowerDbm, txGainDb, rxGainDb, lossDb, noisePowerDbm DbValue) DbValue {
	return txPowerDbm + txGainDb + rxGainDb - lossDb - noisePowerDbm
}

// AvailabilityProbability computes the electromagnetic availability (EMD): the probability that the
// SNR meets requiredSnrDb, for an SNR that is normally distributed around snrDb with stddev sigmaDb.
func AvailabilityProbability(snrDb, requiredSnrDb, sigmaDb DbValue) (float64, error) {
	if !(sigmaDb > 0) {
		return math.NaN(), DomainErrorf("non-positive sigma %v dB", sigmaDb)
	}
	if math.IsNaN(snrDb) || math.IsNaN(requiredSnrDb) {
		return math.NaN(), ValidationErrorf("SNR is NaN (snr=%v, required=%v)", snrDb, requiredSnrDb)
	}
	return clipProbability(normCdf((snrDb - requiredSnrDb) / sigmaDb)), nil
}
