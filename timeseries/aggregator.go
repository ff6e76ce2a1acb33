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

// Package timeseries reduces per-interval connectivity matrices to a channels x intervals summary.
package timeseries

import (
	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/logger"
	. "github.com/openthread/ot-emd/types"
)

const (
	DefaultMaxIntervals = 100
)

// Options modify the aggregation.
type Options struct {
	// ExcludeDiagonal averages row c over the off-diagonal cells only. By default, the mean includes the
	// (zero) diagonal cell, which biases the mean of an n x n snapshot downward by a factor (n-1)/n.
	ExcludeDiagonal bool
}

// Aggregate reduces the ordered snapshots to a channels x intervals matrix, where channels is the row
// count of each snapshot and intervals = min(maxIntervals, len(snapshots)). A maxIntervals <= 0 means no
// limit. Cell (c, t) is the mean of row c of snapshot t, including the diagonal.
func Aggregate(snapshots []connectivity.Matrix, maxIntervals int) (connectivity.Matrix, error) {
	return AggregateWithOptions(snapshots, maxIntervals, Options{})
}

// AggregateWithOptions is Aggregate with non-default options.
func AggregateWithOptions(snapshots []connectivity.Matrix, maxIntervals int, opts Options) (connectivity.Matrix, error) {
	if len(snapshots) == 0 {
		return nil, DomainErrorf("no snapshots to aggregate")
	}

	// all snapshots must agree on the channel count, including those beyond the interval limit
	channels := snapshots[0].Rows()
	for t, m := range snapshots {
		if m.Rows() != channels {
			return nil, DomainErrorf("snapshot %d has %d channels, expected %d", t, m.Rows(), channels)
		}
	}

	intervals := len(snapshots)
	if maxIntervals > 0 && maxIntervals < intervals {
		intervals = maxIntervals
	}
	for t := 0; t < intervals; t++ {
		m := snapshots[t]
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if opts.ExcludeDiagonal && m.Cols() != channels {
			return nil, DomainErrorf("snapshot %d is not square (%dx%d), has no diagonal", t, m.Rows(), m.Cols())
		}
	}

	res := connectivity.NewMatrix(channels, intervals)
	for t := 0; t < intervals; t++ {
		for c := 0; c < channels; c++ {
			if opts.ExcludeDiagonal {
				res[c][t] = offDiagonalRowMean(snapshots[t], c)
			} else {
				res[c][t] = snapshots[t].RowMean(c)
			}
		}
	}
	logger.Debugf("aggregated %d snapshots into %dx%d summary", len(snapshots), channels, intervals)
	return res, nil
}

func offDiagonalRowMean(m connectivity.Matrix, r int) float64 {
	row := m[r]
	if len(row) < 2 {
		return 0
	}
	sum := 0.0
	for j, v := range row {
		if j != r {
			sum += v
		}
	}
	return sum / float64(len(row)-1)
}
