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

package timeseries

import (
	"github.com/openthread/ot-emd/connectivity"
	. "github.com/openthread/ot-emd/types"
)

// Interval is one recorded snapshot together with the channel parameters used to build it.
type Interval struct {
	Channel ChannelParams
	Matrix  connectivity.Matrix
}

// Recorder holds the ordered snapshot history of a time series. It is not safe for concurrent use.
type Recorder struct {
	intervals    []Interval
	maxIntervals int
}

// NewRecorder creates a Recorder that aggregates at most maxIntervals intervals (<= 0 for no limit).
func NewRecorder(maxIntervals int) *Recorder {
	return &Recorder{
		intervals:    []Interval{},
		maxIntervals: maxIntervals,
	}
}

// Add appends a snapshot matrix. All snapshots must have the same number of channels (rows).
func (r *Recorder) Add(ch ChannelParams, m connectivity.Matrix) error {
	if len(r.intervals) > 0 && r.intervals[0].Matrix.Rows() != m.Rows() {
		return DomainErrorf("snapshot has %d channels, expected %d", m.Rows(), r.intervals[0].Matrix.Rows())
	}
	r.intervals = append(r.intervals, Interval{Channel: ch, Matrix: m.Clone()})
	return nil
}

// Len returns the number of recorded intervals.
func (r *Recorder) Len() int {
	return len(r.intervals)
}

// Intervals returns the recorded intervals, oldest first.
func (r *Recorder) Intervals() []Interval {
	return r.intervals
}

// Matrices returns the recorded snapshot matrices, oldest first.
func (r *Recorder) Matrices() []connectivity.Matrix {
	res := make([]connectivity.Matrix, len(r.intervals))
	for i, iv := range r.intervals {
		res[i] = iv.Matrix
	}
	return res
}

// Aggregate aggregates the recorded history.
func (r *Recorder) Aggregate(opts Options) (connectivity.Matrix, error) {
	return AggregateWithOptions(r.Matrices(), r.maxIntervals, opts)
}

// Reset clears the history.
func (r *Recorder) Reset() {
	r.intervals = []Interval{}
}
