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

package connectivity

import (
	. "github.com/openthread/ot-emd/types"
)

// Matrix is a dense row-major matrix. Connectivity snapshots are square (n x n), with row i holding the
// links transmitted by station i; time-series summaries are channels x intervals.
type Matrix [][]float64

// NewMatrix creates a zero-valued rows x cols Matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns of the first row, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// IsRectangular checks that all rows have the same length.
func (m Matrix) IsRectangular() bool {
	for _, row := range m {
		if len(row) != m.Cols() {
			return false
		}
	}
	return true
}

// Threshold returns a new binary Matrix with 1 where the value exceeds t, else 0.
func (m Matrix) Threshold(t float64) Matrix {
	res := make(Matrix, len(m))
	for i, row := range m {
		res[i] = make([]float64, len(row))
		for j, v := range row {
			if v > t {
				res[i][j] = 1
			}
		}
	}
	return res
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	res := make(Matrix, len(m))
	for i, row := range m {
		res[i] = append([]float64(nil), row...)
	}
	return res
}

// Equal checks for exact (bitwise-equal value) equality of shape and content.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(other[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// RowMean is the arithmetic mean of row r, over all its entries.
func (m Matrix) RowMean(r int) float64 {
	row := m[r]
	if len(row) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range row {
		sum += v
	}
	return sum / float64(len(row))
}

// Validate checks that the matrix is rectangular and contains only finite values.
func (m Matrix) Validate() error {
	if !m.IsRectangular() {
		return DomainErrorf("matrix rows have unequal length")
	}
	for i, row := range m {
		for j, v := range row {
			if !IsFinite(v) {
				return ValidationErrorf("matrix cell (%d,%d) is not a finite number: %v", i, j, v)
			}
		}
	}
	return nil
}
