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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/openthread/ot-emd/types"
)

func TestGraphShortestPath(t *testing.T) {
	g := newGraph(5)
	g.addEdge(0, 1, 0.9) // w 0.1
	g.addEdge(1, 2, 0.9) // w 0.1
	g.addEdge(0, 2, 0.5) // w 0.5
	g.addEdge(3, 2, 0.2) // w 0.8

	path, cost := g.ShortestPath(0, 2)
	assert.Equal(t, []StationId{0, 1, 2}, path)
	assert.InDelta(t, 0.2, cost, 1e-12)

	path, cost = g.ShortestPath(3, 0)
	assert.Equal(t, []StationId{3, 2, 1, 0}, path)
	assert.InDelta(t, 1.0, cost, 1e-12)

	path, cost = g.ShortestPath(1, 1)
	assert.Equal(t, []StationId{1}, path)
	assert.Equal(t, 0.0, cost)

	path, cost = g.ShortestPath(0, 4)
	assert.Nil(t, path)
	assert.True(t, math.IsInf(cost, 1))

	path, _ = g.ShortestPath(0, 17)
	assert.Nil(t, path)

	assert.Equal(t, [][]StationId{{0, 1, 2, 3}, {4}}, g.Components())

	e, ok := g.Edge(2, 3)
	assert.True(t, ok)
	assert.Equal(t, 2, e.A)
	assert.Equal(t, 3, e.B)
}

func TestGraphToMatrix(t *testing.T) {
	g := newGraph(3)
	g.addEdge(2, 0, 0.75)
	m := g.ToMatrix()
	assert.Equal(t, Matrix{{0, 0, 0.75}, {0, 0, 0}, {0.75, 0, 0}}, m)
}

func TestMatrixHelpers(t *testing.T) {
	m := Matrix{{0, 0.2, 0.05}, {0.11, 0, 0.1}}
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.True(t, m.IsRectangular())
	assert.Equal(t, Matrix{{0, 1, 0}, {1, 0, 0}}, m.Threshold(0.1))
	assert.InDelta(t, 0.25/3, m.RowMean(0), 1e-15)

	c := m.Clone()
	assert.True(t, c.Equal(m))
	c[0][0] = 1
	assert.False(t, c.Equal(m))
	assert.Nil(t, m.Validate())

	assert.False(t, Matrix{{1, 2}, {3}}.IsRectangular())
	assert.True(t, IsDomainError(Matrix{{1, 2}, {3}}.Validate()))
	assert.True(t, IsValidationError(Matrix{{math.NaN()}}.Validate()))
	assert.Equal(t, 0, Matrix{}.Cols())
}
