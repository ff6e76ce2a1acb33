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
	"fmt"

	. "github.com/openthread/ot-emd/types"
)

// Mode selects the kind of Snapshot to build.
type Mode int

const (
	ModeGraph            Mode = iota // weighted undirected graph
	ModeMatrixBinary                 // 0/1 matrix, 1 for availability above the inclusion threshold
	ModeMatrixContinuous             // matrix of availability probabilities
)

func (m Mode) String() string {
	switch m {
	case ModeGraph:
		return "graph"
	case ModeMatrixBinary:
		return "binary"
	case ModeMatrixContinuous:
		return "continuous"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a Mode from its String() form, also accepting "prob" and "bin".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "graph":
		return ModeGraph, nil
	case "binary", "bin":
		return ModeMatrixBinary, nil
	case "continuous", "prob":
		return ModeMatrixContinuous, nil
	default:
		return ModeGraph, ValidationErrorf("unknown snapshot mode: %s", s)
	}
}

// Snapshot is one connectivity computation for a fixed station list and channel. Exactly one of
// Graph or Matrix is set, depending on Mode.
type Snapshot struct {
	Mode   Mode
	Graph  *Graph
	Matrix Matrix
}

// Size returns the number of stations the snapshot was built for.
func (s *Snapshot) Size() int {
	if s.Mode == ModeGraph {
		return s.Graph.NumNodes()
	}
	return s.Matrix.Rows()
}

// NumLinks counts the graph edges, or the nonzero off-diagonal matrix cells.
func (s *Snapshot) NumLinks() int {
	if s.Mode == ModeGraph {
		return len(s.Graph.Edges)
	}
	cnt := 0
	for i, row := range s.Matrix {
		for j, v := range row {
			if i != j && v != 0 {
				cnt++
			}
		}
	}
	return cnt
}
