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

package csvio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-emd/connectivity"
	. "github.com/openthread/ot-emd/types"
)

func TestWriteMatrixHeaders(t *testing.T) {
	m := connectivity.Matrix{{0, 0.456}, {1, 0}}
	buf := &bytes.Buffer{}
	require.Nil(t, WriteMatrix(buf, m, HeaderColumns))
	assert.Equal(t, "Column 0,Column 1\n0.00,0.46\n1.00,0.00\n", buf.String())

	buf.Reset()
	series := connectivity.Matrix{{0.5, 0.25, 0.126}}
	require.Nil(t, WriteMatrix(buf, series, HeaderIntervals))
	assert.Equal(t, "t1,t2,t3\n0.50,0.25,0.13\n", buf.String())
}

func TestWriteMatrixFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "emd_matrix.csv")
	m := connectivity.Matrix{{0, 1}, {0.5, 0}}
	require.Nil(t, WriteMatrixFile(fn, m, HeaderIntervals))

	data, err := os.ReadFile(fn)
	require.Nil(t, err)
	assert.True(t, bytes.HasPrefix(data, bom))

	f, err := os.Open(fn)
	require.Nil(t, err)
	defer f.Close()
	read, err := ReadMatrix(f)
	require.Nil(t, err)
	assert.Equal(t, m, read)
}

func TestReadMatrixErrors(t *testing.T) {
	_, err := ReadMatrix(strings.NewReader(""))
	assert.True(t, IsValidationError(err))
	_, err = ReadMatrix(strings.NewReader("t1,t2\n0.1,abc\n"))
	assert.True(t, IsValidationError(err))
	_, err = ReadMatrix(strings.NewReader("t1,t2\n0.1,0.2\n0.3\n"))
	assert.True(t, IsDomainError(err))
}

func TestStationsRoundTrip(t *testing.T) {
	noise := -3.25
	stations := []Station{
		{X: 0, Y: 0, HeightM: 50, TxPowerDbm: 30, GainDb: 10},
		{X: 1000.5, Y: -20, HeightM: 12.25, TxPowerDbm: 27, GainDb: 3, NoisePowerDbm: &noise},
	}
	buf := &bytes.Buffer{}
	require.Nil(t, WriteStations(buf, stations))
	assert.True(t, strings.HasPrefix(buf.String(), "x,y,height,power,gain,noise_power\n0,0,50,30,10,\n"))

	read, err := ReadStations(buf)
	require.Nil(t, err)
	assert.Equal(t, stations, read)
}

func TestReadStations(t *testing.T) {
	// noise_power column is optional
	read, err := ReadStations(strings.NewReader("x,y,height,power,gain\n1,2,3,4,5\n"))
	require.Nil(t, err)
	require.Equal(t, 1, len(read))
	assert.False(t, read[0].HasNoise())

	_, err = ReadStations(strings.NewReader("x,y,height,power,gain,noise_power\n1,2,abc,4,5,\n"))
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "height")

	_, err = ReadStations(strings.NewReader("x,y,height,power,gain,noise_power\n1,2,-3,4,5,\n"))
	assert.True(t, IsDomainError(err))

	_, err = ReadStations(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.True(t, IsValidationError(err))

	_, err = ReadStations(strings.NewReader("x,y,height,power,gain\n1,2,3\n"))
	assert.True(t, IsValidationError(err))
}
