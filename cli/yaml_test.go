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

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-emd/simulation"
)

var testYamlArray = `
[4,5,6]
`

var testYamlFile = `
mode: graph
channel:
    frequency: 2400
    weather: {band: S, condition: rain}
stations:
    - pos: [0, 0]
      height: 50
      power: 30
      gain: 10
    - pos: [1000, 1000]
      height: 30
      power: 27
      gain: 6
      noise: -100
intervals:
    - {}
    - frequency: 600
      weather: {percent: 0}
`

func TestYamlArrayUnmarshall(t *testing.T) {
	myArray := [3]int{0, 0, 0}
	err := yaml.Unmarshal([]byte(testYamlArray), &myArray)
	assert.Nil(t, err)
	assert.Equal(t, 4, myArray[0])
	assert.Equal(t, 5, myArray[1])
	assert.Equal(t, 6, myArray[2])
}

func TestYamlScenarioUnmarshall(t *testing.T) {
	file := simulation.YamlScenarioFile{}
	err := yaml.Unmarshal([]byte(testYamlFile), &file)
	assert.Nil(t, err)
	assert.Equal(t, "graph", file.Mode)
	assert.Equal(t, 2400.0, *file.Channel.FrequencyMhz)
	assert.Equal(t, "rain", file.Channel.Weather.Condition)
	assert.Equal(t, 2, len(file.Stations))
	assert.Equal(t, [2]float64{1000, 1000}, file.Stations[1].Position)
	assert.Equal(t, -100.0, *file.Stations[1].Noise)
	assert.Nil(t, file.Stations[0].Noise)
	assert.Equal(t, 2, len(file.Intervals))
	assert.Nil(t, file.Intervals[0].FrequencyMhz)
	assert.Equal(t, 0.0, *file.Intervals[1].Weather.Percent)
}
