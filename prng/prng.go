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

// Package prng provides the seeded random generators used for demo station layouts and test data.
package prng

import (
	"math/rand"
	"sync"
	"time"
)

type RandomSeed int64

var (
	lock                  sync.Mutex
	rootSeed              int64
	stationRandGenerator  *rand.Rand
	intervalRandGenerator *rand.Rand
	unitRandGenerator     *rand.Rand
)

func init() {
	Init(0)
}

// Init initializes the prng package, either with a fixed PRNG seed (seed != 0) or a 'random' time-based PRNG
// seed (if seed == 0).
func Init(seed int64) {
	lock.Lock()
	defer lock.Unlock()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rootSeed = seed
	root := rand.New(rand.NewSource(seed))

	stationRandGenerator = rand.New(rand.NewSource(seed + root.Int63n(1e10)))
	intervalRandGenerator = rand.New(rand.NewSource(seed + root.Int63n(1e10)))
	unitRandGenerator = rand.New(rand.NewSource(seed + root.Int63n(1e10)))
}

// RootSeed returns the seed the generators were last initialized with.
func RootSeed() RandomSeed {
	lock.Lock()
	defer lock.Unlock()
	return RandomSeed(rootSeed)
}

// NewStationPosition generates a random station position in the square [0, size) x [0, size) meters.
func NewStationPosition(size float64) (x, y float64) {
	lock.Lock()
	defer lock.Unlock()
	return stationRandGenerator.Float64() * size, stationRandGenerator.Float64() * size
}

// NewUniform generates a random float in [min, max), e.g. a station power or height.
func NewUniform(min, max float64) float64 {
	lock.Lock()
	defer lock.Unlock()
	return min + stationRandGenerator.Float64()*(max-min)
}

// NewWeatherPercent generates a random weather loss percent in [0, maxPercent] for a recorded interval.
func NewWeatherPercent(maxPercent float64) float64 {
	lock.Lock()
	defer lock.Unlock()
	return intervalRandGenerator.Float64() * maxPercent
}

// NewUnitRandom generates a new random unit [0, 1] float, which can be used as a random probability.
func NewUnitRandom() float64 {
	lock.Lock()
	defer lock.Unlock()
	return unitRandGenerator.Float64()
}
