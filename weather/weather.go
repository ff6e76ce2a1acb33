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

// Package weather provides the signal loss table used to derive the weather loss percent of a channel.
package weather

import (
	"fmt"
	"strings"

	. "github.com/openthread/ot-emd/types"
)

type Band int

const (
	BandL Band = iota
	BandS
	BandC
	BandX
	BandKu
	BandKa
	numBands
)

type Condition int

const (
	Rain Condition = iota
	Snow
	Clouds
	numConditions
)

type Intensity int

const (
	Weak Intensity = iota
	Medium
	Strong
)

// lossRange holds the lower (weak) and upper (strong) loss percent.
type lossRange [2]float64

var lossTable = [numBands][numConditions]lossRange{
	BandL:  {Rain: {2.28, 10.87}, Snow: {2.28, 10.87}, Clouds: {2.28, 6.67}},
	BandS:  {Rain: {10.87, 29.21}, Snow: {10.87, 29.21}, Clouds: {10.87, 20.57}},
	BandC:  {Rain: {20.57, 49.88}, Snow: {20.57, 49.88}, Clouds: {20.57, 36.90}},
	BandX:  {Rain: {36.90, 68.38}, Snow: {36.90, 68.38}, Clouds: {36.90, 49.88}},
	BandKu: {Rain: {49.88, 90.00}, Snow: {49.88, 90.00}, Clouds: {49.88, 68.38}},
	BandKa: {Rain: {68.38, 99.00}, Snow: {68.38, 99.00}, Clouds: {68.38, 90.00}},
}

// band lower edges in MHz; the upper edge of Ka is bandUpperMhz.
var bandLowerMhz = [numBands]float64{
	BandL:  1000,
	BandS:  2000,
	BandC:  4000,
	BandX:  8000,
	BandKu: 12000,
	BandKa: 18000,
}

const bandUpperMhz = 40000

var bandNames = [numBands]string{"L", "S", "C", "X", "Ku", "Ka"}

var conditionNames = [numConditions]string{"rain", "snow", "clouds"}

var intensityNames = [...]string{"weak", "medium", "strong"}

func (b Band) String() string {
	if b < 0 || b >= numBands {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return bandNames[b]
}

func (c Condition) String() string {
	if c < 0 || c >= numConditions {
		return fmt.Sprintf("Condition(%d)", int(c))
	}
	return conditionNames[c]
}

func (i Intensity) String() string {
	if i < Weak || i > Strong {
		return fmt.Sprintf("Intensity(%d)", int(i))
	}
	return intensityNames[i]
}

// LossPercent returns the weather loss percent for the band, condition and intensity. Weak and strong
// select the lower and upper end of the band's range, medium its midpoint.
func LossPercent(b Band, c Condition, i Intensity) (float64, error) {
	if b < 0 || b >= numBands {
		return 0, DomainErrorf("unknown band %v", b)
	}
	if c < 0 || c >= numConditions {
		return 0, DomainErrorf("unknown weather condition %v", c)
	}
	r := lossTable[b][c]
	switch i {
	case Weak:
		return r[0], nil
	case Medium:
		return (r[0] + r[1]) / 2, nil
	case Strong:
		return r[1], nil
	default:
		return 0, DomainErrorf("unknown intensity %v", i)
	}
}

// BandForFrequency maps a frequency in MHz to its band. Frequencies above Ku up to 40 GHz count as Ka.
func BandForFrequency(freqMhz float64) (Band, error) {
	if !IsFinite(freqMhz) {
		return 0, ValidationErrorf("frequency is not a finite number: %v", freqMhz)
	}
	if freqMhz < bandLowerMhz[BandL] || freqMhz > bandUpperMhz {
		return 0, DomainErrorf("frequency %.1f MHz is outside the L to Ka bands", freqMhz)
	}
	for b := numBands - 1; b >= 0; b-- {
		if freqMhz >= bandLowerMhz[b] {
			return b, nil
		}
	}
	panic("unreachable")
}

func ParseBand(s string) (Band, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-band")
	for b, name := range bandNames {
		if s == strings.ToLower(name) {
			return Band(b), nil
		}
	}
	return 0, ValidationErrorf("unknown band: %q", s)
}

func ParseCondition(s string) (Condition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "cloud", "cloudy", "overcast":
		return Clouds, nil
	}
	for c, name := range conditionNames {
		if s == name {
			return Condition(c), nil
		}
	}
	return 0, ValidationErrorf("unknown weather condition: %q", s)
}

func ParseIntensity(s string) (Intensity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "low", "light":
		return Weak, nil
	case "mid", "moderate":
		return Medium, nil
	case "high", "heavy":
		return Strong, nil
	}
	for i, name := range intensityNames {
		if s == name {
			return Intensity(i), nil
		}
	}
	return 0, ValidationErrorf("unknown intensity: %q", s)
}

// Lookup parses the names and returns the loss percent.
func Lookup(band, condition, intensity string) (float64, error) {
	b, err := ParseBand(band)
	if err != nil {
		return 0, err
	}
	c, err := ParseCondition(condition)
	if err != nil {
		return 0, err
	}
	i, err := ParseIntensity(intensity)
	if err != nil {
		return 0, err
	}
	return LossPercent(b, c, i)
}
