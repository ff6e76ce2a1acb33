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
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/openthread/ot-emd/store"
	. "github.com/openthread/ot-emd/types"
)

const (
	DefaultHeightM      = 50.0
	DefaultTxPowerDbm   = 30.0
	DefaultGainDb       = 10.0
	DefaultDemoStations = 5
	DefaultDemoAreaM    = 20000.0
)

var errNoStore = errors.New("no history store configured (set EMD_DB or -db)")

type fileKind int

const (
	fileKindUnknown fileKind = iota
	fileKindYaml
	fileKindCsv
	fileKindJson
)

func fileKindOf(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return fileKindYaml
	case ".csv":
		return fileKindCsv
	case ".json":
		return fileKindJson
	default:
		return fileKindUnknown
	}
}

type stationItem struct {
	Id     StationId `yaml:"id"`
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	Height float64   `yaml:"height"`
	Power  DbValue   `yaml:"power"`
	Gain   DbValue   `yaml:"gain"`
	Noise  *DbValue  `yaml:"noise,omitempty"`
}

func newStationItem(id StationId, st Station) stationItem {
	return stationItem{
		Id:     id,
		X:      st.X,
		Y:      st.Y,
		Height: st.HeightM,
		Power:  st.TxPowerDbm,
		Gain:   st.GainDb,
		Noise:  st.NoisePowerDbm,
	}
}

type runItem struct {
	Id          string `yaml:"id"`
	Created     string `yaml:"created"`
	Description string `yaml:"description,omitempty"`
	Stations    int    `yaml:"stations"`
	Intervals   int    `yaml:"intervals"`
}

func newRunItem(run *store.Run) runItem {
	return runItem{
		Id:          run.ID,
		Created:     run.CreatedAt.Format("2006-01-02 15:04:05"),
		Description: run.Description,
		Stations:    len(run.Stations),
		Intervals:   run.Intervals,
	}
}

func formatChannel(ch ChannelParams) string {
	return strings.Join([]string{
		"freq=" + formatNumber(ch.FrequencyMhz) + "MHz",
		"snr=" + formatNumber(ch.RequiredSnrDb) + "dB",
		"sigma=" + formatNumber(ch.SigmaDb) + "dB",
		"weather=" + formatNumber(ch.WeatherLossPercent) + "%",
	}, " ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// getUniqueAndSortedDesc returns the unique selected ids, highest first.
func getUniqueAndSortedDesc(input []StationSelector) []StationSelector {
	seen := make(map[int]struct{}, len(input))
	u := make([]int, 0, len(input))
	for _, ss := range input {
		if _, ok := seen[ss.Id]; ok {
			continue
		}
		seen[ss.Id] = struct{}{}
		u = append(u, ss.Id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(u)))

	n := make([]StationSelector, len(u))
	for i, id := range u {
		n[i] = StationSelector{Id: id}
	}
	return n
}
