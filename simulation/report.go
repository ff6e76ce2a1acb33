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

package simulation

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/openthread/ot-emd/logger"
)

// Report calculates the link report for the current stations and channel, including the aggregated
// history if any intervals were recorded.
func (s *Simulation) Report() (*Report, error) {
	rep := &Report{
		Status:   "ok",
		Stations: len(s.stations),
		Channel: ReportChannel{
			FrequencyMhz:       s.channel.FrequencyMhz,
			RequiredSnrDb:      s.channel.RequiredSnrDb,
			WeatherLossPercent: s.channel.WeatherLossPercent,
			SigmaDb:            s.channel.SigmaDb,
		},
		Model: ReportModel{
			EffectiveEarthRadiusKm: s.cfg.Model.EffectiveEarthRadiusKm,
			InclusionThreshold:     s.cfg.Model.InclusionThreshold,
			Noise:                  s.cfg.Model.Noise.String(),
		},
	}

	links, err := s.calculateLinks()
	if err != nil {
		return nil, err
	}
	rep.Links = links

	if s.recorder.Len() > 0 {
		series, err := s.Series()
		if err != nil {
			rep.Status = fmt.Sprintf("'series' not included: %v", err)
		} else {
			rep.Series = &ReportSeries{
				Intervals:   series.Cols(),
				ChannelMean: make([]float64, series.Rows()),
			}
			for c := range series {
				rep.Series.ChannelMean[c] = series.RowMean(c)
			}
		}
	}
	return rep, nil
}

func (s *Simulation) calculateLinks() (ReportLinks, error) {
	links := ReportLinks{
		MinAvailability: math.NaN(),
		MaxAvailability: math.NaN(),
	}
	ev := s.builder.Evaluator()
	threshold := s.cfg.Model.InclusionThreshold
	sum := 0.0
	for i := range s.stations {
		for j := range s.stations {
			if i == j {
				continue
			}
			lr, err := ev.EvaluateLinkChecked(&s.stations[i], &s.stations[j], &s.channel)
			if err != nil {
				return links, errors.Wrapf(err, "link %d->%d", i, j)
			}
			links.Pairs++
			if !lr.Reachable {
				links.Unreachable++
				continue
			}
			links.Reachable++
			if lr.IsIncluded(threshold) {
				links.Included++
			}
			sum += lr.Availability
			links.MinAvailability = nanMin(links.MinAvailability, lr.Availability)
			links.MaxAvailability = nanMax(links.MaxAvailability, lr.Availability)
		}
	}
	if links.Pairs > 0 {
		links.MeanAvailability = sum / float64(links.Pairs)
	}
	if links.Reachable == 0 {
		// JSON can't encode NaN
		links.MinAvailability, links.MaxAvailability = 0, 0
	}
	return links, nil
}

func nanMin(a, b float64) float64 {
	if math.IsNaN(a) || b < a {
		return b
	}
	return a
}

func nanMax(a, b float64) float64 {
	if math.IsNaN(a) || b > a {
		return b
	}
	return a
}

// SaveReport calculates the report and writes it as JSON to file fn.
func (s *Simulation) SaveReport(fn string) error {
	rep, err := s.Report()
	if err != nil {
		return err
	}
	rep.FileTime = time.Now().Format(time.RFC3339)
	data, err := json.MarshalIndent(rep, "", "    ")
	if err != nil {
		logger.Errorf("Could not marshal report JSON data: %v", err)
		return err
	}

	if err = os.WriteFile(fn, data, 0644); err != nil {
		logger.Errorf("Could not write report JSON file %s: %v", fn, err)
		return err
	}
	return nil
}

// SaveDefaultReport saves the report under the default file name in the output directory.
func (s *Simulation) SaveDefaultReport() (string, error) {
	if err := s.createOutputDir(); err != nil {
		return "", err
	}
	fn := s.getDefaultSaveFileName()
	return fn, s.SaveReport(fn)
}

func (s *Simulation) getDefaultSaveFileName() string {
	return filepath.Join(s.cfg.OutputDir, fmt.Sprintf("%d_report.json", s.cfg.Id))
}
