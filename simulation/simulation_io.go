// Copyright (c) 2020-2024, The OTNS Authors.
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
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-emd/logger"
	. "github.com/openthread/ot-emd/types"
	"github.com/openthread/ot-emd/weather"
)

// YamlWeatherConfig gives the weather loss either directly as a percent, or as a condition/intensity looked
// up in the loss table. If the band is omitted, it follows from the channel frequency.
type YamlWeatherConfig struct {
	Percent   *float64 `yaml:"percent,omitempty"`
	Band      string   `yaml:"band,omitempty"`
	Condition string   `yaml:"condition,omitempty"`
	Intensity string   `yaml:"intensity,omitempty"`
}

type YamlChannelConfig struct {
	FrequencyMhz  *float64           `yaml:"frequency,omitempty"`
	RequiredSnrDb *float64           `yaml:"required-snr,omitempty"`
	SigmaDb       *float64           `yaml:"sigma,omitempty"`
	Weather       *YamlWeatherConfig `yaml:"weather,omitempty"`
}

type YamlStationConfig struct {
	Position [2]float64 `yaml:"pos,flow"`
	Height   float64    `yaml:"height"`
	Power    float64    `yaml:"power"`
	Gain     float64    `yaml:"gain"`
	Noise    *float64   `yaml:"noise,omitempty"`
}

// YamlIntervalConfig overrides channel settings for a single recorded interval.
type YamlIntervalConfig struct {
	FrequencyMhz  *float64           `yaml:"frequency,omitempty"`
	RequiredSnrDb *float64           `yaml:"required-snr,omitempty"`
	SigmaDb       *float64           `yaml:"sigma,omitempty"`
	Weather       *YamlWeatherConfig `yaml:"weather,omitempty"`
}

type YamlScenarioFile struct {
	Mode      string               `yaml:"mode,omitempty"`
	Channel   YamlChannelConfig    `yaml:"channel"`
	Stations  []YamlStationConfig  `yaml:"stations"`
	Intervals []YamlIntervalConfig `yaml:"intervals,omitempty"`
}

// LoadScenarioFile reads and parses a YAML scenario file.
func LoadScenarioFile(filename string) (*YamlScenarioFile, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	file := &YamlScenarioFile{}
	if err = yaml.Unmarshal(b, file); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	return file, nil
}

// SaveScenarioFile writes the scenario to a YAML file.
func SaveScenarioFile(filename string, file *YamlScenarioFile) error {
	b, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

func (w *YamlWeatherConfig) lossPercent(freqMhz float64) (float64, error) {
	if w.Percent != nil {
		return *w.Percent, nil
	}
	if len(w.Condition) == 0 {
		return 0, nil
	}
	var band weather.Band
	var err error
	if len(w.Band) > 0 {
		band, err = weather.ParseBand(w.Band)
	} else {
		band, err = weather.BandForFrequency(freqMhz)
	}
	if err != nil {
		return 0, err
	}
	cond, err := weather.ParseCondition(w.Condition)
	if err != nil {
		return 0, err
	}
	intensity := weather.Medium
	if len(w.Intensity) > 0 {
		if intensity, err = weather.ParseIntensity(w.Intensity); err != nil {
			return 0, err
		}
	}
	return weather.LossPercent(band, cond, intensity)
}

// Resolve returns the channel parameters, using base for all values not given.
func (c *YamlChannelConfig) Resolve(base ChannelParams) (ChannelParams, error) {
	ch := base
	if c.FrequencyMhz != nil {
		ch.FrequencyMhz = *c.FrequencyMhz
	}
	if c.RequiredSnrDb != nil {
		ch.RequiredSnrDb = *c.RequiredSnrDb
	}
	if c.SigmaDb != nil {
		ch.SigmaDb = *c.SigmaDb
	}
	if c.Weather != nil {
		pct, err := c.Weather.lossPercent(ch.FrequencyMhz)
		if err != nil {
			return ch, err
		}
		ch.WeatherLossPercent = pct
	}
	return ch, ch.Validate()
}

// Resolve returns the channel parameters of the interval, based on the scenario channel.
func (iv *YamlIntervalConfig) Resolve(base ChannelParams) (ChannelParams, error) {
	c := YamlChannelConfig{
		FrequencyMhz:  iv.FrequencyMhz,
		RequiredSnrDb: iv.RequiredSnrDb,
		SigmaDb:       iv.SigmaDb,
		Weather:       iv.Weather,
	}
	return c.Resolve(base)
}

func (sc *YamlStationConfig) Station() (Station, error) {
	st := Station{
		X:             sc.Position[0],
		Y:             sc.Position[1],
		HeightM:       sc.Height,
		TxPowerDbm:    sc.Power,
		GainDb:        sc.Gain,
		NoisePowerDbm: sc.Noise,
	}
	return st, st.Validate()
}

// ImportScenario replaces the stations and channel with those of the scenario, and clears the recorded
// history. Nothing changes unless all stations and the channel are valid.
func (s *Simulation) ImportScenario(file *YamlScenarioFile) error {
	ch, err := file.Channel.Resolve(s.cfg.Channel)
	if err != nil {
		return errors.Wrapf(err, "channel")
	}
	stations := make([]Station, 0, len(file.Stations))
	for i := range file.Stations {
		st, err := file.Stations[i].Station()
		if err != nil {
			return errors.Wrapf(err, "station %d", i)
		}
		stations = append(stations, st)
	}

	s.stations = stations
	s.channel = ch
	s.recorder.Reset()
	logger.Debugf("imported %d stations, channel %+v", len(stations), ch)
	return nil
}

// ExportScenario exports the stations, channel and recorded intervals to a YAML-friendly object.
func (s *Simulation) ExportScenario() *YamlScenarioFile {
	file := &YamlScenarioFile{
		Mode:      s.cfg.Mode.String(),
		Channel:   exportChannel(s.channel),
		Stations:  make([]YamlStationConfig, 0, len(s.stations)),
		Intervals: []YamlIntervalConfig{},
	}
	for _, st := range s.stations {
		file.Stations = append(file.Stations, YamlStationConfig{
			Position: [2]float64{st.X, st.Y},
			Height:   st.HeightM,
			Power:    st.TxPowerDbm,
			Gain:     st.GainDb,
			Noise:    st.NoisePowerDbm,
		})
	}
	for _, iv := range s.recorder.Intervals() {
		c := exportChannel(iv.Channel)
		if c.Weather == nil {
			// intervals inherit the scenario's weather, so a clear interval is explicit.
			zero := 0.0
			c.Weather = &YamlWeatherConfig{Percent: &zero}
		}
		file.Intervals = append(file.Intervals, YamlIntervalConfig{
			FrequencyMhz:  c.FrequencyMhz,
			RequiredSnrDb: c.RequiredSnrDb,
			SigmaDb:       c.SigmaDb,
			Weather:       c.Weather,
		})
	}
	return file
}

func exportChannel(ch ChannelParams) YamlChannelConfig {
	freq, snr, sigma := ch.FrequencyMhz, ch.RequiredSnrDb, ch.SigmaDb
	c := YamlChannelConfig{
		FrequencyMhz:  &freq,
		RequiredSnrDb: &snr,
		SigmaDb:       &sigma,
	}
	// include weather if non-default
	if ch.WeatherLossPercent != 0 {
		pct := ch.WeatherLossPercent
		c.Weather = &YamlWeatherConfig{Percent: &pct}
	}
	return c
}
