// Copyright (c) 2020-2023, The OTNS Authors.
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
	"io/fs"
	"os"

	"github.com/pkg/errors"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/radiomodel"
	"github.com/openthread/ot-emd/timeseries"
	. "github.com/openthread/ot-emd/types"
)

// Simulation holds a station list and channel, builds connectivity snapshots for them and records the
// per-interval history of a time series. It is not safe for concurrent use; the CLI and scenario runner
// drive it from a single goroutine.
type Simulation struct {
	cfg      *Config
	stations []Station
	channel  ChannelParams
	builder  *connectivity.Builder
	recorder *timeseries.Recorder
}

func NewSimulation(cfg *Config) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Channel.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid default channel")
	}
	builder, err := connectivity.NewBuilder(&cfg.Model)
	if err != nil {
		return nil, err
	}
	builder.SetWorkers(cfg.Workers)

	s := &Simulation{
		cfg:      cfg,
		stations: []Station{},
		channel:  cfg.Channel,
		builder:  builder,
		recorder: timeseries.NewRecorder(cfg.MaxIntervals),
	}
	logger.Debugf("simulation created: mode=%v workers=%d noise=%v", cfg.Mode, builder.Workers(), cfg.Model.Noise)
	return s, nil
}

// AddStation validates and appends a station. It returns the station's id (its list index).
func (s *Simulation) AddStation(st Station) (StationId, error) {
	if err := st.Validate(); err != nil {
		return InvalidStationId, err
	}
	s.stations = append(s.stations, st)
	id := len(s.stations) - 1
	logger.Debugf("simulation:AddStation: %d %v", id, st)
	return id, nil
}

// DeleteStation removes a station. Stations after it move down by one id.
func (s *Simulation) DeleteStation(id StationId) error {
	if id < 0 || id >= len(s.stations) {
		return errors.Errorf("station not found: %d", id)
	}
	s.stations = append(s.stations[:id], s.stations[id+1:]...)
	return nil
}

// ClearStations removes all stations.
func (s *Simulation) ClearStations() {
	s.stations = []Station{}
}

// Stations returns a copy of the station list.
func (s *Simulation) Stations() []Station {
	return append([]Station(nil), s.stations...)
}

func (s *Simulation) Station(id StationId) (Station, error) {
	if id < 0 || id >= len(s.stations) {
		return Station{}, errors.Errorf("station not found: %d", id)
	}
	return s.stations[id], nil
}

func (s *Simulation) NumStations() int {
	return len(s.stations)
}

// SetChannel validates and sets the channel used for subsequent snapshots.
func (s *Simulation) SetChannel(ch ChannelParams) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	s.channel = ch
	return nil
}

func (s *Simulation) Channel() ChannelParams {
	return s.channel
}

// SetObserver sets the observer notified after every snapshot build.
func (s *Simulation) SetObserver(o connectivity.Observer) {
	s.builder.SetObserver(o)
}

func (s *Simulation) Builder() *connectivity.Builder {
	return s.builder
}

// BuildSnapshot builds a snapshot of the current stations and channel in the given mode.
func (s *Simulation) BuildSnapshot(mode connectivity.Mode) (*connectivity.Snapshot, error) {
	return s.builder.Build(s.stations, s.channel, mode)
}

// EvaluateLink evaluates the single link from station tx to station rx on the current channel.
func (s *Simulation) EvaluateLink(tx, rx StationId) (radiomodel.LinkResult, error) {
	a, err := s.Station(tx)
	if err != nil {
		return radiomodel.LinkResult{}, err
	}
	b, err := s.Station(rx)
	if err != nil {
		return radiomodel.LinkResult{}, err
	}
	return s.builder.Evaluator().EvaluateLinkChecked(&a, &b, &s.channel)
}

// RecordInterval builds a continuous matrix for the current stations with the interval's channel and appends
// it to the history. The simulation's own channel is not changed.
func (s *Simulation) RecordInterval(ch ChannelParams) (connectivity.Matrix, error) {
	m, err := s.builder.BuildMatrix(s.stations, ch, false)
	if err != nil {
		return nil, err
	}
	if err = s.recorder.Add(ch, m); err != nil {
		return nil, errors.Wrapf(err, "interval %d", s.recorder.Len()+1)
	}
	return m, nil
}

// Series aggregates the recorded history into a channels x intervals matrix.
func (s *Simulation) Series() (connectivity.Matrix, error) {
	return s.recorder.Aggregate(s.cfg.Aggregation)
}

func (s *Simulation) History() []timeseries.Interval {
	return s.recorder.Intervals()
}

func (s *Simulation) ResetHistory() {
	s.recorder.Reset()
}

// RestoreHistory replaces the history with previously recorded intervals, e.g. loaded from a store.
func (s *Simulation) RestoreHistory(intervals []timeseries.Interval) error {
	rec := timeseries.NewRecorder(s.cfg.MaxIntervals)
	for i, iv := range intervals {
		if err := rec.Add(iv.Channel, iv.Matrix); err != nil {
			return errors.Wrapf(err, "interval %d", i+1)
		}
	}
	s.recorder = rec
	return nil
}

func (s *Simulation) GetConfig() *Config {
	return s.cfg
}

func (s *Simulation) GetLogLevel() logger.Level {
	return s.cfg.LogLevel
}

func (s *Simulation) SetLogLevel(level logger.Level) {
	s.cfg.LogLevel = level
	logger.SetLevel(level)
}

func (s *Simulation) createOutputDir() error {
	err := os.MkdirAll(s.cfg.OutputDir, 0775)
	if errors.Is(err, fs.ErrExist) {
		return nil // ok, already present
	}
	return err
}
