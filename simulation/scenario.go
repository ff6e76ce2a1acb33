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
	"github.com/pkg/errors"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/logger"
)

// ScenarioResult is the outcome of running a scenario file.
type ScenarioResult struct {
	Snapshot *connectivity.Snapshot
	Series   connectivity.Matrix // nil if the scenario has no intervals
}

// RunScenario imports the scenario, builds one snapshot with the scenario channel and then records one
// interval per scenario interval, replacing any earlier history. The snapshot mode is the scenario's mode,
// or the configured mode if the scenario does not give one.
func (s *Simulation) RunScenario(file *YamlScenarioFile) (*ScenarioResult, error) {
	mode := s.cfg.Mode
	if len(file.Mode) > 0 {
		var err error
		if mode, err = connectivity.ParseMode(file.Mode); err != nil {
			return nil, err
		}
	}
	if err := s.ImportScenario(file); err != nil {
		return nil, err
	}

	snap, err := s.BuildSnapshot(mode)
	if err != nil {
		return nil, err
	}
	res := &ScenarioResult{Snapshot: snap}

	for i := range file.Intervals {
		ch, err := file.Intervals[i].Resolve(s.channel)
		if err != nil {
			return nil, errors.Wrapf(err, "interval %d", i+1)
		}
		if _, err = s.RecordInterval(ch); err != nil {
			return nil, err
		}
	}
	if len(file.Intervals) > 0 {
		if res.Series, err = s.Series(); err != nil {
			return nil, err
		}
	}
	logger.Debugf("scenario done: %d stations, %d links, %d intervals", snap.Size(), snap.NumLinks(), len(file.Intervals))
	return res, nil
}
