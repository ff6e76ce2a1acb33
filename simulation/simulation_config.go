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
	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/radiomodel"
	"github.com/openthread/ot-emd/timeseries"
	. "github.com/openthread/ot-emd/types"
)

const (
	DefaultMode      = connectivity.ModeMatrixContinuous
	DefaultWorkers   = 1
	DefaultOutputDir = "tmp"
)

type Config struct {
	Mode         connectivity.Mode
	Workers      int
	OutputDir    string
	MaxIntervals int // cap on aggregated intervals, <= 0 for no cap
	Id           int
	LogLevel     logger.Level
	Model        radiomodel.ModelParams
	Channel      ChannelParams
	Aggregation  timeseries.Options
}

func DefaultConfig() *Config {
	return &Config{
		Mode:         DefaultMode,
		Workers:      DefaultWorkers,
		OutputDir:    DefaultOutputDir,
		MaxIntervals: timeseries.DefaultMaxIntervals,
		Id:           0,
		LogLevel:     logger.DefaultLevel,
		Model:        *radiomodel.DefaultModelParams(),
		Channel:      DefaultChannelParams(),
	}
}
