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

package emd_main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/radiomodel"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("emd", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func TestParseArgsDefaults(t *testing.T) {
	for _, key := range []string{EnvLogLevel, EnvDbPath, EnvGrpcAddr, EnvMetricsAddr, EnvWorkers, EnvSeed} {
		t.Setenv(key, "")
	}
	var a MainArgs
	require.Nil(t, parseArgs(newFlagSet(), []string{}, &a))
	assert.Equal(t, "warn", a.LogLevel)
	assert.Equal(t, 1, a.Workers)
	assert.Equal(t, int64(0), a.Seed)
	assert.Equal(t, "", a.DbPath)
	assert.Equal(t, 100, a.MaxIntervals)
	assert.Equal(t, "continuous", a.Mode)
	assert.Equal(t, "rx", a.Noise)
}

func TestParseArgsEnvAndFlags(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvWorkers, "4")
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvDbPath, "history.db")
	t.Setenv(EnvGrpcAddr, "localhost:9100")

	var a MainArgs
	require.Nil(t, parseArgs(newFlagSet(), []string{"-workers", "8", "-mode", "graph"}, &a))
	assert.Equal(t, "debug", a.LogLevel)
	assert.Equal(t, 8, a.Workers)
	assert.Equal(t, int64(42), a.Seed)
	assert.Equal(t, "history.db", a.DbPath)
	assert.Equal(t, "localhost:9100", a.GrpcAddr)
	assert.Equal(t, "graph", a.Mode)

	t.Setenv(EnvWorkers, "many")
	assert.NotNil(t, parseArgs(newFlagSet(), []string{}, &MainArgs{}))
}

func TestParseArgsBatchNeedsScenario(t *testing.T) {
	t.Setenv(EnvWorkers, "")
	t.Setenv(EnvSeed, "")
	assert.NotNil(t, parseArgs(newFlagSet(), []string{"-batch"}, &MainArgs{}))
	assert.Nil(t, parseArgs(newFlagSet(), []string{"-batch", "-scenario", "s.yaml"}, &MainArgs{}))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, loadEnv(filepath.Join(dir, "missing.env")))

	fn := filepath.Join(dir, "test.env")
	require.Nil(t, os.WriteFile(fn, []byte("EMD_TEST_METRICS=localhost:9200\n"), 0644))
	t.Setenv("EMD_TEST_METRICS", "")
	require.Nil(t, os.Unsetenv("EMD_TEST_METRICS"))
	require.Nil(t, loadEnv(fn))
	assert.Equal(t, "localhost:9200", envString("EMD_TEST_METRICS", ""))
}

func TestCreateSimulation(t *testing.T) {
	a := MainArgs{Mode: "binary", Noise: "tx", Workers: 2, OutputDir: t.TempDir(), MaxIntervals: 10}
	sim, err := createSimulation(&a, logger.InfoLevel)
	require.Nil(t, err)
	cfg := sim.GetConfig()
	assert.Equal(t, connectivity.ModeMatrixBinary, cfg.Mode)
	assert.Equal(t, radiomodel.NoiseAtTransmitter, cfg.Model.Noise)
	assert.Equal(t, 2, sim.Builder().Workers())
	assert.Equal(t, 10, cfg.MaxIntervals)

	a.Mode = "histogram"
	_, err = createSimulation(&a, logger.InfoLevel)
	assert.NotNil(t, err)
}

func TestBatchResults(t *testing.T) {
	a := MainArgs{Mode: "graph", Noise: "rx", Workers: 1, OutputDir: filepath.Join(t.TempDir(), "out"), MaxIntervals: 100}
	sim, err := createSimulation(&a, logger.InfoLevel)
	require.Nil(t, err)

	scenario := `
channel:
    frequency: 300
stations:
    - {pos: [0, 0], height: 50, power: 30, gain: 10}
    - {pos: [1000, 1000], height: 50, power: 30, gain: 10}
intervals:
    - {}
    - weather: {percent: 20}
`
	fn := filepath.Join(t.TempDir(), "scenario.yaml")
	require.Nil(t, os.WriteFile(fn, []byte(scenario), 0644))
	res, err := runScenarioFile(sim, fn)
	require.Nil(t, err)
	assert.Equal(t, connectivity.ModeGraph, res.Snapshot.Mode)
	require.Nil(t, writeBatchResults(sim, res))

	assert.FileExists(t, filepath.Join(a.OutputDir, "0_report.json"))
	assert.FileExists(t, filepath.Join(a.OutputDir, "0_matrix.csv"))
	assert.FileExists(t, filepath.Join(a.OutputDir, "0_series.csv"))

	_, err = runScenarioFile(sim, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
