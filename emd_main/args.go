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
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// environment variables giving the flag defaults, also read from a .env file in the working directory.
const (
	EnvLogLevel    = "EMD_LOG"
	EnvDbPath      = "EMD_DB"
	EnvGrpcAddr    = "EMD_GRPC_ADDR"
	EnvMetricsAddr = "EMD_METRICS_ADDR"
	EnvWorkers     = "EMD_WORKERS"
	EnvSeed        = "EMD_SEED"
)

type MainArgs struct {
	LogLevel     string
	LogFile      string
	Mode         string
	Workers      int
	OutputDir    string
	MaxIntervals int
	Noise        string
	Seed         int64
	DbPath       string
	GrpcAddr     string
	MetricsAddr  string
	Scenario     string
	Batch        bool
	HistoryFile  string
}

// loadEnv loads the .env file if present. Variables already set in the environment take precedence.
func loadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrapf(err, "load .env")
	}
	return nil
}

func envString(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && len(v) > 0 {
		return v
	}
	return def
}

func envInt(key string, def int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || len(v) == 0 {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, errors.Wrapf(err, "invalid %s", key)
	}
	return n, nil
}

// parseArgs parses the command line into args. Flag defaults come from the environment.
func parseArgs(fs *flag.FlagSet, argv []string, args *MainArgs) error {
	workers, err := envInt(EnvWorkers, 1)
	if err != nil {
		return err
	}
	seed, err := envInt(EnvSeed, 0)
	if err != nil {
		return err
	}

	fs.StringVar(&args.LogLevel, "log", envString(EnvLogLevel, "warn"), "set logging level: trace, debug, info, warn, error.")
	fs.StringVar(&args.LogFile, "log-file", "", "also write the log to this file")
	fs.StringVar(&args.Mode, "mode", "continuous", "default snapshot mode: graph, binary, continuous.")
	fs.IntVar(&args.Workers, "workers", int(workers), "number of parallel workers for building snapshots")
	fs.StringVar(&args.OutputDir, "out", "tmp", "output directory for reports and batch results")
	fs.IntVar(&args.MaxIntervals, "max-intervals", 100, "maximum number of aggregated intervals, 0 for no limit")
	fs.StringVar(&args.Noise, "noise", "rx", "station whose noise power is used for a link: rx or tx")
	fs.Int64Var(&args.Seed, "seed", seed, "random seed for demo layouts, 0 for a time-based seed")
	fs.StringVar(&args.DbPath, "db", envString(EnvDbPath, ""), "SQLite history store file, none if empty")
	fs.StringVar(&args.GrpcAddr, "grpc", envString(EnvGrpcAddr, ""), "gRPC snapshot service listen address, none if empty")
	fs.StringVar(&args.MetricsAddr, "metrics", envString(EnvMetricsAddr, ""), "Prometheus /metrics listen address, none if empty")
	fs.StringVar(&args.Scenario, "scenario", "", "YAML scenario file to run at startup")
	fs.BoolVar(&args.Batch, "batch", false, "run the scenario, write the results to the output directory and exit")
	fs.StringVar(&args.HistoryFile, "history", "", "CLI command history file")

	if err = fs.Parse(argv); err != nil {
		return err
	}
	if args.Batch && len(args.Scenario) == 0 {
		return errors.New("-batch requires -scenario")
	}
	return nil
}
