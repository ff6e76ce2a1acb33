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

// Package emd_main runs the EMD program: CLI console, gRPC snapshot service and metrics endpoint.
package emd_main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"

	"github.com/openthread/ot-emd/cli"
	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/csvio"
	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/metrics"
	"github.com/openthread/ot-emd/prng"
	"github.com/openthread/ot-emd/progctx"
	"github.com/openthread/ot-emd/radiomodel"
	"github.com/openthread/ot-emd/rpc"
	"github.com/openthread/ot-emd/simulation"
	"github.com/openthread/ot-emd/store"
)

var (
	args MainArgs
)

func Main(ctx *progctx.ProgCtx, cliOptions *cli.CliOptions) {
	logger.FatalIfError(loadEnv())
	logger.FatalIfError(parseArgs(flag.CommandLine, os.Args[1:], &args))

	level, err := logger.ParseLevelString(args.LogLevel)
	logger.FatalIfError(err)
	logger.SetLevel(level)
	if len(args.LogFile) > 0 {
		logger.FatalIfError(logger.SetOutput([]string{"stdout", args.LogFile}))
	}
	prng.Init(args.Seed)

	handleSignals(ctx)

	sim, err := createSimulation(&args, level)
	logger.FatalIfError(err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	collector, err := metrics.NewCollector(reg)
	logger.FatalIfError(err)
	sim.SetObserver(collector)

	var st *store.Store
	if len(args.DbPath) > 0 {
		st, err = store.Open(args.DbPath)
		logger.FatalIfError(err, "could not open history store")
		ctx.Defer(func() {
			_ = st.Close()
		})
	}

	if len(args.Scenario) > 0 {
		res, err := runScenarioFile(sim, args.Scenario)
		logger.FatalIfError(err)
		if args.Batch {
			logger.FatalIfError(writeBatchResults(sim, res))
			ctx.Cancel(nil)
			ctx.Wait()
			return
		}
	}

	if len(args.GrpcAddr) > 0 {
		startGrpcServer(ctx, sim.Builder(), args.GrpcAddr, collector)
	}
	if len(args.MetricsAddr) > 0 {
		startMetricsServer(ctx, args.MetricsAddr, collector)
	}

	if cliOptions == nil {
		cliOptions = cli.DefaultCliOptions()
	}
	cliOptions.HistoryFile = args.HistoryFile
	ctx.Defer(func() {
		_ = os.Stdin.Close()
	})
	rt := cli.NewCmdRunner(ctx, sim, st)
	console := cli.NewConsole(cliOptions)
	logger.SetStdoutCallback(console)
	go func() {
		err := console.Run(rt)
		ctx.Cancel(errors.Wrapf(err, "console exit"))
	}()

	<-ctx.Done()
	logger.Debugf("waiting for EMD to stop gracefully ...")
	ctx.Wait()
}

func createSimulation(args *MainArgs, level logger.Level) (*simulation.Simulation, error) {
	cfg := simulation.DefaultConfig()
	mode, err := connectivity.ParseMode(args.Mode)
	if err != nil {
		return nil, err
	}
	noise, err := radiomodel.ParseNoiseConvention(args.Noise)
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode
	cfg.Model.Noise = noise
	cfg.Workers = args.Workers
	cfg.OutputDir = args.OutputDir
	cfg.MaxIntervals = args.MaxIntervals
	cfg.LogLevel = level
	return simulation.NewSimulation(cfg)
}

func runScenarioFile(sim *simulation.Simulation, fn string) (*simulation.ScenarioResult, error) {
	file, err := simulation.LoadScenarioFile(fn)
	if err != nil {
		return nil, err
	}
	res, err := sim.RunScenario(file)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", fn)
	}
	logger.Infof("scenario %s: %d stations, %d links, %d intervals", fn, res.Snapshot.Size(),
		res.Snapshot.NumLinks(), len(file.Intervals))
	return res, nil
}

// writeBatchResults writes the scenario snapshot, the series (if any) and the report to the output directory.
func writeBatchResults(sim *simulation.Simulation, res *simulation.ScenarioResult) error {
	reportFn, err := sim.SaveDefaultReport()
	if err != nil {
		return err
	}
	cfg := sim.GetConfig()
	prefix := filepath.Join(cfg.OutputDir, fmt.Sprintf("%d_", cfg.Id))

	m := res.Snapshot.Matrix
	if res.Snapshot.Mode == connectivity.ModeGraph {
		m = res.Snapshot.Graph.ToMatrix()
	}
	if err = csvio.WriteMatrixFile(prefix+"matrix.csv", m, csvio.HeaderColumns); err != nil {
		return err
	}
	if res.Series != nil {
		if err = csvio.WriteMatrixFile(prefix+"series.csv", res.Series, csvio.HeaderIntervals); err != nil {
			return err
		}
	}
	logger.Infof("batch results written, report %s", reportFn)
	return nil
}

func startGrpcServer(ctx *progctx.ProgCtx, builder *connectivity.Builder, addr string, collector *metrics.Collector) {
	srv := rpc.NewServer(builder, addr, grpc.UnaryInterceptor(collector.UnaryServerInterceptor()))
	ctx.Defer(srv.Stop)
	ctx.Go("grpc", srv.Run)
}

func startMetricsServer(ctx *progctx.ProgCtx, addr string, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	ctx.Defer(func() {
		_ = srv.Close()
	})
	ctx.Go("metrics", func() error {
		logger.Infof("metrics serving on http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer logger.Debugf("handleSignals exit.")
		defer ctx.WaitDone("handleSignals")

		for {
			select {
			case sig := <-c:
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}
