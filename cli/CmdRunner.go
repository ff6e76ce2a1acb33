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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/csvio"
	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/prng"
	"github.com/openthread/ot-emd/progctx"
	"github.com/openthread/ot-emd/simulation"
	"github.com/openthread/ot-emd/store"
	"github.com/openthread/ot-emd/timeseries"
	. "github.com/openthread/ot-emd/types"
	"github.com/openthread/ot-emd/weather"
)

const (
	Prompt = "> "
)

type CommandContext struct {
	context.Context
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)

	for _, content := range itemsYaml.Content {
		content.Style = yaml.FlowStyle
	}

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

func (cc *CommandContext) outputMatrix(m connectivity.Matrix) {
	for _, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%.2f", v)
		}
		cc.outputf("%s\n", strings.Join(cells, " "))
	}
}

// CmdRunner executes parsed CLI commands on a Simulation. The history store is optional.
type CmdRunner struct {
	sim   *simulation.Simulation
	ctx   *progctx.ProgCtx
	store *store.Store
	help  *Help
}

func NewCmdRunner(ctx *progctx.ProgCtx, sim *simulation.Simulation, st *store.Store) *CmdRunner {
	return &CmdRunner{
		ctx:   ctx,
		sim:   sim,
		store: st,
		help:  newHelp(),
	}
}

func (rt *CmdRunner) RunCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}

		if err := parseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	return rt.RunCommand(cmdline, output)
}

func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Context: rt.ctx,
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Add != nil {
		rt.executeAddStation(cc, cmd.Add)
	} else if cmd.Channel != nil {
		rt.executeChannel(cc, cmd.Channel)
	} else if cmd.Del != nil {
		rt.executeDelStation(cc, cmd.Del)
	} else if cmd.Demo != nil {
		rt.executeDemo(cc, cmd.Demo)
	} else if cmd.Exit != nil {
		rt.executeExit(cc, cmd.Exit)
	} else if cmd.Graph != nil {
		rt.executeGraph(cc, cmd.Graph)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Interval != nil {
		rt.executeInterval(cc, cmd.Interval)
	} else if cmd.Link != nil {
		rt.executeLink(cc, cmd.Link)
	} else if cmd.Load != nil {
		rt.executeLoad(cc, cmd.Load)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Matrix != nil {
		rt.executeMatrix(cc, cmd.Matrix)
	} else if cmd.Report != nil {
		rt.executeReport(cc, cmd.Report)
	} else if cmd.Reset != nil {
		rt.executeReset(cc, cmd.Reset)
	} else if cmd.Runs != nil {
		rt.executeRuns(cc, cmd.Runs)
	} else if cmd.Save != nil {
		rt.executeSave(cc, cmd.Save)
	} else if cmd.Series != nil {
		rt.executeSeries(cc, cmd.Series)
	} else if cmd.Stations != nil {
		rt.executeStations(cc, cmd.Stations)
	} else if cmd.Weather != nil {
		rt.executeWeather(cc, cmd.Weather)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

func (rt *CmdRunner) executeAddStation(cc *CommandContext, cmd *AddCmd) {
	logger.Debugf("Add: %#v", *cmd)
	st := Station{
		HeightM:    DefaultHeightM,
		TxPowerDbm: DefaultTxPowerDbm,
		GainDb:     DefaultGainDb,
	}
	if cmd.X != nil {
		st.X = cmd.X.Float()
	}
	if cmd.Y != nil {
		st.Y = cmd.Y.Float()
	}
	if cmd.Height != nil {
		st.HeightM = cmd.Height.Float()
	}
	if cmd.Power != nil {
		st.TxPowerDbm = cmd.Power.Float()
	}
	if cmd.Gain != nil {
		st.GainDb = cmd.Gain.Float()
	}
	if cmd.Noise != nil {
		noise := cmd.Noise.Float()
		st.NoisePowerDbm = &noise
	}

	id, err := rt.sim.AddStation(st)
	if err != nil {
		cc.error(err)
		return
	}
	cc.outputf("%d\n", id)
}

func (rt *CmdRunner) executeDelStation(cc *CommandContext, cmd *DelCmd) {
	// delete from the highest id down, so that the other selected ids stay valid.
	for _, sel := range getUniqueAndSortedDesc(cmd.Stations) {
		if err := rt.sim.DeleteStation(sel.Id); err != nil {
			cc.outputf("Warn: station %d not found, skipping\n", sel.Id)
		}
	}
}

func (rt *CmdRunner) executeStations(cc *CommandContext, cmd *StationsCmd) {
	stations := rt.sim.Stations()
	if len(stations) == 0 {
		return
	}
	items := make([]stationItem, len(stations))
	for i, st := range stations {
		items[i] = newStationItem(i, st)
	}
	cc.outputItemsAsYaml(items)
}

func (rt *CmdRunner) executeChannel(cc *CommandContext, cmd *ChannelCmd) {
	flags := cmd.flags()
	if flags.isEmpty() {
		cc.outputf("%s\n", formatChannel(rt.sim.Channel()))
		return
	}
	cc.error(rt.sim.SetChannel(flags.apply(rt.sim.Channel())))
}

func (rt *CmdRunner) executeWeather(cc *CommandContext, cmd *WeatherCmd) {
	ch := rt.sim.Channel()
	switch {
	case cmd.Percent != nil:
		ch.WeatherLossPercent = cmd.Percent.Float()
	case cmd.Condition != nil:
		pct, err := weatherLossPercent(cmd.Condition, ch.FrequencyMhz)
		if err != nil {
			cc.error(err)
			return
		}
		ch.WeatherLossPercent = pct
	default:
		cc.outputf("%v\n", ch.WeatherLossPercent)
		return
	}
	if err := rt.sim.SetChannel(ch); err != nil {
		cc.error(err)
		return
	}
	cc.outputf("%v\n", ch.WeatherLossPercent)
}

func weatherLossPercent(wc *WeatherCondition, freqMhz float64) (float64, error) {
	var band weather.Band
	var err error
	if strings.EqualFold(wc.Band, "auto") {
		band, err = weather.BandForFrequency(freqMhz)
	} else {
		band, err = weather.ParseBand(wc.Band)
	}
	if err != nil {
		return 0, err
	}
	cond, err := weather.ParseCondition(wc.Condition)
	if err != nil {
		return 0, err
	}
	intensity := weather.Medium
	if len(wc.Intensity) > 0 {
		if intensity, err = weather.ParseIntensity(wc.Intensity); err != nil {
			return 0, err
		}
	}
	return weather.LossPercent(band, cond, intensity)
}

func (rt *CmdRunner) executeGraph(cc *CommandContext, cmd *GraphCmd) {
	snap, err := rt.sim.BuildSnapshot(connectivity.ModeGraph)
	if err != nil {
		cc.error(err)
		return
	}
	g := snap.Graph

	if cmd.Path != nil {
		if cmd.Path.Src.Id >= g.NumNodes() || cmd.Path.Dst.Id >= g.NumNodes() {
			cc.errorf("station not found: %s or %s", cmd.Path.Src.String(), cmd.Path.Dst.String())
			return
		}
		path, cost := g.ShortestPath(cmd.Path.Src.Id, cmd.Path.Dst.Id)
		if path == nil {
			cc.outputf("no path\n")
			return
		}
		ids := make([]string, len(path))
		for i, id := range path {
			ids[i] = fmt.Sprintf("%d", id)
		}
		cc.outputf("%s cost=%.4f\n", strings.Join(ids, " "), cost)
		return
	}

	cc.outputf("nodes=%d edges=%d components=%d\n", g.NumNodes(), len(g.Edges), len(g.Components()))
	for _, e := range g.Edges {
		cc.outputf("%d-%d availability=%.4f weight=%.4f\n", e.A, e.B, e.Availability, e.Weight)
	}
}

func (rt *CmdRunner) executeMatrix(cc *CommandContext, cmd *MatrixCmd) {
	mode := rt.sim.GetConfig().Mode
	if len(cmd.Mode) > 0 {
		var err error
		if mode, err = connectivity.ParseMode(cmd.Mode); err != nil {
			cc.error(err)
			return
		}
	} else if mode == connectivity.ModeGraph {
		mode = connectivity.ModeMatrixContinuous
	}

	snap, err := rt.sim.BuildSnapshot(mode)
	if err != nil {
		cc.error(err)
		return
	}
	if cmd.Csv != nil {
		cc.error(csvio.WriteMatrixFile(cmd.Csv.Path, snap.Matrix, csvio.HeaderColumns))
		return
	}
	cc.outputMatrix(snap.Matrix)
}

func (rt *CmdRunner) executeLink(cc *CommandContext, cmd *LinkCmd) {
	lr, err := rt.sim.EvaluateLink(cmd.Tx.Id, cmd.Rx.Id)
	if err != nil {
		cc.error(err)
		return
	}
	cc.outputf("%s\n", lr.String())
}

func (rt *CmdRunner) executeInterval(cc *CommandContext, cmd *IntervalCmd) {
	count := 1
	if cmd.Count != nil {
		count = *cmd.Count
	}
	for i := 0; i < count; i++ {
		ch := cmd.flags().apply(rt.sim.Channel())
		if cmd.Rand != nil {
			ch.WeatherLossPercent = prng.NewWeatherPercent(cmd.Rand.Float())
		}
		if _, err := rt.sim.RecordInterval(ch); err != nil {
			cc.error(err)
			return
		}
		cc.outputf("t%d %s\n", len(rt.sim.History()), formatChannel(ch))
	}
}

func (rt *CmdRunner) executeSeries(cc *CommandContext, cmd *SeriesCmd) {
	cfg := rt.sim.GetConfig()
	opts := cfg.Aggregation
	if cmd.NoDiag != nil {
		opts.ExcludeDiagonal = true
	}

	history := rt.sim.History()
	snapshots := make([]connectivity.Matrix, len(history))
	for i, iv := range history {
		snapshots[i] = iv.Matrix
	}
	m, err := timeseries.AggregateWithOptions(snapshots, cfg.MaxIntervals, opts)
	if err != nil {
		cc.error(err)
		return
	}
	if cmd.Csv != nil {
		cc.error(csvio.WriteMatrixFile(cmd.Csv.Path, m, csvio.HeaderIntervals))
		return
	}
	cc.outputMatrix(m)
}

func (rt *CmdRunner) executeReset(cc *CommandContext, cmd *ResetCmd) {
	rt.sim.ResetHistory()
	if cmd.All != nil {
		rt.sim.ClearStations()
	}
}

func (rt *CmdRunner) executeReport(cc *CommandContext, cmd *ReportCmd) {
	rep, err := rt.sim.Report()
	if err != nil {
		cc.error(err)
		return
	}
	data, err := json.MarshalIndent(rep, "", "    ")
	logger.PanicIfError(err)
	cc.outputf("%s\n", data)
}

func (rt *CmdRunner) executeSave(cc *CommandContext, cmd *SaveCmd) {
	if cmd.Db != nil {
		rt.saveToStore(cc, cmd.Description)
		return
	}

	switch fileKindOf(cmd.Path) {
	case fileKindYaml:
		cc.error(simulation.SaveScenarioFile(cmd.Path, rt.sim.ExportScenario()))
	case fileKindCsv:
		cc.error(writeStationsFile(cmd.Path, rt.sim.Stations()))
	case fileKindJson:
		cc.error(rt.sim.SaveReport(cmd.Path))
	default:
		cc.errorf("unsupported file type: %s", cmd.Path)
	}
}

func (rt *CmdRunner) saveToStore(cc *CommandContext, description string) {
	if rt.store == nil {
		cc.error(errNoStore)
		return
	}
	runId, err := rt.store.CreateRun(description, rt.sim.Stations(), rt.sim.Channel())
	if err != nil {
		cc.error(err)
		return
	}
	history := rt.sim.History()
	if err = rt.store.SaveIntervals(runId, history); err != nil {
		cc.error(err)
		return
	}
	if len(history) > 0 {
		cfg := rt.sim.GetConfig()
		series, err := rt.sim.Series()
		if err != nil {
			cc.error(err)
			return
		}
		if err = rt.store.SaveSummary(runId, cfg.MaxIntervals, cfg.Aggregation, series); err != nil {
			cc.error(err)
			return
		}
	}
	cc.outputf("%s\n", runId)
}

func (rt *CmdRunner) executeLoad(cc *CommandContext, cmd *LoadCmd) {
	if cmd.RunId != nil {
		rt.loadFromStore(cc, *cmd.RunId)
		return
	}

	switch fileKindOf(cmd.Path) {
	case fileKindYaml:
		file, err := simulation.LoadScenarioFile(cmd.Path)
		if err != nil {
			cc.error(err)
			return
		}
		res, err := rt.sim.RunScenario(file)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("stations=%d links=%d intervals=%d\n", res.Snapshot.Size(), res.Snapshot.NumLinks(),
			len(rt.sim.History()))
	case fileKindCsv:
		stations, err := readStationsFile(cmd.Path)
		if err != nil {
			cc.error(err)
			return
		}
		cc.error(rt.replaceStations(stations))
		cc.outputf("stations=%d\n", rt.sim.NumStations())
	default:
		cc.errorf("unsupported file type: %s", cmd.Path)
	}
}

func (rt *CmdRunner) loadFromStore(cc *CommandContext, runId string) {
	if rt.store == nil {
		cc.error(errNoStore)
		return
	}
	run, err := rt.store.GetRun(runId)
	if err != nil {
		cc.error(err)
		return
	}
	intervals, err := rt.store.LoadSnapshots(runId)
	if err != nil {
		cc.error(err)
		return
	}

	// check the whole run first, so a corrupt run changes nothing
	ch := run.Channel
	if err = ch.Validate(); err != nil {
		cc.error(errors.Wrapf(err, "run %s channel", runId))
		return
	}
	if err = validateStations(run.Stations); err != nil {
		cc.error(errors.Wrapf(err, "run %s", runId))
		return
	}
	for i, iv := range intervals {
		if iv.Matrix.Rows() != len(run.Stations) {
			cc.error(DomainErrorf("run %s interval %d has %d channels, expected %d", runId, i+1,
				iv.Matrix.Rows(), len(run.Stations)))
			return
		}
	}

	logger.PanicIfError(rt.sim.SetChannel(ch))
	rt.setStations(run.Stations)
	logger.PanicIfError(rt.sim.RestoreHistory(intervals))
	cc.outputf("stations=%d intervals=%d\n", rt.sim.NumStations(), len(intervals))
}

func validateStations(stations []Station) error {
	for i := range stations {
		if err := stations[i].Validate(); err != nil {
			return errors.Wrapf(err, "station %d", i)
		}
	}
	return nil
}

// replaceStations replaces the stations and clears the history. A bad list changes nothing.
func (rt *CmdRunner) replaceStations(stations []Station) error {
	if err := validateStations(stations); err != nil {
		return err
	}
	rt.setStations(stations)
	return nil
}

func (rt *CmdRunner) setStations(stations []Station) {
	rt.sim.ClearStations()
	rt.sim.ResetHistory()
	for _, st := range stations {
		_, err := rt.sim.AddStation(st)
		logger.PanicIfError(err)
	}
}

func (rt *CmdRunner) executeRuns(cc *CommandContext, cmd *RunsCmd) {
	if rt.store == nil {
		cc.error(errNoStore)
		return
	}
	if cmd.Delete != nil {
		cc.error(rt.store.DeleteRun(*cmd.Delete))
		return
	}
	runs, err := rt.store.ListRuns()
	if err != nil {
		cc.error(err)
		return
	}
	items := make([]runItem, len(runs))
	for i := range runs {
		items[i] = newRunItem(&runs[i])
	}
	if len(items) > 0 {
		cc.outputItemsAsYaml(items)
	}
}

func (rt *CmdRunner) executeDemo(cc *CommandContext, cmd *DemoCmd) {
	count := DefaultDemoStations
	if cmd.Count != nil {
		count = *cmd.Count
	}
	size := DefaultDemoAreaM
	if cmd.Size != nil {
		size = cmd.Size.Float()
	}
	if count <= 0 || size <= 0 {
		cc.errorf("demo needs a positive station count and area size")
		return
	}
	if cmd.Seed != nil {
		prng.Init(int64(*cmd.Seed))
	}

	stations := make([]Station, count)
	for i := range stations {
		x, y := prng.NewStationPosition(size)
		stations[i] = Station{
			X:          x,
			Y:          y,
			HeightM:    prng.NewUniform(10, 60),
			TxPowerDbm: prng.NewUniform(20, 40),
			GainDb:     prng.NewUniform(5, 15),
		}
	}
	cc.error(rt.replaceStations(stations))
	cc.outputf("stations=%d seed=%d\n", count, prng.RootSeed())
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(rt.sim.GetLogLevel()))
		return
	}
	level, err := logger.ParseLevelString(cmd.Level)
	if err != nil {
		cc.error(err)
		return
	}
	rt.sim.SetLogLevel(level)
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		text, err := rt.help.outputCommandHelp(cmd.HelpTopic)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputStr(text)
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func (rt *CmdRunner) executeExit(cc *CommandContext, cmd *ExitCmd) {
	rt.ctx.Cancel("exit")
}

func readStationsFile(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvio.ReadStations(f)
}

func writeStationsFile(path string, stations []Station) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = csvio.WriteStations(f, stations); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
