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

// Package store persists time-series runs (station lists, per-interval snapshots and summaries) in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/timeseries"
	. "github.com/openthread/ot-emd/types"
)

// fixed width, so that stored timestamps sort lexically
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

// Run is a stored time-series run.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Description string
	Stations    []Station
	Channel     ChannelParams
	Intervals   int
}

// Summary is a stored aggregation of a run's snapshots.
type Summary struct {
	MaxIntervals    int
	ExcludeDiagonal bool
	Matrix          connectivity.Matrix
	CreatedAt       time.Time
}

type storedStation struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Height     float64  `json:"height"`
	Power      float64  `json:"power"`
	Gain       float64  `json:"gain"`
	NoisePower *float64 `json:"noise_power,omitempty"`
}

type storedChannel struct {
	FrequencyMhz       float64 `json:"frequency_mhz"`
	RequiredSnrDb      float64 `json:"required_snr_db"`
	WeatherLossPercent float64 `json:"weather_loss_percent"`
	SigmaDb            float64 `json:"sigma_db"`
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the SQLite database at path and migrates it. Use ":memory:" for a
// non-persistent store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps a ":memory:" database on a single connection
	db.SetMaxOpenConns(1)
	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "enable foreign keys")
	}
	s := New(db)
	if err = s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun stores a new run for the given stations and base channel, and returns its id.
func (s *Store) CreateRun(description string, stations []Station, ch ChannelParams) (string, error) {
	stationsJson, err := json.Marshal(toStoredStations(stations))
	if err != nil {
		return "", err
	}
	channelJson, err := json.Marshal(toStoredChannel(ch))
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO runs (id, created_at, description, stations_json, channel_json)
		VALUES (?, ?, ?, ?, ?)
	`, id, formatTime(time.Now()), description, string(stationsJson), string(channelJson))
	if err != nil {
		return "", errors.Wrapf(err, "create run")
	}
	return id, nil
}

// GetRun loads a run. It returns ErrRunNotFound for unknown ids.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT r.id, r.created_at, r.description, r.stations_json, r.channel_json,
			(SELECT COUNT(*) FROM snapshots sn WHERE sn.run_id = r.id)
		FROM runs r
		WHERE r.id = ?
	`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrRunNotFound, "%s", id)
	}
	return run, err
}

// ListRuns returns all runs, oldest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.created_at, r.description, r.stations_json, r.channel_json,
			(SELECT COUNT(*) FROM snapshots sn WHERE sn.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at, r.rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DeleteRun deletes a run with its snapshots and summary.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, q := range []string{
		"DELETE FROM snapshots WHERE run_id = ?",
		"DELETE FROM summaries WHERE run_id = ?",
	} {
		if _, err = tx.Exec(q, id); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		_ = tx.Rollback()
		if err == nil {
			err = errors.Wrapf(ErrRunNotFound, "%s", id)
		}
		return err
	}
	return tx.Commit()
}

// SaveSnapshot stores the snapshot matrix of one interval (1-based) of a run, replacing a previous one.
func (s *Store) SaveSnapshot(runId string, interval int, ch ChannelParams, m connectivity.Matrix) error {
	channelJson, matrixJson, err := encodeSnapshot(ch, m)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (run_id, interval, channel_json, matrix_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, interval) DO UPDATE SET
			channel_json = excluded.channel_json,
			matrix_json = excluded.matrix_json
	`, runId, interval, channelJson, matrixJson)
	if err != nil {
		return errors.Wrapf(err, "save snapshot %s/%d", runId, interval)
	}
	return nil
}

// SaveIntervals stores recorded intervals as intervals 1..n of a run, replacing all earlier snapshots of the
// run, in one transaction.
func (s *Store) SaveIntervals(runId string, intervals []timeseries.Interval) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM snapshots WHERE run_id = ?", runId); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, iv := range intervals {
		channelJson, matrixJson, err := encodeSnapshot(iv.Channel, iv.Matrix)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err = tx.Exec(`
			INSERT INTO snapshots (run_id, interval, channel_json, matrix_json)
			VALUES (?, ?, ?, ?)
		`, runId, i+1, channelJson, matrixJson); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "save snapshot %s/%d", runId, i+1)
		}
	}
	return tx.Commit()
}

// LoadSnapshots loads the snapshots of a run, ordered by interval.
func (s *Store) LoadSnapshots(runId string) ([]timeseries.Interval, error) {
	rows, err := s.db.Query(`
		SELECT channel_json, matrix_json FROM snapshots
		WHERE run_id = ?
		ORDER BY interval
	`, runId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []timeseries.Interval
	for rows.Next() {
		var channelJson, matrixJson string
		if err := rows.Scan(&channelJson, &matrixJson); err != nil {
			return nil, err
		}
		var sc storedChannel
		if err := json.Unmarshal([]byte(channelJson), &sc); err != nil {
			return nil, errors.Wrapf(err, "decode channel")
		}
		var m connectivity.Matrix
		if err := json.Unmarshal([]byte(matrixJson), &m); err != nil {
			return nil, errors.Wrapf(err, "decode matrix")
		}
		res = append(res, timeseries.Interval{Channel: sc.channelParams(), Matrix: m})
	}
	return res, rows.Err()
}

// SaveSummary stores the aggregated matrix of a run, replacing a previous one.
func (s *Store) SaveSummary(runId string, maxIntervals int, opts timeseries.Options, m connectivity.Matrix) error {
	matrixJson, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO summaries (run_id, max_intervals, exclude_diagonal, matrix_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			max_intervals = excluded.max_intervals,
			exclude_diagonal = excluded.exclude_diagonal,
			matrix_json = excluded.matrix_json,
			created_at = excluded.created_at
	`, runId, maxIntervals, opts.ExcludeDiagonal, string(matrixJson), formatTime(time.Now()))
	if err != nil {
		return errors.Wrapf(err, "save summary %s", runId)
	}
	return nil
}

// LoadSummary loads the aggregated matrix of a run. It returns (nil, nil) if none was saved.
func (s *Store) LoadSummary(runId string) (*Summary, error) {
	var matrixJson, createdAt string
	sum := &Summary{}
	err := s.db.QueryRow(`
		SELECT max_intervals, exclude_diagonal, matrix_json, created_at FROM summaries WHERE run_id = ?
	`, runId).Scan(&sum.MaxIntervals, &sum.ExcludeDiagonal, &matrixJson, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(matrixJson), &sum.Matrix); err != nil {
		return nil, errors.Wrapf(err, "decode summary")
	}
	sum.CreatedAt, err = time.Parse(timeFormat, createdAt)
	return sum, err
}

func encodeSnapshot(ch ChannelParams, m connectivity.Matrix) (string, string, error) {
	if err := m.Validate(); err != nil {
		return "", "", err
	}
	channelJson, err := json.Marshal(toStoredChannel(ch))
	if err != nil {
		return "", "", err
	}
	matrixJson, err := json.Marshal(m)
	if err != nil {
		return "", "", err
	}
	return string(channelJson), string(matrixJson), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var createdAt, stationsJson, channelJson string
	var description sql.NullString
	run := &Run{}
	if err := row.Scan(&run.ID, &createdAt, &description, &stationsJson, &channelJson, &run.Intervals); err != nil {
		return nil, err
	}
	run.Description = description.String

	var err error
	if run.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, err
	}
	var stations []storedStation
	if err = json.Unmarshal([]byte(stationsJson), &stations); err != nil {
		return nil, errors.Wrapf(err, "decode stations of run %s", run.ID)
	}
	run.Stations = make([]Station, len(stations))
	for i, st := range stations {
		run.Stations[i] = st.station()
	}
	var sc storedChannel
	if err = json.Unmarshal([]byte(channelJson), &sc); err != nil {
		return nil, errors.Wrapf(err, "decode channel of run %s", run.ID)
	}
	run.Channel = sc.channelParams()
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func toStoredStations(stations []Station) []storedStation {
	res := make([]storedStation, len(stations))
	for i, st := range stations {
		res[i] = storedStation{
			X:          st.X,
			Y:          st.Y,
			Height:     st.HeightM,
			Power:      st.TxPowerDbm,
			Gain:       st.GainDb,
			NoisePower: st.NoisePowerDbm,
		}
	}
	return res
}

func (st storedStation) station() Station {
	return Station{
		X:             st.X,
		Y:             st.Y,
		HeightM:       st.Height,
		TxPowerDbm:    st.Power,
		GainDb:        st.Gain,
		NoisePowerDbm: st.NoisePower,
	}
}

func toStoredChannel(ch ChannelParams) storedChannel {
	return storedChannel{
		FrequencyMhz:       ch.FrequencyMhz,
		RequiredSnrDb:      ch.RequiredSnrDb,
		WeatherLossPercent: ch.WeatherLossPercent,
		SigmaDb:            ch.SigmaDb,
	}
}

func (sc storedChannel) channelParams() ChannelParams {
	return ChannelParams{
		FrequencyMhz:       sc.FrequencyMhz,
		RequiredSnrDb:      sc.RequiredSnrDb,
		WeatherLossPercent: sc.WeatherLossPercent,
		SigmaDb:            sc.SigmaDb,
	}
}
