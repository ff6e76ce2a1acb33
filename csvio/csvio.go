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

// Package csvio reads and writes matrices and station lists as CSV.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/openthread/ot-emd/connectivity"
	. "github.com/openthread/ot-emd/types"
)

// Header selects the column header row of a matrix file.
type Header int

const (
	HeaderColumns   Header = iota // "Column 0" .. "Column n-1", for connectivity matrices
	HeaderIntervals               // "t1" .. "tN", for time-series summaries
)

// utf-8 byte order mark, so that spreadsheet programs detect the encoding.
var bom = []byte{0xEF, 0xBB, 0xBF}

var stationHeader = []string{"x", "y", "height", "power", "gain", "noise_power"}

func (h Header) columnName(i int) string {
	if h == HeaderIntervals {
		return fmt.Sprintf("t%d", i+1)
	}
	return fmt.Sprintf("Column %d", i)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteMatrix writes the header row and one row per matrix row, values with two decimals.
func WriteMatrix(w io.Writer, m connectivity.Matrix, header Header) error {
	if err := m.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cols := m.Cols()
	rec := make([]string, cols)
	for j := 0; j < cols; j++ {
		rec[j] = header.columnName(j)
	}
	if err := cw.Write(rec); err != nil {
		return err
	}
	for _, row := range m {
		for j, v := range row {
			rec[j] = formatValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMatrixFile writes the matrix to a file, prefixed with a byte order mark.
func WriteMatrixFile(filename string, m connectivity.Matrix, header Header) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if _, err = bw.Write(bom); err == nil {
		err = WriteMatrix(bw, m, header)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadMatrix reads a matrix written by WriteMatrix. The header row is skipped.
func ReadMatrix(r io.Reader) (connectivity.Matrix, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ValidationErrorf("missing header row")
	}
	m := connectivity.Matrix{}
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, s := range rec {
			if row[j], err = parseFloat(s); err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", i+1, j)
			}
		}
		m = append(m, row)
	}
	return m, m.Validate()
}

// ReadStations reads a station list with header x,y,height,power,gain[,noise_power]. An empty noise_power
// cell means the station has no noise power.
func ReadStations(r io.Reader) ([]Station, error) {
	records, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ValidationErrorf("missing header row")
	}
	if err = checkStationHeader(records[0]); err != nil {
		return nil, err
	}

	res := make([]Station, 0, len(records)-1)
	for i, rec := range records[1:] {
		st, err := parseStation(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "station %d", i)
		}
		res = append(res, st)
	}
	return res, nil
}

// WriteStations writes the station list, with an empty noise_power cell for stations without noise power.
func WriteStations(w io.Writer, stations []Station) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stationHeader); err != nil {
		return err
	}
	for _, st := range stations {
		noise := ""
		if st.HasNoise() {
			noise = strconv.FormatFloat(st.Noise(), 'g', -1, 64)
		}
		rec := []string{
			strconv.FormatFloat(st.X, 'g', -1, 64),
			strconv.FormatFloat(st.Y, 'g', -1, 64),
			strconv.FormatFloat(st.HeightM, 'g', -1, 64),
			strconv.FormatFloat(st.TxPowerDbm, 'g', -1, 64),
			strconv.FormatFloat(st.GainDb, 'g', -1, 64),
			noise,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func checkStationHeader(rec []string) error {
	if len(rec) != len(stationHeader) && len(rec) != len(stationHeader)-1 {
		return ValidationErrorf("station header has %d columns, expected %d", len(rec), len(stationHeader))
	}
	for i, name := range rec {
		if strings.ToLower(strings.TrimSpace(name)) != stationHeader[i] {
			return ValidationErrorf("station header column %d is '%s', expected '%s'", i, name, stationHeader[i])
		}
	}
	return nil
}

func parseStation(rec []string) (Station, error) {
	if len(rec) < len(stationHeader)-1 {
		return Station{}, ValidationErrorf("expected at least %d fields, got %d", len(stationHeader)-1, len(rec))
	}
	var vals [5]float64
	for i := range vals {
		v, err := parseFloat(rec[i])
		if err != nil {
			return Station{}, errors.Wrapf(err, "field '%s'", stationHeader[i])
		}
		vals[i] = v
	}
	st := Station{X: vals[0], Y: vals[1], HeightM: vals[2], TxPowerDbm: vals[3], GainDb: vals[4]}
	if len(rec) > 5 && len(strings.TrimSpace(rec[5])) > 0 {
		noise, err := parseFloat(rec[5])
		if err != nil {
			return Station{}, errors.Wrapf(err, "field 'noise_power'")
		}
		st.NoisePowerDbm = &noise
	}
	return st, st.Validate()
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ValidationErrorf("not a number: '%s'", s)
	}
	return v, nil
}

func readAll(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && bytes.Equal(b, bom) {
		_, _ = br.Discard(len(bom))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, ValidationErrorf("invalid CSV: %v", err)
	}
	return records, nil
}
