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

package rpc

import (
	"encoding/json"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/openthread/ot-emd/connectivity"
	. "github.com/openthread/ot-emd/types"
)

type StationMsg struct {
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Height     *float64 `json:"height"`
	Power      *float64 `json:"power"`
	Gain       *float64 `json:"gain"`
	NoisePower *float64 `json:"noise_power,omitempty"`
}

type ChannelMsg struct {
	FrequencyMhz       *float64 `json:"frequency_mhz"`
	RequiredSnrDb      *float64 `json:"required_snr_db"`
	WeatherLossPercent *float64 `json:"weather_loss_percent,omitempty"`
	SigmaDb            *float64 `json:"sigma_db,omitempty"`
}

// BuildRequest is the request of BuildGraph and BuildMatrix. Mode is "binary" (default) or "continuous";
// BuildGraph ignores it.
type BuildRequest struct {
	Stations []StationMsg `json:"stations"`
	Channel  ChannelMsg   `json:"channel"`
	Mode     string       `json:"mode,omitempty"`
}

type EdgeMsg struct {
	A            int     `json:"a"`
	B            int     `json:"b"`
	Availability float64 `json:"availability"`
	Weight       float64 `json:"weight"`
}

type GraphResponse struct {
	Nodes int       `json:"nodes"`
	Edges []EdgeMsg `json:"edges"`
}

type MatrixResponse struct {
	Mode   string              `json:"mode,omitempty"`
	Matrix connectivity.Matrix `json:"matrix"`
}

type AggregateRequest struct {
	Snapshots       []connectivity.Matrix `json:"snapshots"`
	MaxIntervals    int                   `json:"max_intervals"`
	ExcludeDiagonal bool                  `json:"exclude_diagonal,omitempty"`
}

// DecodeStruct decodes a Struct message into a Go value with json tags.
func DecodeStruct(in *structpb.Struct, v interface{}) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return ValidationErrorf("malformed request: %v", err)
	}
	return nil
}

// EncodeStruct encodes a Go value with json tags into a Struct message.
func EncodeStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err = protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func required(v *float64, name string) (float64, error) {
	if v == nil {
		return 0, ValidationErrorf("missing field '%s'", name)
	}
	return *v, nil
}

// Station converts and validates the message.
func (m *StationMsg) Station() (Station, error) {
	var st Station
	var err error
	for _, f := range []struct {
		dst  *float64
		src  *float64
		name string
	}{
		{&st.X, m.X, "x"},
		{&st.Y, m.Y, "y"},
		{&st.HeightM, m.Height, "height"},
		{&st.TxPowerDbm, m.Power, "power"},
		{&st.GainDb, m.Gain, "gain"},
	} {
		if *f.dst, err = required(f.src, f.name); err != nil {
			return st, err
		}
	}
	st.NoisePowerDbm = m.NoisePower
	return st, st.Validate()
}

func NewStationMsg(st Station) StationMsg {
	x, y, h, p, g := st.X, st.Y, st.HeightM, st.TxPowerDbm, st.GainDb
	return StationMsg{X: &x, Y: &y, Height: &h, Power: &p, Gain: &g, NoisePower: st.NoisePowerDbm}
}

// ChannelParams converts and validates the message. Weather loss and sigma are optional.
func (m *ChannelMsg) ChannelParams() (ChannelParams, error) {
	ch := DefaultChannelParams()
	var err error
	if ch.FrequencyMhz, err = required(m.FrequencyMhz, "frequency_mhz"); err != nil {
		return ch, err
	}
	if ch.RequiredSnrDb, err = required(m.RequiredSnrDb, "required_snr_db"); err != nil {
		return ch, err
	}
	if m.WeatherLossPercent != nil {
		ch.WeatherLossPercent = *m.WeatherLossPercent
	}
	if m.SigmaDb != nil {
		ch.SigmaDb = *m.SigmaDb
	}
	return ch, ch.Validate()
}

func NewChannelMsg(ch ChannelParams) ChannelMsg {
	f, snr, w, sigma := ch.FrequencyMhz, ch.RequiredSnrDb, ch.WeatherLossPercent, ch.SigmaDb
	return ChannelMsg{FrequencyMhz: &f, RequiredSnrDb: &snr, WeatherLossPercent: &w, SigmaDb: &sigma}
}

func (r *BuildRequest) decode() ([]Station, ChannelParams, error) {
	ch, err := r.Channel.ChannelParams()
	if err != nil {
		return nil, ch, errors.Wrapf(err, "channel")
	}
	stations := make([]Station, len(r.Stations))
	for i := range r.Stations {
		if stations[i], err = r.Stations[i].Station(); err != nil {
			return nil, ch, errors.Wrapf(err, "station %d", i)
		}
	}
	return stations, ch, nil
}

func newGraphResponse(g *connectivity.Graph) *GraphResponse {
	resp := &GraphResponse{
		Nodes: g.NumNodes(),
		Edges: make([]EdgeMsg, len(g.Edges)),
	}
	for i, e := range g.Edges {
		resp.Edges[i] = EdgeMsg{A: e.A, B: e.B, Availability: e.Availability, Weight: e.Weight}
	}
	return resp
}
