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
	"strconv"

	"github.com/alecthomas/participle"

	"github.com/openthread/ot-emd/logger"
	. "github.com/openthread/ot-emd/types"
)

var commandParser = participle.MustBuild(&Command{}, participle.UseLookahead(2))

func parseBytes(b []byte, cmd *Command) error {
	return commandParser.ParseBytes(b, cmd)
}

// noinspection GoStructTag
type Command struct {
	Add      *AddCmd      `  @@` //nolint
	Channel  *ChannelCmd  `| @@` //nolint
	Del      *DelCmd      `| @@` //nolint
	Demo     *DemoCmd     `| @@` //nolint
	Exit     *ExitCmd     `| @@` //nolint
	Graph    *GraphCmd    `| @@` //nolint
	Help     *HelpCmd     `| @@` //nolint
	Interval *IntervalCmd `| @@` //nolint
	Link     *LinkCmd     `| @@` //nolint
	Load     *LoadCmd     `| @@` //nolint
	LogLevel *LogLevelCmd `| @@` //nolint
	Matrix   *MatrixCmd   `| @@` //nolint
	Report   *ReportCmd   `| @@` //nolint
	Reset    *ResetCmd    `| @@` //nolint
	Runs     *RunsCmd     `| @@` //nolint
	Save     *SaveCmd     `| @@` //nolint
	Series   *SeriesCmd   `| @@` //nolint
	Stations *StationsCmd `| @@` //nolint
	Weather  *WeatherCmd  `| @@` //nolint
}

// Number is a possibly negative Int or Float literal. The lexer emits the minus sign as a separate token.
// noinspection GoStructTag
type Number struct {
	Val string `@("-"? (Int|Float))` //nolint
}

func (n *Number) Float() float64 {
	v, err := strconv.ParseFloat(n.Val, 64)
	logger.PanicIfError(err)
	return v
}

// noinspection GoStructTag
type StationSelector struct {
	Id int `@Int` //nolint
}

func (ss *StationSelector) String() string {
	return strconv.Itoa(ss.Id)
}

// noinspection GoStructTag
type CsvFlag struct {
	Path string `"csv" @String` //nolint
}

// channelFlags holds optional overrides of the channel parameters.
type channelFlags struct {
	Frequency, Snr, Sigma, Weather *Number
}

func (cf channelFlags) isEmpty() bool {
	return cf.Frequency == nil && cf.Snr == nil && cf.Sigma == nil && cf.Weather == nil
}

// apply returns ch with the given overrides. The result is not validated.
func (cf channelFlags) apply(ch ChannelParams) ChannelParams {
	if cf.Frequency != nil {
		ch.FrequencyMhz = cf.Frequency.Float()
	}
	if cf.Snr != nil {
		ch.RequiredSnrDb = cf.Snr.Float()
	}
	if cf.Sigma != nil {
		ch.SigmaDb = cf.Sigma.Float()
	}
	if cf.Weather != nil {
		ch.WeatherLossPercent = cf.Weather.Float()
	}
	return ch
}

// noinspection GoStructTag
type AddCmd struct {
	Cmd    struct{} `"add"`                 //nolint
	X      *Number  `( "x" @@ `             //nolint
	Y      *Number  `| "y" @@ `             //nolint
	Height *Number  `| ("height"|"h") @@ `  //nolint
	Power  *Number  `| ("power"|"p") @@ `   //nolint
	Gain   *Number  `| ("gain"|"g") @@ `    //nolint
	Noise  *Number  `| ("noise"|"n") @@ )*` //nolint
}

// noinspection GoStructTag
type DelCmd struct {
	Cmd      struct{}          `"del"`   //nolint
	Stations []StationSelector `( @@ )+` //nolint
}

// noinspection GoStructTag
type StationsCmd struct {
	Cmd struct{} `"stations"` //nolint
}

// noinspection GoStructTag
type ChannelCmd struct {
	Cmd       struct{} `"channel"`               //nolint
	Frequency *Number  `( ("freq"|"f") @@ `      //nolint
	Snr       *Number  `| "snr" @@ `             //nolint
	Sigma     *Number  `| "sigma" @@ `           //nolint
	Weather   *Number  `| ("weather"|"w") @@ )*` //nolint
}

func (cmd *ChannelCmd) flags() channelFlags {
	return channelFlags{Frequency: cmd.Frequency, Snr: cmd.Snr, Sigma: cmd.Sigma, Weather: cmd.Weather}
}

// noinspection GoStructTag
type WeatherCmd struct {
	Cmd       struct{}          `"weather"` //nolint
	Percent   *Number           `[ @@ `     //nolint
	Condition *WeatherCondition `| @@ ]`    //nolint
}

// WeatherCondition selects a weather loss from the table. Band "auto" uses the band of the channel frequency.
// noinspection GoStructTag
type WeatherCondition struct {
	Band      string `@Ident`     //nolint
	Condition string `@Ident`     //nolint
	Intensity string `[ @Ident ]` //nolint
}

// noinspection GoStructTag
type GraphCmd struct {
	Cmd  struct{}  `"graph"` //nolint
	Path *PathFlag `[ @@ ]`  //nolint
}

// noinspection GoStructTag
type PathFlag struct {
	Src StationSelector `"path" @@` //nolint
	Dst StationSelector `@@`        //nolint
}

// noinspection GoStructTag
type MatrixCmd struct {
	Cmd  struct{} `"matrix"`                                  //nolint
	Mode string   `[ @("binary"|"bin"|"continuous"|"prob") ]` //nolint
	Csv  *CsvFlag `[ @@ ]`                                    //nolint
}

// noinspection GoStructTag
type LinkCmd struct {
	Cmd struct{}        `"link"` //nolint
	Tx  StationSelector `@@`     //nolint
	Rx  StationSelector `@@`     //nolint
}

// noinspection GoStructTag
type IntervalCmd struct {
	Cmd       struct{} `"interval"`                 //nolint
	Count     *int     `[ "repeat" @Int ]`          //nolint
	Frequency *Number  `( ("freq"|"f") @@ `         //nolint
	Snr       *Number  `| "snr" @@ `                //nolint
	Sigma     *Number  `| "sigma" @@ `              //nolint
	Weather   *Number  `| ("weather"|"w") @@ `      //nolint
	Rand      *Number  `| "random" "weather" @@ )*` //nolint
}

func (cmd *IntervalCmd) flags() channelFlags {
	return channelFlags{Frequency: cmd.Frequency, Snr: cmd.Snr, Sigma: cmd.Sigma, Weather: cmd.Weather}
}

// noinspection GoStructTag
type SeriesCmd struct {
	Cmd    struct{} `"series"`      //nolint
	NoDiag *string  `[ @"nodiag" ]` //nolint
	Csv    *CsvFlag `[ @@ ]`        //nolint
}

// noinspection GoStructTag
type ResetCmd struct {
	Cmd struct{} `"reset"`    //nolint
	All *string  `[ @"all" ]` //nolint
}

// noinspection GoStructTag
type ReportCmd struct {
	Cmd struct{} `"report"` //nolint
}

// noinspection GoStructTag
type SaveCmd struct {
	Cmd         struct{} `"save"`        //nolint
	Db          *string  `( @"db"`       //nolint
	Description string   `  [ @String ]` //nolint
	Path        string   `| @String )`   //nolint
}

// noinspection GoStructTag
type LoadCmd struct {
	Cmd   struct{} `"load"`         //nolint
	RunId *string  `( "db" @String` //nolint
	Path  string   `| @String )`    //nolint
}

// noinspection GoStructTag
type RunsCmd struct {
	Cmd    struct{} `"runs"`            //nolint
	Delete *string  `[ "del" @String ]` //nolint
}

// noinspection GoStructTag
type DemoCmd struct {
	Cmd   struct{} `"demo"`           //nolint
	Count *int     `[ @Int ]`         //nolint
	Size  *Number  `( "size" @@ `     //nolint
	Seed  *int     `| "seed" @Int )*` //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                            //nolint
	Level string   `[@( "trace"|"debug"|"info"|"warn"|"error"|"T"|"D"|"I"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}
