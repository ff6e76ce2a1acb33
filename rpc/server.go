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
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/openthread/ot-emd/connectivity"
	"github.com/openthread/ot-emd/logger"
	"github.com/openthread/ot-emd/timeseries"
	. "github.com/openthread/ot-emd/types"
)

type snapshotService struct {
	builder *connectivity.Builder
}

// Server is the gRPC server of the snapshot service. Requests carry their own stations and channel, so
// the server holds no simulation state.
type Server struct {
	server  *grpc.Server
	address string
}

// NewServer creates a server for builder. Interceptors, e.g. of the metrics collector, are given as
// server options.
func NewServer(builder *connectivity.Builder, address string, opts ...grpc.ServerOption) *Server {
	opts = append([]grpc.ServerOption{grpc.ReadBufferSize(1024 * 8), grpc.WriteBufferSize(1024 * 1024 * 1)}, opts...)
	gs := &Server{
		server:  grpc.NewServer(opts...),
		address: address,
	}
	RegisterSnapshotServiceServer(gs.server, &snapshotService{builder: builder})
	return gs
}

// Run listens on the server address and serves until Stop is called.
func (gs *Server) Run() error {
	lis, err := net.Listen("tcp", gs.address)
	if err != nil {
		return err
	}
	return gs.Serve(lis)
}

func (gs *Server) Serve(lis net.Listener) error {
	logger.Infof("gRPC snapshot server serving on %s ...", lis.Addr())
	return gs.server.Serve(lis)
}

func (gs *Server) Stop() {
	gs.server.GracefulStop()
}

func (ss *snapshotService) BuildGraph(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := &BuildRequest{}
	if err := DecodeStruct(in, req); err != nil {
		return nil, toStatus(err)
	}
	stations, ch, err := req.decode()
	if err != nil {
		return nil, toStatus(err)
	}
	g, err := ss.builder.BuildGraph(stations, ch)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(newGraphResponse(g))
}

func (ss *snapshotService) BuildMatrix(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := &BuildRequest{}
	if err := DecodeStruct(in, req); err != nil {
		return nil, toStatus(err)
	}
	mode := connectivity.ModeMatrixBinary
	if len(req.Mode) > 0 {
		var err error
		mode, err = connectivity.ParseMode(req.Mode)
		if err != nil || mode == connectivity.ModeGraph {
			return nil, status.Errorf(codes.InvalidArgument, "invalid matrix mode: %s", req.Mode)
		}
	}
	stations, ch, err := req.decode()
	if err != nil {
		return nil, toStatus(err)
	}
	m, err := ss.builder.BuildMatrix(stations, ch, mode == connectivity.ModeMatrixBinary)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(&MatrixResponse{Mode: mode.String(), Matrix: m})
}

func (ss *snapshotService) Aggregate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := &AggregateRequest{}
	if err := DecodeStruct(in, req); err != nil {
		return nil, toStatus(err)
	}
	m, err := timeseries.AggregateWithOptions(req.Snapshots, req.MaxIntervals,
		timeseries.Options{ExcludeDiagonal: req.ExcludeDiagonal})
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(&MatrixResponse{Matrix: m})
}

func encodeResponse(v interface{}) (*structpb.Struct, error) {
	out, err := EncodeStruct(v)
	if err != nil {
		logger.Errorf("encoding response failed: %v", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps validation and domain errors to InvalidArgument, others to Internal.
func toStatus(err error) error {
	if IsValidationError(err) || IsDomainError(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
