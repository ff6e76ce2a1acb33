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

// Package rpc serves connectivity snapshots over gRPC to rendering and export collaborators. Messages are
// well-known protobuf Structs, so clients need no generated code.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "emd.SnapshotService"

	buildGraphMethod  = "/" + ServiceName + "/BuildGraph"
	buildMatrixMethod = "/" + ServiceName + "/BuildMatrix"
	aggregateMethod   = "/" + ServiceName + "/Aggregate"
)

// SnapshotServiceServer is the server API of the snapshot service.
type SnapshotServiceServer interface {
	BuildGraph(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BuildMatrix(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Aggregate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var SnapshotServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SnapshotServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "BuildGraph",
			Handler:    buildGraphHandler,
		},
		{
			MethodName: "BuildMatrix",
			Handler:    buildMatrixHandler,
		},
		{
			MethodName: "Aggregate",
			Handler:    aggregateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "emd/snapshot_service",
}

func RegisterSnapshotServiceServer(s grpc.ServiceRegistrar, srv SnapshotServiceServer) {
	s.RegisterService(&SnapshotServiceDesc, srv)
}

type unaryMethod func(SnapshotServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SnapshotServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SnapshotServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	buildGraphHandler  = unaryHandler(buildGraphMethod, SnapshotServiceServer.BuildGraph)
	buildMatrixHandler = unaryHandler(buildMatrixMethod, SnapshotServiceServer.BuildMatrix)
	aggregateHandler   = unaryHandler(aggregateMethod, SnapshotServiceServer.Aggregate)
)

// SnapshotServiceClient is the client API of the snapshot service.
type SnapshotServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSnapshotServiceClient(cc grpc.ClientConnInterface) *SnapshotServiceClient {
	return &SnapshotServiceClient{cc: cc}
}

func (c *SnapshotServiceClient) BuildGraph(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, buildGraphMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SnapshotServiceClient) BuildMatrix(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, buildMatrixMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SnapshotServiceClient) Aggregate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, aggregateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
