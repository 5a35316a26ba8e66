package learning

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Learning_PingPong_FullMethodName                 = "/learning.Learning/PingPong"
	Learning_ComputeAverage_FullMethodName           = "/learning.Learning/ComputeAverage"
	Learning_PrimeNumberDecomposition_FullMethodName = "/learning.Learning/PrimeNumberDecomposition"
	Learning_Chat_FullMethodName                     = "/learning.Learning/Chat"
)

// LearningClient is the client API for Learning service.
type LearningClient interface {
	PingPong(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PongResponse, error)
	ComputeAverage(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[ComputeAverageRequest, ComputeAverageResponse], error)
	PrimeNumberDecomposition(ctx context.Context, in *PrimeNumberDecompositionRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[PrimeNumberDecompositionResponse], error)
	Chat(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ChatRequest, ChatResponse], error)
}

type learningClient struct {
	cc grpc.ClientConnInterface
}

func NewLearningClient(cc grpc.ClientConnInterface) LearningClient {
	return &learningClient{cc}
}

func (c *learningClient) PingPong(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PongResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(PongResponse)
	err := c.cc.Invoke(ctx, Learning_PingPong_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *learningClient) ComputeAverage(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[ComputeAverageRequest, ComputeAverageResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &Learning_ServiceDesc.Streams[0], Learning_ComputeAverage_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[ComputeAverageRequest, ComputeAverageResponse]{ClientStream: stream}
	return x, nil
}

func (c *learningClient) PrimeNumberDecomposition(ctx context.Context, in *PrimeNumberDecompositionRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[PrimeNumberDecompositionResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &Learning_ServiceDesc.Streams[1], Learning_PrimeNumberDecomposition_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[PrimeNumberDecompositionRequest, PrimeNumberDecompositionResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *learningClient) Chat(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ChatRequest, ChatResponse], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &Learning_ServiceDesc.Streams[2], Learning_Chat_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[ChatRequest, ChatResponse]{ClientStream: stream}
	return x, nil
}

// LearningServer is the server API for Learning service.
// All implementations must embed UnimplementedLearningServer
// for forward compatibility.
type LearningServer interface {
	PingPong(context.Context, *PingRequest) (*PongResponse, error)
	ComputeAverage(grpc.ClientStreamingServer[ComputeAverageRequest, ComputeAverageResponse]) error
	PrimeNumberDecomposition(*PrimeNumberDecompositionRequest, grpc.ServerStreamingServer[PrimeNumberDecompositionResponse]) error
	Chat(grpc.BidiStreamingServer[ChatRequest, ChatResponse]) error
	mustEmbedUnimplementedLearningServer()
}

// UnimplementedLearningServer must be embedded to have forward compatible implementations.
type UnimplementedLearningServer struct{}

func (UnimplementedLearningServer) PingPong(context.Context, *PingRequest) (*PongResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PingPong not implemented")
}
func (UnimplementedLearningServer) ComputeAverage(grpc.ClientStreamingServer[ComputeAverageRequest, ComputeAverageResponse]) error {
	return status.Errorf(codes.Unimplemented, "method ComputeAverage not implemented")
}
func (UnimplementedLearningServer) PrimeNumberDecomposition(*PrimeNumberDecompositionRequest, grpc.ServerStreamingServer[PrimeNumberDecompositionResponse]) error {
	return status.Errorf(codes.Unimplemented, "method PrimeNumberDecomposition not implemented")
}
func (UnimplementedLearningServer) Chat(grpc.BidiStreamingServer[ChatRequest, ChatResponse]) error {
	return status.Errorf(codes.Unimplemented, "method Chat not implemented")
}
func (UnimplementedLearningServer) mustEmbedUnimplementedLearningServer() {}

func RegisterLearningServer(s grpc.ServiceRegistrar, srv LearningServer) {
	s.RegisterService(&Learning_ServiceDesc, srv)
}

func _Learning_PingPong_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LearningServer).PingPong(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Learning_PingPong_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LearningServer).PingPong(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Learning_ComputeAverage_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(LearningServer).ComputeAverage(&grpc.GenericServerStream[ComputeAverageRequest, ComputeAverageResponse]{ServerStream: stream})
}

func _Learning_PrimeNumberDecomposition_Handler(srv any, stream grpc.ServerStream) error {
	m := new(PrimeNumberDecompositionRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(LearningServer).PrimeNumberDecomposition(m, &grpc.GenericServerStream[PrimeNumberDecompositionRequest, PrimeNumberDecompositionResponse]{ServerStream: stream})
}

func _Learning_Chat_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(LearningServer).Chat(&grpc.GenericServerStream[ChatRequest, ChatResponse]{ServerStream: stream})
}

// Learning_ServiceDesc is the grpc.ServiceDesc for Learning service.
var Learning_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "learning.Learning",
	HandlerType: (*LearningServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PingPong",
			Handler:    _Learning_PingPong_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ComputeAverage",
			Handler:       _Learning_ComputeAverage_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "PrimeNumberDecomposition",
			Handler:       _Learning_PrimeNumberDecomposition_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "Chat",
			Handler:       _Learning_Chat_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "learning.proto",
}
