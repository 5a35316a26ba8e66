package auth

import (
	"context"
	"learning-lab/domain/chat"
	"learning-lab/errors"
	pb "learning-lab/proto/learning"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UsernameKey is the metadata key carrying the chat identity.
const UsernameKey = "username"

// Methods that require a claimed identity.
var identifiedMethods = map[string]struct{}{
	pb.Learning_Chat_FullMethodName: {},
}

type contextKey string

const IdentityKey contextKey = "identity"

// IdentityStreamInterceptor resolves the chat identity once per connection.
// The stream is rejected before reaching the handler when the identity is
// missing or invalid; otherwise it is injected into the stream context.
func IdentityStreamInterceptor(srv any, ss grpc.ServerStream,
	info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	// 1. Only chat streams carry an identity
	if !requiresIdentity(info.FullMethod) {
		return handler(srv, ss)
	}

	// 2. Read the claimed username from the incoming metadata
	identity, err := IdentityFromMetadata(ss.Context())
	if err != nil {
		return errors.MapToGRPCError(err)
	}

	// 3. Continue with an enriched context
	return handler(srv, &identifiedStream{
		ServerStream: ss,
		ctx:          context.WithValue(ss.Context(), IdentityKey, identity),
	})
}

// IdentityFromMetadata reads and validates the username metadata.
func IdentityFromMetadata(ctx context.Context) (chat.Identity, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.ErrMissingIdentity
	}
	values := md.Get(UsernameKey)
	if len(values) == 0 {
		return "", errors.ErrMissingIdentity
	}
	return ParseIdentity(values[0])
}

// IdentityFromContext returns the identity injected by IdentityStreamInterceptor.
func IdentityFromContext(ctx context.Context) (chat.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(chat.Identity)
	return identity, ok
}

func requiresIdentity(method string) bool {
	_, ok := identifiedMethods[method]
	return ok
}

type identifiedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *identifiedStream) Context() context.Context {
	return s.ctx
}
