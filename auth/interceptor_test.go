package auth_test

import (
	"context"
	"learning-lab/auth"
	"learning-lab/domain/chat"
	pb "learning-lab/proto/learning"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// fakeStream only carries a context.
type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f fakeStream) Context() context.Context { return f.ctx }

func TestIdentityStreamInterceptor(t *testing.T) {
	chatInfo := &grpc.StreamServerInfo{FullMethod: pb.Learning_Chat_FullMethodName}

	t.Run("should let non chat streams through without username", func(t *testing.T) {
		req := require.New(t)
		called := false
		info := &grpc.StreamServerInfo{FullMethod: pb.Learning_ComputeAverage_FullMethodName}

		err := auth.IdentityStreamInterceptor(nil, fakeStream{ctx: context.Background()}, info,
			func(any, grpc.ServerStream) error {
				called = true
				return nil
			})

		req.NoError(err)
		req.True(called)
	})

	t.Run("should reject chat when metadata is missing", func(t *testing.T) {
		req := require.New(t)

		err := auth.IdentityStreamInterceptor(nil, fakeStream{ctx: context.Background()}, chatInfo,
			func(any, grpc.ServerStream) error {
				req.Fail("handler must not run")
				return nil
			})

		req.Equal(codes.InvalidArgument, status.Code(err))
	})

	t.Run("should reject chat with a blank username", func(t *testing.T) {
		req := require.New(t)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("username", "   "))

		err := auth.IdentityStreamInterceptor(nil, fakeStream{ctx: ctx}, chatInfo,
			func(any, grpc.ServerStream) error { return nil })

		req.Equal(codes.InvalidArgument, status.Code(err))
	})

	t.Run("should inject the identity when username is valid", func(t *testing.T) {
		req := require.New(t)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("username", "alice"))
		var got chat.Identity

		err := auth.IdentityStreamInterceptor(nil, fakeStream{ctx: ctx}, chatInfo,
			func(_ any, ss grpc.ServerStream) error {
				var ok bool
				got, ok = auth.IdentityFromContext(ss.Context())
				req.True(ok)
				return nil
			})

		req.NoError(err)
		req.Equal(chat.Identity("alice"), got)
	})
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    chat.Identity
		wantErr bool
	}{
		{"plain", "alice", "alice", false},
		{"trimmed", "  bob ", "bob", false},
		{"unicode", "Zoë", "Zoë", false},
		{"empty", "", "", true},
		{"too long", strings.Repeat("a", 65), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ParseIdentity(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
