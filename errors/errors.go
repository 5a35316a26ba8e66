package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrSessionPanic    = fmt.Errorf("chat session panic")
	ErrMissingIdentity = fmt.Errorf("username metadata is missing")
	ErrInvalidIdentity = fmt.Errorf("username is invalid")
	ErrIdentityInUse   = fmt.Errorf("username is already in use")
	ErrEmptyAverage    = fmt.Errorf("cannot compute the average of an empty stream")
	ErrInvalidNumber   = fmt.Errorf("number must be a positive integer")
	ErrSinkClosed      = fmt.Errorf("sink is closed")
	ErrSinkFull        = fmt.Errorf("sink buffer is full")
)

// MapToGRPCError translates domain errors into gRPC status errors.
// Errors already carrying a status are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, ErrMissingIdentity), stderrors.Is(err, ErrInvalidIdentity):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, ErrEmptyAverage), stderrors.Is(err, ErrInvalidNumber):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, ErrIdentityInUse):
		return status.Error(codes.AlreadyExists, err.Error())
	case stderrors.Is(err, ErrSinkClosed), stderrors.Is(err, ErrSinkFull):
		return status.Error(codes.Unavailable, err.Error())
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, err.Error())
}
