package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/orgnest/orgnest/pkg/constants"
)

var (
	ErrNoLogger = errors.New("logger not found")
	ErrNoUser   = errors.New("user not found in context")
)

// UseLogger returns the request-scoped logger. Panics when absent since the
// logging middleware is mandatory on every route.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic(ErrNoLogger)
	}
	return logger.(*logrus.Entry)
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseUserID returns the acting user id resolved by the auth middleware.
func UseUserID(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(constants.UserKey).(int64)
	if !ok {
		return 0, ErrNoUser
	}
	return id, nil
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, constants.UserKey, id)
}

func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}
