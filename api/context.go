package api

import (
	"context"
)

type keyType string

const (
	userIDKey    keyType = "userID"
	requestIDKey keyType = "requestID"
)

// ctxWithUserID adds the authenticated subject to the context
func ctxWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func ctxWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ctxGetUserID returns "" for anonymous requests
func ctxGetUserID(ctx context.Context) string {
	return ctxGetStringValue(ctx, userIDKey)
}

func ctxGetRequestID(ctx context.Context) string {
	return ctxGetStringValue(ctx, requestIDKey)
}

func ctxGetStringValue(ctx context.Context, key keyType) string {
	value, _ := ctx.Value(key).(string)
	return value
}
