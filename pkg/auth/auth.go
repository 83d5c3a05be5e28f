// Package auth carries the caller identity that the session gateway forwards
// in trusted request headers.
package auth

import (
	"context"

	"github.com/pkg/errors"
)

const (
	XUserIDHeader   = "X-User-Id"
	XUserRoleHeader = "X-User-Role"
)

type ctxKey int

const (
	userIDKey ctxKey = iota + 1
	userRoleKey
)

var ErrNoIdentity = errors.New("caller identity is missing")

func SetAuthContext(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}

func UserID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}

func Role(ctx context.Context) (string, error) {
	role, ok := ctx.Value(userRoleKey).(string)
	if !ok || role == "" {
		return "", ErrNoIdentity
	}
	return role, nil
}
