package ports

import "context"

// TokenStore persists one bearer token per browser id.
// A missing token is reported as ok == false with a nil error.
type TokenStore interface {
	Get(ctx context.Context, browserID string) (token string, ok bool, err error)
	Set(ctx context.Context, browserID, token string) error
	Clear(ctx context.Context, browserID string) error
	// Ping checks that the underlying storage is reachable.
	Ping(ctx context.Context) error
}
