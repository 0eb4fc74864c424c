// Package metadata implements a small key/value store over the local
// database. It keeps the client's durable state: the persisted session
// token, the signed-in email, and the serialized settings.
package metadata

import "context"

// Repository is a byte-oriented key/value store.
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Well-known keys.
const (
	KeyRefreshToken = "refresh_token"
	KeyEmail        = "email"
	KeySettings     = "settings"
)
