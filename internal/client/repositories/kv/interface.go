package kv

import "context"

// Repository is a string key/value store persisted on the client. It plays
// the role of the browser's localStorage: the session token and the cached
// username live here.
type Repository interface {
	// Get returns the value stored under key; ok is false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set inserts or overwrites key.
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// List returns every stored pair.
	List(ctx context.Context) (map[string]string, error)
}
