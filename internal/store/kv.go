package store

import "context"

// KV is a durable string key-value store.
//
// Get reports ok=false for keys that were never set or have been removed.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// SetMany writes every entry in set and removes every key in remove as a
	// single atomic change.
	SetMany(ctx context.Context, set map[string]string, remove []string) error
}

var (
	_ KV = (*Store)(nil)
	_ KV = (*Memory)(nil)
)
