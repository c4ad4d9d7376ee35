package repository

import "context"

// CacheRepository memoizes decisions keyed by a normalized-input fingerprint.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
