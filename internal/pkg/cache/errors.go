package cache

import "github.com/pkg/errors"

// ErrNotFound is returned when a key misses the cache.
var ErrNotFound = errors.New("cache: not found")
