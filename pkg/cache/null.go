package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every Get is a miss, so placements and
// artifacts are recomputed on each run. Reason, when set, says why caching
// is off (for example "--no-cache" or an unusable cache directory).
type NullCache struct {
	Reason string
}

// NewNullCache creates a null cache with no reason attached.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled creates a null cache recording why caching was turned off.
func Disabled(reason string) Cache {
	return &NullCache{Reason: reason}
}

// DisabledReason reports whether c never stores entries and, if so, why.
func DisabledReason(c Cache) (string, bool) {
	n, ok := c.(*NullCache)
	if !ok {
		return "", false
	}
	return n.Reason, true
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
