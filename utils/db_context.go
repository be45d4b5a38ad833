package utils

import (
	"context"
	"time"
)

// DefaultQueryTimeout bounds ordinary lookups and inserts.
const DefaultQueryTimeout = 30 * time.Second

// SlowQueryTimeout is for bulk catalog imports and PDF assembly, which touch
// many rows in one transaction.
const SlowQueryTimeout = 60 * time.Second

// GetQueryContext returns a context with the given timeout for database work.
func GetQueryContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

// GetDefaultQueryContext returns a context with the default timeout.
func GetDefaultQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, DefaultQueryTimeout)
}

// GetSlowQueryContext returns a context with the slow-operation timeout.
func GetSlowQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, SlowQueryTimeout)
}
