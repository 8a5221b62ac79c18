package cache

import (
	"context"
	"time"
)

const (
	AdviceListKey = "advice:all"
)

const (
	AdviceTTL = 10 * time.Minute
)

// Invalidate drops key; a missing client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateAdvice forgets the cached advice list.
func InvalidateAdvice(ctx context.Context) {
	Invalidate(ctx, AdviceListKey)
}
