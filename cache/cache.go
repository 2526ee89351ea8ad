package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoStore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/rs/zerolog/log"
)

// S is the process-wide in-memory store, replaced on every Init
var S store.StoreInterface

func Init() error {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}
	S = ristrettoStore.NewRistretto(client)
	return nil
}

// Load decodes the cached value under key into target. ok is false on any miss.
func Load[T any](ctx context.Context, key string, target *T) (ok bool) {
	if S == nil {
		return false
	}
	value, err := marshaler.New(gocache.New[any](S)).Get(ctx, key, target)
	if err != nil || value == nil {
		return false
	}
	return true
}

func Store(ctx context.Context, key string, value any, ttl time.Duration) {
	if S == nil {
		return
	}
	err := marshaler.New(gocache.New[any](S)).Set(ctx, key, value, store.WithExpiration(ttl), store.WithCost(1))
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cannot cache value")
	}
}

func Invalidate(ctx context.Context, key string) {
	if S == nil {
		return
	}
	_ = S.Delete(ctx, key)
}
