package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/store"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store.RunStoreContract(t, store.NewRedisFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := store.NewRedisFromClient(client, store.WithTTL(1*time.Second))
	ctx := context.Background()

	rec := &store.Record{Name: "expiring", SavedAt: time.Now()}
	require.NoError(t, s.Save(ctx, "wf-ttl", rec))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "wf-ttl")

	// Fast forward miniredis so the key itself expires.
	mr.FastForward(2 * time.Second)

	_, err = s.Load(ctx, "wf-ttl")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Index pruning keys off time.Now, so wait past the TTL before the
	// lazy cleanup can see the entry as expired.
	time.Sleep(1200 * time.Millisecond)

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := store.NewRedisFromClient(client, store.WithPrefix("custom:wf:"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "abc", &store.Record{Name: "abc"}))
	assert.True(t, mr.Exists("custom:wf:abc"))
}
