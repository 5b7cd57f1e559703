package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/spiritual/internal/adapters/redis"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ProfileStore = (*redis.Store)(nil)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunProfileStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_KeysAndPrefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	profile, err := domain.NewProfile("Aria")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, profile))

	raw, err := mr.Get("test:Aria")
	require.NoError(t, err)
	assert.JSONEq(t, `{"player_name":"Aria","achievements":{},"skills":{},"items":[],"last_update":0}`, raw)

	members, err := mr.ZMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aria"}, members)
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	profile, err := domain.NewProfile("Aria")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, profile))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"Aria"))

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx, "Aria")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRedisStore_LoadInvalid(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"Aria", `{"player_name": false}`))
	_, err := store.Load(context.Background(), "Aria")
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"Zed", `{`))
	_, err = store.Load(context.Background(), "Zed")
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "Aria", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:Aria"), "lock key should be set")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:Aria"), "lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "Aria", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "Aria", 5*time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	unlock, err = locker.Lock(ctx, "Aria", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock(ctx))
}
