package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/persistence/middleware"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretProfile(t *testing.T, name string) *domain.Profile {
	t.Helper()
	p, err := domain.NewProfile(name)
	require.NoError(t, err)
	p.SetAchievement("dragon_slayer", true)
	p.SetSkill("alchemy", 3.5)
	p.Touch(time.Unix(1700000000, 0))
	return p
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunProfileStoreContract(t, mw(NewMockStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := NewMockStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()
	original := secretProfile(t, "Aria")

	require.NoError(t, secure.Save(ctx, original))

	stored, err := underlying.Load(ctx, "Aria")
	require.NoError(t, err)
	assert.False(t, stored.HasAchievement("dragon_slayer"), "envelope must hide profile content")
	assert.Len(t, stored.Items(), 1)
	assert.Equal(t, original.LastUpdate(), stored.LastUpdate(), "last_update stays visible")

	loaded, err := secure.Load(ctx, "Aria")
	require.NoError(t, err)
	assert.True(t, original.Equal(loaded))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, secureOld.Save(ctx, secretProfile(t, "Aria")))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, "Aria")
	require.NoError(t, err, "fallback key must decrypt")
	assert.Equal(t, 3.5, loaded.Skill("alchemy"))

	loaded.SetSkill("alchemy", 4)
	require.NoError(t, secureNew.Save(ctx, loaded))

	_, err = secureOld.Load(ctx, "Aria")
	assert.Error(t, err, "old key alone must not decrypt data written with the new key")
}

func TestEncryptionMiddleware_RejectsSwappedEnvelope(t *testing.T) {
	underlying := NewMockStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, secretProfile(t, "Aria")))
	envelope, err := underlying.Load(ctx, "Aria")
	require.NoError(t, err)

	// Re-home Aria's envelope under Zed.
	swapped, err := domain.NewProfile("Zed")
	require.NoError(t, err)
	require.NoError(t, swapped.AddItem(envelope.Items()[0]))
	require.NoError(t, underlying.Save(ctx, swapped))

	_, err = secure.Load(ctx, "Zed")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainProfile(t *testing.T) {
	underlying := NewMockStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	require.NoError(t, underlying.Save(context.Background(), secretProfile(t, "Aria")))
	_, err := secure.Load(context.Background(), "Aria")
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}
