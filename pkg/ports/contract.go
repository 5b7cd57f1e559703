package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProfileStoreContract runs a suite of tests to verify that a ProfileStore implementation
// adheres to the defined interface contract.
func RunProfileStoreContract(t *testing.T, store ProfileStore) {
	ctx := context.Background()
	player := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		profile, err := domain.NewProfile(player)
		require.NoError(t, err)
		profile.SetAchievement("first_steps", true)
		profile.SetSkill("archery", 1.5)
		require.NoError(t, profile.AddItem(map[string]any{"name": "potion", "count": 3}))
		profile.Touch(time.Unix(1700000000, 0))

		err = store.Save(ctx, profile)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, player)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, profile.Equal(loaded), "loaded profile differs: %v != %v", loaded, profile)
		assert.Equal(t, int64(1700000000), loaded.LastUpdate().Unix())
	})

	t.Run("Saved Profile Is Isolated", func(t *testing.T) {
		profile, err := domain.NewProfile(player)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, profile))

		profile.SetAchievement("after_save", true)

		loaded, err := store.Load(ctx, player)
		require.NoError(t, err)
		assert.False(t, loaded.HasAchievement("after_save"), "mutating after Save must not change the stored profile")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+player)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		profile, err := domain.NewProfile(player)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, profile))

		err = store.Delete(ctx, player)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, player)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound, "Load after Delete should return ErrProfileNotFound")

		assert.NoError(t, store.Delete(ctx, player), "Delete of a missing profile is not an error")
	})

	t.Run("List", func(t *testing.T) {
		p1 := player + "-1"
		p2 := player + "-2"
		for _, name := range []string{p2, p1} {
			profile, err := domain.NewProfile(name)
			require.NoError(t, err)
			require.NoError(t, store.Save(ctx, profile))
		}

		defer func() {
			_ = store.Delete(ctx, p1)
			_ = store.Delete(ctx, p2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, p1)
		assert.Contains(t, names, p2)
		assert.IsIncreasing(t, names)
	})
}
