package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/spiritual/internal/adapters/file"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
	contract "github.com/aretw0/spiritual/pkg/ports/tests"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.CatalogSource = (*file.Source)(nil)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestSource_Contract(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "abilities/fire.json", `{"name": "fire", "effects": ["burn"]}`)
	writeFile(t, root, "recipes/potion.yaml", "name: potion\ningredients:\n  herb: 2\nresult: potion\n")
	writeFile(t, root, "tilemaps/spawn.yml", "boolmaps:\n  grass: [[1]]\nsources: {}\n")
	writeFile(t, root, "abilities/README.md", "# not an entry")
	writeFile(t, root, "notes/todo.json", `{}`)

	expected := map[string]any{
		"abilities/fire": wire.MapOf("name", "fire", "effects", []any{"burn"}),
		"recipes/potion": wire.MapOf(
			"name", "potion",
			"ingredients", wire.MapOf("herb", int64(2)),
			"result", "potion",
		),
		"tilemaps/spawn": wire.MapOf(
			"boolmaps", wire.MapOf("grass", []any{[]any{int64(1)}}),
			"sources", wire.NewMap(),
		),
	}
	contract.CatalogSourceContractTest(t, file.NewSource(root), expected)
}

func TestSource_PreservesKeyOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tilemaps/lake.yaml", "boolmaps:\n  water: [[1]]\n  grass: [[1]]\nsources: {}\n")

	v, err := file.NewSource(root).GetEntry(context.Background(), "tilemaps/lake")
	require.NoError(t, err)
	boolmaps, _ := v.(*wire.Map).Get("boolmaps")
	assert.Equal(t, []string{"water", "grass"}, wire.Keys(boolmaps.(*wire.Map)))
}

func TestSource_Collision(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mobs/slime.json", `{}`)
	writeFile(t, root, "mobs/slime.yaml", "{}")

	_, err := file.NewSource(root).ListEntries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestSource_DecodeError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mobs/slime.json", `{"name": `)

	_, err := file.NewSource(root).GetEntry(context.Background(), "mobs/slime")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEntryNotFound)
	assert.Contains(t, err.Error(), "mobs/slime")
}

func TestSource_UnknownID(t *testing.T) {
	_, err := file.NewSource(t.TempDir()).GetEntry(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
