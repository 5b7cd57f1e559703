package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env isolates a CLI run: no config file, no profile key, temp data and catalog dirs.
type env struct {
	dataDir    string
	catalogDir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("SPIRITUAL_PROFILE_KEY", "")

	e := &env{dataDir: t.TempDir(), catalogDir: t.TempDir()}
	e.write(t, "abilities/ooze.yaml", "name: ooze\neffects: [slow]\n")
	e.write(t, "pieces/body.yaml", "kind: body\nabilities:\n  - name: ooze\n    effects: [slow]\n")
	e.write(t, "mobs/slime.json", `{"name": "slime", "pieces": [], "abilities": ["ooze"], "drops": ["gel"]}`)
	e.write(t, "recipes/potion.yaml", "name: potion\ningredients: {gel: 2}\nresult: potion\n")
	e.write(t, "tilemaps/spawn.yaml", "boolmaps:\n  grass: [[1, 0], [1, 1]]\nsources:\n  grass: grass.png\n")
	return e
}

func (e *env) write(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(e.catalogDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", e.dataDir, "--catalog-dir", e.catalogDir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "spiritual version "+spiritual.Version+"\n", out)
}

func TestRecords(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "records")
	require.NoError(t, err)
	assert.Contains(t, out, "Ability\n")
	assert.Contains(t, out, "Profile\n")

	out, err = e.run(t, "records", "Profile")
	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "player_name")
	assert.Contains(t, out, "(required)")

	_, err = e.run(t, "records", "Dragon")
	assert.ErrorIs(t, err, spiritual.ErrUnknownRecord)
}

func TestValidate(t *testing.T) {
	e := newEnv(t)
	good := e.write(t, "in/good.yaml", "name: fire\neffects: [burn]\n")
	bad := e.write(t, "in/bad.json", `{"name": 3}`)

	out, err := e.run(t, "validate", "Ability", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": valid ✅")

	out, err = e.run(t, "validate", "Ability", good, bad)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, bad+": invalid ❌")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "effects")

	ints := e.write(t, "in/ints.json", `[1, 2, 3]`)
	_, err = e.run(t, "validate", "--type", "[int]", ints)
	assert.NoError(t, err)
	_, err = e.run(t, "validate", "-t", "[string]", ints)
	assert.ErrorIs(t, err, errInvalid)
}

func TestProfileLifecycle(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "profile", "list")
	require.NoError(t, err)
	assert.Equal(t, "No profiles found.\n", out)

	out, err = e.run(t, "profile", "new", "Aria")
	require.NoError(t, err)
	assert.Equal(t, "Created profile 'Aria'\n", out)

	_, err = e.run(t, "profile", "new", "Aria")
	assert.ErrorIs(t, err, domain.ErrProfileExists)

	_, err = e.run(t, "profile", "achieve", "Aria", "first-blood")
	require.NoError(t, err)
	_, err = e.run(t, "profile", "skill", "Aria", "mining", "3")
	require.NoError(t, err)
	_, err = e.run(t, "profile", "give", "Aria", `{"name": "potion"}`)
	require.NoError(t, err)

	out, err = e.run(t, "profile", "show", "Aria")
	require.NoError(t, err)
	assert.Contains(t, out, `"player_name": "Aria"`)
	assert.Contains(t, out, `"first-blood": true`)
	assert.Contains(t, out, `"mining": 3.0`)
	assert.Contains(t, out, `"potion"`)

	out, err = e.run(t, "profile", "show", "Aria", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "player_name: Aria")

	out, err = e.run(t, "profile", "ls")
	require.NoError(t, err)
	assert.Equal(t, "- Aria\n", out)

	_, err = e.run(t, "profile", "rm", "Aria")
	require.NoError(t, err)
	_, err = e.run(t, "profile", "show", "Aria")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfile_Errors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "profile", "new", "../escape")
	assert.ErrorIs(t, err, domain.ErrInvalidPlayerName)

	_, err = e.run(t, "profile", "achieve", "Nobody", "x")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = e.run(t, "profile", "skill", "Nobody", "mining", "lots")
	assert.Error(t, err)

	_, err = e.run(t, "profile", "show", "Nobody", "--format", "toml")
	assert.Error(t, err)
}

func TestCatalogCheck(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "catalog", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "abilities  1")
	assert.Contains(t, out, "tilemaps   1")
	assert.Contains(t, out, "Catalog is valid! ✅")

	e.write(t, "recipes/broken.json", `{"name": "broken", "ingredients": {"gel": "two"}, "result": "x"}`)
	e.write(t, "mobs/ghost.yaml", "name: ghost\npieces: []\nabilities: [teleport]\ndrops: []\n")

	out, err = e.run(t, "catalog", "check")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "Catalog is invalid ❌ (2 problems)")
	assert.Contains(t, out, "recipes/broken")
	assert.Contains(t, out, "mobs/ghost")
}

func TestCatalogShow(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "catalog", "show", "abilities/ooze", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "abilities/ooze")
	assert.Contains(t, out, "slow")

	_, err = e.run(t, "catalog", "show", "abilities/fire")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	_, err = e.run(t, "catalog", "show", "dragons/red")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestTilemapRender(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "tilemap", "render", "spawn")
	require.NoError(t, err)
	assert.Equal(t, "g.\ngg\n. empty [solid]\ng grass (grass.png)\n", out)

	out, err = e.run(t, "tilemap", "render", "spawn", "--glyph", "grass=#")
	require.NoError(t, err)
	assert.Equal(t, "#.\n##\n. empty [solid]\n# grass (grass.png)\n", out)

	file := e.write(t, "in/lake.json", `{"boolmaps": {"water": [[1, 1]]}, "sources": {}}`)
	out, err = e.run(t, "tilemap", "render", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "ww\nw water\n", out)

	_, err = e.run(t, "tilemap", "render")
	assert.Error(t, err)
	_, err = e.run(t, "tilemap", "render", "spawn", "--glyph", "grass=##")
	assert.Error(t, err)
	_, err = e.run(t, "tilemap", "render", "dungeon")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestConfigFlags(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "profile", "list", "--store", "floppy")
	assert.Error(t, err)

	out, err := e.run(t, "profile", "list", "--store", "memory")
	require.NoError(t, err)
	assert.Equal(t, "No profiles found.\n", out)
}
