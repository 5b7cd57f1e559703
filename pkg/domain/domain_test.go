package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("Aria")
	require.NoError(t, err)

	data, err := wire.MarshalJSON(p.Dump())
	require.NoError(t, err)
	assert.Equal(t, `{"player_name":"Aria","achievements":{},"skills":{},"items":[],"last_update":0}`, string(data))
	assert.Equal(t, "Aria", p.PlayerName())
	assert.Equal(t, time.Unix(0, 0), p.LastUpdate())
}

func TestNewProfile_RejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "  ", ".", "..", "a/b", `a\b`} {
		_, err := NewProfile(name)
		assert.ErrorIs(t, err, ErrInvalidPlayerName, "name %q", name)
	}
}

func TestProfile_Progress(t *testing.T) {
	p, err := NewProfile("Aria")
	require.NoError(t, err)

	p.SetAchievement("first_steps", true)
	p.SetSkill("archery", 2.5)
	require.NoError(t, p.AddItem(map[string]any{"name": "potion", "count": 2}))
	require.NoError(t, p.AddItem("sword"))
	p.Touch(time.Unix(1700000000, 0))

	assert.True(t, p.HasAchievement("first_steps"))
	assert.False(t, p.HasAchievement("pacifist"))
	assert.Equal(t, 2.5, p.Skill("archery"))
	assert.Equal(t, 0.0, p.Skill("alchemy"))
	assert.Len(t, p.Items(), 2)
	assert.Equal(t, int64(1700000000), p.LastUpdate().Unix())

	loaded, err := LoadProfile(p.Dump())
	require.NoError(t, err)
	assert.True(t, p.Equal(loaded))

	// Fresh profiles never share their default collections.
	other, err := NewProfile("Bram")
	require.NoError(t, err)
	assert.False(t, other.HasAchievement("first_steps"))
	assert.Empty(t, other.Items())
}

func TestLoadProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"missing player name", wire.MapOf("last_update", int64(1))},
		{"skills not numbers", wire.MapOf("player_name", "Aria", "skills", wire.MapOf("archery", "high"))},
		{"not a mapping", []any{"Aria"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfile(tt.data)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestProfileFromInstance(t *testing.T) {
	inst := AbilityRecord.MustNew("fire", []any{"burn"})
	_, err := ProfileFromInstance(inst)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	p, err := ProfileFromInstance(ProfileRecord.MustNew("Aria"))
	require.NoError(t, err)
	assert.Equal(t, "Aria", p.PlayerName())
}

func TestCatalogRecords_Load(t *testing.T) {
	doc := `{
  "name": "slime",
  "pieces": [
    {"kind": "body", "abilities": [{"name": "ooze", "effects": ["slow"]}]}
  ],
  "abilities": ["ooze"],
  "drops": ["gel"]
}`
	mob, err := MobRecord.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	pieces := mob.List("pieces")
	require.Len(t, pieces, 1)
	piece := pieces[0].(*schema.Instance)
	assert.Equal(t, "body", piece.Text("kind"))
	ability := piece.List("abilities")[0].(*schema.Instance)
	assert.Equal(t, "ooze", ability.Text("name"))

	recipe, err := RecipeRecord.Load(wire.MapOf(
		"name", "potion",
		"ingredients", wire.MapOf("herb", int64(2), "water", int64(1)),
		"result", "potion",
	))
	require.NoError(t, err)
	v, _ := recipe.Mapping("ingredients").Get("herb")
	assert.Equal(t, int64(2), v)

	assert.False(t, RecipeRecord.IsValid(wire.MapOf("name", "x", "ingredients", wire.MapOf("herb", 1.5), "result", "y")))
}

func TestRecords(t *testing.T) {
	assert.Equal(t,
		[]string{"Ability", "Mob", "Piece", "Profile", "Recipe", "Tilemap", "TilemapData"},
		Records().Names())

	typ, err := schema.ParseType("[Piece]", Records())
	require.NoError(t, err)
	assert.Equal(t, "[Piece]", typ.Name())
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		id       string
		wantKind Kind
		wantName string
		wantOK   bool
	}{
		{"mobs/slime", KindMob, "slime", true},
		{"mobs/slime.json", KindMob, "slime", true},
		{"./abilities/fire.yaml", KindAbility, "fire", true},
		{`tilemaps\spawn.json`, KindTilemap, "spawn", true},
		{"slime.json", "", "", false},
		{"weapons/sword.json", "", "", false},
		{"mobs/boss/slime.json", "", "", false},
	}
	for _, tt := range tests {
		kind, name, ok := ParseEntryID(tt.id)
		assert.Equal(t, tt.wantOK, ok, tt.id)
		assert.Equal(t, tt.wantKind, kind, tt.id)
		assert.Equal(t, tt.wantName, name, tt.id)
	}
	assert.Equal(t, "mobs/slime", EntryID(KindMob, "slime"))
}
