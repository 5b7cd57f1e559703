package domain

import (
	"testing"

	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(rows ...[]any) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func row(cells ...int64) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func spawnData(t *testing.T) any {
	t.Helper()
	return wire.MapOf(
		"boolmaps", wire.MapOf(
			"water", grid(
				row(0, 0, 0, 1),
				row(0, 0, 0, 1),
				row(0, 0, 0, 0),
			),
			"grass", grid(
				row(1, 1, 0, 1),
				row(0, 1, 1, 1),
				row(0, 0, 0, 0),
			),
		),
		"sources", wire.MapOf("grass", "assets/grass.png", "water", "assets/water.png"),
	)
}

func TestFromData(t *testing.T) {
	data, err := TilemapDataRecord.Load(spawnData(t))
	require.NoError(t, err)

	tm, err := FromData(data)
	require.NoError(t, err)

	w, h := tm.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)

	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "grass"},
		{1, 0, "grass"},
		{2, 0, EmptyTile},
		{3, 0, "water"}, // water precedes grass in boolmap order
		{0, 1, EmptyTile},
		{2, 1, "grass"},
		{3, 1, "water"},
		{0, 2, EmptyTile},
		{-1, 0, EmptyTile},
		{4, 0, EmptyTile},
		{0, 3, EmptyTile},
		{0, -1, EmptyTile},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tm.At(tt.x, tt.y), "At(%d, %d)", tt.x, tt.y)
	}

	src, ok := tm.Source("grass")
	assert.True(t, ok)
	assert.Equal(t, "assets/grass.png", src)
	assert.ElementsMatch(t, []string{"grass", "water", EmptyTile}, tm.Kinds())
}

func TestFromData_TilemapIsColumnMajor(t *testing.T) {
	data, err := TilemapDataRecord.Load(spawnData(t))
	require.NoError(t, err)
	tm, err := FromData(data)
	require.NoError(t, err)

	dumped := tm.Instance().Dump()
	columns := dumped.Value("tilemap").([]any)
	require.Len(t, columns, 4)
	assert.Equal(t, []any{"grass", EmptyTile, EmptyTile}, columns[0])
	assert.Equal(t, []any{"water", "water", EmptyTile}, columns[3])

	again, err := LoadTilemap(dumped)
	require.NoError(t, err)
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			assert.Equal(t, tm.At(x, y), again.At(x, y))
		}
	}
}

func TestFromData_RejectsBadGrids(t *testing.T) {
	tests := []struct {
		name     string
		boolmaps *wire.Map
	}{
		{"no boolmaps", wire.NewMap()},
		{"empty grid", wire.MapOf("grass", grid())},
		{"ragged rows", wire.MapOf("grass", grid(row(1, 1), row(1)))},
		{"mismatched grids", wire.MapOf(
			"grass", grid(row(1, 1), row(1, 1)),
			"water", grid(row(1, 1, 1), row(1, 1, 1)),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := TilemapDataRecord.Load(wire.MapOf("boolmaps", tt.boolmaps, "sources", wire.NewMap()))
			require.NoError(t, err)
			_, err = FromData(data)
			assert.ErrorIs(t, err, ErrInvalidTilemap)
		})
	}

	_, err := FromData(ProfileRecord.MustNew("Aria"))
	assert.ErrorIs(t, err, ErrInvalidTilemap)
}

func TestCollides(t *testing.T) {
	assert.True(t, Collides(EmptyTile))
	assert.False(t, Collides("grass"))
}

func TestFromData_ConstructedFromGoValues(t *testing.T) {
	data, err := TilemapDataRecord.New(
		schema.MappingOf("grass", [][]int{{1, 0}, {0, 1}}),
		schema.MappingOf("grass", "grass.png"),
	)
	require.NoError(t, err)

	tm, err := FromData(data)
	require.NoError(t, err)
	assert.Equal(t, "grass", tm.At(0, 0))
	assert.Equal(t, EmptyTile, tm.At(1, 0))
	assert.Equal(t, "grass", tm.At(1, 1))
}
