package domain

import (
	"fmt"

	"github.com/aretw0/spiritual/pkg/schema"
)

// EmptyTile is the kind of a cell no boolmap claims, and of every cell
// outside the map.
const EmptyTile = "empty"

// CollisionTiles are the tile kinds an entity cannot move into.
var CollisionTiles = []string{EmptyTile}

// Collides reports whether a tile kind blocks movement.
func Collides(tile string) bool {
	for _, t := range CollisionTiles {
		if t == tile {
			return true
		}
	}
	return false
}

// Tilemap is a resolved grid of tile kinds, indexed as At(x, y).
type Tilemap struct {
	inst    *schema.Instance
	columns [][]string
}

// FromData resolves a TilemapData instance. Every boolmap must have the
// same rectangular dimensions. Cell (x, y) takes the first kind, in boolmap
// order, whose grid[y][x] is non-zero.
func FromData(data *schema.Instance) (*Tilemap, error) {
	if data == nil || data.Record() != TilemapDataRecord {
		return nil, fmt.Errorf("%w: expected a TilemapData instance", ErrInvalidTilemap)
	}
	boolmaps := data.Mapping("boolmaps")
	if boolmaps.Len() == 0 {
		return nil, fmt.Errorf("%w: no boolmaps", ErrInvalidTilemap)
	}

	type layer struct {
		kind string
		grid [][]int64
	}
	layers := make([]layer, 0, boolmaps.Len())
	width, height := -1, -1
	for pair := boolmaps.Oldest(); pair != nil; pair = pair.Next() {
		kind := pair.Key.(string)
		grid, w, err := intGrid(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: boolmap %q: %w", ErrInvalidTilemap, kind, err)
		}
		if width < 0 {
			width, height = w, len(grid)
		} else if w != width || len(grid) != height {
			return nil, fmt.Errorf("%w: boolmap %q is %dx%d, want %dx%d",
				ErrInvalidTilemap, kind, w, len(grid), width, height)
		}
		layers = append(layers, layer{kind: kind, grid: grid})
	}

	columns := make([][]string, width)
	for x := range columns {
		columns[x] = make([]string, height)
		for y := range columns[x] {
			columns[x][y] = EmptyTile
			for _, l := range layers {
				if l.grid[y][x] != 0 {
					columns[x][y] = l.kind
					break
				}
			}
		}
	}

	inst, err := TilemapRecord.New(columnsValue(columns), schema.Clone(data.Mapping("sources")))
	if err != nil {
		return nil, err
	}
	return &Tilemap{inst: inst, columns: columns}, nil
}

// LoadTilemapData loads a TilemapData wire value and resolves it.
func LoadTilemapData(v any) (*Tilemap, error) {
	data, err := TilemapDataRecord.Load(v)
	if err != nil {
		return nil, err
	}
	return FromData(data)
}

// LoadTilemap builds a tilemap from a dumped Tilemap record.
func LoadTilemap(v any) (*Tilemap, error) {
	inst, err := TilemapRecord.Load(v)
	if err != nil {
		return nil, err
	}
	rows := inst.List("tilemap")
	columns := make([][]string, len(rows))
	for x, col := range rows {
		cells := col.([]any)
		if x > 0 && len(cells) != len(columns[0]) {
			return nil, fmt.Errorf("%w: column %d has %d cells, want %d", ErrInvalidTilemap, x, len(cells), len(columns[0]))
		}
		columns[x] = make([]string, len(cells))
		for y, c := range cells {
			columns[x][y] = c.(string)
		}
	}
	return &Tilemap{inst: inst, columns: columns}, nil
}

// intGrid checks that a loaded [[int]] is non-empty and rectangular.
func intGrid(v any) ([][]int64, int, error) {
	rows, _ := v.([]any)
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("empty grid")
	}
	grid := make([][]int64, len(rows))
	width := -1
	for y, r := range rows {
		cells, _ := r.([]any)
		if width < 0 {
			width = len(cells)
		} else if len(cells) != width {
			return nil, 0, fmt.Errorf("row %d has %d cells, want %d", y, len(cells), width)
		}
		grid[y] = make([]int64, len(cells))
		for x, c := range cells {
			grid[y][x], _ = c.(int64)
		}
	}
	if width == 0 {
		return nil, 0, fmt.Errorf("empty rows")
	}
	return grid, width, nil
}

func columnsValue(columns [][]string) []any {
	out := make([]any, len(columns))
	for x, col := range columns {
		cells := make([]any, len(col))
		for y, c := range col {
			cells[y] = c
		}
		out[x] = cells
	}
	return out
}

// At returns the tile kind at column x, row y, or EmptyTile outside the map.
func (t *Tilemap) At(x, y int) string {
	if x < 0 || x >= len(t.columns) {
		return EmptyTile
	}
	if y < 0 || y >= len(t.columns[x]) {
		return EmptyTile
	}
	return t.columns[x][y]
}

// Size returns the width (columns) and height (rows) of the map.
func (t *Tilemap) Size() (width, height int) {
	if len(t.columns) == 0 {
		return 0, 0
	}
	return len(t.columns), len(t.columns[0])
}

// Source returns the image source of a tile kind.
func (t *Tilemap) Source(kind string) (string, bool) {
	v, ok := t.inst.Mapping("sources").Get(kind)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// Kinds returns the distinct tile kinds present, in column-major first-seen order.
func (t *Tilemap) Kinds() []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, col := range t.columns {
		for _, c := range col {
			if !seen[c] {
				seen[c] = true
				kinds = append(kinds, c)
			}
		}
	}
	return kinds
}

// Instance returns the Tilemap record instance.
func (t *Tilemap) Instance() *schema.Instance { return t.inst }
