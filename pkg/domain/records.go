package domain

import (
	"path"
	"strings"

	"github.com/aretw0/spiritual/pkg/schema"
)

// Catalog records. Every field is required, as catalog files are authored in full.
var (
	AbilityRecord = schema.MustDefine("Ability", []schema.Field{
		schema.Required("name", schema.String()),
		schema.Required("effects", schema.Seq(schema.String())),
	})

	PieceRecord = schema.MustDefine("Piece", []schema.Field{
		schema.Required("kind", schema.String()),
		schema.Required("abilities", schema.Seq(schema.Ref(AbilityRecord))),
	})

	MobRecord = schema.MustDefine("Mob", []schema.Field{
		schema.Required("name", schema.String()),
		schema.Required("pieces", schema.Seq(schema.Ref(PieceRecord))),
		schema.Required("abilities", schema.Seq(schema.String())),
		schema.Required("drops", schema.Seq(schema.String())),
	})

	RecipeRecord = schema.MustDefine("Recipe", []schema.Field{
		schema.Required("name", schema.String()),
		schema.Required("ingredients", schema.Map(schema.String(), schema.Int())),
		schema.Required("result", schema.String()),
	})
)

// ProfileRecord is a player's saved progress. Only the player name is required.
var ProfileRecord = schema.MustDefine("Profile", []schema.Field{
	schema.Required("player_name", schema.String()),
	schema.Optional("achievements", schema.Map(schema.String(), schema.Bool()), schema.NewMapping()),
	schema.Optional("skills", schema.Map(schema.String(), schema.Float()), schema.NewMapping()),
	schema.Optional("items", schema.Seq(schema.Any()), []any{}),
	schema.Optional("last_update", schema.Int(), 0),
})

// Tilemap records. Boolmap grids are row-major (grid[y][x]); the resolved
// tilemap is column-major (tilemap[x][y]).
var (
	TilemapDataRecord = schema.MustDefine("TilemapData", []schema.Field{
		schema.Required("boolmaps", schema.Map(schema.String(), schema.Seq(schema.Seq(schema.Int())))),
		schema.Required("sources", schema.Map(schema.String(), schema.String())),
	})

	TilemapRecord = schema.MustDefine("Tilemap", []schema.Field{
		schema.Required("tilemap", schema.Seq(schema.Seq(schema.String()))),
		schema.Required("sources", schema.Map(schema.String(), schema.String())),
	})
)

var records = mustRegistry(
	AbilityRecord, PieceRecord, MobRecord, RecipeRecord,
	ProfileRecord, TilemapDataRecord, TilemapRecord,
)

func mustRegistry(rs ...*schema.Record) *schema.Registry {
	reg, err := schema.NewRegistry(rs...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Records returns the registry of every domain record, keyed by record name.
func Records() *schema.Registry { return records }

// Kind is a catalog section. Entry IDs are "<kind>/<name>".
type Kind string

const (
	KindAbility Kind = "abilities"
	KindPiece   Kind = "pieces"
	KindMob     Kind = "mobs"
	KindRecipe  Kind = "recipes"
	KindTilemap Kind = "tilemaps"
)

// Kinds lists the catalog sections in load order: referenced kinds first.
func Kinds() []Kind {
	return []Kind{KindAbility, KindPiece, KindMob, KindRecipe, KindTilemap}
}

// Record returns the record that entries of this kind must satisfy.
// Tilemaps are authored as TilemapData.
func (k Kind) Record() (*schema.Record, bool) {
	switch k {
	case KindAbility:
		return AbilityRecord, true
	case KindPiece:
		return PieceRecord, true
	case KindMob:
		return MobRecord, true
	case KindRecipe:
		return RecipeRecord, true
	case KindTilemap:
		return TilemapDataRecord, true
	}
	return nil, false
}

// EntryID joins a kind and a name into a catalog entry ID.
func EntryID(kind Kind, name string) string {
	return string(kind) + "/" + name
}

// ParseEntryID splits "mobs/slime" into its kind and name. A leading "./"
// and a document extension (.json, .yaml, .yml, .md) are ignored.
func ParseEntryID(id string) (Kind, string, bool) {
	id = path.Clean(strings.ReplaceAll(id, "\\", "/"))
	switch ext := path.Ext(id); ext {
	case ".json", ".yaml", ".yml", ".md":
		id = strings.TrimSuffix(id, ext)
	}
	dir, name := path.Split(id)
	dir = strings.Trim(dir, "/")
	if dir == "" || name == "" || strings.Contains(dir, "/") {
		return "", "", false
	}
	kind := Kind(dir)
	if _, ok := kind.Record(); !ok {
		return "", "", false
	}
	return kind, name, true
}

// EntryName returns the catalog name of an entry: its "name" field, or
// "kind" for pieces. Tilemaps are only named by their entry ID.
func EntryName(inst *schema.Instance) string {
	if _, ok := inst.Record().Field("name"); ok {
		return inst.Text("name")
	}
	if inst.Record() == PieceRecord {
		return inst.Text("kind")
	}
	return ""
}
