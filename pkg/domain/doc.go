/*
Package domain contains the game data models of Spiritual, declared as schema records.

Every model is a schema.Record, so the same declaration drives construction,
validation, loading from JSON/YAML and dumping back. This package is kept pure:
it does no I/O and has no knowledge of where profiles or catalogs are stored.

# Key Entities

  - Profile: A player's persistent progress (achievements, skills, items).
  - Ability, Piece, Mob, Recipe: Catalog entries describing the game world.
  - TilemapData: Authoring form of a map, one 0/1 grid per tile kind.
  - Tilemap: The resolved, column-major grid of tile kinds built from TilemapData.
*/
package domain
