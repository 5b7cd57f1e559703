/*
Package ports defines the driven ports (interfaces) of Spiritual.

These interfaces decouple the game data models from external implementations,
so profiles and catalogs can live on the filesystem, in Redis, in a Loam
repository or in memory.

# Key Interfaces

  - ProfileStore: Persists and lists player profiles.
  - CatalogSource: Supplies raw catalog entries (abilities, pieces, mobs, recipes, tilemaps).
  - ProfileLocker: Serializes concurrent updates of one profile.
*/
package ports
