/*
Package spiritual is a typed schema engine for game data.

Game data (player profiles, abilities, pieces, mobs, recipes and tilemaps)
is declared as records: named, ordered field lists whose types are checked
on construction, on load and on dump. Values travel as a small wire model
(nil, bool, int64, float64, string, []any and ordered *wire.Map) so the
same record reads and writes JSON and YAML without losing field order.

# Concept

The schema package holds the descriptors and the record machinery. The
domain package declares the game records on top of it and adds profile
helpers and tilemap resolution. Storage sits behind two ports:
ProfileStore for player progress and CatalogSource for authored content.
The Engine wires a store, a catalog source and optional logging, metrics
and encryption decorators, so the same game code runs against files,
Redis or memory.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/spiritual"
		"github.com/aretw0/spiritual/pkg/adapters/memory"
	)

	func main() {
		source, err := memory.NewSource(map[string]any{
			"mobs/slime": map[string]any{
				"name": "slime", "pieces": []any{}, "abilities": []any{}, "drops": []any{"gel"},
			},
		})
		if err != nil {
			log.Fatal(err)
		}
		eng, err := spiritual.New(spiritual.WithCatalogSource(source))
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if _, err := eng.Profiles().Create(ctx, "Aria"); err != nil {
			log.Fatal(err)
		}

		cat, err := eng.Catalog(ctx)
		if err != nil {
			// Every invalid entry is listed, not only the first.
			log.Fatal(err)
		}
		slime, err := cat.Mob("slime")
		if err != nil {
			log.Fatal(err)
		}
		log.Println("drops:", slime.List("drops"))
	}
*/
package spiritual
