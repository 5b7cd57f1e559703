package main

import (
	"fmt"
	"os"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/internal/presentation/tui"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/spf13/cobra"
)

func newTilemapCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tilemap",
		Short: "Work with tilemaps",
	}
	cmd.AddCommand(newTilemapRenderCmd(c))
	return cmd
}

func newTilemapRenderCmd(c *cli) *cobra.Command {
	var (
		path   string
		glyphs map[string]string
	)
	cmd := &cobra.Command{
		Use:   "render [name]",
		Short: "Draw a tilemap from the catalog or from a TilemapData file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (path == "") == (len(args) == 0) {
				return fmt.Errorf("give either a tilemap name or --file")
			}

			var tm *domain.Tilemap
			var err error
			if path != "" {
				tm, err = tilemapFromFile(path)
			} else {
				err = c.withEngine(func(eng *spiritual.Engine) error {
					v, err := eng.Source().GetEntry(cmd.Context(), domain.EntryID(domain.KindTilemap, args[0]))
					if err != nil {
						return err
					}
					tm, err = domain.LoadTilemapData(v)
					return err
				})
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := tui.NewTilemapRenderer(out, colorProfile(out))
			for kind, g := range glyphs {
				runes := []rune(g)
				if len(runes) != 1 {
					return fmt.Errorf("glyph for %s must be one character, got %q", kind, g)
				}
				r.SetGlyph(kind, runes[0])
			}
			return r.Render(tm)
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "TilemapData file (JSON or YAML)")
	cmd.Flags().StringToStringVar(&glyphs, "glyph", nil, "Glyph per tile kind, e.g. water=~")
	return cmd
}

func tilemapFromFile(path string) (*domain.Tilemap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := wire.Decode(f, wire.FormatFor(path))
	if err != nil {
		return nil, err
	}
	return domain.LoadTilemapData(v)
}
