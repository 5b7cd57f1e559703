package tui

import (
	"fmt"
	"hash/fnv"
	"io"
	"sort"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/muesli/termenv"
)

var palette = []string{
	"#22c55e", "#3b82f6", "#eab308", "#ef4444",
	"#a855f7", "#14b8a6", "#f97316", "#ec4899",
}

// TilemapRenderer draws tilemaps as text grids, one glyph per cell.
type TilemapRenderer struct {
	w      io.Writer
	out    *termenv.Output
	glyphs map[string]rune
}

// NewTilemapRenderer renders to w with the given color profile.
// Pass termenv.Ascii for plain output.
func NewTilemapRenderer(w io.Writer, profile termenv.Profile) *TilemapRenderer {
	return &TilemapRenderer{
		w:      w,
		out:    termenv.NewOutput(w, termenv.WithProfile(profile)),
		glyphs: make(map[string]rune),
	}
}

// Glyph returns the rune drawn for a tile kind: '.' for empty, else the
// first letter of the kind. Assigned glyphs can be overridden with SetGlyph.
func (r *TilemapRenderer) Glyph(kind string) rune {
	if g, ok := r.glyphs[kind]; ok {
		return g
	}
	if kind == domain.EmptyTile || kind == "" {
		return '.'
	}
	return []rune(kind)[0]
}

func (r *TilemapRenderer) SetGlyph(kind string, g rune) {
	r.glyphs[kind] = g
}

func (r *TilemapRenderer) color(kind string) termenv.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(kind))
	return r.out.Color(palette[h.Sum32()%uint32(len(palette))])
}

// Render writes the map row by row, top to bottom, followed by a legend of
// the kinds in use.
func (r *TilemapRenderer) Render(tm *domain.Tilemap) error {
	width, height := tm.Size()
	used := make(map[string]bool)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			kind := tm.At(x, y)
			used[kind] = true
			cell := string(r.Glyph(kind))
			if kind != domain.EmptyTile {
				cell = r.out.String(cell).Foreground(r.color(kind)).String()
			}
			if _, err := io.WriteString(r.w, cell); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(r.w, "\n"); err != nil {
			return err
		}
	}

	kinds := make([]string, 0, len(used))
	for k := range used {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		line := fmt.Sprintf("%c %s", r.Glyph(k), k)
		if src, ok := tm.Source(k); ok {
			line += " (" + src + ")"
		}
		if domain.Collides(k) {
			line += " [solid]"
		}
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}
