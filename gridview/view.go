// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: gridview/view.go
// Summary: Draws grid content onto a tcell screen.
// Usage: The renderer-facing seam; the grid itself stays display
// agnostic.

package gridview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/da-x/tmux/grid"
)

// Colour converts a grid colour to the tcell equivalent.
func Colour(c grid.Colour) tcell.Color {
	switch {
	case c.IsRGB():
		r, g, b := c.SplitRGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	case c.Is256():
		return tcell.PaletteColor(int(c & 0xff))
	case c <= 7:
		return tcell.PaletteColor(int(c))
	case c >= 90 && c <= 97:
		return tcell.PaletteColor(int(c) - 90 + 8)
	case c >= 100 && c <= 107:
		return tcell.PaletteColor(int(c) - 100 + 8)
	}
	return tcell.ColorDefault
}

// Style converts a cell's colours and attributes to a tcell style.
// AttrCharset and AttrHidden have no tcell counterpart and are left to
// the caller.
func Style(gc *grid.Cell) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(Colour(gc.Fg)).
		Background(Colour(gc.Bg))

	if gc.Attr&grid.AttrBright != 0 {
		st = st.Bold(true)
	}
	if gc.Attr&grid.AttrDim != 0 {
		st = st.Dim(true)
	}
	if gc.Attr&grid.AttrItalics != 0 {
		st = st.Italic(true)
	}
	if gc.Attr&grid.AttrUnderscore != 0 {
		st = st.Underline(true)
	}
	if gc.Attr&grid.AttrBlink != 0 {
		st = st.Blink(true)
	}
	if gc.Attr&grid.AttrReverse != 0 {
		st = st.Reverse(true)
	}
	if gc.Attr&grid.AttrStrikethrough != 0 {
		st = st.StrikeThrough(true)
	}
	return st
}

// cluster splits a cell's text into the main rune and any combining
// runes, the form tcell's SetContent wants.
func cluster(text string) (rune, []rune) {
	rs := []rune(text)
	if len(rs) == 0 {
		return ' ', nil
	}
	return rs[0], rs[1:]
}

// Draw renders the visible region of g onto s, scrolled back by
// scrollback history rows. Wide glyphs are placed once at their left
// column; padding cells are skipped, tcell tracks glyph width itself.
func Draw(s tcell.Screen, g *grid.Grid, scrollback int) {
	if scrollback < 0 {
		scrollback = 0
	}
	if scrollback > g.HSize() {
		scrollback = g.HSize()
	}
	top := g.HSize() - scrollback

	for vy := 0; vy < g.Sy(); vy++ {
		for vx := 0; vx < g.Sx(); {
			gc := g.GetCell(vx, top+vy)
			if gc.Flags&grid.FlagPadding != 0 {
				vx++
				continue
			}

			mainc, combc := cluster(gc.Data.Text)
			s.SetContent(vx, vy, mainc, combc, Style(&gc))

			w := gc.Data.Width
			if w < 1 {
				w = 1
			}
			vx += w
		}
	}
}
