// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/cell.go
// Summary: Cell representation and the dense/extended entry codec.
// Usage: Consumed by Line and the grid facade when cells are stored.

package grid

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Attribute is a bitset of text attributes. The dense cell entry holds
// only the low 8 bits; AttrStrikethrough and anything above it force
// the extended representation.
type Attribute uint16

const (
	AttrBright Attribute = 1 << iota
	AttrDim
	AttrUnderscore
	AttrBlink
	AttrReverse
	AttrHidden
	AttrItalics
	// AttrCharset selects the ACS line-drawing set. It survives the
	// SGR zero reset on the output path.
	AttrCharset
	AttrStrikethrough
)

// CellFlags is a bitset of per-cell flags.
type CellFlags uint8

const (
	// FlagFg256 and FlagBg256 mark the dense colour bytes as
	// 256-palette indices rather than basic ANSI values.
	FlagFg256 CellFlags = 1 << iota
	FlagBg256
	// FlagPadding marks the right half of a width-2 glyph. Padding
	// cells are readable but carry no text of their own.
	FlagPadding
	// FlagExtended marks an entry whose cell lives in the line's
	// side table.
	FlagExtended
)

// CellData holds one UTF-8 cluster and its display width in columns.
// Padding cells have empty text and width zero so that width sums over
// a line count each glyph exactly once.
type CellData struct {
	Text  string
	Width int
}

// Cell is one styled character at one screen position.
type Cell struct {
	Flags CellFlags
	Attr  Attribute
	Fg    Colour
	Bg    Colour
	Data  CellData
}

// DefaultCell is the blank cell reported for unwritten positions.
var DefaultCell = Cell{
	Fg:   ColourDefault,
	Bg:   ColourDefault,
	Data: CellData{Text: " ", Width: 1},
}

// cellEntry is the dense in-line form of a cell: a fixed record that
// either carries a single ASCII byte with 8-bit colour indices, or an
// offset into the line's extended side table.
type cellEntry struct {
	flags  CellFlags
	attr   uint8
	fg     uint8
	bg     uint8
	ch     byte
	offset int
}

var defaultEntry = cellEntry{fg: 8, bg: 8, ch: ' '}

// storeCell packs gc into the dense entry, with ch as the cell text.
func storeCell(e *cellEntry, gc *Cell, ch byte) {
	e.flags = gc.Flags

	e.fg = uint8(gc.Fg)
	if gc.Fg&Colour256 != 0 {
		e.flags |= FlagFg256
	}

	e.bg = uint8(gc.Bg)
	if gc.Bg&Colour256 != 0 {
		e.flags |= FlagBg256
	}

	e.attr = uint8(gc.Attr)
	e.ch = ch
	e.offset = 0
}

// needExtended reports whether gc cannot be stored in the dense form.
func needExtended(e *cellEntry, gc *Cell) bool {
	if e.flags&FlagExtended != 0 {
		return true
	}
	if gc.Attr > 0xff {
		return true
	}
	if len(gc.Data.Text) != 1 || gc.Data.Width != 1 {
		return true
	}
	if gc.Fg&ColourRGB != 0 || gc.Bg&ColourRGB != 0 {
		return true
	}
	return false
}

// CellsEqual reports whether two cells are identical.
func CellsEqual(a, b *Cell) bool {
	if a.Fg != b.Fg || a.Bg != b.Bg {
		return false
	}
	if a.Attr != b.Attr || a.Flags != b.Flags {
		return false
	}
	return a.Data == b.Data
}

// CellFromString builds a cell from the first grapheme cluster of s,
// with the display width the cluster occupies on screen. An empty
// string yields the default cell.
func CellFromString(s string) Cell {
	c := DefaultCell
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	if cluster == "" {
		return c
	}
	w := runewidth.StringWidth(cluster)
	if w < 1 {
		w = 1
	} else if w > 2 {
		w = 2
	}
	c.Data = CellData{Text: cluster, Width: w}
	return c
}
