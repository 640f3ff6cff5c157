// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/line.go
// Summary: One row of cells: dense entries plus the extended side table.

package grid

import "strings"

// LineFlags is a bitset of per-line flags.
type LineFlags uint8

const (
	// LineWrapped marks a line that continues onto the next one.
	LineWrapped LineFlags = 1 << iota
	// LineExtended marks a line with at least one cell in the side
	// table.
	LineExtended
	// lineDead is a scratch sentinel used while a block is being
	// rewritten; dead lines are skipped and later discarded.
	lineDead
)

// Line is one row of the grid. The dense entries in cells cover
// columns [0, cellsize); cellused tracks the rightmost written column.
// Entries flagged extended index into the extended side table.
type Line struct {
	cells    []cellEntry
	extended []Cell
	cellused int
	flags    LineFlags
}

// CellSize returns the number of allocated entries.
func (l *Line) CellSize() int { return len(l.cells) }

// CellUsed returns one past the rightmost written column.
func (l *Line) CellUsed() int { return l.cellused }

// Wrapped reports whether the line continues onto the next one.
func (l *Line) Wrapped() bool { return l.flags&LineWrapped != 0 }

// SetWrapped marks or clears the continuation flag. The parser sets it
// when output wraps at the right edge.
func (l *Line) SetWrapped(wrapped bool) {
	if wrapped {
		l.flags |= LineWrapped
	} else {
		l.flags &^= LineWrapped
	}
}

// ExtendedCount returns the number of side-table slots, including
// slots no longer referenced by any entry.
func (l *Line) ExtendedCount() int { return len(l.extended) }

// free releases the line's buffers.
func (l *Line) free() {
	l.cells = nil
	l.extended = nil
}

// extendedCell promotes the entry to the extended form and stores gc
// in its side-table slot.
func (l *Line) extendedCell(e *cellEntry, gc *Cell) *Cell {
	l.flags |= LineExtended

	if e.flags&FlagExtended == 0 {
		l.extended = append(l.extended, Cell{})
		e.offset = len(l.extended) - 1
		e.flags = gc.Flags | FlagExtended
	}
	if e.offset >= len(l.extended) {
		panic("grid: extended offset out of range")
	}

	p := &l.extended[e.offset]
	*p = *gc
	return p
}

// compact rewrites the side table to hold only slots still referenced
// by an entry, releasing it entirely when none are.
func (l *Line) compact() {
	if len(l.extended) == 0 {
		return
	}

	n := 0
	for px := range l.cells {
		if l.cells[px].flags&FlagExtended != 0 {
			n++
		}
	}
	if n == 0 {
		l.extended = nil
		return
	}

	packed := make([]Cell, 0, n)
	for px := range l.cells {
		e := &l.cells[px]
		if e.flags&FlagExtended != 0 {
			packed = append(packed, l.extended[e.offset])
			e.offset = len(packed) - 1
		}
	}
	l.extended = packed
}

// clearCell overwrites the entry at px with the default, carrying bg.
func (l *Line) clearCell(px int, bg Colour) {
	e := &l.cells[px]
	*e = defaultEntry
	if bg&ColourRGB != 0 {
		gc := l.extendedCell(e, &DefaultCell)
		gc.Bg = bg
	} else {
		if bg&Colour256 != 0 {
			e.flags |= FlagBg256
		}
		e.bg = uint8(bg)
	}
}

// cellAt reconstructs the cell at px. The caller ensures px is within
// cellsize.
func (l *Line) cellAt(px int) Cell {
	e := &l.cells[px]

	if e.flags&FlagExtended != 0 {
		// An offset past the side table means the line was
		// corrupted; report the default rather than crash.
		if e.offset >= len(l.extended) {
			return DefaultCell
		}
		return l.extended[e.offset]
	}

	var gc Cell
	gc.Flags = e.flags &^ (FlagFg256 | FlagBg256)
	gc.Attr = Attribute(e.attr)
	gc.Fg = Colour(e.fg)
	if e.flags&FlagFg256 != 0 {
		gc.Fg |= Colour256
	}
	gc.Bg = Colour(e.bg)
	if e.flags&FlagBg256 != 0 {
		gc.Bg |= Colour256
	}
	gc.Data = CellData{Text: string(rune(e.ch)), Width: 1}
	return gc
}

// getCell returns the cell at px, or the default past cellsize.
func (l *Line) getCell(px int) Cell {
	if px >= len(l.cells) {
		return DefaultCell
	}
	return l.cellAt(px)
}

// String returns the line's text with padding cells elided. Used for
// diagnostics and tests.
func (l *Line) String() string {
	var b strings.Builder
	for px := 0; px < l.cellused; px++ {
		gc := l.getCell(px)
		if gc.Flags&FlagPadding != 0 {
			continue
		}
		b.WriteString(gc.Data.Text)
	}
	return b.String()
}
