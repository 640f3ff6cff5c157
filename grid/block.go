// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/block.go
// Summary: Block storage: segmented line arrays and the row address space.
// Usage: The grid facade locates rows through blocks; reflow rewrites them.

package grid

// maxBlockLines bounds the number of lines per block. Blocks keep the
// row address space segmented so trimming at either end never touches
// the middle of a huge allocation.
const maxBlockLines = 1024

// block is one segment of consecutive lines. sx is the width the lines
// are laid out at; when needReflow is set, sx is the target width and
// the lines still have their old layout until the next read forces a
// rewrite.
type block struct {
	sx         int
	needReflow bool
	lines      []Line
}

// blockCache is a one-entry locate cache. Bulk operations address rows
// in monotone order; remembering the last block avoids rescanning the
// block list for every row.
type blockCache struct {
	offset int
	b      *block
}

// invariantChecks enables the block-size consistency check. Tests turn
// it on; it is too hot for production paths.
var invariantChecks = false

func (g *Grid) validate() {
	if !invariantChecks {
		return
	}
	total := 0
	for _, b := range g.blocks {
		total += len(b.lines)
	}
	if total != g.hallocated {
		panic("grid: block sizes disagree with hallocated")
	}
}

// locate finds the block owning absolute row py and the row's index
// within it. Scans from whichever end of the block list is closer;
// cache, when non-nil, short-circuits repeated hits on one block.
func (g *Grid) locate(py int, cache *blockCache) (*block, int) {
	if cache != nil && cache.b != nil {
		if cache.offset <= py && py < cache.offset+len(cache.b.lines) {
			return cache.b, py - cache.offset
		}
	}

	if py < g.hallocated/2 {
		offset := 0
		for _, b := range g.blocks {
			if offset <= py && py < offset+len(b.lines) {
				if cache != nil {
					cache.offset = offset
					cache.b = b
				}
				return b, py - offset
			}
			offset += len(b.lines)
		}
	} else {
		offset := g.hallocated
		for i := len(g.blocks) - 1; i >= 0; i-- {
			b := g.blocks[i]
			offset -= len(b.lines)
			if offset <= py && py < offset+len(b.lines) {
				if cache != nil {
					cache.offset = offset
					cache.b = b
				}
				return b, py - offset
			}
		}
	}

	return nil, 0
}

// reallocLines grows or shrinks the row address space to target lines.
// Growth extends the tail block up to maxBlockLines and then appends
// fresh blocks; shrinking trims from the tail. hsize and sy are the
// caller's to adjust.
func (g *Grid) reallocLines(target int) {
	g.validate()

	for target > g.hallocated {
		if len(g.blocks) == 0 {
			g.blocks = append(g.blocks, &block{sx: g.sx})
			continue
		}

		b := g.blocks[len(g.blocks)-1]
		if len(b.lines) >= maxBlockLines {
			g.blocks = append(g.blocks, &block{sx: g.sx})
			continue
		}

		newSize := len(b.lines) + target - g.hallocated
		if newSize > maxBlockLines {
			newSize = maxBlockLines
		}

		g.hallocated += newSize - len(b.lines)
		b.lines = append(b.lines, make([]Line, newSize-len(b.lines))...)
	}

	for target < g.hallocated {
		if len(g.blocks) == 0 {
			break
		}

		b := g.blocks[len(g.blocks)-1]

		toRemove := g.hallocated - target
		if toRemove >= len(b.lines) {
			g.blocks = g.blocks[:len(g.blocks)-1]
			g.hallocated -= len(b.lines)
			continue
		}

		newSize := len(b.lines) - toRemove
		for yy := newSize; yy < len(b.lines); yy++ {
			b.lines[yy].free()
		}
		b.lines = b.lines[:newSize]
		g.hallocated -= toRemove
	}

	g.validate()
}

// trimHead frees the first n rows of the address space. Whole blocks
// are dropped when they fit; a partial trim shifts the head block's
// remainder down. Partial trims are rare, history collection removes
// whole blocks almost always.
func (g *Grid) trimHead(n int) {
	for n > 0 {
		if len(g.blocks) == 0 {
			break
		}

		b := g.blocks[0]
		if len(b.lines) <= n {
			g.blocks = g.blocks[1:]
			g.hallocated -= len(b.lines)
			n -= len(b.lines)
			continue
		}

		for yy := 0; yy < n; yy++ {
			b.lines[yy].free()
		}
		remaining := make([]Line, len(b.lines)-n)
		copy(remaining, b.lines[n:])
		b.lines = remaining
		g.hallocated -= n
		break
	}

	g.validate()
}

// expandLine enlarges the line's entry array to hold at least sx
// cells. Short requests snap to quarter, half, then full block width
// so sparse lines stay small while filling lines amortize growth.
func (b *block) expandLine(py, sx int, bg Colour) {
	l := &b.lines[py]
	if sx <= len(l.cells) {
		return
	}

	if sx < b.sx/4 {
		sx = b.sx / 4
	} else if sx < b.sx/2 {
		sx = b.sx / 2
	} else if sx < b.sx {
		sx = b.sx
	}

	old := len(l.cells)
	cells := make([]cellEntry, sx)
	copy(cells, l.cells)
	l.cells = cells
	for xx := old; xx < sx; xx++ {
		l.clearCell(xx, bg)
	}
}

// emptyLine resets the line and applies a non-default background.
func (b *block) emptyLine(py int, bg Colour) {
	b.lines[py] = Line{}

	if bg != ColourDefault {
		b.expandLine(py, b.sx, bg)
	}
}

// setCell stores gc at the block-relative position, expanding the line
// and promoting to the extended form when required.
func (b *block) setCell(px, py int, gc *Cell) {
	if py >= len(b.lines) {
		debugLog.Printf("setCell: y out of range: %d", py)
		return
	}

	b.expandLine(py, px+1, ColourDefault)

	l := &b.lines[py]
	if px+1 > l.cellused {
		l.cellused = px + 1
	}

	e := &l.cells[px]
	if needExtended(e, gc) {
		l.extendedCell(e, gc)
	} else {
		storeCell(e, gc, gc.Data.Text[0])
	}
}

// moveCells shifts nx entries from px to dx within one line, then
// clears the vacated source range to bg.
func (b *block) moveCells(dx, px, py, nx int, bg Colour) {
	if nx == 0 || px == dx {
		return
	}
	if py >= len(b.lines) {
		debugLog.Printf("moveCells: y out of range: %d", py)
		return
	}

	b.expandLine(py, px+nx, ColourDefault)
	b.expandLine(py, dx+nx, ColourDefault)

	l := &b.lines[py]
	copy(l.cells[dx:dx+nx], l.cells[px:px+nx])
	if dx+nx > l.cellused {
		l.cellused = dx + nx
	}

	for xx := px; xx < px+nx; xx++ {
		if xx >= dx && xx < dx+nx {
			continue
		}
		l.clearCell(xx, bg)
	}
}
