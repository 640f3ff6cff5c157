// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/history.go
// Summary: Scrollback: pushing rows into history and trimming it.

package grid

// ScrollHistory scrolls the entire visible region up by one row,
// moving its top row into history. Only a new bottom line is
// allocated; the history boundary does the rest. The newly historical
// row has its side table compacted, since history rows are no longer
// rewritten in place.
func (g *Grid) ScrollHistory(bg Colour) {
	if !g.history {
		return
	}

	g.CollectHistory()

	yy := g.hsize + g.sy
	g.reallocLines(yy + 1)
	g.emptyLine(yy, bg)

	g.hscrolled++
	if l := g.getLine(g.hsize); l != nil {
		l.compact()
	}
	g.hsize++
}

// ScrollHistoryRegion scrolls the region [upper, lower] up by one row,
// pushing the region's top row into history. upper and lower are
// absolute rows inside the visible region.
//
//	          a    b    c
//	 1   [1] [1]  [1]  [1]
//	 2 u [2] [2]  [2]  [2]
//	 3   [3] [3]  [_]* [4]*
//	 4 l [4] [4]  [4]  [5]*
//	 5   [5] [5]  [5]  [_]
//	 6   [6] [6]  [6]  [6]
//	 7   [x] [_]* [3]  [3]
//	 8   [y] [x]* [x]  [x]
//	 9   [z] [y]* [y]  [y]
//	10       [z]* [z]  [z]
func (g *Grid) ScrollHistoryRegion(upper, lower int, bg Colour) {
	if !g.history {
		return
	}

	g.CollectHistory()

	// Create a space for a new line.
	yy := g.hsize + g.sy
	g.reallocLines(yy + 1)

	// Move the entire screen down to free a space for this line. [a]
	g.moveLinesRaw(g.hsize+1, g.hsize, g.sy)

	// Adjust the region for the shift.
	upper++
	lower++

	// Move the region's top line into history. [b]
	g.moveLinesRaw(g.hsize, upper, 1)

	// Then move the region up and clear the bottom line. [c]
	g.moveLinesRaw(upper, upper+1, lower-upper)
	g.emptyLine(lower, bg)

	g.hscrolled++
	g.hsize++
}

// CollectHistory trims the oldest tenth of the history once the limit
// is reached, always removing at least one row.
func (g *Grid) CollectHistory() {
	if g.hsize == 0 || g.hsize < g.hlimit {
		return
	}

	ny := g.hlimit / 10
	if ny < 1 {
		ny = 1
	}
	if ny > g.hsize {
		ny = g.hsize
	}

	g.trimHead(ny)

	g.hsize -= ny
	debugLog.Printf("CollectHistory: new hsize %d", g.hsize)
	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}
}

// ClearHistory drops every history row, leaving the visible region.
func (g *Grid) ClearHistory() {
	g.trimHead(g.hsize)
	g.hscrolled = 0
	g.hsize = 0
}
