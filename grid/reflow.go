// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/reflow.go
// Summary: Rewraps grid content to a new width.
//
// Architecture:
//
//	Reflow works block by block. Each block is rewritten into a fresh
//	target block: lines already the right width move across, over-long
//	lines split, and wrapped lines join with their continuations.
//	Caller coordinates that point into a block being rewritten (the
//	cursor row, the scroll offset) are registered as fixups and
//	adjusted in place as splits and joins reshape the rows.
//
//	A resize only rewrites blocks near the visible region eagerly.
//	Blocks wholly in history are merely marked; the first read that
//	lands in one completes the rewrite. That keeps resizes of grids
//	with very large histories from stalling.

package grid

import "time"

// reflowDead turns a line into the dead sentinel. Dead lines have been
// consumed into the target block and are skipped for the rest of the
// pass.
func reflowDead(l *Line) {
	*l = Line{flags: lineDead}
}

// reflowAdd appends n zeroed lines and returns the index of the first.
func (b *block) reflowAdd(n int) int {
	b.lines = append(b.lines, make([]Line, n)...)
	return len(b.lines) - n
}

// reflowMove transfers a line into the target block unchanged.
func (target *block) reflowMove(from *Line) *Line {
	at := target.reflowAdd(1)
	target.lines[at] = *from
	reflowDead(from)
	return &target.lines[at]
}

// reflowJoin joins following lines of the paragraph onto the line at
// source row yy, which carries width columns so far. With already set,
// the target's last line is the partially filled output of a split and
// yy is only the position to consume continuations from.
func (target *block) reflowJoin(gb *block, sx, yy, width int, fixups []*int, already bool) {
	var to int
	var gl *Line
	if !already {
		to = len(target.lines)
		gl = target.reflowMove(&gb.lines[yy])
	} else {
		to = len(target.lines) - 1
		gl = &target.lines[to]
	}
	at := gl.cellused

	// Consume source rows until the paragraph ends or the target
	// line is full.
	lines := 0
	wrapped := true
	var from *Line
	want := 0
	for {
		// Nothing more to consume at the end of the block.
		if yy+1+lines == len(gb.lines) {
			break
		}
		line := yy + 1 + lines

		if gb.lines[line].flags&LineWrapped == 0 {
			wrapped = false
		}
		if gb.lines[line].cellused == 0 {
			if !wrapped {
				break
			}
			lines++
			continue
		}

		// Copy the first cell separately: "from" must stay set to
		// the last line touched even if it turns out to be full.
		gc := gb.lines[line].cellAt(0)
		if width+gc.Data.Width > sx {
			break
		}
		width += gc.Data.Width
		target.setCell(at, to, &gc)
		at++

		from = &gb.lines[line]
		for want = 1; want < from.cellused; want++ {
			gc := from.cellAt(want)
			if width+gc.Data.Width > sx {
				break
			}
			width += gc.Data.Width

			target.setCell(at, to, &gc)
			at++
		}
		lines++

		// Stop if the line was not wrapped, was only partially
		// consumed, or filled the target exactly.
		if !wrapped || want != from.cellused || width == sx {
			break
		}
	}
	if lines == 0 {
		return
	}

	// A partially consumed line keeps its remainder, shifted to
	// column zero. A fully consumed unwrapped line ends the
	// paragraph on the target line.
	left := 0
	if from != nil {
		left = from.cellused - want
	}
	if left != 0 {
		gb.moveCells(0, want, yy+lines, left, ColourDefault)
		from.cells = from.cells[:left]
		from.cellused = left
		lines--
	} else if !wrapped {
		gl.flags &^= LineWrapped
	}

	for i := yy + 1; i < yy+1+lines; i++ {
		reflowDead(&gb.lines[i])
	}

	for _, f := range fixups {
		if *f > to+lines {
			*f -= lines
		} else if *f > to {
			*f = to
		}
	}
}

// reflowSplit splits the over-long line at source row yy into as many
// target rows as its cells need at width sx. at is the column where
// the first target row is full.
func (target *block) reflowSplit(gb *block, sx, yy, at int, fixups []*int) {
	gl := &gb.lines[yy]
	used := gl.cellused
	flags := gl.flags

	// Count the rows needed; at least two, or this would be a move.
	var lines int
	if gl.flags&LineExtended == 0 {
		lines = 1 + (gl.cellused-1)/sx
	} else {
		lines = 2
		width := 0
		for i := at; i < used; i++ {
			gc := gl.cellAt(i)
			if width+gc.Data.Width > sx {
				lines++
				width = 0
			}
			width += gc.Data.Width
		}
	}

	first := target.reflowAdd(lines)
	line := first + 1

	// Place the tail cells, advancing to a fresh row whenever the
	// next cell would not fit. A width-2 cell never straddles rows.
	width := 0
	xx := 0
	for i := at; i < used; i++ {
		gc := gl.cellAt(i)
		if width+gc.Data.Width > sx {
			target.lines[line].flags |= LineWrapped

			line++
			width = 0
			xx = 0
		}
		width += gc.Data.Width
		target.setCell(xx, line, &gc)
		xx++
	}
	if flags&LineWrapped != 0 {
		target.lines[line].flags |= LineWrapped
	}

	// The head of the original line becomes the first output row.
	gl.cells = gl.cells[:at]
	gl.cellused = at
	gl.flags |= LineWrapped
	target.lines[first] = *gl
	reflowDead(gl)

	for _, f := range fixups {
		if yy <= *f {
			*f += lines - 1
		}
	}

	// If the original line wrapped and the last output row has room,
	// pull the continuation up into it.
	if width < sx && flags&LineWrapped != 0 {
		target.reflowJoin(gb, sx, yy, width, fixups, true)
	}
}

// reflow rewrites a whole block to width sx, returning the
// replacement. Registered fixups are translated from rows of gb to
// rows of the result.
func (gb *block) reflow(sx int, fixups []*int) *block {
	target := &block{sx: sx}

	for yy := 0; yy < len(gb.lines); yy++ {
		gl := &gb.lines[yy]
		if gl.flags&lineDead != 0 {
			continue
		}

		// Work out the line's width. first is the width of the
		// leading cell; at is the column where sx is exceeded.
		first, at, width := 0, 0, 0
		if gl.flags&LineExtended == 0 {
			first = 1
			width = gl.cellused
			if width > sx {
				at = sx
			} else {
				at = width
			}
		} else {
			for i := 0; i < gl.cellused; i++ {
				gc := gl.cellAt(i)
				if i == 0 {
					first = gc.Data.Width
				}
				if at == 0 && width+gc.Data.Width > sx {
					at = i
				}
				width += gc.Data.Width
			}
		}

		// Exactly right, or a leading glyph too wide to ever fit:
		// move across unchanged.
		if width == sx || first > sx {
			target.reflowMove(gl)
			continue
		}

		// Too long: split, whether or not it was wrapped.
		if width > sx {
			target.reflowSplit(gb, sx, yy, at, fixups)
			continue
		}

		// Wrapped: join as much of the continuation as fits.
		if gl.flags&LineWrapped != 0 {
			target.reflowJoin(gb, sx, yy, width, fixups, false)
		} else {
			target.reflowMove(gl)
		}
	}

	return target
}

// applyHsizeDiff folds a reflow's change in row count into the history
// size. When more rows vanished than history holds, the history
// empties and the residual is made up by growing the last block, so
// addressable rows still cover the visible region.
func (g *Grid) applyHsizeDiff(diff int) {
	if diff < 0 && -diff > g.hsize {
		residual := -diff - g.hsize
		g.hsize = 0
		if len(g.blocks) > 0 {
			g.blocks[len(g.blocks)-1].reflowAdd(residual)
			g.hallocated += residual
		}
	} else {
		g.hsize += diff
	}
}

// reflowComplete rewrites every block still marked from a lazy resize.
// Triggered by the first read that lands in such a block; the
// reflowing flag keeps the trigger from recursing.
func (g *Grid) reflowComplete() {
	g.reflowing = true

	hsizeDiff := 0
	for _, gb := range g.blocks {
		if !gb.needReflow {
			continue
		}

		nb := gb.reflow(gb.sx, nil)

		hsizeDiff += len(nb.lines) - len(gb.lines)
		g.hallocated += len(nb.lines) - len(gb.lines)
		gb.lines = nb.lines
		gb.needReflow = false
	}

	g.applyHsizeDiff(hsizeDiff)
	g.reflowing = false
}

// Reflow rewraps the grid to width sx, splitting over-long lines and
// joining wrapped paragraphs, and adjusts cursor in place so it lands
// on the row holding the same cell it did before. Blocks wholly inside
// history are marked and rewritten lazily on first access.
//
// The cursor column is folded into the new width when the resize left
// it out of range, matching where a dense split places the cell it
// pointed at.
func (g *Grid) Reflow(sx int, cursor *Cursor) {
	start := time.Now()

	total := g.hsize + g.sy

	// Track the cursor row as a distance from the bottom, which is
	// stable while earlier blocks change size.
	cy := g.sy - 1 - cursor.Y
	revHscrolled := total - g.hscrolled

	debugLog.Printf("Reflow: %d lines, new width %d, cy %d, hscrolled %d",
		total, sx, cy, g.hscrolled)

	g.reflowing = true

	offset := 0
	reflowOffset := 0
	hsizeDiff := 0
	cyFixed, hsFixed := false, false

	for i := len(g.blocks) - 1; i >= 0; i-- {
		gb := g.blocks[i]

		// Once a screenful has been rewritten, the rest is pure
		// history: mark it and let a later read pay for it.
		if reflowOffset > g.sy {
			gb.needReflow = true
			gb.sx = sx
			continue
		}

		bs := len(gb.lines)

		// Register fixups for coordinates inside this block, as
		// row offsets from the block top.
		var fixups []*int
		var hsDelta, cyDelta int
		hsReg, cyReg := false, false

		if !hsFixed && revHscrolled >= offset && revHscrolled < offset+bs {
			hsDelta = bs - 1 - (revHscrolled - offset)
			fixups = append(fixups, &hsDelta)
			hsReg = true
		}
		if !cyFixed && offset <= cy && cy < offset+bs {
			cyDelta = bs - 1 - (cy - offset)
			fixups = append(fixups, &cyDelta)
			cyReg = true
		}

		nb := gb.reflow(sx, fixups)

		// Translate the block-local deltas back to global rows.
		if hsReg {
			g.hscrolled = total - (reflowOffset + (len(nb.lines) - 1 - hsDelta))
			hsFixed = true
		}
		if cyReg {
			cy = reflowOffset + (len(nb.lines) - 1 - cyDelta)
			cyFixed = true
		}

		offset += bs
		reflowOffset += len(nb.lines)
		hsizeDiff += len(nb.lines) - bs
		g.hallocated += len(nb.lines) - bs
		gb.lines = nb.lines
		gb.sx = sx
		gb.needReflow = false
	}

	g.sx = sx
	// Rows added below the content to refill the visible region sit
	// under the cursor and add to its distance from the bottom.
	if hsizeDiff < 0 && -hsizeDiff > g.hsize {
		cy += -hsizeDiff - g.hsize
	}
	g.applyHsizeDiff(hsizeDiff)

	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}

	if cy >= g.sy {
		cursor.Y = 0
	} else {
		cursor.Y = g.sy - 1 - cy
	}
	if sx > 0 && cursor.X >= sx {
		cursor.X %= sx
	}

	g.reflowing = false

	debugLog.Printf("Reflow: now %d lines (in %v)", g.hsize+g.sy, time.Since(start))
}
