// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/grid.go
// Summary: Grid storage for one virtual screen: cells, rows and history.
//
// Architecture:
//
//	A grid is the basic data structure representing what is shown on
//	screen plus its scrollback. Rows are addressed absolutely: history
//	occupies [0, hsize) and the viewable region [hsize, hsize+sy).
//	Rows live in blocks of up to maxBlockLines lines; each line packs
//	cells into dense entries with an extended side table for the
//	minority that need more than ASCII plus palette colour.
//
//	The parser writes through the facade operations here; the renderer
//	reads cells back out, directly or through the ANSI serialization
//	in ansi.go. Resizes go through Reflow.

package grid

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Grid holds the cells of one virtual screen and its history. A grid
// is owned by a single logical screen: operations never run
// concurrently on the same grid and no method carries a lock.
type Grid struct {
	sx int
	sy int

	blocks []*block

	// hallocated is the total number of addressable rows, the sum of
	// all block sizes. Outside reflow it equals hsize + sy.
	hallocated int
	// hsize is the number of history rows.
	hsize int
	// hlimit caps hsize; collection trims the head past it.
	hlimit int
	// hscrolled counts rows scrolled out beyond the limit, so a
	// renderer can keep its scrollbar position stable.
	hscrolled int

	history   bool
	reflowing bool
}

// Cursor is a column/row position handed to Reflow for fixup.
type Cursor struct {
	X int
	Y int
}

// New creates a grid of sx by sy cells with room for hlimit history
// rows.
func New(sx, sy, hlimit int) *Grid {
	g := &Grid{
		sx:      sx,
		hlimit:  hlimit,
		history: true,
	}
	g.reallocLines(sy)
	g.sy = sy
	return g
}

// NewAlternate creates a grid that never accumulates history, for use
// as an alternate screen.
func NewAlternate(sx, sy int) *Grid {
	g := &Grid{sx: sx}
	g.reallocLines(sy)
	g.sy = sy
	return g
}

// Destroy drops the grid's storage. Calling it is optional; it exists
// so owners that pool grids can release buffers eagerly.
func (g *Grid) Destroy() {
	g.blocks = nil
	g.hallocated = 0
	g.hsize = 0
	g.hscrolled = 0
}

// Sx returns the width in columns.
func (g *Grid) Sx() int { return g.sx }

// Sy returns the height of the viewable region in rows.
func (g *Grid) Sy() int { return g.sy }

// HSize returns the number of history rows.
func (g *Grid) HSize() int { return g.hsize }

// HLimit returns the history limit.
func (g *Grid) HLimit() int { return g.hlimit }

// HScrolled returns the count of rows scrolled out past the limit.
func (g *Grid) HScrolled() int { return g.hscrolled }

// History reports whether the grid accumulates scrollback.
func (g *Grid) History() bool { return g.history }

// checkY bounds-checks an absolute row. Misuse is logged and absorbed;
// the grid is never corrupted by an out-of-range request.
func (g *Grid) checkY(from string, py int) bool {
	if py < 0 || py >= g.hsize+g.sy {
		debugLog.Printf("%s: y out of range: %d", from, py)
		return false
	}
	return true
}

// getLine returns the line at absolute row py, first completing any
// pending lazy reflow of the owning block.
func (g *Grid) getLine(py int) *Line {
	if !g.reflowing {
		if b, _ := g.locate(py, nil); b != nil && b.needReflow {
			g.reflowComplete()
		}
	}

	b, by := g.locate(py, nil)
	if b == nil {
		return nil
	}
	return &b.lines[by]
}

// emptyLine resets the line at absolute row py.
func (g *Grid) emptyLine(py int, bg Colour) {
	b, by := g.locate(py, nil)
	if b == nil {
		return
	}
	b.emptyLine(by, bg)
}

// PeekLine exposes the line at absolute row py for inspection.
func (g *Grid) PeekLine(py int) *Line {
	if !g.checkY("PeekLine", py) {
		return nil
	}
	return g.getLine(py)
}

// GetCell returns the cell at the absolute position, or the default
// cell when the position is out of range or unwritten.
func (g *Grid) GetCell(px, py int) Cell {
	if !g.checkY("GetCell", py) {
		return DefaultCell
	}
	l := g.getLine(py)
	if l == nil {
		return DefaultCell
	}
	return l.getCell(px)
}

// SetCell stores gc at the absolute position. A width-2 glyph whose
// padding would land past the right edge is clipped, per the caller
// contract; otherwise its padding cell is written at px+1.
func (g *Grid) SetCell(px, py int, gc *Cell) {
	if !g.checkY("SetCell", py) {
		return
	}
	if gc.Data.Width >= 2 && px+gc.Data.Width > g.sx {
		debugLog.Printf("SetCell: wide cell clipped at %d,%d", px, py)
		return
	}

	b, by := g.locate(py, nil)
	if b == nil {
		return
	}
	b.setCell(px, by, gc)

	if gc.Data.Width >= 2 {
		pad := Cell{
			Flags: gc.Flags | FlagPadding,
			Attr:  gc.Attr,
			Fg:    gc.Fg,
			Bg:    gc.Bg,
		}
		b.setCell(px+1, by, &pad)
	}
}

// SetCells writes a run of ASCII bytes sharing the template's style,
// one column per byte. The template's own text is ignored.
func (g *Grid) SetCells(px, py int, tmpl *Cell, s string) {
	if !g.checkY("SetCells", py) {
		return
	}

	l := g.getLine(py)
	b, by := g.locate(py, nil)
	if l == nil || b == nil {
		return
	}
	b.expandLine(by, px+len(s), ColourDefault)

	if px+len(s) > l.cellused {
		l.cellused = px + len(s)
	}

	for i := 0; i < len(s); i++ {
		e := &l.cells[px+i]
		if needExtended(e, tmpl) {
			gc := l.extendedCell(e, tmpl)
			gc.Data = CellData{Text: s[i : i+1], Width: 1}
		} else {
			storeCell(e, tmpl, s[i])
		}
	}
}

// SetCellsString writes arbitrary UTF-8 sharing the template's style,
// splitting it into grapheme clusters and advancing by each cluster's
// display width. Zero-width clusters combine onto the previous cell.
func (g *Grid) SetCellsString(px, py int, tmpl *Cell, s string) {
	if !g.checkY("SetCellsString", py) {
		return
	}

	x := px
	lastX := -1
	rest := s
	for rest != "" {
		var cluster string
		cluster, rest, _, _ = uniseg.FirstGraphemeClusterInString(rest, -1)
		w := runewidth.StringWidth(cluster)
		if w <= 0 {
			if lastX < 0 {
				continue
			}
			prev := g.GetCell(lastX, py)
			prev.Data.Text += cluster
			g.SetCell(lastX, py, &prev)
			continue
		}
		if w > 2 {
			w = 2
		}

		gc := *tmpl
		gc.Flags &^= FlagPadding
		gc.Data = CellData{Text: cluster, Width: w}
		g.SetCell(x, py, &gc)
		lastX = x
		x += w
	}
}

// Clear resets the rectangle of nx by ny cells at the absolute
// position to bg. Full-width rectangles delegate to ClearLines, which
// is cheaper. A clear to the default background trims line extents
// instead of materializing trailing blank cells.
func (g *Grid) Clear(px, py, nx, ny int, bg Colour) {
	if nx == 0 || ny == 0 {
		return
	}

	if px == 0 && nx == g.sx {
		g.ClearLines(py, ny, bg)
		return
	}

	if !g.checkY("Clear", py) || !g.checkY("Clear", py+ny-1) {
		return
	}

	var cache blockCache
	for yy := py; yy < py+ny; yy++ {
		b, yb := g.locate(yy, &cache)
		l := &b.lines[yb]
		if px+nx >= g.sx && px < l.cellused {
			l.cellused = px
		}
		if px > len(l.cells) && bg == ColourDefault {
			continue
		}
		if px+nx >= len(l.cells) && bg == ColourDefault {
			l.cells = l.cells[:px]
			if l.cellused > px {
				l.cellused = px
			}
			continue
		}

		b.expandLine(yb, px+nx, ColourDefault)
		for xx := px; xx < px+nx; xx++ {
			l.clearCell(xx, bg)
		}
	}
}

// ClearLines frees ny whole lines starting at the absolute row and
// re-expands them only when a non-default background must show.
func (g *Grid) ClearLines(py, ny int, bg Colour) {
	if ny == 0 {
		return
	}

	if !g.checkY("ClearLines", py) || !g.checkY("ClearLines", py+ny-1) {
		return
	}

	var cache blockCache
	for yy := py; yy < py+ny; yy++ {
		b, yb := g.locate(yy, &cache)
		b.lines[yb].free()
		b.emptyLine(yb, bg)
	}
}

// moveLine transfers one line record between blocks. Ownership of the
// buffers moves with it; the source slot is zeroed, never double
// freed.
func moveLine(sb, db *block, dyb, syb int) {
	db.lines[dyb].free()
	db.lines[dyb] = sb.lines[syb]
	sb.lines[syb] = Line{}
}

// moveLinesRaw moves n line records from absolute row sy to dy with no
// bounds checks and no re-emptying. Traversal order depends on the
// direction so overlapping ranges never alias.
func (g *Grid) moveLinesRaw(dy, sy, n int) {
	var srcCache, dstCache blockCache

	if sy > dy {
		for syy := sy; syy < sy+n; syy++ {
			sb, syb := g.locate(syy, &srcCache)
			db, dyb := g.locate(syy-sy+dy, &dstCache)
			moveLine(sb, db, dyb, syb)
		}
	} else if sy < dy {
		for syy := sy + n - 1; syy >= sy; syy-- {
			sb, syb := g.locate(syy, &srcCache)
			db, dyb := g.locate(syy-sy+dy, &dstCache)
			moveLine(sb, db, dyb, syb)
		}
	}
}

// MoveLines moves ny line records from absolute row py to dy, then
// re-empties the vacated source rows with bg.
func (g *Grid) MoveLines(dy, py, ny int, bg Colour) {
	if ny == 0 || py == dy {
		return
	}

	if !g.checkY("MoveLines", py) || !g.checkY("MoveLines", py+ny-1) {
		return
	}
	if !g.checkY("MoveLines", dy) || !g.checkY("MoveLines", dy+ny-1) {
		return
	}

	g.moveLinesRaw(dy, py, ny)

	var cache blockCache
	for yy := py; yy < py+ny; yy++ {
		if yy < dy || yy >= dy+ny {
			b, yb := g.locate(yy, &cache)
			b.emptyLine(yb, bg)
		}
	}
}

// MoveCells moves nx cells from column px to dx within one line and
// clears the vacated range to bg.
func (g *Grid) MoveCells(dx, px, py, nx int, bg Colour) {
	if !g.checkY("MoveCells", py) {
		return
	}

	b, by := g.locate(py, nil)
	if b == nil {
		return
	}
	b.moveCells(dx, px, by, nx, bg)
}

// DuplicateLines deep-copies ny lines from src starting at absolute
// row sy into dst at dy. The copies share nothing; mutating either
// grid afterwards leaves the other untouched.
func (dst *Grid) DuplicateLines(dy int, src *Grid, sy, ny int) {
	if dy+ny > dst.hsize+dst.sy {
		ny = dst.hsize + dst.sy - dy
	}
	if sy+ny > src.hsize+src.sy {
		ny = src.hsize + src.sy - sy
	}
	if ny <= 0 {
		return
	}

	for yy := 0; yy < ny; yy++ {
		sl := src.getLine(sy)
		dl := dst.getLine(dy)
		if sl == nil || dl == nil {
			return
		}

		*dl = *sl
		if len(sl.cells) != 0 {
			dl.cells = append([]cellEntry(nil), sl.cells...)
		} else {
			dl.cells = nil
		}
		if len(sl.extended) != 0 {
			dl.extended = append([]Cell(nil), sl.extended...)
		} else {
			dl.extended = nil
		}

		sy++
		dy++
	}
}

// Compare reports whether the first sy rows of both grids hold
// identical cells. Used by tests and screen diffing.
func Compare(a, b *Grid) bool {
	if a.sx != b.sx || a.sy != b.sy {
		return false
	}

	for yy := 0; yy < a.sy; yy++ {
		la := a.getLine(yy)
		lb := b.getLine(yy)
		if la == nil || lb == nil {
			return la == lb
		}
		if len(la.cells) != len(lb.cells) {
			return false
		}
		for xx := 0; xx < len(la.cells); xx++ {
			ca := a.GetCell(xx, yy)
			cb := b.GetCell(xx, yy)
			if !CellsEqual(&ca, &cb) {
				return false
			}
		}
	}

	return true
}
