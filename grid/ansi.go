// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/ansi.go
// Summary: Serializes rows of cells back into text with escape codes.
// Usage: Capture-style output and the demo; the renderer reads cells
// directly instead.

package grid

import (
	"slices"
	"strconv"
	"strings"
)

// sgrAttrs lists the attribute codes in emission order.
var sgrAttrs = []struct {
	mask Attribute
	code int
}{
	{AttrBright, 1},
	{AttrDim, 2},
	{AttrItalics, 3},
	{AttrUnderscore, 4},
	{AttrBlink, 5},
	{AttrReverse, 7},
	{AttrHidden, 8},
	{AttrStrikethrough, 9},
}

// colourCodes returns the SGR parameters selecting c as the foreground
// or background. An unrepresentable value yields no parameters.
func colourCodes(c Colour, bg bool) []int {
	switch {
	case c&Colour256 != 0:
		if bg {
			return []int{48, 5, int(c & 0xff)}
		}
		return []int{38, 5, int(c & 0xff)}
	case c&ColourRGB != 0:
		r, g, b := c.SplitRGB()
		if bg {
			return []int{48, 2, int(r), int(g), int(b)}
		}
		return []int{38, 2, int(r), int(g), int(b)}
	}

	if bg {
		switch {
		case c <= 7:
			return []int{int(c) + 40}
		case c == 8:
			return []int{49}
		case c >= 100 && c <= 107:
			return []int{int(c) - 10}
		}
		return nil
	}
	switch {
	case c <= 7:
		return []int{int(c) + 30}
	case c == 8:
		return []int{39}
	case c >= 90 && c <= 97:
		return []int{int(c)}
	}
	return nil
}

// writeSGR appends one CSI ... m sequence.
func writeSGR(buf *strings.Builder, escapeC0 bool, vals []int) {
	if escapeC0 {
		buf.WriteString("\\033[")
	} else {
		buf.WriteString("\033[")
	}
	for i, v := range vals {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteString(strconv.Itoa(v))
	}
	buf.WriteByte('m')
}

// stringCellsCode returns the minimal escape prefix that transitions
// rendering state from last to gc. If any attribute was dropped, a
// zero reset leads and everything still set is re-emitted; the charset
// shift alone survives the reset and is handled by SO/SI instead.
func stringCellsCode(last, gc *Cell, escapeC0 bool) string {
	attr, lastattr := gc.Attr, last.Attr

	var s []int
	reset := false
	for _, a := range sgrAttrs {
		if attr&a.mask == 0 && lastattr&a.mask != 0 {
			s = append(s, 0)
			lastattr &= AttrCharset
			reset = true
			break
		}
	}
	for _, a := range sgrAttrs {
		if attr&a.mask != 0 && lastattr&a.mask == 0 {
			s = append(s, a.code)
		}
	}

	var buf strings.Builder
	if len(s) > 0 {
		writeSGR(&buf, escapeC0, s)
	}

	newc := colourCodes(gc.Fg, false)
	oldc := colourCodes(last.Fg, false)
	if !slices.Equal(newc, oldc) || reset {
		writeSGR(&buf, escapeC0, newc)
	}

	newc = colourCodes(gc.Bg, true)
	oldc = colourCodes(last.Bg, true)
	if !slices.Equal(newc, oldc) || reset {
		writeSGR(&buf, escapeC0, newc)
	}

	if attr&AttrCharset != 0 && lastattr&AttrCharset == 0 {
		if escapeC0 {
			buf.WriteString("\\016") // SO
		} else {
			buf.WriteString("\016")
		}
	}
	if attr&AttrCharset == 0 && lastattr&AttrCharset != 0 {
		if escapeC0 {
			buf.WriteString("\\017") // SI
		} else {
			buf.WriteString("\017")
		}
	}

	return buf.String()
}

// StringCells converts nx cells starting at the absolute position into
// a string. With withCodes, each cell is preceded by the minimal SGR
// prefix transitioning from last, which is updated in place so runs of
// calls share rendering state; a nil last uses a throwaway default.
// With escapeC0, control bytes come out as backslash escapes and
// literal backslashes double. With trim, trailing spaces are removed.
func (g *Grid) StringCells(px, py, nx int, last *Cell, withCodes, escapeC0, trim bool) string {
	if last == nil {
		def := DefaultCell
		last = &def
	}

	var buf strings.Builder
	gl := g.PeekLine(py)
	for xx := px; xx < px+nx; xx++ {
		if gl == nil || xx >= len(gl.cells) {
			break
		}
		gc := g.GetCell(xx, py)
		if gc.Flags&FlagPadding != 0 {
			continue
		}

		if withCodes {
			buf.WriteString(stringCellsCode(last, &gc, escapeC0))
			*last = gc
		}

		data := gc.Data.Text
		if escapeC0 && data == "\\" {
			data = "\\\\"
		}
		buf.WriteString(data)
	}

	s := buf.String()
	if trim {
		s = strings.TrimRight(s, " ")
	}
	return s
}
