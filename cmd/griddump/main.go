// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: cmd/griddump/main.go
// Summary: Demo that fills a grid, reflows it to the terminal width
// and prints the ANSI serialization.

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/da-x/tmux/grid"
)

func main() {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	g := grid.New(40, 8, 1000)

	plain := grid.DefaultCell
	g.SetCells(0, 0, &plain, "griddump: grid storage engine demo")

	heading := grid.DefaultCell
	heading.Attr = grid.AttrBright | grid.AttrUnderscore
	heading.Fg = 4
	g.SetCells(0, 2, &heading, "styled cells")

	rgb := grid.DefaultCell
	rgb.Fg = grid.RGB(0xff, 0x87, 0x00)
	g.SetCells(0, 3, &rgb, "24-bit colour ")
	pal := grid.DefaultCell
	pal.Fg = 208 | grid.Colour256
	g.SetCells(14, 3, &pal, "and the 256 palette")

	wide := grid.CellFromString("世")
	g.SetCell(0, 4, &wide)
	wide = grid.CellFromString("界")
	g.SetCell(2, 4, &wide)
	g.SetCells(4, 4, &plain, " wide glyphs survive reflow")

	// A wrapped paragraph: one logical line across two rows.
	g.SetCells(0, 6, &plain, "this paragraph was written wrapped at ")
	g.PeekLine(6).SetWrapped(true)
	g.SetCells(0, 7, &plain, "forty columns and rewraps on resize")

	cursor := grid.Cursor{X: 0, Y: 7}
	g.Reflow(width, &cursor)

	last := grid.DefaultCell
	for py := 0; py < g.HSize()+g.Sy(); py++ {
		fmt.Println(g.StringCells(0, py, g.Sx(), &last, true, false, true))
	}
	fmt.Print("\033[0m")
}
