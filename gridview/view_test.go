// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: gridview/view_test.go
// Summary: Tests for grid to tcell conversion and drawing.

package gridview

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/da-x/tmux/grid"
)

func TestColourConversion(t *testing.T) {
	tests := []struct {
		in   grid.Colour
		want tcell.Color
	}{
		{grid.ColourDefault, tcell.ColorDefault},
		{1, tcell.PaletteColor(1)},
		{92, tcell.PaletteColor(10)},
		{103, tcell.PaletteColor(11)},
		{200 | grid.Colour256, tcell.PaletteColor(200)},
		{grid.RGB(10, 20, 30), tcell.NewRGBColor(10, 20, 30)},
	}
	for _, tt := range tests {
		if got := Colour(tt.in); got != tt.want {
			t.Errorf("Colour(%#x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStyleAttributes(t *testing.T) {
	gc := grid.DefaultCell
	gc.Attr = grid.AttrBright | grid.AttrReverse
	gc.Fg = 2

	fg, _, attrs := Style(&gc).Decompose()
	if fg != tcell.PaletteColor(2) {
		t.Errorf("fg = %v", fg)
	}
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrReverse == 0 {
		t.Errorf("attrs = %v", attrs)
	}
	if attrs&tcell.AttrUnderline != 0 {
		t.Errorf("unexpected underline in %v", attrs)
	}
}

func newSim(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("sim init: %v", err)
	}
	sim.SetSize(w, h)
	return sim
}

func TestDrawBasic(t *testing.T) {
	g := grid.New(10, 3, 100)
	g.SetCells(0, 0, &grid.DefaultCell, "hello")

	sim := newSim(t, 10, 3)
	defer sim.Fini()

	Draw(sim, g, 0)
	sim.Show()

	for i, want := range "hello" {
		mainc, _, _, _ := sim.GetContent(i, 0)
		if mainc != want {
			t.Errorf("cell %d = %q, want %q", i, mainc, want)
		}
	}
}

func TestDrawWideGlyphOnce(t *testing.T) {
	g := grid.New(10, 2, 100)
	g.SetCellsString(0, 0, &grid.DefaultCell, "世x")

	sim := newSim(t, 10, 2)
	defer sim.Fini()

	Draw(sim, g, 0)
	sim.Show()

	mainc, _, _, width := sim.GetContent(0, 0)
	if mainc != '世' || width != 2 {
		t.Errorf("cell 0 = %q width %d", mainc, width)
	}
	mainc, _, _, _ = sim.GetContent(2, 0)
	if mainc != 'x' {
		t.Errorf("cell 2 = %q", mainc)
	}
}

func TestDrawScrollback(t *testing.T) {
	g := grid.New(10, 2, 100)
	g.SetCells(0, 0, &grid.DefaultCell, "old")
	g.ScrollHistory(grid.ColourDefault)
	g.SetCells(0, g.HSize(), &grid.DefaultCell, "new")

	sim := newSim(t, 10, 2)
	defer sim.Fini()

	// Scrolled back one row, the historical line is on top.
	Draw(sim, g, 1)
	sim.Show()

	mainc, _, _, _ := sim.GetContent(0, 0)
	if mainc != 'o' {
		t.Errorf("scrolled view top = %q, want 'o'", mainc)
	}

	Draw(sim, g, 0)
	sim.Show()
	mainc, _, _, _ = sim.GetContent(0, 0)
	if mainc != 'n' {
		t.Errorf("live view top = %q, want 'n'", mainc)
	}
}
