// Copyright © 2025 tmux-go contributors
// SPDX-License-Identifier: ISC
//
// File: grid/ansi_test.go
// Summary: Tests for SGR transition output.

package grid

import "testing"

func transition(t *testing.T, last, cur Cell) string {
	t.Helper()
	return stringCellsCode(&last, &cur, false)
}

func TestSGRNoChange(t *testing.T) {
	if s := transition(t, DefaultCell, DefaultCell); s != "" {
		t.Errorf("identical cells emitted %q", s)
	}
}

func TestSGRNewAttributes(t *testing.T) {
	c := DefaultCell
	c.Attr = AttrBright | AttrUnderscore

	if s := transition(t, DefaultCell, c); s != "\033[1;4m" {
		t.Errorf("got %q", s)
	}
}

func TestSGRAttributeRemovalResets(t *testing.T) {
	last := DefaultCell
	last.Attr = AttrBright | AttrUnderscore
	cur := DefaultCell
	cur.Attr = AttrUnderscore

	// Dropping bright forces a zero reset, then underscore is
	// re-emitted and both colours restated.
	if s := transition(t, last, cur); s != "\033[0;4m\033[39m\033[49m" {
		t.Errorf("got %q", s)
	}
}

func TestSGRAttributeOrder(t *testing.T) {
	c := DefaultCell
	c.Attr = AttrStrikethrough | AttrDim | AttrReverse

	if s := transition(t, DefaultCell, c); s != "\033[2;7;9m" {
		t.Errorf("got %q", s)
	}
}

func TestSGRForegroundForms(t *testing.T) {
	tests := []struct {
		fg   Colour
		want string
	}{
		{3, "\033[33m"},
		{94, "\033[94m"},
		{123 | Colour256, "\033[38;5;123m"},
		{RGB(1, 2, 3), "\033[38;2;1;2;3m"},
	}
	for _, tt := range tests {
		c := DefaultCell
		c.Fg = tt.fg
		if s := transition(t, DefaultCell, c); s != tt.want {
			t.Errorf("fg %#x: got %q, want %q", tt.fg, s, tt.want)
		}
	}
}

func TestSGRBackgroundForms(t *testing.T) {
	tests := []struct {
		bg   Colour
		want string
	}{
		{5, "\033[45m"},
		{104, "\033[94m"},
		{200 | Colour256, "\033[48;5;200m"},
		{RGB(9, 8, 7), "\033[48;2;9;8;7m"},
	}
	for _, tt := range tests {
		c := DefaultCell
		c.Bg = tt.bg
		if s := transition(t, DefaultCell, c); s != tt.want {
			t.Errorf("bg %#x: got %q, want %q", tt.bg, s, tt.want)
		}
	}
}

func TestSGRDefaultColourCodes(t *testing.T) {
	last := DefaultCell
	last.Fg = 2
	last.Bg = 3

	if s := transition(t, last, DefaultCell); s != "\033[39m\033[49m" {
		t.Errorf("got %q", s)
	}
}

func TestSGRCharsetShift(t *testing.T) {
	acs := DefaultCell
	acs.Attr = AttrCharset

	if s := transition(t, DefaultCell, acs); s != "\016" {
		t.Errorf("enter charset: got %q", s)
	}
	if s := transition(t, acs, DefaultCell); s != "\017" {
		t.Errorf("leave charset: got %q", s)
	}

	// Charset is not part of the SGR reset: dropping another
	// attribute while it stays set must not emit SI.
	last := DefaultCell
	last.Attr = AttrCharset | AttrBright
	cur := DefaultCell
	cur.Attr = AttrCharset
	if s := transition(t, last, cur); s != "\033[0m\033[39m\033[49m" {
		t.Errorf("reset with charset held: got %q", s)
	}
}

func TestSGREscapeC0(t *testing.T) {
	c := DefaultCell
	c.Attr = AttrBright
	if s := stringCellsCode(&DefaultCell, &c, true); s != "\\033[1m" {
		t.Errorf("got %q", s)
	}
}

func TestStringCellsWithCodes(t *testing.T) {
	g := New(10, 2, 100)

	red := DefaultCell
	red.Fg = 1
	g.SetCells(0, 0, &DefaultCell, "a")
	g.SetCells(1, 0, &red, "bc")
	g.SetCells(3, 0, &DefaultCell, "d")

	last := DefaultCell
	want := "a\033[31mbc\033[39md"
	if s := g.StringCells(0, 0, 10, &last, true, false, true); s != want {
		t.Errorf("got %q, want %q", s, want)
	}

	// The anchor carries state to the next call.
	if !CellsEqual(&last, &DefaultCell) {
		t.Errorf("last = %+v", last)
	}
}

func TestStringCellsEscapeAndTrim(t *testing.T) {
	g := New(10, 2, 100)
	g.SetCells(0, 0, &DefaultCell, "a\\b   ")

	if s := g.StringCells(0, 0, 6, nil, false, true, false); s != "a\\\\b   " {
		t.Errorf("escaped = %q", s)
	}
	if s := g.StringCells(0, 0, 10, nil, false, false, true); s != "a\\b" {
		t.Errorf("trimmed = %q", s)
	}
}

func TestStringCellsSkipsPadding(t *testing.T) {
	g := New(10, 2, 100)
	g.SetCellsString(0, 0, &DefaultCell, "世x")

	if s := g.StringCells(0, 0, 10, nil, false, false, true); s != "世x" {
		t.Errorf("got %q", s)
	}
}

func TestStringCellsOutOfRange(t *testing.T) {
	g := New(5, 2, 100)
	if s := g.StringCells(0, 42, 5, nil, true, false, false); s != "" {
		t.Errorf("got %q", s)
	}
}
