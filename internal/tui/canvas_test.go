package tui

import (
	"strings"
	"testing"
)

func TestCanvasDimensions(t *testing.T) {
	c := NewCanvas(10, 4)
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("rows = %d, want 4", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 10 {
			t.Errorf("row %d width = %d, want 10", i, got)
		}
	}
}

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)

	blank := c.String()
	c.Set(0, 0)
	c.Set(7, 7)
	if c.String() == blank {
		t.Error("set dots did not change the canvas")
	}

	c.Clear()
	if c.String() != blank {
		t.Error("clear did not restore the blank canvas")
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	blank := c.String()

	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0) // column 2, past the 2-wide grid
	c.Set(0, 8) // row 2, past the 2-high grid
	if c.String() != blank {
		t.Error("out-of-bounds dots were drawn")
	}
}

func TestCanvasSubpixelPacking(t *testing.T) {
	c := NewCanvas(1, 1)
	// All eight dots of one braille cell.
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			c.Set(x, y)
		}
	}
	if got := c.Grid[0][0]; got != 0x28FF {
		t.Errorf("full cell = %#x, want 0x28ff", got)
	}
}
