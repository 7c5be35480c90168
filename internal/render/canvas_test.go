package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestNewCanvas(t *testing.T) {
	c := NewCanvas(20, 3)

	if c.Width() != 20 {
		t.Errorf("Width() = %d, expected 20", c.Width())
	}
	if c.Height() != 3 {
		t.Errorf("Height() = %d, expected 3", c.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if got := c.Get(x, y); got != (Cell{Rune: ' '}) {
				t.Errorf("New canvas should be blank, got %+v at (%d, %d)", got, x, y)
			}
		}
	}

	if NewCanvas(-1, -1).String() != "" {
		t.Error("Negative dimensions should give an empty canvas")
	}
}

func TestCanvasSetGet(t *testing.T) {
	c := NewCanvas(10, 10)

	c.Set(5, 5, 'X', ColorRed)
	if got := c.Get(5, 5); got.Rune != 'X' || got.Color != ColorRed {
		t.Errorf("Get(5, 5) = %+v, expected red X", got)
	}

	// Out of bounds should be silent
	c.Set(-1, 0, 'A', ColorDefault)
	c.Set(100, 0, 'A', ColorDefault)
	c.Set(0, -1, 'A', ColorDefault)
	c.Set(0, 100, 'A', ColorDefault)

	if c.Get(-1, 0).Rune != ' ' || c.Get(100, 0).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestCanvasDrawText(t *testing.T) {
	c := NewCanvas(8, 1)

	n := c.DrawText(1, 0, "hello world", ColorDefault)
	if n != 7 {
		t.Errorf("DrawText() used %d columns, expected 7", n)
	}
	if got := c.Row(0); got != " hello w" {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestCanvasDrawTextWide(t *testing.T) {
	c := NewCanvas(5, 1)

	n := c.DrawText(0, 0, "日本語", ColorDefault)
	if n != 4 {
		t.Errorf("DrawText() used %d columns, expected 4", n)
	}
	if got := c.Row(0); got != "日本 " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawText(0, 0, "abcd", ColorDefault)
	c.DrawText(0, 1, "efgh", ColorDefault)

	c.Resize(2, 3)
	if got := c.String(); got != "ab\nef\n  " {
		t.Errorf("String() after resize = %q", got)
	}
}

func TestCanvasClearRow(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawHLine(0, 0, 3, '#', ColorGreen)
	c.DrawHLine(0, 1, 3, '#', ColorGreen)

	c.ClearRow(0)
	c.ClearRow(7)
	if got := c.String(); got != "   \n###" {
		t.Errorf("String() = %q", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abc", 3, "abc"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Fit(tt.in, tt.width); got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}

	got := Fit("abcdefgh", 5)
	if runewidth.StringWidth(got) != 5 || !strings.HasPrefix(got, "ab") || strings.Contains(got, "h") {
		t.Errorf("Fit() should truncate to 5 columns, got %q", got)
	}
}

func TestRenderKeepsText(t *testing.T) {
	c := NewCanvas(6, 2)
	c.DrawText(0, 0, "ab", ColorDefault)
	c.DrawText(2, 0, "cd", ColorCyan)
	c.DrawText(0, 1, "plain", ColorDefault)

	out := Render(c)
	if !strings.Contains(out, "cd") {
		t.Errorf("Render() lost colored text: %q", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Render() produced %d lines, expected 2", len(lines))
	}
	if lines[1] != "plain " {
		t.Errorf("Uncolored row should render unchanged, got %q", lines[1])
	}
}
