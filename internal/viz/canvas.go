package viz

import (
	"strings"

	"github.com/san-kum/mcsim/internal/mcmc"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Project maps a point in the xr by yr box to sub-pixel coordinates, with y
// growing upwards.
func (c *Canvas) Project(x, y float64, xr, yr mcmc.Interval) (int, int) {
	w, h := c.Width*2-1, c.Height*4-1
	px := scale(x, xr, w)
	py := h - scale(y, yr, h)
	return px, py
}

// Scatter plots points, optionally joining consecutive ones.
func (c *Canvas) Scatter(points [][2]float64, xr, yr mcmc.Interval, path bool) {
	prevX, prevY := -1, -1
	for i, p := range points {
		x, y := c.Project(p[0], p[1], xr, yr)
		if path && i > 0 {
			c.DrawLine(prevX, prevY, x, y)
		} else {
			c.Set(x, y)
		}
		prevX, prevY = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func scale(v float64, iv mcmc.Interval, n int) int {
	w := iv.Width()
	if w <= 0 {
		return n / 2
	}
	p := int((v - iv.Low) / w * float64(n))
	if p < 0 {
		return 0
	}
	if p > n {
		return n
	}
	return p
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
