package export

import (
	"fmt"
	"os"
	"strings"
)

type bounds struct {
	minX, maxX, minY, maxY float64
}

// pad widens b by 10% on every side and never leaves a zero-width axis.
func (b bounds) pad() bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX: b.minX - rangeX*0.1,
		maxX: b.maxX + rangeX*0.1,
		minY: b.minY - rangeY*0.1,
		maxY: b.maxY + rangeY*0.1,
	}
}

func boundsOf(points [][2]float64) bounds {
	b := bounds{points[0][0], points[0][0], points[0][1], points[0][1]}
	for _, p := range points {
		b.minX = min(b.minX, p[0])
		b.maxX = max(b.maxX, p[0])
		b.minY = min(b.minY, p[1])
		b.maxY = max(b.maxY, p[1])
	}
	return b.pad()
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

func project(p [2]float64, b bounds, width, height int) (float64, float64) {
	x := (p[0] - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p[1]-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

// TraceSVG draws values against their index as a single path.
func TraceSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}
	points := make([][2]float64, len(values))
	for i, v := range values {
		points[i] = [2]float64{float64(i), v}
	}
	b := boundsOf(points)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" d="M`, strokeColor))

	for i, p := range points {
		x, y := project(p, b, width, height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// ScatterSVG draws one dot per point, e.g. the joint samples of two
// coordinates.
func ScatterSVG(points [][2]float64, width, height int, fillColor string) string {
	if len(points) == 0 {
		return ""
	}
	b := boundsOf(points)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\" fill-opacity=\"0.4\">\n", fillColor))
	for _, p := range points {
		x, y := project(p, b, width, height)
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"1.2\"/>\n", x, y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func WriteFile(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}
