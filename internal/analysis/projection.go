package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/geodesim/internal/spacetime"
)

// Point is a position in the plane of a projection.
type Point struct{ X, Y float64 }

// Project maps a trajectory onto the equatorial plane as seen from the pole.
func Project(states []spacetime.Coordinate) []Point {
	points := make([]Point, len(states))
	for i, x := range states {
		cx, _, cz := x.Cartesian()
		points[i] = Point{X: cx, Y: cz}
	}
	return points
}

// ProjectionToASCII renders points on a width×height character grid with
// equal scaling on both axes, marking the origin with '+' and, when horizon
// is positive, the horizon circle with 'o'.
func ProjectionToASCII(points []Point, horizon float64, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	extent := horizon
	for _, p := range points {
		extent = max(extent, math.Abs(p.X), math.Abs(p.Y))
	}
	if extent == 0 {
		extent = 1
	}
	extent *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(x, y float64, mark rune) {
		col := int((x + extent) / (2 * extent) * float64(width-1))
		row := height - 1 - int((y+extent)/(2*extent)*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = mark
		}
	}

	if horizon > 0 {
		ring := Project(horizonRing(horizon, 4*(width+height)))
		for _, p := range ring {
			plot(p.X, p.Y, 'o')
		}
	}
	plot(0, 0, '+')
	for _, p := range points {
		plot(p.X, p.Y, '•')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func horizonRing(r float64, n int) []spacetime.Coordinate {
	ring := make([]spacetime.Coordinate, n)
	for i := range ring {
		ring[i] = spacetime.Coordinate{0, r, math.Pi / 2, 2 * math.Pi * float64(i) / float64(n)}
	}
	return ring
}
