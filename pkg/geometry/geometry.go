// Package geometry holds the small amount of planar math the diagram needs:
// hit-testing against bounding squares and lines, and the vertex sets for
// arrowheads and stars.
package geometry

import "math"

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Square is an axis-aligned square anchored at its top-left corner.
type Square struct {
	Origin Point
	Side   float64
}

// Contains reports whether p lies inside the square. Edges are inclusive.
func (s Square) Contains(p Point) bool {
	return p.X >= s.Origin.X && p.X <= s.Origin.X+s.Side &&
		p.Y >= s.Origin.Y && p.Y <= s.Origin.Y+s.Side
}

// Center returns the middle of the square.
func (s Square) Center() Point {
	return Point{X: s.Origin.X + s.Side/2, Y: s.Origin.Y + s.Side/2}
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. Points beyond the segment ends are measured against
// the extended line, not the nearest endpoint. When a and b coincide the
// line is undefined and the distance to a is returned.
func DistanceToLine(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// Angle returns the direction of the vector from a to b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Arrowhead returns the three corners of a filled arrow triangle for the
// line from start to end. The tip sits offset units back from end along the
// line, and the two barbs are size units behind the tip, spread by
// halfAngle on either side of the line. When start and end coincide the
// arrow points along +x.
func Arrowhead(start, end Point, offset, size, halfAngle float64) [3]Point {
	angle := Angle(start, end)
	tip := Point{
		X: end.X - offset*math.Cos(angle),
		Y: end.Y - offset*math.Sin(angle),
	}
	return [3]Point{
		tip,
		{
			X: tip.X - size*math.Cos(angle-halfAngle),
			Y: tip.Y - size*math.Sin(angle-halfAngle),
		},
		{
			X: tip.X - size*math.Cos(angle+halfAngle),
			Y: tip.Y - size*math.Sin(angle+halfAngle),
		},
	}
}

// Star returns the vertices of a star centered at c with the given number
// of spikes, alternating between the outer and inner radius at an angular
// step of pi/spikes. The first vertex points straight up.
func Star(c Point, spikes int, outer, inner float64) []Point {
	if spikes < 2 {
		spikes = 2
	}
	step := math.Pi / float64(spikes)
	rot := -math.Pi / 2
	points := make([]Point, 0, spikes*2)
	for i := 0; i < spikes; i++ {
		points = append(points, Point{
			X: c.X + math.Cos(rot)*outer,
			Y: c.Y + math.Sin(rot)*outer,
		})
		rot += step
		points = append(points, Point{
			X: c.X + math.Cos(rot)*inner,
			Y: c.Y + math.Sin(rot)*inner,
		})
		rot += step
	}
	return points
}
