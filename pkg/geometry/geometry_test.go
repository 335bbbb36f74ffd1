package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquareContains(t *testing.T) {
	sq := Square{Origin: Point{X: 10, Y: 10}, Side: 20}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{15, 15}, true},
		{"top-left corner", Point{10, 10}, true},
		{"bottom-right corner", Point{30, 30}, true},
		{"left of square", Point{9.9, 15}, false},
		{"below square", Point{15, 30.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sq.Contains(tt.p))
		})
	}
}

func TestSquareCenter(t *testing.T) {
	sq := Square{Origin: Point{X: 100, Y: 100}, Side: 20}
	assert.Equal(t, Point{X: 110, Y: 110}, sq.Center())
}

func TestDistanceToLine(t *testing.T) {
	a := Point{X: 10, Y: 10}
	b := Point{X: 110, Y: 110}

	// On the line.
	assert.InDelta(t, 0, DistanceToLine(Point{60, 60}, a, b), 1e-9)

	// Perpendicular offset of (2,-2) has length sqrt(8).
	assert.InDelta(t, math.Sqrt(8), DistanceToLine(Point{62, 58}, a, b), 1e-9)

	// Beyond the segment end but on the extended line still measures zero.
	assert.InDelta(t, 0, DistanceToLine(Point{500, 500}, a, b), 1e-9)

	// Horizontal line.
	assert.InDelta(t, 3, DistanceToLine(Point{5, 3}, Point{0, 0}, Point{10, 0}), 1e-9)
}

func TestDistanceToLineDegenerate(t *testing.T) {
	a := Point{X: 5, Y: 5}
	assert.InDelta(t, 5, DistanceToLine(Point{8, 9}, a, a), 1e-9)
}

func TestArrowhead(t *testing.T) {
	tri := Arrowhead(Point{0, 0}, Point{100, 0}, 10, 10, math.Pi/6)

	assert.InDelta(t, 90, tri[0].X, 1e-9)
	assert.InDelta(t, 0, tri[0].Y, 1e-9)

	// Barbs sit behind the tip, mirrored across the line.
	assert.Less(t, tri[1].X, tri[0].X)
	assert.InDelta(t, tri[1].X, tri[2].X, 1e-9)
	assert.InDelta(t, -tri[1].Y, tri[2].Y, 1e-9)
	assert.InDelta(t, 10*math.Sin(math.Pi/6), math.Abs(tri[1].Y), 1e-9)
}

func TestArrowheadCoincidingEnds(t *testing.T) {
	c := Point{X: 50, Y: 50}
	tri := Arrowhead(c, c, 10, 10, math.Pi/6)

	assert.Equal(t, Point{X: 40, Y: 50}, tri[0])
	for _, p := range tri {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
	}
}

func TestStar(t *testing.T) {
	c := Point{X: 50, Y: 50}
	pts := Star(c, 5, 10, 5)

	if assert.Len(t, pts, 10) {
		// First vertex points up.
		assert.InDelta(t, 50, pts[0].X, 1e-9)
		assert.InDelta(t, 40, pts[0].Y, 1e-9)
	}

	for i, p := range pts {
		r := math.Hypot(p.X-c.X, p.Y-c.Y)
		want := 10.0
		if i%2 == 1 {
			want = 5
		}
		assert.InDelta(t, want, r, 1e-9, "vertex %d", i)
	}
}

func TestStarSpikes(t *testing.T) {
	assert.Len(t, Star(Point{}, 7, 2, 1), 14)
	assert.Len(t, Star(Point{}, 0, 2, 1), 4)
}
