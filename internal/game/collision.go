package game

import "math"

// Vec is a 2D world position.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec { return Vec{X: v.X * s, Y: v.Y * s} }

// Len returns the length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return a.Sub(b).Len()
}

// Wall is a line segment that blocks line of sight.
type Wall struct {
	A Vec `json:"a" yaml:"a"`
	B Vec `json:"b" yaml:"b"`
}

// Occluders answers visibility queries against a fixed set of walls.
type Occluders struct {
	Walls []Wall
}

// Visible reports whether the segment from -> to crosses no wall.
func (o Occluders) Visible(from, to Vec) bool {
	for _, w := range o.Walls {
		if segmentsIntersect(from, to, w.A, w.B) {
			return false
		}
	}
	return true
}

func cross(o, a, b Vec) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(p, q, r Vec) bool {
	return math.Min(p.X, r.X) <= q.X && q.X <= math.Max(p.X, r.X) &&
		math.Min(p.Y, r.Y) <= q.Y && q.Y <= math.Max(p.Y, r.Y)
}

// segmentsIntersect checks whether p1p2 and p3p4 touch, including collinear overlap.
func segmentsIntersect(p1, p2, p3, p4 Vec) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(p3, p1, p4):
		return true
	case d2 == 0 && onSegment(p3, p2, p4):
		return true
	case d3 == 0 && onSegment(p1, p3, p2):
		return true
	case d4 == 0 && onSegment(p1, p4, p2):
		return true
	}
	return false
}
