package sketch

import "github.com/chewxy/math32"

// Point2 is a 2D point or vector in normalized device coordinates.
type Point2 struct {
	X, Y float32
}

// Pt2 is a convenience function to create a Point2.
func Pt2(x, y float32) Point2 {
	return Point2{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point2) Add(q Point2) Point2 {
	return Point2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point2) Sub(q Point2) Point2 {
	return Point2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point2) Mul(s float32) Point2 {
	return Point2{X: p.X * s, Y: p.Y * s}
}

// AddX returns the point moved horizontally by dx.
func (p Point2) AddX(dx float32) Point2 {
	return Point2{X: p.X + dx, Y: p.Y}
}

// AddY returns the point moved vertically by dy.
func (p Point2) AddY(dy float32) Point2 {
	return Point2{X: p.X, Y: p.Y + dy}
}

// Dot returns the dot product of two vectors.
func (p Point2) Dot(q Point2) float32 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point2) Cross(q Point2) float32 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of the vector.
func (p Point2) Length() float32 {
	return math32.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points.
func (p Point2) Distance(q Point2) float32 {
	return p.Sub(q).Length()
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (p Point2) Perp() Point2 {
	return Point2{X: -p.Y, Y: p.X}
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (p Point2) Normalize() Point2 {
	length := p.Length()
	if length == 0 {
		return Point2{}
	}
	return Point2{X: p.X / length, Y: p.Y / length}
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point2) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Approx reports whether p and q differ by at most eps on each axis.
func (p Point2) Approx(q Point2, eps float32) bool {
	return math32.Abs(p.X-q.X) <= eps && math32.Abs(p.Y-q.Y) <= eps
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func allFinite(ps ...Point2) bool {
	for _, p := range ps {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
