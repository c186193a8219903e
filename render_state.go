package sketch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DefaultStrokeWidth is the half-thickness of lines drawn by the scenes,
// in normalized device coordinates.
const DefaultStrokeWidth float32 = 0.005

// MaxVertices is the number of vertices addressable by uint16 indices.
const MaxVertices = math.MaxUint16 + 1

// Errors returned by RenderState drawing calls.
var (
	// ErrDegenerateLine is returned when a line has zero length and no
	// normal direction can be derived from it.
	ErrDegenerateLine = errors.New("sketch: degenerate line (zero length)")

	// ErrInvalidStrokeWidth is returned for a non-positive or non-finite
	// stroke width.
	ErrInvalidStrokeWidth = errors.New("sketch: stroke width must be positive and finite")

	// ErrNonFinite is returned when a coordinate is NaN or infinite.
	ErrNonFinite = errors.New("sketch: non-finite coordinate")

	// ErrIndexOverflow is returned when a shape would push the vertex count
	// past what uint16 indices can address.
	ErrIndexOverflow = errors.New("sketch: vertex count exceeds uint16 index range")

	// ErrFrozen is returned by drawing calls after Freeze.
	ErrFrozen = errors.New("sketch: render state is frozen")
)

// RenderState accumulates 2D geometry for a single indexed draw call.
//
// Vertices holds x,y pairs. Indices holds triangles as index triples into
// Vertices (pair index, not float index). Every shape appends its indices
// relative to the vertex count at call time, so shapes compose in any order
// without index collisions. Both lists only grow.
//
// A RenderState is consumed once to build GPU buffers; Freeze marks that
// point, after which all drawing calls fail with ErrFrozen.
//
// RenderState is NOT safe for concurrent use.
type RenderState struct {
	Vertices       []float32
	Indices        []uint16
	PrimitiveCount uint32

	frozen bool
}

// NewRenderState creates an empty render state.
func NewRenderState() *RenderState {
	return &RenderState{}
}

// DrawSquare appends an axis-aligned square whose top-left corner is
// topLeft and whose sides are width long. Vertices are emitted as top-left,
// bottom-left, bottom-right, top-right; the two triangles are
// (0,1,2) and (0,2,3), both counter-clockwise for a positive width.
//
// A negative width mirrors the square and flips its winding; it is not
// rejected.
func (rs *RenderState) DrawSquare(topLeft Point2, width float32) error {
	if !topLeft.IsFinite() || !isFinite(width) {
		return ErrNonFinite
	}
	topRight := topLeft.AddX(width)
	bottomLeft := topLeft.AddY(-width)
	bottomRight := topLeft.AddX(width).AddY(-width)
	if !allFinite(topRight, bottomLeft, bottomRight) {
		return fmt.Errorf("%w: square at %v with width %v", ErrNonFinite, topLeft, width)
	}
	if err := rs.appendQuad(topLeft, bottomLeft, bottomRight, topRight); err != nil {
		return err
	}
	Logger().Debug("sketch: square", "top_left", topLeft, "width", width,
		"vertices", rs.VertexCount(), "indices", len(rs.Indices))
	return nil
}

// DrawTriangleCCW appends a single triangle. The points are stored as given:
// they must already be counter-clockwise or the triangle is culled as
// back-facing by the pipeline.
func (rs *RenderState) DrawTriangleCCW(p0, p1, p2 Point2) error {
	if !p0.IsFinite() || !p1.IsFinite() || !p2.IsFinite() {
		return ErrNonFinite
	}
	if err := rs.reserve(3); err != nil {
		return err
	}
	offset := uint16(rs.VertexCount()) //nolint:gosec // bounded by reserve
	rs.Vertices = append(rs.Vertices, p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	rs.Indices = append(rs.Indices, offset, offset+1, offset+2)
	rs.PrimitiveCount++
	Logger().Debug("sketch: triangle", "p0", p0, "p1", p1, "p2", p2,
		"vertices", rs.VertexCount(), "indices", len(rs.Indices))
	return nil
}

// DrawLine appends a line from p0 to p1 as a thin quad. Each endpoint is
// offset by ±strokeWidth along the segment's unit normal (-dy, dx)/length,
// so the quad is 2*strokeWidth thick.
//
// A zero-length segment has no normal and returns ErrDegenerateLine without
// modifying the state.
func (rs *RenderState) DrawLine(p0, p1 Point2, strokeWidth float32) error {
	if !p0.IsFinite() || !p1.IsFinite() {
		return ErrNonFinite
	}
	if !isFinite(strokeWidth) || strokeWidth <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidStrokeWidth, strokeWidth)
	}
	dir := p1.Sub(p0)
	if !dir.IsFinite() {
		return fmt.Errorf("%w: segment %v -> %v overflows", ErrNonFinite, p0, p1)
	}
	distance := dir.Length()
	if distance == 0 {
		return ErrDegenerateLine
	}
	// Divide instead of scaling by 1/distance, which overflows for
	// subnormal lengths.
	n := Point2{X: -dir.Y / distance, Y: dir.X / distance}
	offset := n.Mul(strokeWidth)

	topLeft := p0.Add(offset)
	bottomLeft := p0.Sub(offset)
	bottomRight := p1.Sub(offset)
	topRight := p1.Add(offset)
	if !allFinite(topLeft, bottomLeft, bottomRight, topRight) {
		return fmt.Errorf("%w: line %v -> %v with stroke %v", ErrNonFinite, p0, p1, strokeWidth)
	}
	if err := rs.appendQuad(topLeft, bottomLeft, bottomRight, topRight); err != nil {
		return err
	}
	Logger().Debug("sketch: line", "p0", p0, "p1", p1, "stroke", strokeWidth,
		"vertices", rs.VertexCount(), "indices", len(rs.Indices))
	return nil
}

// appendQuad appends four corners and the triangles (0,1,2) and (0,2,3).
func (rs *RenderState) appendQuad(v0, v1, v2, v3 Point2) error {
	if err := rs.reserve(4); err != nil {
		return err
	}
	offset := uint16(rs.VertexCount()) //nolint:gosec // bounded by reserve
	rs.Vertices = append(rs.Vertices,
		v0.X, v0.Y,
		v1.X, v1.Y,
		v2.X, v2.Y,
		v3.X, v3.Y,
	)
	rs.Indices = append(rs.Indices,
		offset, offset+1, offset+2,
		offset, offset+2, offset+3,
	)
	rs.PrimitiveCount += 2
	return nil
}

// reserve checks that n more vertices can be appended.
func (rs *RenderState) reserve(n int) error {
	if rs.frozen {
		return ErrFrozen
	}
	if rs.VertexCount()+n > MaxVertices {
		return fmt.Errorf("%w: have %d, adding %d", ErrIndexOverflow, rs.VertexCount(), n)
	}
	return nil
}

// Freeze marks the state as consumed. Subsequent drawing calls fail with
// ErrFrozen. Freeze is idempotent.
func (rs *RenderState) Freeze() {
	rs.frozen = true
}

// Frozen reports whether Freeze has been called.
func (rs *RenderState) Frozen() bool {
	return rs.frozen
}

// IsEmpty reports whether no shape has been drawn.
func (rs *RenderState) IsEmpty() bool {
	return len(rs.Indices) == 0
}

// VertexCount returns the number of vertices (x,y pairs).
func (rs *RenderState) VertexCount() int {
	return len(rs.Vertices) / 2
}

// IndexCount returns the number of indices.
func (rs *RenderState) IndexCount() int {
	return len(rs.Indices)
}

// TriangleCount returns the number of index triples.
func (rs *RenderState) TriangleCount() int {
	return len(rs.Indices) / 3
}

// Vertex returns the i-th vertex.
func (rs *RenderState) Vertex(i int) Point2 {
	return Point2{X: rs.Vertices[2*i], Y: rs.Vertices[2*i+1]}
}

// Triangle returns the corners of the i-th triangle.
func (rs *RenderState) Triangle(i int) (p0, p1, p2 Point2) {
	return rs.Vertex(int(rs.Indices[3*i])),
		rs.Vertex(int(rs.Indices[3*i+1])),
		rs.Vertex(int(rs.Indices[3*i+2]))
}

// Bounds returns the axis-aligned bounding box of all vertices.
// ok is false for an empty state.
func (rs *RenderState) Bounds() (lo, hi Point2, ok bool) {
	n := rs.VertexCount()
	if n == 0 {
		return Point2{}, Point2{}, false
	}
	lo = rs.Vertex(0)
	hi = lo
	for i := 1; i < n; i++ {
		v := rs.Vertex(i)
		lo.X = min(lo.X, v.X)
		lo.Y = min(lo.Y, v.Y)
		hi.X = max(hi.X, v.X)
		hi.Y = max(hi.Y, v.Y)
	}
	return lo, hi, true
}

// VertexBytes serializes the vertex list as little-endian float32 values,
// matching a Float32x2 vertex attribute with an 8-byte stride.
func (rs *RenderState) VertexBytes() []byte {
	buf := make([]byte, 4*len(rs.Vertices))
	for i, v := range rs.Vertices {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// IndexBytes serializes the index list as little-endian uint16 values.
// The result is zero-padded to a multiple of 4 bytes, as required for
// buffer writes.
func (rs *RenderState) IndexBytes() []byte {
	size := 2 * len(rs.Indices)
	buf := make([]byte, (size+3)&^3)
	for i, idx := range rs.Indices {
		binary.LittleEndian.PutUint16(buf[2*i:], idx)
	}
	return buf
}
