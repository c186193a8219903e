// Package sketch is a small WebGPU playground for Go.
//
// # Overview
//
// sketch builds 2D geometry on the CPU and hands it to the GPU through
// gogpu/wgpu. The central type is [RenderState], an immediate-mode builder
// that turns shape requests into a flat vertex list and a matching uint16
// triangle index list in counter-clockwise winding order.
//
// # Quick Start
//
//	import "github.com/gogpu/sketch"
//
//	rs := sketch.NewRenderState()
//	_ = rs.DrawSquare(sketch.Pt2(-0.8, 0.8), 0.4)
//	_ = rs.DrawTriangleCCW(sketch.Pt2(0, 0), sketch.Pt2(0.4, 0), sketch.Pt2(0.4, 0.4))
//	if err := rs.DrawLine(sketch.Pt2(0, -0.1), sketch.Pt2(1, -1), sketch.DefaultStrokeWidth); err != nil {
//	    log.Fatal(err)
//	}
//
// # Coordinate System
//
// Coordinates are WebGPU normalized device coordinates:
//   - Origin (0,0) at the center of the surface
//   - X increases right, Y increases up
//   - The visible range is [-1, 1] on both axes
//
// Triangles must be counter-clockwise in this space to survive back-face
// culling.
//
// # Packages
//
//   - sketch: Point2, Color, RenderState (this package)
//   - life: Game of Life grid with a CPU reference step
//   - app: window lifecycle and scenes on top of gogpu
//   - software: CPU preview rasterizer for RenderState
//   - config: YAML configuration and scene description
package sketch

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
