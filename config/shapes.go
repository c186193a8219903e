package config

import (
	"errors"
	"fmt"

	"github.com/gogpu/sketch"
)

// Shape kinds.
const (
	KindSquare   = "square"
	KindTriangle = "triangle"
	KindLine     = "line"
)

// ShapesConfig lists the shapes of the shapes scene.
type ShapesConfig struct {
	Fill  RGB     `yaml:"fill"`
	Items []Shape `yaml:"items"`
}

// Shape is one drawing call.
//
// A square takes its top-left corner as the single point and a width. A
// triangle takes three counter-clockwise points. A line takes two points
// and an optional stroke width.
type Shape struct {
	Kind   string       `yaml:"kind"`
	Points [][2]float32 `yaml:"points"`
	Width  float32      `yaml:"width,omitempty"`
	Stroke float32      `yaml:"stroke,omitempty"`
}

// DefaultShapes returns the built-in shapes scene: two squares, a
// triangle and a line.
func DefaultShapes() ShapesConfig {
	return ShapesConfig{
		Fill: RGB{204, 204, 128},
		Items: []Shape{
			{Kind: KindSquare, Points: [][2]float32{{-0.8, 0.8}}, Width: 0.4},
			{Kind: KindSquare, Points: [][2]float32{{0.8, 0.8}}, Width: 0.2},
			{Kind: KindTriangle, Points: [][2]float32{{0, 0}, {0.4, 0}, {0.4, 0.4}}},
			{Kind: KindLine, Points: [][2]float32{{0, -0.1}, {1, -1}}},
		},
	}
}

func (s Shape) validate() error {
	want := 0
	switch s.Kind {
	case KindSquare:
		want = 1
	case KindTriangle:
		want = 3
	case KindLine:
		want = 2
		if s.Stroke < 0 {
			return fmt.Errorf("line stroke %v must not be negative", s.Stroke)
		}
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if len(s.Points) != want {
		return fmt.Errorf("%s needs %d points, got %d", s.Kind, want, len(s.Points))
	}
	return nil
}

// Draw appends the shape to rs.
func (s Shape) Draw(rs *sketch.RenderState) error {
	if err := s.validate(); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	p := make([]sketch.Point2, len(s.Points))
	for i, xy := range s.Points {
		p[i] = sketch.Pt2(xy[0], xy[1])
	}
	switch s.Kind {
	case KindSquare:
		return rs.DrawSquare(p[0], s.Width)
	case KindTriangle:
		return rs.DrawTriangleCCW(p[0], p[1], p[2])
	default:
		stroke := s.Stroke
		if stroke == 0 {
			stroke = sketch.DefaultStrokeWidth
		}
		return rs.DrawLine(p[0], p[1], stroke)
	}
}

// Build draws every shape into rs in order. It stops at the first failure.
func (c ShapesConfig) Build(rs *sketch.RenderState) error {
	for i, s := range c.Items {
		if err := s.Draw(rs); err != nil {
			return fmt.Errorf("config: shape %d (%s): %w", i, s.Kind, err)
		}
	}
	return nil
}
