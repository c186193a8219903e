package sketch

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestPoint2_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		got    Point2
		expect Point2
	}{
		{"add", Pt2(1, 2).Add(Pt2(3, 4)), Pt2(4, 6)},
		{"sub", Pt2(5, 7).Sub(Pt2(2, 3)), Pt2(3, 4)},
		{"mul", Pt2(1, -2).Mul(2), Pt2(2, -4)},
		{"add x", Pt2(1, 1).AddX(0.5), Pt2(1.5, 1)},
		{"add y", Pt2(1, 1).AddY(-0.5), Pt2(1, 0.5)},
		{"perp", Pt2(1, 0).Perp(), Pt2(0, 1)},
		{"perp negative", Pt2(0, -2).Perp(), Pt2(2, 0)},
		{"normalize", Pt2(3, 4).Normalize(), Pt2(0.6, 0.8)},
		{"normalize zero", Pt2(0, 0).Normalize(), Pt2(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.got.Approx(tt.expect, 1e-6), "got %v, want %v", tt.got, tt.expect)
		})
	}
}

func TestPoint2_Metrics(t *testing.T) {
	assert.Equal(t, float32(5), Pt2(3, 4).Length())
	assert.InDelta(t, 5e19, float64(Pt2(3e19, 4e19).Length()), 1e14, "squares overflow float32")
	assert.Equal(t, float32(5), Pt2(1, 1).Distance(Pt2(4, 5)))
	assert.Equal(t, float32(11), Pt2(1, 2).Dot(Pt2(3, 4)))
	assert.Equal(t, float32(1), Pt2(1, 0).Cross(Pt2(0, 1)))
	assert.Equal(t, float32(-1), Pt2(0, 1).Cross(Pt2(1, 0)))
}

func TestPoint2_IsFinite(t *testing.T) {
	assert.True(t, Pt2(1, -1).IsFinite())
	assert.False(t, Pt2(math32.NaN(), 0).IsFinite())
	assert.False(t, Pt2(0, math32.Inf(-1)).IsFinite())
}
