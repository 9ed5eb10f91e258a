package common

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestHexColor(t *testing.T) {
	c := HexColor(0xff8000)
	assert.InDelta(t, 1.0, c.X(), 1e-6)
	assert.InDelta(t, 128.0/255, c.Y(), 1e-6)
	assert.InDelta(t, 0.0, c.Z(), 1e-6)
}

func TestHSL(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float32
		want    mgl32.Vec3
	}{
		{"red", 0, 1, 0.5, mgl32.Vec3{1, 0, 0}},
		{"green", 1.0 / 3, 1, 0.5, mgl32.Vec3{0, 1, 0}},
		{"blue", 2.0 / 3, 1, 0.5, mgl32.Vec3{0, 0, 1}},
		{"grey", 0.4, 0, 0.25, mgl32.Vec3{0.25, 0.25, 0.25}},
		{"white", 0.6, 0.75, 1, mgl32.Vec3{1, 1, 1}},
		{"hue wraps", 1, 1, 0.5, mgl32.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HSL(tt.h, tt.s, tt.l)
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-5)
			}
		})
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(mgl32.DegToRad(45), 16.0/9, 1, 2000)

	near := p.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -2000, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestFrustumContainsBox(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1, 1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := NewFrustum(proj.Mul4(view))

	assert.True(t, f.ContainsBox(cube.Box(-1, -1, -11, 1, 1, -9)))
	assert.False(t, f.ContainsBox(cube.Box(-1, -1, 9, 1, 1, 11)), "behind the camera")
	assert.False(t, f.ContainsBox(cube.Box(-1, -1, -300, 1, 1, -200)), "past the far plane")
	assert.False(t, f.ContainsBox(cube.Box(100, -1, -11, 102, 1, -9)), "off to the side")
}

func TestModelMatrix(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{10, 0, 0}, mgl32.DegToRad(90), 2)
	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 10, got.X(), 1e-5)
	assert.InDelta(t, -2, got.Z(), 1e-5)
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "ArrowUp", KeyName(KeyUp))
	assert.Equal(t, "KeyZ", KeyName(KeyZ))
	assert.Equal(t, "KeyQ", KeyName(KeyQ))
	assert.Equal(t, "Digit7", KeyName(Key7))
	assert.Equal(t, "Unknown", KeyName(1000))
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug").Level)
	assert.Equal(t, logrus.InfoLevel, NewLogger("nonsense").Level)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, [2]int{1, 2}, Coalesce([2]int{}, [2]int{1, 2}))
}
