package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestFromConfig(t *testing.T) {
	cam := FromConfig(config.Default().Camera, 16.0/9.0)

	assertVec(t, mgl32.Vec3{2400, 300, 0}, cam.Eye(), 1e-2)
	assert.InDelta(t, mgl32.DegToRad(45), cam.Fov(), 1e-6)
	assert.Equal(t, float32(1), cam.Near())
	assert.Equal(t, float32(2000), cam.Far())

	ctrl := cam.Controller()
	require.NotNil(t, ctrl)
	assert.InDelta(t, math.Pi/2, ctrl.Azimuth(), 1e-5)
	assert.InDelta(t, math.Sqrt(2400*2400+200*200), ctrl.Radius(), 1e-2)

	// the spawn point sits on the vertical center line, inside the depth range
	clip := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{1600, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-4)
	assert.Less(t, clip.Y()/clip.W(), float32(0))
	assert.Greater(t, clip.Y()/clip.W(), float32(-1))
	depth := clip.Z() / clip.W()
	assert.Greater(t, depth, float32(0))
	assert.Less(t, depth, float32(1))

	// the orbit target is about 2408 units away, beyond the far plane
	clip = cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 100, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-4)
	assert.Greater(t, clip.Z()/clip.W(), float32(1))
}

func TestSetAspect(t *testing.T) {
	cam := NewCamera(WithAspect(2))
	before := cam.ProjectionMatrix()

	cam.SetAspect(0)
	assert.Equal(t, float32(2), cam.Aspect())
	assert.Equal(t, before, cam.ProjectionMatrix())

	cam.SetAspect(1)
	assert.Equal(t, float32(1), cam.Aspect())
	assert.NotEqual(t, before, cam.ProjectionMatrix())
}

func TestUpdateFollowsController(t *testing.T) {
	ctrl := NewCameraController(WithTarget(mgl32.Vec3{0, 0, 0}), WithRadius(100), WithElevation(0.5))
	cam := NewCamera(WithController(ctrl))

	ctrl.SetAzimuth(math.Pi)
	assert.NotEqual(t, ctrl.Position(), cam.Eye())
	cam.Update()
	assert.Equal(t, ctrl.Position(), cam.Eye())
}

func TestOrbitLimits(t *testing.T) {
	ctrl := NewCameraController(WithRadiusLimits(50, 500), WithRadius(100), WithZoomSpeed(10))

	ctrl.Zoom(100)
	assert.Equal(t, float32(50), ctrl.Radius())
	ctrl.Zoom(-100)
	assert.Equal(t, float32(500), ctrl.Radius())
	ctrl.SetRadius(5)
	assert.Equal(t, float32(50), ctrl.Radius())

	ctrl.Rotate(0, 1e6)
	assert.InDelta(t, math.Pi/2-0.1, ctrl.Elevation(), 1e-6)
	ctrl.Rotate(0, -1e6)
	assert.InDelta(t, 0.01, ctrl.Elevation(), 1e-6)

	az := ctrl.Azimuth()
	ctrl.Rotate(100, 0)
	assert.InDelta(t, az-0.5, ctrl.Azimuth(), 1e-6)
}

func TestPanKeepsOrbit(t *testing.T) {
	ctrl := NewCameraController(WithTarget(mgl32.Vec3{0, 100, 0}), WithRadius(200), WithElevation(0.3))
	offset := ctrl.Position().Sub(ctrl.Target())

	ctrl.Pan(10, 5)
	assert.NotEqual(t, mgl32.Vec3{0, 100, 0}, ctrl.Target())
	assertVec(t, offset, ctrl.Position().Sub(ctrl.Target()), 1e-3)
}

func TestFrustum(t *testing.T) {
	cam := FromConfig(config.Default().Camera, 1)
	f := cam.Frustum()

	assert.True(t, f.ContainsBox(cube.Box(1550, 0, -50, 1650, 20, 50)))
	// around the orbit target, which lies past the far plane
	assert.False(t, f.ContainsBox(cube.Box(-50, 90, -50, 50, 110, 50)))
	// behind the camera
	assert.False(t, f.ContainsBox(cube.Box(3000, 0, -50, 3100, 20, 50)))
	// past the far plane
	assert.False(t, f.ContainsBox(cube.Box(-1900, 0, -50, -1800, 20, 50)))
}
