package camera

import (
	"math"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl keeps the camera on a sphere around the target.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position mgl32.Vec3
	target   mgl32.Vec3
	eye      *mgl32.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit controller.
// When WithEye is given, radius, azimuth and elevation are derived from it and the target.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    250.0,
		elevation: float32(math.Pi / 6),

		minRadius:    20.0,
		maxRadius:    4000.0,
		minElevation: 0.01,
		maxElevation: float32(math.Pi/2 - 0.1),

		mouseSensitivity: 0.005,
		zoomSpeed:        15.0,
		panSpeed:         1.0,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.eye != nil {
		cc.fromEye(*cc.eye)
	}
	cc.clamp()
	cc.updatePosition()
	return cc
}

// fromEye converts a world-space eye position into spherical coordinates around the target.
func (cc *cameraControllerImpl) fromEye(eye mgl32.Vec3) {
	offset := eye.Sub(cc.target)
	r := offset.Len()
	if r < 1e-6 {
		return
	}
	cc.radius = r
	cc.elevation = math32.Asin(offset.Y() / r)
	cc.azimuth = math32.Atan2(offset.X(), offset.Z())
}

// clamp keeps radius and elevation inside their limits. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes returns the camera's right and up vectors, consistent with LookAt.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	up = back.Cross(right)
	return right, up
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= dx * cc.mouseSensitivity
	cc.elevation += dy * cc.mouseSensitivity
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, up := cc.localAxes()
	offset := right.Mul(-dx * cc.panSpeed).Add(up.Mul(dy * cc.panSpeed))
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = radius
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = elevation
	cc.clamp()
	cc.updatePosition()
}
