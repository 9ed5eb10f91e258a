package camera

import (
	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: functional option to set the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the initial aspect ratio.
//
// Parameters:
//   - aspect: width / height
//
// Returns:
//   - CameraBuilderOption: functional option to set the aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithClip sets the near and far clipping plane distances.
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches a controller at construction.
//
// Parameters:
//   - ctrl: the controller supplying position and target
//
// Returns:
//   - CameraBuilderOption: functional option to attach the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// FromConfig builds a camera and orbit controller from the camera config.
// The field of view in the config is in degrees.
//
// Parameters:
//   - cfg: the camera section of the configuration
//   - aspect: the initial aspect ratio
//
// Returns:
//   - Camera: the camera with an orbit controller attached
func FromConfig(cfg config.CameraConfig, aspect float32) Camera {
	ctrl := NewCameraController(
		WithTarget(mgl32.Vec3(cfg.Target)),
		WithEye(mgl32.Vec3(cfg.Position)),
	)
	return NewCamera(
		WithFov(mgl32.DegToRad(cfg.FOV)),
		WithAspect(aspect),
		WithClip(cfg.Near, cfg.Far),
		WithController(ctrl),
	)
}
