package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - CameraControllerOption: functional option to set the elevation
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithEye places the camera at a world-space position. Radius, azimuth and elevation
// are derived from it and the target, overriding WithRadius, WithAzimuth and WithElevation.
//
// Parameters:
//   - eye: world-space camera position
//
// Returns:
//   - CameraControllerOption: functional option to set the eye position
func WithEye(eye mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.eye = &eye
	}
}

// WithRadiusLimits sets the zoom bounds.
func WithRadiusLimits(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationLimits sets how far the camera may tilt, in radians.
func WithElevationLimits(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithMouseSensitivity sets the radians of orbit per pixel of drag.
func WithMouseSensitivity(s float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = s
	}
}

// WithZoomSpeed sets the radius change per scroll step.
func WithZoomSpeed(s float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = s
	}
}
