package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController orbits a camera around a target point. Window callbacks drive it
// from the OS thread while the frame goroutine reads it, so implementations are thread-safe.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Rotate orbits the camera by a mouse drag.
	// Positive dx swings the camera to the left of the target, positive dy raises it.
	//
	// Parameters:
	//   - dx, dy: drag distance in pixels, scaled by the mouse sensitivity
	Rotate(dx, dy float32)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Pan translates both position and target along the camera's right and up axes.
	//
	// Parameters:
	//   - dx, dy: pan amount in pixels, scaled by the pan speed
	Pan(dx, dy float32)

	// Radius returns the current orbit radius (distance from target).
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis in radians. 0 looks down -Z from +Z.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane in radians.
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	SetElevation(elevation float32)
}
