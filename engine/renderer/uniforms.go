package renderer

import (
	"github.com/Carmen-Shannon/oxy-character/engine/camera"
	"github.com/Carmen-Shannon/oxy-character/engine/scene"
)

// FrameUniforms mirrors the WGSL Frame struct. Every field is 16-byte aligned.
type FrameUniforms struct {
	ViewProj   [16]float32
	Eye        [4]float32
	Sky        [4]float32 // rgb, intensity in w
	Ground     [4]float32
	LightDir   [4]float32 // unit vector towards the light, intensity in w
	LightColor [4]float32
	FogColor   [4]float32
	Fog        [4]float32 // near, far
}

// NewFrameUniforms collects the per-frame camera and lighting state.
//
// Parameters:
//   - cam: the active camera
//   - env: the scene environment
//
// Returns:
//   - FrameUniforms: ready to upload with common.StructToBytes
func NewFrameUniforms(cam camera.Camera, env scene.Environment) FrameUniforms {
	u := FrameUniforms{ViewProj: cam.ViewProjectionMatrix()}

	eye := cam.Eye()
	u.Eye = [4]float32{eye[0], eye[1], eye[2], 1}

	h := env.Hemisphere
	u.Sky = [4]float32{h.Sky[0], h.Sky[1], h.Sky[2], h.Intensity}
	u.Ground = [4]float32{h.Ground[0], h.Ground[1], h.Ground[2], 0}

	d := env.Directional
	dir := d.Position
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	u.LightDir = [4]float32{dir[0], dir[1], dir[2], d.Intensity}
	u.LightColor = [4]float32{d.Color[0], d.Color[1], d.Color[2], 1}

	f := env.Fog
	u.FogColor = [4]float32{f.Color[0], f.Color[1], f.Color[2], 1}
	u.Fog = [4]float32{f.Near, f.Far, 0, 0}
	return u
}
