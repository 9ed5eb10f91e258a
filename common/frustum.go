package common

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n·p + d = 0.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// NewFrustum extracts frustum planes from a view-projection matrix using the
// Gribb/Hartmann method. The near plane assumes a [0, 1] clip depth range.
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	rows := [6]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r2,
		r3.Sub(r2),
	}

	var f Frustum
	for i, r := range rows {
		n := r.Vec3()
		l := n.Len()
		if l == 0 {
			l = 1
		}
		f.Planes[i] = Plane{Normal: n.Mul(1 / l), Distance: r.W() / l}
	}
	return f
}

// ContainsBox reports whether any part of bb lies inside the frustum.
// Uses the positive-vertex test, so it can return false positives near corners
// but never culls a visible box.
func (f Frustum) ContainsBox(bb cube.BBox) bool {
	lo, hi := bb.Min(), bb.Max()
	for _, p := range f.Planes {
		v := lo
		if p.Normal.X() >= 0 {
			v[0] = hi.X()
		}
		if p.Normal.Y() >= 0 {
			v[1] = hi.Y()
		}
		if p.Normal.Z() >= 0 {
			v[2] = hi.Z()
		}
		if p.Normal.Dot(v)+p.Distance < 0 {
			return false
		}
	}
	return true
}
