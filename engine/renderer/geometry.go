package renderer

import (
	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/Carmen-Shannon/oxy-character/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	vertexStride   = 36
	instanceStride = 24

	// gridLift raises grid lines off the ground plane to avoid z-fighting.
	gridLift = 0.05
)

var white = [3]float32{1, 1, 1}

// Vertex is the layout of every vertex buffer: position, normal and color.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

// Instance places and tints one copy of a mesh.
type Instance struct {
	Offset [3]float32
	Color  [3]float32
}

// boxFaces lists each face's outward normal and two in-plane axes with u x v = n.
var boxFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// quadCorners are the (u, v) signs of two counter-clockwise triangles.
var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// BoxVertices builds a non-indexed box centered on the origin.
//
// Parameters:
//   - size: the full extent along each axis
//   - tints: per-vertex colors; vertices past the end of the slice are white
//
// Returns:
//   - []Vertex: scene.BoxVertexCount vertices, outward facing and counter-clockwise
func BoxVertices(size mgl32.Vec3, tints []mgl32.Vec3) []Vertex {
	half := size.Mul(0.5)
	out := make([]Vertex, 0, scene.BoxVertexCount)
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		for _, c := range quadCorners {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1]))
			vert := Vertex{
				Position: [3]float32{p[0] * half[0], p[1] * half[1], p[2] * half[2]},
				Normal:   n,
				Color:    white,
			}
			if i := len(out); i < len(tints) {
				vert.Color = tints[i]
			}
			out = append(out, vert)
		}
	}
	return out
}

// GroundVertices builds a square on y = 0 facing up.
func GroundVertices(size float32, color mgl32.Vec3) []Vertex {
	h := size / 2
	n, u, v := boxFaces[2][0], boxFaces[2][1], boxFaces[2][2]
	out := make([]Vertex, 0, len(quadCorners))
	for _, c := range quadCorners {
		p := u.Mul(c[0] * h).Add(v.Mul(c[1] * h))
		out = append(out, Vertex{Position: p, Normal: n, Color: color})
	}
	return out
}

// GridVertices flattens grid segments into a line list.
func GridVertices(lines []scene.GridLine) []Vertex {
	out := make([]Vertex, 0, 2*len(lines))
	up := mgl32.Vec3{0, 1, 0}
	lift := up.Mul(gridLift)
	for _, l := range lines {
		out = append(out,
			Vertex{Position: l.From.Add(lift), Normal: up, Color: l.Color},
			Vertex{Position: l.To.Add(lift), Normal: up, Color: l.Color},
		)
	}
	return out
}

// VisibleInstances appends one instance per obstacle that intersects the frustum.
//
// Parameters:
//   - obstacles: the obstacles to cull
//   - f: the camera frustum
//   - dst: scratch slice reused across frames, truncated before use
//
// Returns:
//   - []Instance: the visible instances
func VisibleInstances(obstacles []scene.Obstacle, f common.Frustum, dst []Instance) []Instance {
	dst = dst[:0]
	for i := range obstacles {
		o := &obstacles[i]
		if !f.ContainsBox(o.Box) {
			continue
		}
		dst = append(dst, Instance{Offset: o.Center, Color: o.Color})
	}
	return dst
}

// SkinMesh applies morph targets, then linear blend skinning, then the world transform.
//
// Parameters:
//   - mesh: the source mesh in bind pose
//   - skin: skinning matrices from the mixer, ignored for unskinned meshes
//   - weights: one morph weight per target, may be shorter than the target list
//   - world: the object's model matrix
//   - dst: scratch slice reused across frames
//
// Returns:
//   - []Vertex: one world-space vertex per mesh vertex
func SkinMesh(mesh *model.ImportedMesh, skin []mgl32.Mat4, weights []float32, world mgl32.Mat4, dst []Vertex) []Vertex {
	if cap(dst) < len(mesh.Vertices) {
		dst = make([]Vertex, len(mesh.Vertices))
	}
	dst = dst[:len(mesh.Vertices)]
	color := [3]float32(mesh.Color)

	for i, v := range mesh.Vertices {
		pos, nrm := v.Position, v.Normal
		for t := range mesh.MorphTargets {
			if t >= len(weights) || weights[t] == 0 {
				continue
			}
			target := &mesh.MorphTargets[t]
			if i < len(target.PositionDeltas) {
				pos = pos.Add(target.PositionDeltas[i].Mul(weights[t]))
			}
			if i < len(target.NormalDeltas) {
				nrm = nrm.Add(target.NormalDeltas[i].Mul(weights[t]))
			}
		}

		m := world
		if mesh.Skinned && len(skin) > 0 {
			m = world.Mul4(blendJoints(v, skin))
		}
		p := m.Mul4x1(pos.Vec4(1)).Vec3()
		n := m.Mul4x1(nrm.Vec4(0)).Vec3()
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		dst[i] = Vertex{Position: p, Normal: n, Color: color}
	}
	return dst
}

func blendJoints(v model.Vertex, skin []mgl32.Mat4) mgl32.Mat4 {
	var m mgl32.Mat4
	var total float32
	for k := 0; k < 4; k++ {
		w := v.Weights[k]
		j := int(v.Joints[k])
		if w == 0 || j >= len(skin) {
			continue
		}
		m = m.Add(skin[j].Mul(w))
		total += w
	}
	if total == 0 {
		return mgl32.Ident4()
	}
	return m
}
