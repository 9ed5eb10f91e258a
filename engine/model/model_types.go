package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Transform & Skeleton Types ---

// Transform represents a decomposed transform for animation interpolation.
type Transform struct {
	// Translation is the position offset.
	Translation mgl32.Vec3

	// Rotation is the orientation quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the transform as T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Bone represents a single joint in a skeleton hierarchy.
type Bone struct {
	// Name is the joint's node name. Clips target bones by this name so clips
	// authored in separate files can drive any skeleton that shares the rig.
	Name string

	// Parent is the index of the parent bone, or -1 for roots.
	Parent int

	// InverseBind transforms from model space to bone space at bind pose.
	InverseBind mgl32.Mat4

	// Rest is the bone's local transform when no clip drives it.
	Rest Transform
}

// Skeleton represents a bone hierarchy for skeletal animation.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton.
	Bones []Bone

	// Root is applied above every root bone. It carries transforms of
	// non-joint ancestors such as an exporter's armature node.
	Root mgl32.Mat4

	index map[string]int
}

// NewSkeleton builds a skeleton and its name index.
//
// Parameters:
//   - bones: the joints in skin order
//
// Returns:
//   - *Skeleton: the skeleton
func NewSkeleton(bones []Bone) *Skeleton {
	s := &Skeleton{Bones: bones, Root: mgl32.Ident4(), index: make(map[string]int, len(bones))}
	for i, b := range bones {
		if _, dup := s.index[b.Name]; !dup {
			s.index[b.Name] = i
		}
	}
	return s
}

// BoneIndex looks up a bone by name.
func (s *Skeleton) BoneIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// RestPose returns a copy of every bone's rest transform.
func (s *Skeleton) RestPose() []Transform {
	pose := make([]Transform, len(s.Bones))
	for i, b := range s.Bones {
		pose[i] = b.Rest
	}
	return pose
}

// SkinMatrices resolves local transforms into world * inverse-bind matrices,
// the form vertex skinning consumes.
//
// Parameters:
//   - local: one local transform per bone
//
// Returns:
//   - []mgl32.Mat4: one skinning matrix per bone
func (s *Skeleton) SkinMatrices(local []Transform) []mgl32.Mat4 {
	world := make([]mgl32.Mat4, len(s.Bones))
	done := make([]bool, len(s.Bones))

	var resolve func(i int) mgl32.Mat4
	resolve = func(i int) mgl32.Mat4 {
		if done[i] {
			return world[i]
		}
		m := local[i].Matrix()
		if p := s.Bones[i].Parent; p >= 0 && p < len(s.Bones) && p != i {
			m = resolve(p).Mul4(m)
		} else {
			m = s.Root.Mul4(m)
		}
		world[i] = m
		done[i] = true
		return m
	}

	out := make([]mgl32.Mat4, len(s.Bones))
	for i := range s.Bones {
		out[i] = resolve(i).Mul4(s.Bones[i].InverseBind)
	}
	return out
}

// --- Import Types ---

// Vertex is a single mesh vertex with up to four skinning influences.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Joints   [4]uint32
	Weights  [4]float32
}

// MorphTarget is one named blend shape of a mesh.
type MorphTarget struct {
	// Name comes from the mesh's targetNames extra, or "target_<n>" when absent.
	Name string

	// PositionDeltas is added to each vertex position, scaled by the target weight.
	PositionDeltas []mgl32.Vec3

	// NormalDeltas is optional and has the same length as the vertex list when present.
	NormalDeltas []mgl32.Vec3
}

// ImportedMesh represents a single mesh within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices, including skinning data for animated meshes.
	Vertices []Vertex

	// Indices are the triangle indices.
	Indices []uint32

	// Skinned is true when the vertices reference the model's skeleton.
	Skinned bool

	// MorphTargets are the mesh's blend shapes, possibly empty.
	MorphTargets []MorphTarget

	// DefaultWeights holds the authored morph weights, one per target.
	DefaultWeights []float32

	// Color is the base color of the mesh's material.
	Color mgl32.Vec3

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin mgl32.Vec3

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax mgl32.Vec3
}

// MorphTargetNames lists the mesh's blend shape names in target order.
func (m *ImportedMesh) MorphTargetNames() []string {
	names := make([]string, len(m.MorphTargets))
	for i, t := range m.MorphTargets {
		names[i] = t.Name
	}
	return names
}

// ImportedModel represents a 3D model loaded from an external format.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes contains all mesh data.
	Meshes []ImportedMesh

	// Skeleton is the bone hierarchy (nil for static models).
	Skeleton *Skeleton

	// Animations are all animation clips bundled with the model, in file order.
	Animations []*AnimationClip
}

// AnimationNames returns the name of every bundled clip.
func (m *ImportedModel) AnimationNames() []string {
	names := make([]string, len(m.Animations))
	for i, a := range m.Animations {
		names[i] = a.Name
	}
	return names
}

// Bounds returns the union of every mesh's bounding box in model space.
//
// Returns:
//   - mgl32.Vec3: minimum corner
//   - mgl32.Vec3: maximum corner
//   - bool: false when the model has no vertices
func (m *ImportedModel) Bounds() (mgl32.Vec3, mgl32.Vec3, bool) {
	var lo, hi mgl32.Vec3
	found := false
	for _, mesh := range m.Meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}
		if !found {
			lo, hi = mesh.BoundingMin, mesh.BoundingMax
			found = true
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], mesh.BoundingMin[i])
			hi[i] = max(hi[i], mesh.BoundingMax[i])
		}
	}
	return lo, hi, found
}

// HasMorphTargets reports whether any mesh carries blend shapes.
func (m *ImportedModel) HasMorphTargets() bool {
	for _, mesh := range m.Meshes {
		if len(mesh.MorphTargets) > 0 {
			return true
		}
	}
	return false
}
