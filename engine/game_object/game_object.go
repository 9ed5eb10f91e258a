package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

var nextID atomic.Uint64

// MorphStep is the granularity morph weights are snapped to.
const MorphStep = 0.01

type gameObject struct {
	id    uint64
	name  string
	mdl   *model.ImportedModel
	mixer animator.Mixer

	position mgl32.Vec3
	yaw      float32
	scale    float32

	boundsMin mgl32.Vec3
	boundsMax mgl32.Vec3

	// morph influences per mesh, keyed by mesh name
	morphs map[string][]float32

	disposers   []func()
	disposeOnce *sync.Once
	disposed    atomic.Bool
}

// MorphChannel describes the blend shapes one mesh exposes for tuning.
type MorphChannel struct {
	Mesh    string
	Targets []string
}

// GameObject is the controlled character: one imported model placed in the world
// with its own animation mixer and morph influences.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the asset name the object was loaded from.
	//
	// Returns:
	//   - string: the asset name
	Name() string

	// Model returns the imported model, or nil for bare objects.
	//
	// Returns:
	//   - *model.ImportedModel: the model data
	Model() *model.ImportedModel

	// Mixer returns the animation mixer bound to this object's skeleton.
	//
	// Returns:
	//   - animator.Mixer: the mixer, never nil
	Mixer() animator.Mixer

	// Position returns the object's world position. Y is vertical.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the object.
	//
	// Parameters:
	//   - p: the new world position
	SetPosition(p mgl32.Vec3)

	// Translate offsets the object's position.
	//
	// Parameters:
	//   - delta: the offset to add
	Translate(delta mgl32.Vec3)

	// Yaw returns the rotation about the vertical axis in radians.
	Yaw() float32

	// SetYaw sets the rotation about the vertical axis in radians.
	SetYaw(yaw float32)

	// Scale returns the uniform scale factor.
	Scale() float32

	// SetScale sets the uniform scale factor.
	SetScale(s float32)

	// ModelMatrix composes position, yaw and scale.
	//
	// Returns:
	//   - mgl32.Mat4: the model-to-world matrix
	ModelMatrix() mgl32.Mat4

	// LocalBounds returns the model-space bounding box.
	//
	// Returns:
	//   - mgl32.Vec3: minimum corner
	//   - mgl32.Vec3: maximum corner
	LocalBounds() (mgl32.Vec3, mgl32.Vec3)

	// BoundingBox returns the world-space axis-aligned box enclosing the object.
	//
	// Returns:
	//   - cube.BBox: the world bounds at the current position and yaw
	BoundingBox() cube.BBox

	// MorphChannels lists every mesh with blend shapes and its target names.
	//
	// Returns:
	//   - []MorphChannel: one entry per morphable mesh, in model order
	MorphChannels() []MorphChannel

	// MorphInfluences returns the current un-animated weights of a mesh.
	//
	// Parameters:
	//   - mesh: the mesh name
	//
	// Returns:
	//   - []float32: one weight per target, or nil if the mesh has none
	MorphInfluences(mesh string) []float32

	// SetMorphWeight sets one morph target weight, clamped to [0, 1] and snapped to MorphStep.
	//
	// Parameters:
	//   - mesh: the mesh name
	//   - target: the morph target name
	//   - weight: the requested weight
	//
	// Returns:
	//   - bool: false if the mesh or target does not exist
	SetMorphWeight(mesh, target string, weight float32) bool

	// OnDispose registers a callback run when the object is disposed.
	// Renderers use it to release GPU buffers created for the object.
	//
	// Parameters:
	//   - fn: the release callback
	OnDispose(fn func())

	// Dispose releases the object's resources. Later calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose has run.
	Disposed() bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject with the given options applied.
// Without WithModel the object has no meshes, a unit scale and the bounds given by WithBounds.
//
// Parameters:
//   - options: a variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		id:          nextID.Add(1),
		scale:       1,
		morphs:      make(map[string][]float32),
		disposeOnce: &sync.Once{},
	}
	for _, opt := range options {
		opt(obj)
	}
	if obj.mixer == nil {
		var skeleton *model.Skeleton
		var meshes []model.ImportedMesh
		if obj.mdl != nil {
			skeleton, meshes = obj.mdl.Skeleton, obj.mdl.Meshes
		}
		obj.mixer = animator.NewMixer(animator.WithSkeleton(skeleton), animator.WithMorphTargets(meshes))
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Model() *model.ImportedModel {
	return g.mdl
}

func (g *gameObject) Mixer() animator.Mixer {
	return g.mixer
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.position = p
}

func (g *gameObject) Translate(delta mgl32.Vec3) {
	g.position = g.position.Add(delta)
}

func (g *gameObject) Yaw() float32 {
	return g.yaw
}

func (g *gameObject) SetYaw(yaw float32) {
	g.yaw = yaw
}

func (g *gameObject) Scale() float32 {
	return g.scale
}

func (g *gameObject) SetScale(s float32) {
	g.scale = s
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	return common.ModelMatrix(g.position, g.yaw, g.scale)
}

func (g *gameObject) LocalBounds() (mgl32.Vec3, mgl32.Vec3) {
	return g.boundsMin, g.boundsMax
}

func (g *gameObject) BoundingBox() cube.BBox {
	m := g.ModelMatrix()
	lo, hi := g.boundsMin, g.boundsMax

	var wlo, whi mgl32.Vec3
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{lo.X(), lo.Y(), lo.Z()}
		if i&1 != 0 {
			corner[0] = hi.X()
		}
		if i&2 != 0 {
			corner[1] = hi.Y()
		}
		if i&4 != 0 {
			corner[2] = hi.Z()
		}
		w := mgl32.TransformCoordinate(corner, m)
		if i == 0 {
			wlo, whi = w, w
			continue
		}
		for a := 0; a < 3; a++ {
			wlo[a] = min(wlo[a], w[a])
			whi[a] = max(whi[a], w[a])
		}
	}
	return cube.Box(wlo.X(), wlo.Y(), wlo.Z(), whi.X(), whi.Y(), whi.Z())
}

func (g *gameObject) MorphChannels() []MorphChannel {
	if g.mdl == nil {
		return nil
	}
	var out []MorphChannel
	seen := map[string]bool{}
	for i := range g.mdl.Meshes {
		mesh := &g.mdl.Meshes[i]
		if len(mesh.MorphTargets) == 0 || seen[mesh.Name] {
			continue
		}
		seen[mesh.Name] = true
		out = append(out, MorphChannel{Mesh: mesh.Name, Targets: mesh.MorphTargetNames()})
	}
	return out
}

func (g *gameObject) MorphInfluences(mesh string) []float32 {
	return g.morphs[mesh]
}

func (g *gameObject) SetMorphWeight(mesh, target string, weight float32) bool {
	weights, ok := g.morphs[mesh]
	if !ok {
		return false
	}
	for i := range g.mdl.Meshes {
		m := &g.mdl.Meshes[i]
		if m.Name != mesh {
			continue
		}
		for t, mt := range m.MorphTargets {
			if mt.Name == target && t < len(weights) {
				weights[t] = snapMorph(weight)
				return true
			}
		}
	}
	return false
}

func snapMorph(w float32) float32 {
	w = mgl32.Clamp(w, 0, 1)
	steps := int(w/MorphStep + 0.5)
	return float32(steps) * MorphStep
}

func (g *gameObject) OnDispose(fn func()) {
	if g.disposed.Load() {
		fn()
		return
	}
	g.disposers = append(g.disposers, fn)
}

func (g *gameObject) Dispose() {
	g.disposeOnce.Do(func() {
		g.disposed.Store(true)
		g.mixer.StopAll()
		for _, fn := range g.disposers {
			fn()
		}
		g.disposers = nil
	})
}

func (g *gameObject) Disposed() bool {
	return g.disposed.Load()
}
