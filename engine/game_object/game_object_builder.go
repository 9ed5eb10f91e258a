package game_object

import (
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the asset name the object was created from.
//
// Parameters:
//   - name: the asset name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithModel sets the imported model. Bounds and morph influences are taken from it;
// a later WithBounds overrides the bounds.
//
// Parameters:
//   - m: the imported model
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the model
func WithModel(m *model.ImportedModel) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
		if m == nil {
			return
		}
		if obj.name == "" {
			obj.name = m.Name
		}
		if lo, hi, ok := m.Bounds(); ok {
			obj.boundsMin, obj.boundsMax = lo, hi
		}
		for _, mesh := range m.Meshes {
			if len(mesh.MorphTargets) == 0 {
				continue
			}
			if _, ok := obj.morphs[mesh.Name]; ok {
				continue
			}
			w := make([]float32, len(mesh.MorphTargets))
			copy(w, mesh.DefaultWeights)
			obj.morphs[mesh.Name] = w
		}
	}
}

// WithMixer supplies the animation mixer instead of building one from the model's skeleton.
//
// Parameters:
//   - m: the mixer
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mixer
func WithMixer(m animator.Mixer) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mixer = m
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = p
	}
}

// WithYaw sets the initial rotation about the vertical axis.
//
// Parameters:
//   - yaw: the angle in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the yaw
func WithYaw(yaw float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.yaw = yaw
	}
}

// WithScale sets the uniform scale. Non-positive values are ignored.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(s float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		if s > 0 {
			obj.scale = s
		}
	}
}

// WithBounds sets the model-space bounding box used for collision.
//
// Parameters:
//   - lo: minimum corner
//   - hi: maximum corner
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the bounds
func WithBounds(lo, hi mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.boundsMin, obj.boundsMax = lo, hi
	}
}
