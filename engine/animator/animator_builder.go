package animator

import (
	"github.com/Carmen-Shannon/oxy-character/engine/model"
)

// MixerBuilderOption is a functional option for configuring a Mixer via NewMixer.
type MixerBuilderOption func(*mixer)

// WithSkeleton binds the mixer to a skeleton. Clip channels resolve against its bone names.
//
// Parameters:
//   - skeleton: the character's skeleton, or nil for static meshes
//
// Returns:
//   - MixerBuilderOption: a function that applies the skeleton option to a mixer
func WithSkeleton(skeleton *model.Skeleton) MixerBuilderOption {
	return func(m *mixer) {
		m.skeleton = skeleton
	}
}

// WithMorphTargets records how many morph targets each mesh exposes.
//
// Parameters:
//   - meshes: the character's meshes
//
// Returns:
//   - MixerBuilderOption: a function that applies the morph layout to a mixer
func WithMorphTargets(meshes []model.ImportedMesh) MixerBuilderOption {
	return func(m *mixer) {
		for _, mesh := range meshes {
			if n := len(mesh.MorphTargets); n > 0 {
				m.morphs[mesh.Name] = n
			}
		}
	}
}
