package animator

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// mixer implements the Mixer interface.
type mixer struct {
	skeleton *model.Skeleton
	morphs   map[string]int // mesh name -> morph target count

	actions []*action
	byClip  map[*model.AnimationClip]*action

	stripped map[string]int // bone name without namespace -> bone index
	time     float32
}

// Mixer advances and blends the clips bound to one character.
//
// A Mixer owns one Action per clip. Running actions are sampled every frame
// and combined by weight; bones no action drives keep their rest transform.
type Mixer interface {
	// ClipAction returns the action for a clip, creating it on first use.
	// Repeated calls with the same clip return the same action.
	//
	// Parameters:
	//   - clip: the clip to play on this mixer's skeleton
	//
	// Returns:
	//   - Action: the clip's action, initially stopped at full weight
	ClipAction(clip *model.AnimationClip) Action

	// Advance moves every running action forward.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous advance
	Advance(dt float32)

	// Actions returns every action created on this mixer.
	//
	// Returns:
	//   - []Action: the actions in creation order
	Actions() []Action

	// Running returns the actions currently contributing to the pose.
	//
	// Returns:
	//   - []Action: running actions with non-zero weight
	Running() []Action

	// StopAll stops every action.
	StopAll()

	// Time returns the total time advanced.
	Time() float32

	// Pose samples and blends all running actions.
	//
	// Returns:
	//   - []model.Transform: one local transform per bone; nil without a skeleton
	Pose() []model.Transform

	// SkinMatrices resolves the current pose into skinning matrices.
	//
	// Returns:
	//   - []mgl32.Mat4: one matrix per bone; nil without a skeleton
	SkinMatrices() []mgl32.Mat4

	// MorphWeights blends animated morph weights for a mesh over a base set.
	// Where running actions cover less than full weight the base fills the rest.
	//
	// Parameters:
	//   - mesh: the mesh name
	//   - base: the un-animated weights, one per target; nil means all zero
	//
	// Returns:
	//   - []float32: the blended weights, same length as base
	MorphWeights(mesh string, base []float32) []float32
}

var _ Mixer = &mixer{}

// NewMixer creates a Mixer with the given options applied.
//
// Parameters:
//   - options: a variadic list of MixerBuilderOption functions
//
// Returns:
//   - Mixer: the new mixer
func NewMixer(options ...MixerBuilderOption) Mixer {
	m := &mixer{
		morphs: make(map[string]int),
		byClip: make(map[*model.AnimationClip]*action),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *mixer) ClipAction(clip *model.AnimationClip) Action {
	if a, ok := m.byClip[clip]; ok {
		return a
	}
	bindings := make([]int, len(clip.Channels))
	for i, ch := range clip.Channels {
		bindings[i] = m.boneIndex(ch.Bone)
	}
	a := newAction(clip, bindings)
	m.byClip[clip] = a
	m.actions = append(m.actions, a)
	return a
}

// boneIndex resolves a channel's bone name. Rigs exported separately often differ
// only in their namespace prefix ("mixamorig:Hips" vs "mixamorig1:Hips").
func (m *mixer) boneIndex(name string) int {
	if m.skeleton == nil {
		return -1
	}
	if i, ok := m.skeleton.BoneIndex(name); ok {
		return i
	}
	if m.stripped == nil {
		m.stripped = make(map[string]int, len(m.skeleton.Bones))
		for i, b := range m.skeleton.Bones {
			key := stripNamespace(b.Name)
			if _, dup := m.stripped[key]; !dup {
				m.stripped[key] = i
			}
		}
	}
	if i, ok := m.stripped[stripNamespace(name)]; ok {
		return i
	}
	return -1
}

func stripNamespace(name string) string {
	if i := strings.LastIndexAny(name, ":|"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (m *mixer) Advance(dt float32) {
	if dt < 0 {
		dt = 0
	}
	m.time += dt
	for _, a := range m.actions {
		a.advance(dt)
	}
}

func (m *mixer) Actions() []Action {
	out := make([]Action, len(m.actions))
	for i, a := range m.actions {
		out[i] = a
	}
	return out
}

func (m *mixer) Running() []Action {
	var out []Action
	for _, a := range m.actions {
		if a.contributes() {
			out = append(out, a)
		}
	}
	return out
}

func (m *mixer) StopAll() {
	for _, a := range m.actions {
		a.Stop()
	}
}

func (m *mixer) Time() float32 {
	return m.time
}

func (m *mixer) Pose() []model.Transform {
	if m.skeleton == nil {
		return nil
	}
	rest := m.skeleton.RestPose()
	n := len(rest)

	translation := make([]mgl32.Vec3, n)
	scale := make([]mgl32.Vec3, n)
	rotation := make([]mgl32.Quat, n)
	weight := make([]float32, n)

	for _, a := range m.actions {
		if !a.contributes() {
			continue
		}
		w := a.weight
		for c := range a.clip.Channels {
			b := a.bindings[c]
			if b < 0 {
				continue
			}
			s := a.clip.Channels[c].Sample(a.time, rest[b])
			translation[b] = translation[b].Add(s.Translation.Mul(w))
			scale[b] = scale[b].Add(s.Scale.Mul(w))
			if weight[b] == 0 {
				rotation[b] = s.Rotation
			} else {
				rotation[b] = accumulate(rotation[b], s.Rotation, w/(weight[b]+w))
			}
			weight[b] += w
		}
	}

	pose := make([]model.Transform, n)
	for b := range pose {
		w := weight[b]
		switch {
		case w == 0:
			pose[b] = rest[b]
		case w < 1:
			// the rest pose fills whatever weight the actions leave uncovered
			fill := 1 - w
			pose[b] = model.Transform{
				Translation: translation[b].Add(rest[b].Translation.Mul(fill)),
				Scale:       scale[b].Add(rest[b].Scale.Mul(fill)),
				Rotation:    accumulate(rest[b].Rotation, rotation[b], w),
			}
		default:
			pose[b] = model.Transform{
				Translation: translation[b].Mul(1 / w),
				Scale:       scale[b].Mul(1 / w),
				Rotation:    rotation[b].Normalize(),
			}
		}
	}
	return pose
}

// accumulate slerps from acc toward q along the shorter arc.
func accumulate(acc, q mgl32.Quat, t float32) mgl32.Quat {
	if acc.Dot(q) < 0 {
		q = q.Scale(-1)
	}
	return mgl32.QuatSlerp(acc, q, t).Normalize()
}

func (m *mixer) SkinMatrices() []mgl32.Mat4 {
	if m.skeleton == nil {
		return nil
	}
	return m.skeleton.SkinMatrices(m.Pose())
}

func (m *mixer) MorphWeights(mesh string, base []float32) []float32 {
	if len(base) == 0 {
		base = make([]float32, m.morphs[mesh])
	}
	out := make([]float32, len(base))
	sampled := make([]float32, len(base))
	var total float32

	for _, a := range m.actions {
		if !a.contributes() {
			continue
		}
		for c := range a.clip.MorphChannels {
			ch := &a.clip.MorphChannels[c]
			if ch.Mesh != mesh {
				continue
			}
			copy(sampled, base)
			ch.Sample(a.time, sampled)
			for i := range out {
				out[i] += sampled[i] * a.weight
			}
			total += a.weight
		}
	}

	switch {
	case total == 0:
		copy(out, base)
	case total < 1:
		for i := range out {
			out[i] += base[i] * (1 - total)
		}
	default:
		for i := range out {
			out[i] /= total
		}
	}
	return out
}
