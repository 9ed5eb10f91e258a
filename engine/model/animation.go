package model

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// AnimationClip represents a single animation (walk, run, jump, etc.).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// Channels contains keyframes for each animated bone.
	Channels []AnimationChannel

	// MorphChannels contains morph weight keyframes for each animated mesh.
	MorphChannels []MorphChannel
}

// AnimationChannel contains keyframe data for a single bone.
type AnimationChannel struct {
	// Bone is the name of the bone this channel animates.
	Bone string

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation.
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	Time  float32
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a rotation at a specific time.
type QuaternionKeyframe struct {
	Time  float32
	Value mgl32.Quat
}

// MorphChannel animates every morph weight of one mesh.
type MorphChannel struct {
	// Mesh is the name of the mesh whose weights are driven.
	Mesh string

	// Times holds one timestamp per key.
	Times []float32

	// Weights holds one weight vector per key, each with one entry per target.
	Weights [][]float32
}

// Sample evaluates the channel at time t. Components without keys keep the value from rest.
// Times outside the key range clamp to the first or last key.
//
// Parameters:
//   - t: clip-local time in seconds
//   - rest: the bone's rest transform
//
// Returns:
//   - Transform: the sampled local transform
func (c *AnimationChannel) Sample(t float32, rest Transform) Transform {
	out := rest
	if len(c.PositionKeys) > 0 {
		out.Translation = sampleVector(c.PositionKeys, t)
	}
	if len(c.RotationKeys) > 0 {
		out.Rotation = sampleQuaternion(c.RotationKeys, t)
	}
	if len(c.ScaleKeys) > 0 {
		out.Scale = sampleVector(c.ScaleKeys, t)
	}
	return out
}

// Sample writes the interpolated weights at time t into out, which must
// have one entry per target. Extra entries are left untouched.
func (m *MorphChannel) Sample(t float32, out []float32) {
	if len(m.Times) == 0 {
		return
	}
	i, f := locate(len(m.Times), func(k int) float32 { return m.Times[k] }, t)
	a := m.Weights[i]
	b := a
	if i+1 < len(m.Weights) {
		b = m.Weights[i+1]
	}
	for w := range out {
		if w >= len(a) || w >= len(b) {
			break
		}
		out[w] = a[w] + (b[w]-a[w])*f
	}
}

// locate finds the key index at or before t and the blend factor toward the next key.
func locate(n int, time func(int) float32, t float32) (int, float32) {
	if n == 1 || t <= time(0) {
		return 0, 0
	}
	if t >= time(n-1) {
		return n - 1, 0
	}
	next := sort.Search(n, func(k int) bool { return time(k) > t })
	i := next - 1
	span := time(next) - time(i)
	if span <= 0 {
		return i, 0
	}
	return i, (t - time(i)) / span
}

func sampleVector(keys []VectorKeyframe, t float32) mgl32.Vec3 {
	i, f := locate(len(keys), func(k int) float32 { return keys[k].Time }, t)
	if f == 0 {
		return keys[i].Value
	}
	a, b := keys[i].Value, keys[i+1].Value
	return a.Add(b.Sub(a).Mul(f))
}

func sampleQuaternion(keys []QuaternionKeyframe, t float32) mgl32.Quat {
	i, f := locate(len(keys), func(k int) float32 { return keys[k].Time }, t)
	if f == 0 {
		return keys[i].Value
	}
	return mgl32.QuatSlerp(keys[i].Value, keys[i+1].Value, f)
}
