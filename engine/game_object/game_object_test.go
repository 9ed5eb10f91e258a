package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func morphModel() *model.ImportedModel {
	return &model.ImportedModel{
		Name: "Samba Dancing",
		Meshes: []model.ImportedMesh{
			{
				Name:        "Body",
				Vertices:    []model.Vertex{{Position: mgl32.Vec3{-40, 0, -10}}, {Position: mgl32.Vec3{40, 180, 10}}},
				BoundingMin: mgl32.Vec3{-40, 0, -10},
				BoundingMax: mgl32.Vec3{40, 180, 10},
				MorphTargets: []model.MorphTarget{
					{Name: "Smile"},
					{Name: "Blink"},
				},
				DefaultWeights: []float32{0.25, 0},
			},
			{
				Name:        "Hat",
				Vertices:    []model.Vertex{{Position: mgl32.Vec3{0, 180, 0}}},
				BoundingMin: mgl32.Vec3{-5, 180, -5},
				BoundingMax: mgl32.Vec3{5, 200, 5},
			},
		},
	}
}

func TestNewGameObjectDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, float32(1), a.Scale())
	assert.NotNil(t, a.Mixer())
	assert.Nil(t, a.Model())
	assert.Empty(t, a.MorphChannels())

	c := NewGameObject(WithID(42), WithName("Fast Run"), WithScale(-3))
	assert.Equal(t, uint64(42), c.ID())
	assert.Equal(t, "Fast Run", c.Name())
	assert.Equal(t, float32(1), c.Scale())
}

func TestWithModel(t *testing.T) {
	obj := NewGameObject(WithModel(morphModel()))
	assert.Equal(t, "Samba Dancing", obj.Name())

	lo, hi := obj.LocalBounds()
	assert.Equal(t, mgl32.Vec3{-40, 0, -10}, lo)
	assert.Equal(t, mgl32.Vec3{40, 200, 10}, hi)

	channels := obj.MorphChannels()
	require.Len(t, channels, 1)
	assert.Equal(t, "Body", channels[0].Mesh)
	assert.Equal(t, []string{"Smile", "Blink"}, channels[0].Targets)
	assert.Equal(t, []float32{0.25, 0}, obj.MorphInfluences("Body"))
	assert.Nil(t, obj.MorphInfluences("Hat"))

	override := NewGameObject(WithModel(morphModel()), WithBounds(mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 2, 1}))
	lo, hi = override.LocalBounds()
	assert.Equal(t, mgl32.Vec3{-1, 0, -1}, lo)
	assert.Equal(t, mgl32.Vec3{1, 2, 1}, hi)
}

func TestSetMorphWeight(t *testing.T) {
	obj := NewGameObject(WithModel(morphModel()))

	assert.True(t, obj.SetMorphWeight("Body", "Blink", 0.337))
	assert.InDelta(t, 0.34, obj.MorphInfluences("Body")[1], 1e-6)

	assert.True(t, obj.SetMorphWeight("Body", "Smile", 4))
	assert.Equal(t, float32(1), obj.MorphInfluences("Body")[0])

	assert.True(t, obj.SetMorphWeight("Body", "Smile", -1))
	assert.Equal(t, float32(0), obj.MorphInfluences("Body")[0])

	assert.False(t, obj.SetMorphWeight("Body", "Frown", 0.5))
	assert.False(t, obj.SetMorphWeight("Hat", "Smile", 0.5))
}

func TestTransform(t *testing.T) {
	obj := NewGameObject(WithPosition(mgl32.Vec3{1600, 0, 0}), WithYaw(math.Pi))
	obj.Translate(mgl32.Vec3{0, 5, -4})
	assert.Equal(t, mgl32.Vec3{1600, 5, -4}, obj.Position())
	assert.Equal(t, float32(math.Pi), obj.Yaw())

	obj.SetPosition(mgl32.Vec3{})
	obj.SetYaw(0)
	obj.SetScale(2)
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 1, 1}, obj.ModelMatrix())
	assert.InDelta(t, 2, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 2, p.Z(), 1e-5)
}

func TestBoundingBox(t *testing.T) {
	obj := NewGameObject(
		WithBounds(mgl32.Vec3{-40, 0, -10}, mgl32.Vec3{40, 180, 10}),
		WithPosition(mgl32.Vec3{1600, 0, 0}),
	)
	bb := obj.BoundingBox()
	assert.InDelta(t, 1560, bb.Min().X(), 1e-3)
	assert.InDelta(t, 1640, bb.Max().X(), 1e-3)
	assert.InDelta(t, 180, bb.Max().Y(), 1e-3)

	// a quarter turn swaps the horizontal extents
	obj.SetYaw(3 * math.Pi / 2)
	bb = obj.BoundingBox()
	assert.InDelta(t, 1590, bb.Min().X(), 1e-3)
	assert.InDelta(t, 1610, bb.Max().X(), 1e-3)
	assert.InDelta(t, -40, bb.Min().Z(), 1e-3)
	assert.InDelta(t, 40, bb.Max().Z(), 1e-3)
	assert.InDelta(t, 0, bb.Min().Y(), 1e-3)
}

func TestDispose(t *testing.T) {
	obj := NewGameObject()
	calls := 0
	obj.OnDispose(func() { calls++ })
	obj.OnDispose(func() { calls++ })
	assert.False(t, obj.Disposed())

	obj.Dispose()
	obj.Dispose()
	assert.True(t, obj.Disposed())
	assert.Equal(t, 2, calls)

	// late registrations run immediately
	obj.OnDispose(func() { calls++ })
	assert.Equal(t, 3, calls)
}
