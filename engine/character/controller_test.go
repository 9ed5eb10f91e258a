package character

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/Carmen-Shannon/oxy-character/engine/game_object"
	"github.com/Carmen-Shannon/oxy-character/engine/input"
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/Carmen-Shannon/oxy-character/engine/scene"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctrl Controller
	obj  game_object.GameObject
	hook *test.Hook
}

func library(names ...string) animator.Library {
	lib := animator.NewLibrary()
	for _, n := range names {
		lib.Set(n, []*model.AnimationClip{{Name: n, Duration: 1}})
	}
	return lib
}

func character() game_object.GameObject {
	mdl := &model.ImportedModel{
		Name:       "Arm Stretching",
		Animations: []*model.AnimationClip{{Name: "mixamo.com", Duration: 2}},
	}
	return game_object.NewGameObject(
		game_object.WithModel(mdl),
		game_object.WithBounds(mgl32.Vec3{-40, 0, -40}, mgl32.Vec3{40, 180, 40}),
	)
}

func newFixture(t *testing.T, lib animator.Library, opts ...ControllerBuilderOption) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	opts = append([]ControllerBuilderOption{WithLibrary(lib), WithLogger(logger)}, opts...)
	f := &fixture{ctrl: NewController(opts...), obj: character(), hook: hook}
	f.ctrl.ReplaceCharacter("Arm Stretching", f.obj)
	hook.Reset()
	return f
}

func keys(codes ...uint32) FrameContext {
	return FrameContext{Input: input.NewState(codes...), Delta: 1.0 / 60}
}

func TestUpdateWithoutCharacter(t *testing.T) {
	ctrl := NewController(WithLibrary(library(config.DefaultAssets...)))
	assert.NotPanics(t, func() { ctrl.Update(keys(common.KeyW)) })
	assert.Nil(t, ctrl.Character())
	assert.Empty(t, ctrl.Target())
	assert.False(t, ctrl.PlayAnimation("Fast Run"))
}

func TestReplaceCharacter(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...))

	assert.Equal(t, mgl32.Vec3{1600, 0, 0}, f.obj.Position())
	assert.InDelta(t, 3*math.Pi/2, f.obj.Yaw(), 1e-6)
	assert.Equal(t, "Arm Stretching", f.ctrl.Target())
	require.NotNil(t, f.ctrl.ActiveAction())
	assert.True(t, f.ctrl.ActiveAction().Running())
	assert.Equal(t, "mixamo.com", f.ctrl.ActiveAction().Clip().Name)

	next := character()
	f.ctrl.ReplaceCharacter("Samba Dancing", next)
	assert.True(t, f.obj.Disposed())
	assert.False(t, next.Disposed())
	assert.Same(t, next, f.ctrl.Character())
	assert.Equal(t, "Samba Dancing", f.ctrl.Target())

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Samba Dancing", entry.Data["asset"])
}

func TestWithSpawn(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...), WithSpawn(mgl32.Vec3{0, 0, 25}, 0))

	assert.Equal(t, mgl32.Vec3{0, 0, 25}, f.obj.Position())
	assert.Equal(t, float32(0), f.obj.Yaw())
}

func TestWithBindings(t *testing.T) {
	b := input.Bindings{input.ActionForward: {common.KeyT}}
	f := newFixture(t, library(config.DefaultAssets...), WithBindings(b))

	f.ctrl.Update(keys(common.KeyT))
	assert.Equal(t, mgl32.Vec3{1596, 0, 0}, f.obj.Position())
	assert.Equal(t, "Fast Run", f.ctrl.Target())

	// W is no longer bound
	f.ctrl.Update(keys(common.KeyW))
	assert.Equal(t, mgl32.Vec3{1596, 0, 0}, f.obj.Position())
	assert.Equal(t, "Arm Stretching", f.ctrl.Target())

	empty := newFixture(t, library(config.DefaultAssets...), WithBindings(input.Bindings{}))
	empty.ctrl.Update(keys(common.KeyW))
	assert.Equal(t, mgl32.Vec3{1596, 0, 0}, empty.obj.Position())
}

func TestReplaceCharacterWithoutClips(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...))
	bare := game_object.NewGameObject(game_object.WithModel(&model.ImportedModel{Name: "Static"}))
	f.ctrl.ReplaceCharacter("Static", bare)
	assert.Nil(t, f.ctrl.ActiveAction())

	f.ctrl.Update(keys(common.KeyW))
	assert.Equal(t, mgl32.Vec3{1600, 0, 0}, bare.Position())
	assert.Equal(t, "Static", f.ctrl.Target())
}

func TestIdleWithoutBoundKeys(t *testing.T) {
	tests := []struct {
		name  string
		codes []uint32
	}{
		{name: "nothing held"},
		{name: "unbound letter", codes: []uint32{common.KeyQ}},
		{name: "modifiers", codes: []uint32{common.KeyLeftShift, common.KeyRightShift}},
		{name: "released keys", codes: []uint32{common.KeyEsc, common.KeyE, common.KeyT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, library(config.DefaultAssets...))
			require.True(t, f.ctrl.PlayAnimation("Fast Run"))

			f.ctrl.Update(keys(tt.codes...))
			assert.Equal(t, "Arm Stretching", f.ctrl.Target())
			assert.Equal(t, StateIdle, f.ctrl.State())
		})
	}
}

func TestPlayAnimationIsIdempotent(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...))
	mixer := f.obj.Mixer()

	require.True(t, f.ctrl.PlayAnimation("Fast Run"))
	run := f.ctrl.ActiveAction()
	mixer.Advance(0.2)

	assert.False(t, f.ctrl.PlayAnimation("Fast Run"))
	assert.Same(t, run, f.ctrl.ActiveAction())
	assert.InDelta(t, 0.2, run.Time(), 1e-6)
	assert.Len(t, mixer.Actions(), 2)
	assert.Equal(t, "Arm Stretching", f.ctrl.Previous())
}

func TestPlayAnimationCrossFades(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...))
	idle := f.ctrl.ActiveAction()

	require.True(t, f.ctrl.PlayAnimation("Fast Run"))
	run := f.ctrl.ActiveAction()
	assert.Equal(t, float32(0), run.Weight())

	f.obj.Mixer().Advance(0.25)
	assert.InDelta(t, 0.5, run.Weight(), 1e-4)
	assert.InDelta(t, 0.5, idle.Weight(), 1e-4)
	assert.Len(t, f.obj.Mixer().Running(), 2)

	f.obj.Mixer().Advance(0.3)
	assert.False(t, idle.Running())
	assert.Equal(t, float32(1), run.Weight())
}

func TestPlayAnimationMissing(t *testing.T) {
	f := newFixture(t, library("Arm Stretching", "Fast Run"))
	before := f.ctrl.ActiveAction()

	assert.False(t, f.ctrl.PlayAnimation("Samba Dancing"))
	assert.Equal(t, "Arm Stretching", f.ctrl.Target())
	assert.Same(t, before, f.ctrl.ActiveAction())
	assert.Len(t, f.obj.Mixer().Actions(), 1)

	require.Len(t, f.hook.AllEntries(), 1)
	entry := f.hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "animation Samba Dancing not pre-loaded", entry.Message)
}

func TestForwardForTenFrames(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...),
		WithObstacles(scene.NewScene(scene.WithObstacleCount(0))))
	start := f.obj.Position()

	for i := 0; i < 10; i++ {
		ctx := keys(common.KeyW)
		ctx.Time = float64(i) / 60
		f.ctrl.Update(ctx)
	}

	assert.Equal(t, "Fast Run", f.ctrl.Target())
	assert.Equal(t, StateMoving, f.ctrl.State())
	assert.InDelta(t, start.X()-40, f.obj.Position().X(), 1e-4)
	assert.Equal(t, start.Y(), f.obj.Position().Y())
	assert.Equal(t, start.Z(), f.obj.Position().Z())
}

func TestMovementRules(t *testing.T) {
	tests := []struct {
		name      string
		codes     []uint32
		animation string
		delta     mgl32.Vec3
	}{
		{name: "forward arrow", codes: []uint32{common.KeyUp}, animation: "Fast Run", delta: mgl32.Vec3{-4, 0, 0}},
		{name: "left", codes: []uint32{common.KeyA}, animation: "Fast Run", delta: mgl32.Vec3{0, 0, 4}},
		{name: "back", codes: []uint32{common.KeyS}, animation: "Walking Backwards", delta: mgl32.Vec3{4, 0, 0}},
		{name: "right", codes: []uint32{common.KeyRight}, animation: "Fast Run", delta: mgl32.Vec3{0, 0, -4}},
		{name: "forward beats back", codes: []uint32{common.KeyW, common.KeyS}, animation: "Fast Run"},
		{name: "back beats jump", codes: []uint32{common.KeyS, common.KeySpace}, animation: "Walking Backwards", delta: mgl32.Vec3{4, 0, 0}},
		{name: "diagonal", codes: []uint32{common.KeyW, common.KeyD}, animation: "Fast Run", delta: mgl32.Vec3{-4, 0, -4}},
		{name: "descend keeps animation", codes: []uint32{common.KeyZ}, animation: "Arm Stretching", delta: mgl32.Vec3{0, -4, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, library(config.DefaultAssets...))
			start := f.obj.Position()

			f.ctrl.Update(keys(tt.codes...))
			assert.Equal(t, tt.animation, f.ctrl.Target())
			got := f.obj.Position().Sub(start)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, tt.delta[i], got[i], 1e-4)
			}
		})
	}
}

func TestJumpArc(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...))

	ctx := keys(common.KeySpace)
	f.ctrl.Update(ctx)
	require.Equal(t, "Jumping", f.ctrl.Target())
	jump, active := f.ctrl.Jump()
	require.True(t, active)
	assert.Equal(t, float32(30), jump.Velocity)
	assert.Equal(t, float32(0), jump.StartHeight)
	assert.Equal(t, StateJumping, f.ctrl.State())

	ctx.Time = 3
	f.ctrl.Update(ctx)
	assert.InDelta(t, 45.9, f.obj.Position().Y(), 1e-3)

	// holding jump while airborne keeps the original arc
	jump, _ = f.ctrl.Jump()
	assert.Equal(t, float64(0), jump.Start)

	landed := -1.0
	for i := 1; i <= 400; i++ {
		ctx.Time = 3 + float64(i)*0.01
		f.ctrl.Update(ctx)
		if f.ctrl.Target() != "Jumping" {
			landed = ctx.Time
			break
		}
		require.Greater(t, f.obj.Position().Y(), float32(0))
	}
	require.Positive(t, landed)
	assert.InDelta(t, 30/4.9, landed, 0.011)
	assert.Equal(t, float32(0), f.obj.Position().Y())
	assert.Equal(t, "Arm Stretching", f.ctrl.Target())
}

func TestJumpRestartsFromIdle(t *testing.T) {
	f := newFixture(t, library(config.DefaultAssets...))

	ctx := keys(common.KeySpace)
	ctx.Time = 1
	f.ctrl.Update(ctx)
	assert.Equal(t, float32(0), f.obj.Position().Y())

	ctx.Time = 1.5
	f.ctrl.Update(ctx)
	assert.InDelta(t, 13.775, f.obj.Position().Y(), 1e-3)

	// releasing the key ends the arc where it stands
	idle := keys()
	idle.Time = 2
	f.ctrl.Update(idle)
	assert.Equal(t, "Arm Stretching", f.ctrl.Target())
	assert.InDelta(t, 13.775, f.obj.Position().Y(), 1e-3)

	ctx.Time = 5
	f.ctrl.Update(ctx)
	jump, active := f.ctrl.Jump()
	require.True(t, active)
	assert.Equal(t, float64(5), jump.Start)
	assert.InDelta(t, 13.775, jump.StartHeight, 1e-3)
}

func TestCollisionRollback(t *testing.T) {
	obstacles := scene.NewScene(scene.WithObstacleList(scene.Obstacle{
		Box: cube.Box(1500, 0, -50, 1700, 20, 50),
	}))
	f := newFixture(t, library(config.DefaultAssets...), WithObstacles(obstacles))
	start := f.obj.Position()

	f.ctrl.Update(keys(common.KeyW, common.KeyZ))
	assert.Equal(t, start.Add(mgl32.Vec3{0, -4, 0}), f.obj.Position())
	assert.Equal(t, "Flying Back Death", f.ctrl.Target())
	assert.Equal(t, StateReacting, f.ctrl.State())
}

func TestNoCollisionKeepsDelta(t *testing.T) {
	obstacles := scene.NewScene(scene.WithObstacleList(scene.Obstacle{
		Box: cube.Box(0, 0, 0, 100, 20, 100),
	}))
	f := newFixture(t, library(config.DefaultAssets...), WithObstacles(obstacles))

	f.ctrl.Update(keys(common.KeyD))
	assert.Equal(t, mgl32.Vec3{1600, 0, -4}, f.obj.Position())
	assert.Equal(t, "Fast Run", f.ctrl.Target())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "moving", StateMoving.String())
	assert.Equal(t, "jumping", StateJumping.String())
	assert.Equal(t, "reacting", StateReacting.String())
	assert.Equal(t, "unknown", State(9).String())
}
