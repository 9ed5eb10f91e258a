package character

import (
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/Carmen-Shannon/oxy-character/engine/game_object"
	"github.com/Carmen-Shannon/oxy-character/engine/input"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Obstacles is the static collision set the controller tests against.
type Obstacles interface {
	// Intersecting returns the index of the first obstacle intersecting bb.
	Intersecting(bb cube.BBox) (int, bool)
}

// Controller owns the single controlled character and drives its animation
// state machine from per-frame input.
//
// All methods must be called from the frame goroutine.
type Controller interface {
	// Update runs one frame of movement, animation selection, collision and jump arc.
	// It does nothing while no character with an active animation is loaded.
	//
	// Parameters:
	//   - ctx: the frame's input snapshot and clock
	Update(ctx FrameContext)

	// PlayAnimation cross-fades to the first clip of the named animation.
	// Requesting the current target is a no-op. Requesting an animation missing
	// from the library logs a warning and leaves the controller unchanged.
	//
	// Parameters:
	//   - name: the animation name
	//
	// Returns:
	//   - bool: true if a new action was started
	PlayAnimation(name string) bool

	// Target returns the animation the controller is currently playing towards.
	Target() string

	// Previous returns the target before the most recent switch.
	Previous() string

	// State returns the coarse state derived from the target.
	State() State

	// Jump returns the arc captured by the most recent jump.
	//
	// Returns:
	//   - JumpState: the arc
	//   - bool: true while the jump animation is the target
	Jump() (JumpState, bool)

	// ReplaceCharacter swaps the controlled character. The previous one is disposed,
	// the new one is placed at the spawn point and its first bundled clip starts playing.
	//
	// Parameters:
	//   - asset: the asset name the character was loaded from, recorded as the target
	//   - obj: the new character
	ReplaceCharacter(asset string, obj game_object.GameObject)

	// Character returns the controlled character, or nil before the first load.
	Character() game_object.GameObject

	// ActiveAction returns the action most recently started, or nil.
	ActiveAction() animator.Action
}

type controller struct {
	library   animator.Library
	obstacles Obstacles
	bindings  input.Bindings
	logger    logrus.FieldLogger

	moveSpeed    float32
	jumpVelocity float32
	gravity      float32
	fade         float32
	spawn        mgl32.Vec3
	yaw          float32
	names        config.AnimationNames

	character game_object.GameObject
	active    animator.Action
	previous  animator.Action
	target    string
	prevName  string

	jump JumpState
	now  float64
}

var _ Controller = &controller{}

// NewController creates a Controller with defaults taken from config.Default
// and the given options applied.
//
// Parameters:
//   - options: a variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the new controller, initially without a character
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		bindings: input.DefaultBindings(),
		logger:   logrus.StandardLogger(),
	}
	WithConfig(config.Default().Character)(c)
	for _, opt := range options {
		opt(c)
	}
	if c.library == nil {
		c.library = animator.NewLibrary()
	}
	return c
}

func (c *controller) Update(ctx FrameContext) {
	c.now = ctx.Time
	if c.character == nil || c.active == nil {
		return
	}

	held := func(a input.Action) bool { return c.bindings.Held(ctx.Input, a) }

	var delta mgl32.Vec3
	animation := ""
	if held(input.ActionForward) {
		delta[0] -= c.moveSpeed
		animation = c.names.Run
	}
	if held(input.ActionLeft) {
		delta[2] += c.moveSpeed
		animation = firstOf(animation, c.names.Run)
	}
	if held(input.ActionBack) {
		delta[0] += c.moveSpeed
		animation = firstOf(animation, c.names.Back)
	}
	if held(input.ActionRight) {
		delta[2] -= c.moveSpeed
		animation = firstOf(animation, c.names.Run)
	}
	if held(input.ActionJump) {
		animation = firstOf(animation, c.names.Jump)
	}
	if held(input.ActionDescend) {
		delta[1] -= c.moveSpeed
	}
	if animation == "" && !c.bindings.AnyHeld(ctx.Input) {
		animation = c.names.Idle
	}
	if animation != "" {
		c.PlayAnimation(animation)
	}

	c.character.Translate(delta)

	if c.obstacles != nil {
		if _, hit := c.obstacles.Intersecting(c.character.BoundingBox()); hit {
			// descend is not undone
			c.character.Translate(mgl32.Vec3{-delta[0], 0, -delta[2]})
			c.PlayAnimation(c.names.Collision)
		}
	}

	// the arc starts moving on the frame after the jump begins
	if c.target == c.names.Jump && ctx.Time > c.jump.Start {
		pos := c.character.Position()
		pos[1] = c.jump.Height(ctx.Time, c.gravity)
		if pos[1] <= 0 {
			pos[1] = 0
			c.character.SetPosition(pos)
			c.PlayAnimation(c.names.Idle)
			return
		}
		c.character.SetPosition(pos)
	}
}

func firstOf(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}

func (c *controller) PlayAnimation(name string) bool {
	if name == c.target {
		return false
	}
	clip, ok := c.library.First(name)
	if !ok {
		c.logger.Warnf("animation %s not pre-loaded", name)
		return false
	}
	if c.character == nil {
		return false
	}

	next := c.character.Mixer().ClipAction(clip)
	if c.active != nil && c.active != next {
		c.previous = c.active
		c.previous.FadeOut(c.fade)
	}
	c.active = next
	next.Reset()
	next.FadeIn(c.fade)
	next.Play()

	c.prevName, c.target = c.target, name
	if name == c.names.Jump {
		c.jump = JumpState{
			Start:       c.now,
			StartHeight: c.character.Position().Y(),
			Velocity:    c.jumpVelocity,
		}
	}
	c.logger.WithField("from", c.prevName).Debugf("playing %s", name)
	return true
}

func (c *controller) Target() string {
	return c.target
}

func (c *controller) Previous() string {
	return c.prevName
}

func (c *controller) State() State {
	switch c.target {
	case c.names.Jump:
		return StateJumping
	case c.names.Collision:
		return StateReacting
	case c.names.Run, c.names.Back:
		return StateMoving
	}
	return StateIdle
}

func (c *controller) Jump() (JumpState, bool) {
	return c.jump, c.target == c.names.Jump
}

func (c *controller) ReplaceCharacter(asset string, obj game_object.GameObject) {
	if c.character != nil && c.character != obj {
		c.character.Dispose()
	}
	c.character = obj
	c.active, c.previous = nil, nil
	c.prevName, c.target = c.target, asset
	if obj == nil {
		return
	}

	obj.SetPosition(c.spawn)
	obj.SetYaw(c.yaw)

	fields := logrus.Fields{"asset": asset, "id": obj.ID()}
	if mdl := obj.Model(); mdl != nil && len(mdl.Animations) > 0 {
		c.active = obj.Mixer().ClipAction(mdl.Animations[0])
		c.active.Play()
		fields["clip"] = mdl.Animations[0].Name
	}
	for _, ch := range obj.MorphChannels() {
		c.logger.WithFields(logrus.Fields{"asset": asset, "mesh": ch.Mesh}).Infof("morph targets: %v", ch.Targets)
	}
	c.logger.WithFields(fields).Info("character replaced")
}

func (c *controller) Character() game_object.GameObject {
	return c.character
}

func (c *controller) ActiveAction() animator.Action {
	return c.active
}
