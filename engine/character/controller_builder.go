package character

import (
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/Carmen-Shannon/oxy-character/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// ControllerBuilderOption is a functional option for configuring a Controller via NewController.
type ControllerBuilderOption func(*controller)

// WithConfig applies movement, jump, fade, spawn and animation names from the character config.
//
// Parameters:
//   - cfg: the character section of the configuration
//
// Returns:
//   - ControllerBuilderOption: a function that applies the settings to a controller
func WithConfig(cfg config.CharacterConfig) ControllerBuilderOption {
	return func(c *controller) {
		c.moveSpeed = cfg.MoveSpeed
		c.jumpVelocity = cfg.JumpVelocity
		c.gravity = cfg.Gravity
		c.fade = cfg.FadeSeconds
		c.spawn = mgl32.Vec3(cfg.Spawn)
		c.yaw = cfg.CharacterYaw()
		c.names = cfg.Animations
	}
}

// WithLibrary sets the preloaded animation library.
//
// Parameters:
//   - lib: the library PlayAnimation resolves names against
//
// Returns:
//   - ControllerBuilderOption: a function that applies the library to a controller
func WithLibrary(lib animator.Library) ControllerBuilderOption {
	return func(c *controller) {
		c.library = lib
	}
}

// WithObstacles sets the collision set tested every frame.
func WithObstacles(o Obstacles) ControllerBuilderOption {
	return func(c *controller) {
		c.obstacles = o
	}
}

// WithBindings overrides the default key bindings. An empty map is ignored.
func WithBindings(b input.Bindings) ControllerBuilderOption {
	return func(c *controller) {
		if len(b) > 0 {
			c.bindings = b
		}
	}
}

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerBuilderOption: a function that applies the logger to a controller
func WithLogger(logger logrus.FieldLogger) ControllerBuilderOption {
	return func(c *controller) {
		c.logger = logger
	}
}

// WithSpawn overrides where replaced characters are placed and which way they face.
func WithSpawn(pos mgl32.Vec3, yaw float32) ControllerBuilderOption {
	return func(c *controller) {
		c.spawn = pos
		c.yaw = yaw
	}
}
