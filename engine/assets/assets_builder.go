package assets

import (
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// RegistryBuilderOption is a functional option for configuring a Registry via NewRegistry.
type RegistryBuilderOption func(*registry)

// WithSource sets where asset files are read from.
//
// Parameters:
//   - src: the asset source, usually a loader.Loader
//
// Returns:
//   - RegistryBuilderOption: a function that applies the source to a registry
func WithSource(src Source) RegistryBuilderOption {
	return func(r *registry) {
		r.source = src
	}
}

// WithConfig applies the asset directory, extension, names and worker count.
//
// Parameters:
//   - cfg: the assets section of the configuration
//
// Returns:
//   - RegistryBuilderOption: a function that applies the settings to a registry
func WithConfig(cfg config.AssetsConfig) RegistryBuilderOption {
	return func(r *registry) {
		r.dir = cfg.Dir
		r.ext = cfg.Extension
		r.names = append([]string{}, cfg.Names...)
		if cfg.Workers > 0 {
			r.workers = cfg.Workers
		}
	}
}

// WithNames sets the asset names requests are accepted for.
func WithNames(names ...string) RegistryBuilderOption {
	return func(r *registry) {
		r.names = append([]string{}, names...)
	}
}

// WithLibrary sets the library preloads are stored in.
func WithLibrary(lib animator.Library) RegistryBuilderOption {
	return func(r *registry) {
		r.library = lib
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger logrus.FieldLogger) RegistryBuilderOption {
	return func(r *registry) {
		r.logger = logger
	}
}

// WithHub sets the sentry hub load failures are reported to.
//
// Parameters:
//   - hub: the hub to clone per request
//
// Returns:
//   - RegistryBuilderOption: a function that applies the hub to a registry
func WithHub(hub *sentry.Hub) RegistryBuilderOption {
	return func(r *registry) {
		if hub != nil {
			r.hub = hub
		}
	}
}

// WithCharacter sets the collision half extents used for models without geometry bounds,
// and the uniform scale applied to loaded characters.
//
// Parameters:
//   - halfExtents: half width, full height and half depth of the fallback box
//   - scale: the character scale
//
// Returns:
//   - RegistryBuilderOption: a function that applies the settings to a registry
func WithCharacter(halfExtents mgl32.Vec3, scale float32) RegistryBuilderOption {
	return func(r *registry) {
		r.bounds = halfExtents
		if scale > 0 {
			r.scale = scale
		}
	}
}
