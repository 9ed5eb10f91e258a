package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-character/engine/animator"
	"github.com/Carmen-Shannon/oxy-character/engine/game_object"
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// ErrUnknownAsset is returned when a name is not in the registry's asset list.
var ErrUnknownAsset = errors.New("assets: unknown asset")

// Kind tells a preload completion from a character load completion.
type Kind int

const (
	KindPreload Kind = iota
	KindLoad
)

func (k Kind) String() string {
	if k == KindLoad {
		return "load"
	}
	return "preload"
}

// Source reads one asset file into an imported model. loader.Loader satisfies it.
type Source interface {
	Load(path string) (*model.ImportedModel, error)
}

// Sink receives freshly loaded characters. character.Controller satisfies it.
type Sink interface {
	ReplaceCharacter(asset string, obj game_object.GameObject)
}

// Completion is the outcome of one asynchronous request, queued until Drain.
type Completion struct {
	Kind  Kind
	Name  string
	Path  string
	Model *model.ImportedModel
	Err   error
}

// Registry loads animation assets off the frame goroutine and applies the results
// on it. Requests are never cancelled; when two loads overlap, the one that
// finishes last is the character that remains.
type Registry interface {
	// Preload reads the named asset and stores its clips in the library once drained.
	//
	// Parameters:
	//   - name: an asset name from the configured list
	//
	// Returns:
	//   - error: ErrUnknownAsset if the name is not configured
	Preload(name string) error

	// PreloadAll preloads every configured asset.
	PreloadAll()

	// Load reads the named asset and hands a new character to the sink once drained.
	//
	// Parameters:
	//   - name: an asset name from the configured list
	//
	// Returns:
	//   - error: ErrUnknownAsset if the name is not configured
	Load(name string) error

	// Drain applies every queued completion in the order they finished.
	// Must be called from the frame goroutine.
	//
	// Parameters:
	//   - sink: receives characters from completed loads; may be nil to drop them
	//
	// Returns:
	//   - int: the number of completions applied successfully
	Drain(sink Sink) int

	// Library returns the animation library filled by preloads.
	Library() animator.Library

	// Names returns the configured asset names.
	Names() []string

	// Path returns the file an asset name resolves to.
	Path(name string) string

	// Pending returns the number of requests that have not completed yet.
	Pending() int

	// Close stops the worker pool. Requests still queued are abandoned.
	Close()
}

type registry struct {
	source  Source
	library animator.Library
	logger  logrus.FieldLogger
	hub     *sentry.Hub
	pool    worker.DynamicWorkerPool

	dir     string
	ext     string
	names   []string
	workers int
	bounds  mgl32.Vec3
	scale   float32

	mu      *sync.Mutex
	queue   []Completion
	seq     atomic.Int64
	pending atomic.Int64
}

var _ Registry = &registry{}

// NewRegistry creates a Registry with the given options applied.
// A Source is required; everything else has a default.
//
// Parameters:
//   - options: a variadic list of RegistryBuilderOption functions
//
// Returns:
//   - Registry: the new registry
//   - error: an error if no Source was configured
func NewRegistry(options ...RegistryBuilderOption) (Registry, error) {
	r := &registry{
		logger:  logrus.StandardLogger(),
		hub:     sentry.CurrentHub(),
		dir:     "models/glb",
		ext:     ".glb",
		workers: 4,
		bounds:  mgl32.Vec3{40, 180, 40},
		scale:   1,
		mu:      &sync.Mutex{},
	}
	for _, opt := range options {
		opt(r)
	}
	if r.source == nil {
		return nil, errors.New("assets: no source configured")
	}
	if r.library == nil {
		r.library = animator.NewLibrary()
	}
	r.pool = worker.NewDynamicWorkerPool(r.workers, 64, 5*time.Second)
	return r, nil
}

func (r *registry) Preload(name string) error {
	return r.submit(KindPreload, name)
}

func (r *registry) PreloadAll() {
	for _, name := range r.names {
		_ = r.submit(KindPreload, name)
	}
}

func (r *registry) Load(name string) error {
	return r.submit(KindLoad, name)
}

func (r *registry) submit(kind Kind, name string) error {
	if !slices.Contains(r.names, name) {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, name)
	}
	path := r.Path(name)
	r.pending.Add(1)
	id := r.seq.Add(1)

	r.pool.SubmitTask(worker.Task{
		ID:      int(id),
		Payload: path,
		Do: func() (any, error) {
			hub := r.hub.Clone()
			hub.Scope().SetTag("asset", name)
			hub.Scope().SetTag("kind", kind.String())
			log := r.logger.WithFields(logrus.Fields{"asset": name, "path": path, "kind": kind})

			defer func() {
				if rec := recover(); rec != nil {
					hub.Recover(rec)
					hub.Flush(2 * time.Second)
					err := fmt.Errorf("assets: %s %s: panic: %v", kind, name, rec)
					log.Error(err)
					r.complete(Completion{Kind: kind, Name: name, Path: path, Err: err})
				}
			}()

			m, err := r.source.Load(path)
			if err != nil {
				err = fmt.Errorf("assets: %s %s: %w", kind, name, err)
				log.WithError(err).Error("asset load failed")
				hub.CaptureException(err)
			}
			r.complete(Completion{Kind: kind, Name: name, Path: path, Model: m, Err: err})
			return m, err
		},
	})
	return nil
}

func (r *registry) complete(c Completion) {
	r.mu.Lock()
	r.queue = append(r.queue, c)
	r.mu.Unlock()
	r.pending.Add(-1)
}

func (r *registry) Drain(sink Sink) int {
	r.mu.Lock()
	queue := r.queue
	r.queue = nil
	r.mu.Unlock()

	applied := 0
	for _, c := range queue {
		if c.Err != nil || c.Model == nil {
			continue
		}
		switch c.Kind {
		case KindPreload:
			if !r.library.Set(c.Name, c.Model.Animations) {
				r.logger.WithField("asset", c.Name).Warn("asset has no animation clips")
				continue
			}
			r.logger.WithFields(logrus.Fields{"asset": c.Name, "clips": len(c.Model.Animations)}).Debug("animation preloaded")
		case KindLoad:
			if sink == nil {
				continue
			}
			sink.ReplaceCharacter(c.Name, r.character(c))
		}
		applied++
	}
	return applied
}

func (r *registry) character(c Completion) game_object.GameObject {
	opts := []game_object.GameObjectBuilderOption{
		game_object.WithName(c.Name),
		game_object.WithModel(c.Model),
		game_object.WithScale(r.scale),
	}
	if _, _, ok := c.Model.Bounds(); !ok {
		half := r.bounds
		opts = append(opts, game_object.WithBounds(mgl32.Vec3{-half.X(), 0, -half.Z()}, mgl32.Vec3{half.X(), half.Y(), half.Z()}))
	}
	return game_object.NewGameObject(opts...)
}

func (r *registry) Library() animator.Library {
	return r.library
}

func (r *registry) Names() []string {
	return slices.Clone(r.names)
}

func (r *registry) Path(name string) string {
	return filepath.Join(r.dir, name+r.ext)
}

func (r *registry) Pending() int {
	return int(r.pending.Load())
}

func (r *registry) Close() {
	r.pool.Stop()
}
