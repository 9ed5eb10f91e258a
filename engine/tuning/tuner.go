package tuning

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-character/engine/game_object"
	"github.com/sirupsen/logrus"
)

// Loader requests an asset load. assets.Registry satisfies it.
type Loader interface {
	Load(name string) error
}

// Target exposes the character being tuned. character.Controller satisfies it.
type Target interface {
	Character() game_object.GameObject
}

// Channel is one morph slider of the current character.
type Channel struct {
	Mesh   string
	Target string
	Min    float32
	Max    float32
	Step   float32
	Value  float32
}

// Tuner applies tuning values to the running demo. All methods must be called from the frame goroutine.
type Tuner interface {
	// Apply loads the selected asset when it changed and sets the listed morph weights
	// on the current character.
	//
	// Parameters:
	//   - t: the tuning values
	//
	// Returns:
	//   - error: the joined errors for an unknown asset, mesh or morph target
	Apply(t Tuning) error

	// Poll applies every update the watcher has delivered since the last call and
	// re-applies the morph weights when a new character has arrived.
	//
	// Returns:
	//   - int: the number of updates applied
	Poll() int

	// Channels lists one slider per morph target of the current character.
	//
	// Returns:
	//   - []Channel: sliders sorted by mesh name with targets in model order, empty without morph targets
	Channels() []Channel

	// Asset returns the asset most recently selected.
	Asset() string
}

type tuner struct {
	loader  Loader
	target  Target
	watcher *Watcher
	logger  logrus.FieldLogger

	asset    string
	morphs   map[string]map[string]float32
	lastChar uint64
}

var _ Tuner = &tuner{}

// NewTuner creates a Tuner with the given options applied.
//
// Parameters:
//   - options: a variadic list of TunerBuilderOption functions
//
// Returns:
//   - Tuner: the new tuner
func NewTuner(options ...TunerBuilderOption) Tuner {
	t := &tuner{logger: logrus.StandardLogger()}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *tuner) Apply(tn Tuning) error {
	var errs []error
	if tn.Asset != "" && tn.Asset != t.asset {
		if t.loader != nil {
			if err := t.loader.Load(tn.Asset); err != nil {
				errs = append(errs, err)
			} else {
				t.asset = tn.Asset
				t.logger.WithField("asset", tn.Asset).Info("asset selected")
			}
		}
	}
	if tn.Morphs != nil {
		t.morphs = tn.Morphs
		errs = append(errs, t.applyMorphs()...)
	}
	err := errors.Join(errs...)
	if err != nil {
		t.logger.WithError(err).Warn("tuning not fully applied")
	}
	return err
}

func (t *tuner) applyMorphs() []error {
	obj := t.character()
	if obj == nil {
		return nil
	}
	var errs []error
	for mesh, targets := range t.morphs {
		for name, w := range targets {
			if !obj.SetMorphWeight(mesh, name, w) {
				errs = append(errs, fmt.Errorf("tuning: morph %s/%s not found on %s", mesh, name, obj.Name()))
			}
		}
	}
	return errs
}

func (t *tuner) character() game_object.GameObject {
	if t.target == nil {
		return nil
	}
	return t.target.Character()
}

func (t *tuner) Poll() int {
	if obj := t.character(); obj != nil && obj.ID() != t.lastChar {
		t.lastChar = obj.ID()
		t.announce()
		if t.morphs != nil {
			_ = t.applyMorphs()
		}
	}
	if t.watcher == nil {
		return 0
	}

	applied := 0
	for {
		select {
		case tn, ok := <-t.watcher.Updates:
			if !ok {
				t.watcher = nil
				return applied
			}
			_ = t.Apply(tn)
			applied++
		case err, ok := <-t.watcher.Errors:
			if !ok {
				t.watcher = nil
				return applied
			}
			t.logger.WithError(err).Warn("tuning watch error")
		default:
			return applied
		}
	}
}

// announce logs the sliders of a newly arrived character.
func (t *tuner) announce() {
	for _, ch := range t.Channels() {
		t.logger.WithFields(logrus.Fields{
			"mesh":   ch.Mesh,
			"target": ch.Target,
			"value":  ch.Value,
		}).Infof("morph slider [%.0f, %.0f] step %.2f", ch.Min, ch.Max, ch.Step)
	}
}

func (t *tuner) Channels() []Channel {
	obj := t.character()
	if obj == nil {
		return nil
	}
	var out []Channel
	for _, mc := range obj.MorphChannels() {
		weights := obj.MorphInfluences(mc.Mesh)
		for i, name := range mc.Targets {
			ch := Channel{Mesh: mc.Mesh, Target: name, Min: 0, Max: 1, Step: game_object.MorphStep}
			if i < len(weights) {
				ch.Value = weights[i]
			}
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mesh < out[j].Mesh
	})
	return out
}

func (t *tuner) Asset() string {
	return t.asset
}
