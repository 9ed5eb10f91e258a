package animator

import (
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Action is the playback state of one clip inside a Mixer.
// Several actions may run at once; their weights decide how they blend.
type Action interface {
	// Clip returns the clip this action plays.
	Clip() *model.AnimationClip

	// Play starts or resumes playback. The current weight is kept.
	Play()

	// Stop halts playback, cancels any fade and rewinds to the start.
	Stop()

	// Reset rewinds to the start, cancels any fade and restores full weight.
	Reset()

	// FadeIn ramps the weight linearly from 0 to 1.
	//
	// Parameters:
	//   - duration: ramp length in seconds; 0 or less jumps straight to full weight
	FadeIn(duration float32)

	// FadeOut ramps the weight linearly from its current value to 0, then stops the action.
	//
	// Parameters:
	//   - duration: ramp length in seconds; 0 or less stops immediately
	FadeOut(duration float32)

	// SetLoop controls whether playback wraps at the end of the clip. Actions loop by default.
	SetLoop(loop bool)

	// Running reports whether the action is playing.
	Running() bool

	// Fading reports whether a weight ramp is in progress.
	Fading() bool

	// Weight returns the action's current blend weight in [0, 1].
	Weight() float32

	// Time returns the clip-local playback time in seconds.
	Time() float32
}

// action implements the Action interface.
type action struct {
	clip     *model.AnimationClip
	bindings []int // channel index -> bone index, -1 when the rig lacks the bone

	time    float32
	weight  float32
	running bool
	loop    bool

	fade    *gween.Tween
	fadeOut bool
}

var _ Action = &action{}

func newAction(clip *model.AnimationClip, bindings []int) *action {
	return &action{clip: clip, bindings: bindings, weight: 1, loop: true}
}

func (a *action) Clip() *model.AnimationClip {
	return a.clip
}

func (a *action) Play() {
	a.running = true
}

func (a *action) Stop() {
	a.running = false
	a.time = 0
	a.fade = nil
	a.fadeOut = false
}

func (a *action) Reset() {
	a.time = 0
	a.weight = 1
	a.fade = nil
	a.fadeOut = false
}

func (a *action) FadeIn(duration float32) {
	a.fadeOut = false
	if duration <= 0 {
		a.fade = nil
		a.weight = 1
		return
	}
	a.weight = 0
	a.fade = gween.New(0, 1, duration, ease.Linear)
}

func (a *action) FadeOut(duration float32) {
	if duration <= 0 {
		a.weight = 0
		a.Stop()
		return
	}
	a.fadeOut = true
	a.fade = gween.New(a.weight, 0, duration, ease.Linear)
}

func (a *action) SetLoop(loop bool) {
	a.loop = loop
}

func (a *action) Running() bool {
	return a.running
}

func (a *action) Fading() bool {
	return a.fade != nil
}

func (a *action) Weight() float32 {
	return a.weight
}

func (a *action) Time() float32 {
	return a.time
}

// advance moves playback and any weight ramp forward by dt seconds.
func (a *action) advance(dt float32) {
	if !a.running {
		return
	}

	a.time += dt
	if d := a.clip.Duration; d > 0 && a.time > d {
		if a.loop {
			for a.time > d {
				a.time -= d
			}
		} else {
			a.time = d
		}
	}

	if a.fade == nil {
		return
	}
	w, done := a.fade.Update(dt)
	a.weight = min(max(w, 0), 1)
	if done {
		a.fade = nil
		if a.fadeOut {
			a.weight = 0
			a.Stop()
		}
	}
}

// contributes reports whether the action should be blended into the pose.
func (a *action) contributes() bool {
	return a.running && a.weight > 0
}
