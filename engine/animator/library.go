package animator

import (
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/elliotchance/orderedmap/v2"
)

// Library maps animation names to the clips preloaded for them.
// Names keep their insertion order so listings match the configured asset order.
// It is owned by the frame goroutine and is not safe for concurrent use.
type Library interface {
	// Set stores the clips for a name, replacing any previous entry.
	// Empty clip lists are ignored because every stored name must be playable.
	//
	// Parameters:
	//   - name: the animation name
	//   - clips: the clips decoded from that name's asset, in file order
	//
	// Returns:
	//   - bool: true if the entry was stored
	Set(name string, clips []*model.AnimationClip) bool

	// Clips returns every clip stored for a name.
	//
	// Parameters:
	//   - name: the animation name
	//
	// Returns:
	//   - []*model.AnimationClip: the clips, or nil if the name is unknown
	//   - bool: true if the name is present
	Clips(name string) ([]*model.AnimationClip, bool)

	// First returns the clip played when the name is requested.
	//
	// Parameters:
	//   - name: the animation name
	//
	// Returns:
	//   - *model.AnimationClip: the name's first clip
	//   - bool: true if the name is present
	First(name string) (*model.AnimationClip, bool)

	// Has reports whether the name has been preloaded.
	Has(name string) bool

	// Names returns every stored name in insertion order.
	Names() []string

	// Len returns the number of stored names.
	Len() int
}

// library implements the Library interface.
type library struct {
	clips *orderedmap.OrderedMap[string, []*model.AnimationClip]
}

var _ Library = &library{}

// NewLibrary creates an empty animation library.
func NewLibrary() Library {
	return &library{clips: orderedmap.NewOrderedMap[string, []*model.AnimationClip]()}
}

func (l *library) Set(name string, clips []*model.AnimationClip) bool {
	if len(clips) == 0 {
		return false
	}
	cp := make([]*model.AnimationClip, len(clips))
	copy(cp, clips)
	l.clips.Set(name, cp)
	return true
}

func (l *library) Clips(name string) ([]*model.AnimationClip, bool) {
	return l.clips.Get(name)
}

func (l *library) First(name string) (*model.AnimationClip, bool) {
	clips, ok := l.clips.Get(name)
	if !ok || len(clips) == 0 {
		return nil, false
	}
	return clips[0], true
}

func (l *library) Has(name string) bool {
	_, ok := l.clips.Get(name)
	return ok
}

func (l *library) Names() []string {
	return l.clips.Keys()
}

func (l *library) Len() int {
	return l.clips.Len()
}
