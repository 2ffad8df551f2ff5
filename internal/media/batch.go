package media

import (
	"slices"
	"sync"
)

const (
	// DefaultPeriod is the span of one bundle when audio drives batching.
	DefaultPeriod = 40

	// maxUnits bounds a slot whose driving track stopped producing units.
	maxUnits = 256
)

// Batching decides when enough units of a track have been collected to hand
// a bundle over. Frames and Period are alternatives, Frames wins when both
// are set.
type Batching struct {
	Frames int
	Period int64 // ms
}

func (b Batching) done(td *TrackData) bool {
	n := td.Required()
	switch {
	case n == 0:
		return false
	case b.Frames > 0:
		return n >= b.Frames
	case b.Period > 0:
		return td.Units[n-1].PTS-td.Units[0].PTS >= b.Period
	default:
		return true
	}
}

// Batcher collects decoded units into bundles. The driving track is the
// first video track, else the first audio track, else the first subtitle
// track; a bundle is complete once that track's batching is satisfied.
type Batcher struct {
	indexes []int
	types   []ContentType
	batch   map[int]Batching
	driver  int

	pending *Bundle

	target    int64
	hasTarget bool

	free sync.Pool
}

func NewBatcher() *Batcher {
	return &Batcher{batch: map[int]Batching{}, driver: -1}
}

// Configure sets the active tracks and their default batching. Pending units
// are dropped.
func (b *Batcher) Configure(indexes []int, types []ContentType) {
	b.indexes = slices.Clone(indexes)
	b.types = slices.Clone(types)
	b.batch = map[int]Batching{}
	b.pending = nil
	b.free = sync.Pool{}

	b.driver = -1
	for _, ct := range []ContentType{ContentVideo, ContentAudio, ContentSubtitle} {
		if i := slices.Index(b.types, ct); i >= 0 {
			b.driver = b.indexes[i]
			break
		}
	}

	for i, index := range b.indexes {
		switch b.types[i] {
		case ContentVideo, ContentSubtitle:
			b.batch[index] = Batching{Frames: 1}
		case ContentAudio:
			if index == b.driver {
				b.batch[index] = Batching{Period: DefaultPeriod}
			}
		}
	}
}

func (b *Batcher) Driver() int {
	return b.driver
}

func (b *Batcher) SetFrames(index, n int) {
	b.batch[index] = Batching{Frames: n}
}

func (b *Batcher) SetPeriod(index int, ms int64) {
	b.batch[index] = Batching{Period: ms}
}

// SetTarget makes Add drop every unit presented before ms until the next
// Reset.
func (b *Batcher) SetTarget(ms int64) {
	b.target, b.hasTarget = ms, true
}

// Reset drops pending units and the seek target.
func (b *Batcher) Reset() {
	if b.pending != nil {
		b.Release(b.pending)
		b.pending = nil
	}
	b.hasTarget = false
}

// Add appends units to the slot of track index and returns the pending
// bundle once it is complete.
func (b *Batcher) Add(index int, units []Unit) *Bundle {
	if b.hasTarget {
		units = slices.DeleteFunc(units, func(u Unit) bool { return u.PTS < b.target })
	}
	if len(units) == 0 {
		return nil
	}

	if b.pending == nil {
		b.pending = b.bundle()
	}
	td := b.pending.Track(index)
	if td == nil {
		return nil
	}
	td.Units = append(td.Units, units...)

	if !b.batch[b.driver].done(b.pending.Track(b.driver)) && len(td.Units) < maxUnits {
		return nil
	}
	return b.Flush()
}

// Flush returns the pending bundle, or nil if it holds no unit.
func (b *Batcher) Flush() *Bundle {
	p := b.pending
	if p == nil || p.Empty() {
		return nil
	}
	b.pending = nil
	return p
}

// Release makes a consumed bundle available for reuse.
func (b *Batcher) Release(bundle *Bundle) {
	if bundle == nil || len(bundle.Tracks) != len(b.indexes) {
		return
	}
	for i := range bundle.Tracks {
		clear(bundle.Tracks[i].Units)
	}
	bundle.Reset()
	b.free.Put(bundle)
}

func (b *Batcher) bundle() *Bundle {
	if v, ok := b.free.Get().(*Bundle); ok {
		return v
	}
	return NewBundle(b.indexes, b.types)
}
