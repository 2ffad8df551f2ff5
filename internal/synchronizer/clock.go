// Package synchronizer converts presentation times into wall clock delays.
package synchronizer

import (
	"time"

	"github.com/samber/mo"
)

// Anchor pairs a wall clock instant with the presentation time that was
// shown at that instant.
type Anchor struct {
	WallStart time.Time
	First     mo.Option[int64] // ms
}

// Clock paces video and subtitle presentation. It is owned by the playback
// goroutine and is not safe for concurrent use.
type Clock struct {
	now    func() time.Time
	anchor Anchor
}

func NewClock() *Clock {
	return NewClockWithNow(time.Now)
}

func NewClockWithNow(now func() time.Time) *Clock {
	c := &Clock{now: now}
	c.Reset()
	return c
}

// Reset forgets the anchor. The next call to Delay re-anchors.
func (c *Clock) Reset() {
	c.anchor = Anchor{WallStart: c.now(), First: mo.None[int64]()}
}

func (c *Clock) Anchor() Anchor {
	return c.anchor
}

// Anchored reports whether a first presentation time has been fixed since the
// last reset.
func (c *Clock) Anchored() bool {
	return c.anchor.First.IsPresent()
}

// Delay returns how long to wait before presenting a unit with the given
// presentation time. The first call after a reset fixes the anchor at pts and
// now, and returns zero. A non-positive result means present immediately.
func (c *Clock) Delay(pts int64) time.Duration {
	first, ok := c.anchor.First.Get()
	if !ok {
		c.anchor = Anchor{WallStart: c.now(), First: mo.Some(pts)}
		return 0
	}

	elapsed := c.now().Sub(c.anchor.WallStart).Milliseconds()
	return time.Duration(pts-first-elapsed) * time.Millisecond
}

// Position returns the presentation time the wall clock currently points at,
// or false when not anchored.
func (c *Clock) Position() (int64, bool) {
	first, ok := c.anchor.First.Get()
	if !ok {
		return 0, false
	}
	return first + c.now().Sub(c.anchor.WallStart).Milliseconds(), true
}
