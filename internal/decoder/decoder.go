// Package decoder runs the decoding collaborator on a background goroutine
// and exposes start, stop and seek over it.
package decoder

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"golang.org/x/sync/errgroup"
)

// Source is the part of the decoding collaborator the decode goroutine needs.
// A single Step writes at most one bundle into the collaborator's queue and
// may block while that queue is full.
type Source interface {
	Step() (media.StepStatus, error)
	NextBundle() *media.Bundle
	ReleaseBundle(b *media.Bundle)
	Seek(ms int64) error
}

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateSeeking
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSeeking:
		return "seeking"
	default:
		return "completed"
	}
}

type Decoder struct {
	src Source

	state     atomic.Int32
	completed atomic.Bool
	seeked    atomic.Bool

	// running and g are only touched by the goroutine calling Start, Stop
	// and Seek.
	running bool
	g       *errgroup.Group
}

func New(src Source) *Decoder {
	return &Decoder{src: src}
}

func (d *Decoder) State() State {
	return State(d.state.Load())
}

// Start spawns the decode goroutine. Calling it while the goroutine is
// running is a programming error.
func (d *Decoder) Start() {
	if d.running {
		panic("decoder: start called while already running")
	}

	d.completed.Store(false)
	d.state.Store(int32(StateRunning))
	d.running = true

	d.g = &errgroup.Group{}
	d.g.Go(d.run)

	log.Debugf("decoder: started")
}

func (d *Decoder) run() error {
	for !d.completed.Load() {
		status, err := d.src.Step()
		if err != nil {
			d.finish()
			return fmt.Errorf("decoder: stepping failed: %w", err)
		}

		switch status {
		case media.StepEnd:
			d.finish()
			log.Debugf("decoder: end of stream")
			return nil
		case media.StepTimeout, media.StepBufferFull, media.StepContinue:
		}
	}
	return nil
}

func (d *Decoder) finish() {
	d.state.Store(int32(StateCompleted))
	d.completed.Store(true)
}

// RequestStop raises the completion flag without waiting for the decode
// goroutine.
func (d *Decoder) RequestStop() {
	d.completed.Store(true)
}

// Stop ends the decode goroutine and waits for it. The goroutine may be
// parked writing into the collaborator's full queue, where the completion flag
// alone is never observed, so exactly one queued bundle is released before
// joining. It returns the decode fault that ended the goroutine, if any.
func (d *Decoder) Stop() error {
	if !d.running {
		return nil
	}

	d.completed.Store(true)
	if b := d.src.NextBundle(); b != nil {
		d.src.ReleaseBundle(b)
	}

	err := d.g.Wait()
	d.running = false
	d.state.CompareAndSwap(int32(StateRunning), int32(StateIdle))

	log.Debugf("decoder: stopped in state %s", d.State())
	return err
}

// Seek repositions the stream to ms and restarts decoding. The decoder is
// running afterwards even when repositioning failed. Seeks must not overlap.
func (d *Decoder) Seek(ms int64) error {
	stopErr := d.Stop()
	d.state.Store(int32(StateSeeking))

	var seekErr error
	if err := d.src.Seek(ms); err != nil {
		seekErr = fmt.Errorf("decoder: seeking to %dms failed: %w", ms, err)
	}

	d.state.Store(int32(StateIdle))
	d.Start()
	d.seeked.Store(true)

	log.Debugf("decoder: seeked to %dms", ms)
	return errors.Join(stopErr, seekErr)
}

// JustSeeked reports true exactly once after each seek.
func (d *Decoder) JustSeeked() bool {
	return d.seeked.CompareAndSwap(true, false)
}

// IsCompleted reports whether the stream ended or a stop was requested.
func (d *Decoder) IsCompleted() bool {
	return d.completed.Load()
}
