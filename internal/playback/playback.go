// Package playback drives presentation: it pulls decoded bundles, paces
// video and subtitles against the wall clock, feeds the audio device and
// relays input to the seek bar.
package playback

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/GoldenFealla/SyncPlayerGo/internal/audio"
	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/GoldenFealla/SyncPlayerGo/internal/synchronizer"
	"github.com/GoldenFealla/SyncPlayerGo/internal/track"
	"github.com/GoldenFealla/SyncPlayerGo/internal/widget"
	"github.com/samber/mo"
)

// idleWait is slept when no bundle is ready or playback is paused.
const idleWait = 2 * time.Millisecond

// Source is the retrieving side of the decoding collaborator.
type Source interface {
	NextBundle() *media.Bundle
	ReleaseBundle(b *media.Bundle)
	PrepareClose()
}

type Decoder interface {
	Start()
	Stop() error
	RequestStop()
	IsCompleted() bool
	JustSeeked() bool
}

type AudioSink interface {
	Write(p []byte) error
}

// Surface is a drawable target the size of the video.
type Surface interface {
	widget.Canvas
	BlitYUV(p *media.Picture) error
	BlitRGB(p *media.Picture) error
}

type Display interface {
	Surface(width, height int) (Surface, error)
	Present(s Surface)
	ToggleFullscreen()
	PollEvents() []event.Event
}

type Options struct {
	Video    mo.Option[track.Track]
	Audio    mo.Option[track.Track]
	Subtitle mo.Option[track.Track]

	// Overlay blits planar YUV pictures, otherwise packed RGB pictures.
	Overlay bool
}

type Loop struct {
	opts Options

	src     Source
	dec     Decoder
	display Display
	audio   AudioSink
	bar     *widget.SeekBar
	clock   *synchronizer.Clock
	text    io.Writer
	sleep   func(time.Duration)

	surface    Surface
	paused     bool
	barStarted bool
	pcm        []byte

	lastAudioPTS int64
}

// New builds a loop. audio may be nil when no audio track plays.
func New(opts Options, src Source, dec Decoder, display Display, sink AudioSink, bar *widget.SeekBar, clock *synchronizer.Clock, text io.Writer) *Loop {
	return &Loop{
		opts:    opts,
		src:     src,
		dec:     dec,
		display: display,
		audio:   sink,
		bar:     bar,
		clock:   clock,
		text:    text,
		sleep:   time.Sleep,
	}
}

// SetSleep replaces the function used to suspend the loop.
func (l *Loop) SetSleep(sleep func(time.Duration)) {
	l.sleep = sleep
}

func (l *Loop) Paused() bool {
	return l.paused
}

// Run starts the decoder and presents bundles until the stream completes or
// a stop is requested. The collaborator is always prepared for close and the
// decoder always joined before Run returns.
func (l *Loop) Run() (err error) {
	l.clock.Reset()
	l.dec.Start()

	defer func() {
		l.src.PrepareClose()
		if stopErr := l.dec.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}()

	for {
		if l.handleEvents() {
			l.dec.RequestStop()
			log.Debugf("playback: stop requested")
			return nil
		}

		if l.paused {
			l.sleep(idleWait)
			continue
		}

		if l.dec.JustSeeked() {
			l.clock.Reset()
		}

		// read the flag first: a bundle written before the stream ended is
		// then guaranteed to be seen below
		completed := l.dec.IsCompleted()
		b := l.src.NextBundle()
		if b == nil {
			if completed {
				return nil
			}
			l.sleep(idleWait)
			continue
		}

		err := l.dispatch(b)
		l.src.ReleaseBundle(b)
		if err != nil {
			l.dec.RequestStop()
			return err
		}
	}
}

func (l *Loop) handleEvents() (stop bool) {
	for _, ev := range l.display.PollEvents() {
		if l.bar.HandleEvent(l.surface, ev) {
			continue
		}

		switch ev := ev.(type) {
		case event.Quit:
			stop = true
		case event.KeyPress:
			switch ev.Key {
			case event.KeyEscape, event.KeyQuit:
				stop = true
			case event.KeyFullscreen:
				l.display.ToggleFullscreen()
			case event.KeyPause:
				l.togglePause()
			}
		}
	}
	return stop
}

func (l *Loop) togglePause() {
	l.paused = !l.paused
	if !l.paused {
		l.clock.Reset()
	}
	log.Debugf("playback: paused=%t", l.paused)
}

func (l *Loop) dispatch(b *media.Bundle) error {
	l.writeAudio(b)

	if err := l.presentVideo(b); err != nil {
		return err
	}

	l.emitSubtitles(b)
	return nil
}

func (l *Loop) writeAudio(b *media.Bundle) {
	t, ok := l.opts.Audio.Get()
	if !ok || l.audio == nil {
		return
	}

	td := b.Track(t.Index)
	if td == nil {
		return
	}
	for _, u := range td.Units {
		l.pcm = audio.ConvertS16LE(l.pcm[:0], u.Samples)
		if err := l.audio.Write(l.pcm); err != nil {
			log.Warnf("playback: %v, disabling audio", err)
			l.audio = nil
			return
		}
		l.lastAudioPTS = u.PTS
	}
}

func (l *Loop) presentVideo(b *media.Bundle) error {
	t, ok := l.opts.Video.Get()
	if !ok {
		return nil
	}

	td := b.Track(t.Index)
	if td == nil || td.Type != media.ContentVideo {
		return nil
	}
	for _, u := range td.Units {
		if err := l.present(u); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) present(u media.Unit) error {
	if u.Picture == nil {
		return nil
	}

	l.pace(u.PTS)

	s, err := l.display.Surface(u.Picture.Width, u.Picture.Height)
	if err != nil {
		return fmt.Errorf("playback: creating surface failed: %w", err)
	}
	l.surface = s

	if l.opts.Overlay {
		err = s.BlitYUV(u.Picture)
	} else {
		err = s.BlitRGB(u.Picture)
	}
	if err != nil {
		return fmt.Errorf("playback: blitting frame at %dms failed: %w", u.PTS, err)
	}

	l.bar.Draw(s)
	l.display.Present(s)

	if l.audio != nil {
		log.Debugf("playback: video: %10d audio: %10d a/v: %+d", u.PTS, l.lastAudioPTS, l.lastAudioPTS-u.PTS)
	}
	return nil
}

func (l *Loop) emitSubtitles(b *media.Bundle) {
	t, ok := l.opts.Subtitle.Get()
	if !ok || l.text == nil {
		return
	}

	// subtitles drive the clock only when no video is shown
	paced := l.opts.Video.IsAbsent()

	td := b.Track(t.Index)
	if td == nil {
		return
	}
	for _, u := range td.Units {
		if paced {
			l.pace(u.PTS)
		}
		fmt.Fprintln(l.text, u.Text)
	}
}

// pace waits until the unit at pts is due. The first paced unit since start
// or the last seek anchors the clock.
func (l *Loop) pace(pts int64) {
	if !l.barStarted {
		l.bar.SetStart(pts)
		l.barStarted = true
	}
	l.bar.SetCurrent(pts)

	if d := l.clock.Delay(pts); d > 0 {
		l.sleep(d)
	}
}
