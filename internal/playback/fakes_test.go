package playback

import (
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
)

type fakeSurface struct {
	bounds image.Rectangle
	yuv    []int64
	rgb    []int64
	fills  int
	err    error
}

func (s *fakeSurface) Bounds() image.Rectangle { return s.bounds }

func (s *fakeSurface) FillRect(image.Rectangle, color.Color) { s.fills++ }

func (s *fakeSurface) BlitYUV(p *media.Picture) error {
	s.yuv = append(s.yuv, int64(p.Width))
	return s.err
}

func (s *fakeSurface) BlitRGB(p *media.Picture) error {
	s.rgb = append(s.rgb, int64(p.Width))
	return s.err
}

type fakeDisplay struct {
	surface    *fakeSurface
	presented  int
	fullscreen int
	polls      int

	// events returns the events of one poll
	events func(d *fakeDisplay) []event.Event
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{surface: &fakeSurface{bounds: image.Rect(0, 0, 218, 100)}}
}

func (d *fakeDisplay) Surface(w, h int) (Surface, error) {
	return d.surface, nil
}

func (d *fakeDisplay) Present(Surface) { d.presented++ }

func (d *fakeDisplay) ToggleFullscreen() { d.fullscreen++ }

func (d *fakeDisplay) PollEvents() []event.Event {
	d.polls++
	if d.events == nil {
		return nil
	}
	return d.events(d)
}

type fakeAudio struct {
	writes [][]byte
	err    error
}

func (a *fakeAudio) Write(p []byte) error {
	if a.err != nil {
		return a.err
	}
	a.writes = append(a.writes, append([]byte(nil), p...))
	return nil
}

type fakeDecoder struct {
	started   int
	stopped   int
	completed bool
	seeked    bool
	stopErr   error
}

func (d *fakeDecoder) Start()            { d.started++ }
func (d *fakeDecoder) Stop() error       { d.stopped++; return d.stopErr }
func (d *fakeDecoder) RequestStop()      { d.completed = true }
func (d *fakeDecoder) IsCompleted() bool { return d.completed }

func (d *fakeDecoder) JustSeeked() bool {
	s := d.seeked
	d.seeked = false
	return s
}

// listSource hands out a fixed list of bundles.
type listSource struct {
	bundles  []*media.Bundle
	released int
	closed   int
}

func (s *listSource) NextBundle() *media.Bundle {
	if len(s.bundles) == 0 {
		return nil
	}
	b := s.bundles[0]
	s.bundles = s.bundles[1:]
	return b
}

func (s *listSource) ReleaseBundle(*media.Bundle) { s.released++ }

func (s *listSource) PrepareClose() { s.closed++ }

type sleeps struct {
	paced []time.Duration
	idle  int
}

func (s *sleeps) sleep(d time.Duration) {
	if d == idleWait {
		s.idle++
		return
	}
	s.paced = append(s.paced, d)
}

func videoAudioBundle(pts int64) *media.Bundle {
	b := media.NewBundle([]int{0, 1}, []media.ContentType{media.ContentVideo, media.ContentAudio})
	b.Tracks[0].Units = []media.Unit{{PTS: pts, Picture: &media.Picture{Width: 16, Height: 8}}}
	b.Tracks[1].Units = []media.Unit{{PTS: pts, Samples: []float32{1, -1}}}
	return b
}

var errBlit = errors.New("surface lost")
