package widget

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	BorderColor     = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	BackgroundColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	ProgressColor   = color.RGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0xff}
)

// KeySeekStep is how far the arrow keys move the playback position.
const KeySeekStep int64 = 10000

// Canvas is the surface the bar paints on.
type Canvas interface {
	Bounds() image.Rectangle
	FillRect(r image.Rectangle, c color.Color)
}

type Seeker interface {
	Seek(ms int64) error
}

// Durationer reports the total stream duration. It is only queried once
// frames have been drawn.
type Durationer interface {
	Duration() (int64, error)
}

type SeekBarOptions struct {
	Height  int
	Padding int
	Border  int
	Visible time.Duration
}

// Geometry holds the rectangles of one draw, derived from the surface size.
type Geometry struct {
	Border     image.Rectangle
	Background image.Rectangle
	Progress   image.Rectangle
}

// SeekBar is a progress indicator drawn over the video that seeks on click.
// It is used from the playback goroutine only.
type SeekBar struct {
	opts SeekBarOptions

	seeker    Seeker
	durations Durationer
	now       func() time.Time

	start   int64
	current int64
	end     mo.Option[int64]

	hideAt    time.Time
	pointer   image.Point
	pointerIn bool
	screen    image.Rectangle
}

func NewSeekBar(opts SeekBarOptions, seeker Seeker, durations Durationer) *SeekBar {
	return NewSeekBarWithNow(opts, seeker, durations, time.Now)
}

func NewSeekBarWithNow(opts SeekBarOptions, seeker Seeker, durations Durationer, now func() time.Time) *SeekBar {
	sb := &SeekBar{
		opts:      opts,
		seeker:    seeker,
		durations: durations,
		now:       now,
		end:       mo.None[int64](),
	}
	sb.hideAt = now().Add(opts.Visible)
	return sb
}

func (sb *SeekBar) SetStart(ms int64) {
	sb.start = ms
}

func (sb *SeekBar) SetCurrent(ms int64) {
	sb.current = ms
}

func (sb *SeekBar) Start() int64 {
	return sb.start
}

func (sb *SeekBar) Current() int64 {
	return sb.current
}

// End returns the stream duration once it has been fetched.
func (sb *SeekBar) End() (int64, bool) {
	return sb.end.Get()
}

// Geometry computes the bar rectangles for a surface of the given bounds.
func (sb *SeekBar) Geometry(bounds image.Rectangle) Geometry {
	border := image.Rect(
		bounds.Min.X+sb.opts.Padding,
		bounds.Max.Y-sb.opts.Padding-sb.opts.Height,
		bounds.Max.X-sb.opts.Padding,
		bounds.Max.Y-sb.opts.Padding,
	)
	background := border.Inset(sb.opts.Border)

	width := 1
	if end, ok := sb.end.Get(); ok && end > sb.start {
		width = int(int64(background.Dx()) * (sb.current - sb.start) / (end - sb.start))
	}
	width = lo.Clamp(width, 1, max(background.Dx(), 1))

	progress := background
	progress.Max.X = progress.Min.X + width

	return Geometry{Border: border, Background: background, Progress: progress}
}

// Visible reports whether the bar is shown: until the hide deadline passes,
// or for as long as the pointer rests on it.
func (sb *SeekBar) Visible() bool {
	if sb.now().Before(sb.hideAt) {
		return true
	}
	if !sb.pointerIn || sb.screen.Empty() {
		return false
	}
	return sb.pointer.In(sb.Geometry(sb.screen).Background)
}

// Draw paints the bar onto c. The stream duration is fetched on the first
// call that has a surface.
func (sb *SeekBar) Draw(c Canvas) {
	if c == nil {
		return
	}
	sb.screen = c.Bounds()

	if sb.end.IsAbsent() && sb.durations != nil {
		end, err := sb.durations.Duration()
		if err != nil {
			log.Warnf("seekbar: reading duration failed: %v", err)
		} else {
			sb.end = mo.Some(end)
		}
	}

	if !sb.Visible() {
		return
	}

	g := sb.Geometry(sb.screen)
	c.FillRect(g.Border, BorderColor)
	c.FillRect(g.Background, BackgroundColor)
	c.FillRect(g.Progress, ProgressColor)
}

// HandleEvent offers ev to the bar and reports whether the bar consumed it.
func (sb *SeekBar) HandleEvent(c Canvas, ev event.Event) bool {
	if c != nil {
		sb.screen = c.Bounds()
	}

	switch ev := ev.(type) {
	case event.Motion:
		sb.pointer = image.Pt(ev.X, ev.Y)
		sb.pointerIn = true
		sb.hideAt = sb.now().Add(sb.opts.Visible)
		return true
	case event.PointerLeave:
		sb.pointerIn = false
		return true
	case event.ButtonPress:
		if ev.Button != event.ButtonPrimary || sb.screen.Empty() {
			return false
		}
		g := sb.Geometry(sb.screen)
		if !image.Pt(ev.X, ev.Y).In(g.Background) {
			return false
		}
		proportion := float64(ev.X-g.Progress.Min.X) / float64(g.Background.Dx())
		sb.seekTo(sb.timeAt(proportion))
		return true
	case event.KeyPress:
		switch ev.Key {
		case event.KeyLeft:
			sb.seekTo(sb.current - KeySeekStep)
			return true
		case event.KeyRight:
			sb.seekTo(sb.current + KeySeekStep)
			return true
		}
	}
	return false
}

func (sb *SeekBar) timeAt(proportion float64) int64 {
	end, ok := sb.end.Get()
	if !ok {
		return sb.start
	}
	return sb.start + int64(math.Round(proportion*float64(end-sb.start)))
}

func (sb *SeekBar) seekTo(ms int64) {
	end, ok := sb.end.Get()
	if !ok || sb.seeker == nil {
		return
	}
	ms = lo.Clamp(ms, sb.start, max(end, sb.start))

	sb.hideAt = sb.now().Add(sb.opts.Visible)
	if err := sb.seeker.Seek(ms); err != nil {
		log.Errorf("seekbar: %v", err)
	}
	sb.current = ms
}
