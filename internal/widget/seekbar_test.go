package widget

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
	"github.com/stretchr/testify/require"
)

type fill struct {
	r image.Rectangle
	c color.Color
}

type fakeCanvas struct {
	bounds image.Rectangle
	fills  []fill
}

func (c *fakeCanvas) Bounds() image.Rectangle { return c.bounds }

func (c *fakeCanvas) FillRect(r image.Rectangle, col color.Color) {
	c.fills = append(c.fills, fill{r, col})
}

type fakeSeeker struct {
	seeks []int64
	err   error
}

func (s *fakeSeeker) Seek(ms int64) error {
	s.seeks = append(s.seeks, ms)
	return s.err
}

type fakeDuration struct {
	calls int
	ms    int64
	err   error
}

func (d *fakeDuration) Duration() (int64, error) {
	d.calls++
	return d.ms, d.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var opts = SeekBarOptions{Height: 12, Padding: 8, Border: 1, Visible: 2 * time.Second}

// a 218 pixel wide surface leaves a 200 pixel wide background
func newBar() (*SeekBar, *fakeSeeker, *fakeDuration, *clock, *fakeCanvas) {
	s := &fakeSeeker{}
	d := &fakeDuration{ms: 10000}
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	canvas := &fakeCanvas{bounds: image.Rect(0, 0, 218, 100)}
	return NewSeekBarWithNow(opts, s, d, c.now), s, d, c, canvas
}

func TestGeometry(t *testing.T) {
	sb, _, _, _, canvas := newBar()
	sb.Draw(canvas)

	g := sb.Geometry(canvas.bounds)
	require.Equal(t, image.Rect(8, 80, 210, 92), g.Border)
	require.Equal(t, image.Rect(9, 81, 209, 91), g.Background)
	require.Equal(t, 200, g.Background.Dx())
	require.Equal(t, 1, g.Progress.Dx())

	sb.SetCurrent(2500)
	require.Equal(t, 50, sb.Geometry(canvas.bounds).Progress.Dx())

	sb.SetCurrent(20000)
	require.Equal(t, 200, sb.Geometry(canvas.bounds).Progress.Dx())
}

func TestGeometryWithoutDuration(t *testing.T) {
	sb, _, _, _, canvas := newBar()
	sb.SetCurrent(5000)
	require.Equal(t, 1, sb.Geometry(canvas.bounds).Progress.Dx())
}

func TestDrawFetchesDurationLazily(t *testing.T) {
	sb, _, d, _, canvas := newBar()
	require.Zero(t, d.calls)

	sb.Draw(nil)
	require.Zero(t, d.calls)

	sb.Draw(canvas)
	sb.Draw(canvas)
	require.Equal(t, 1, d.calls)
	end, ok := sb.End()
	require.True(t, ok)
	require.Equal(t, int64(10000), end)
}

func TestDrawRetriesDurationOnError(t *testing.T) {
	sb, _, d, _, canvas := newBar()
	d.err = errors.New("unknown")

	sb.Draw(canvas)
	_, ok := sb.End()
	require.False(t, ok)

	d.err = nil
	sb.Draw(canvas)
	require.Equal(t, 2, d.calls)
	_, ok = sb.End()
	require.True(t, ok)
}

func TestDrawPaintsThreeRects(t *testing.T) {
	sb, _, _, _, canvas := newBar()
	sb.SetCurrent(5000)
	sb.Draw(canvas)

	require.Len(t, canvas.fills, 3)
	require.Equal(t, BorderColor, canvas.fills[0].c)
	require.Equal(t, BackgroundColor, canvas.fills[1].c)
	require.Equal(t, ProgressColor, canvas.fills[2].c)
	require.Equal(t, 100, canvas.fills[2].r.Dx())
}

func TestVisibility(t *testing.T) {
	sb, _, _, c, canvas := newBar()
	require.True(t, sb.Visible())

	c.t = c.t.Add(3 * time.Second)
	require.False(t, sb.Visible())
	sb.Draw(canvas)
	require.Empty(t, canvas.fills)

	require.True(t, sb.HandleEvent(canvas, event.Motion{X: 5, Y: 5}))
	require.True(t, sb.Visible())

	c.t = c.t.Add(3 * time.Second)
	require.False(t, sb.Visible())

	// hovering the bar keeps it up
	sb.HandleEvent(canvas, event.Motion{X: 100, Y: 85})
	c.t = c.t.Add(3 * time.Second)
	require.True(t, sb.Visible())

	require.True(t, sb.HandleEvent(canvas, event.PointerLeave{}))
	require.False(t, sb.Visible())
}

func TestClickSeeks(t *testing.T) {
	sb, s, _, _, canvas := newBar()
	sb.Draw(canvas)

	require.True(t, sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 109, Y: 85}))
	require.Equal(t, []int64{5000}, s.seeks)
	require.Equal(t, int64(5000), sb.Current())

	sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 9, Y: 85})
	sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 208, Y: 85})
	require.Equal(t, []int64{5000, 0, 9950}, s.seeks)
}

func TestClickSeeksFromStart(t *testing.T) {
	sb, s, d, _, canvas := newBar()
	d.ms = 12000
	sb.SetStart(2000)
	sb.Draw(canvas)

	sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 59, Y: 85})
	require.Equal(t, []int64{4500}, s.seeks)
}

func TestClickOutsideIsNotConsumed(t *testing.T) {
	sb, s, _, _, canvas := newBar()
	sb.Draw(canvas)

	require.False(t, sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 109, Y: 10}))
	require.False(t, sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonSecondary, X: 109, Y: 85}))
	require.Empty(t, s.seeks)
}

func TestClickBeforeFirstDrawIsIgnored(t *testing.T) {
	sb, s, d, _, canvas := newBar()
	require.True(t, sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 109, Y: 85}))
	require.Empty(t, s.seeks)
	require.Zero(t, d.calls)
}

func TestSeekErrorIsLogged(t *testing.T) {
	sb, s, _, _, canvas := newBar()
	s.err = errors.New("nope")
	sb.Draw(canvas)

	require.True(t, sb.HandleEvent(canvas, event.ButtonPress{Button: event.ButtonPrimary, X: 109, Y: 85}))
	require.Len(t, s.seeks, 1)
}

func TestKeySeek(t *testing.T) {
	sb, s, _, _, canvas := newBar()
	sb.Draw(canvas)
	sb.SetCurrent(3000)

	require.True(t, sb.HandleEvent(canvas, event.KeyPress{Key: event.KeyRight}))
	require.True(t, sb.HandleEvent(canvas, event.KeyPress{Key: event.KeyLeft}))
	require.True(t, sb.HandleEvent(canvas, event.KeyPress{Key: event.KeyLeft}))
	require.Equal(t, []int64{10000, 0, 0}, s.seeks)
}

func TestOtherEventsAreNotConsumed(t *testing.T) {
	sb, _, _, _, canvas := newBar()
	require.False(t, sb.HandleEvent(canvas, event.KeyPress{Key: event.KeyEscape}))
	require.False(t, sb.HandleEvent(canvas, event.Quit{}))
}
