package window

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
)

// screen shows the presented frame and turns pointer input on it into
// events in surface pixels.
type screen struct {
	widget.BaseWidget

	mu      sync.Mutex
	pending *image.RGBA

	front *image.RGBA
	img   *canvas.Image
	push  func(event.Event)
}

var (
	_ desktop.Hoverable = (*screen)(nil)
	_ desktop.Mouseable = (*screen)(nil)
)

func newScreen(push func(event.Event)) *screen {
	s := &screen{
		front: image.NewRGBA(image.Rect(0, 0, 1, 1)),
		push:  push,
	}
	s.img = canvas.NewImageFromImage(s.front)
	s.img.FillMode = canvas.ImageFillContain
	s.img.ScaleMode = canvas.ImageScaleFastest
	s.ExtendBaseWidget(s)
	return s
}

func (s *screen) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.img)
}

// stage copies src aside until the main goroutine shows it.
func (s *screen) stage(src *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.Bounds() != src.Bounds() {
		s.pending = image.NewRGBA(src.Bounds())
	}
	copy(s.pending.Pix, src.Pix)
}

// show displays the last staged frame. Main goroutine only.
func (s *screen) show() {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	if s.front.Bounds() != s.pending.Bounds() {
		s.front = image.NewRGBA(s.pending.Bounds())
		s.img.Image = s.front
	}
	copy(s.front.Pix, s.pending.Pix)
	s.mu.Unlock()

	s.img.Refresh()
}

func (s *screen) MouseIn(ev *desktop.MouseEvent) {
	s.MouseMoved(ev)
}

func (s *screen) MouseMoved(ev *desktop.MouseEvent) {
	x, y := s.toSurface(ev.Position)
	s.push(event.Motion{X: x, Y: y})
}

func (s *screen) MouseOut() {
	s.push(event.PointerLeave{})
}

func (s *screen) MouseDown(ev *desktop.MouseEvent) {
	x, y := s.toSurface(ev.Position)
	b := event.ButtonPrimary
	if ev.Button == desktop.MouseButtonSecondary {
		b = event.ButtonSecondary
	}
	s.push(event.ButtonPress{Button: b, X: x, Y: y})
}

func (s *screen) MouseUp(*desktop.MouseEvent) {}

func (s *screen) toSurface(pos fyne.Position) (int, int) {
	return toSurface(pos, s.Size(), s.front.Bounds().Dx(), s.front.Bounds().Dy())
}

// toSurface maps a position inside a widget of the given size onto an image
// of w×h pixels drawn centered with its aspect ratio kept.
func toSurface(pos fyne.Position, size fyne.Size, w, h int) (int, int) {
	if size.Width <= 0 || size.Height <= 0 || w <= 0 || h <= 0 {
		return 0, 0
	}

	scale := min(size.Width/float32(w), size.Height/float32(h))
	offX := (size.Width - float32(w)*scale) / 2
	offY := (size.Height - float32(h)*scale) / 2

	return int((pos.X - offX) / scale), int((pos.Y - offY) / scale)
}

func keyOf(name fyne.KeyName) event.Key {
	switch name {
	case fyne.KeyEscape:
		return event.KeyEscape
	case fyne.KeyQ:
		return event.KeyQuit
	case fyne.KeyF:
		return event.KeyFullscreen
	case fyne.KeySpace:
		return event.KeyPause
	case fyne.KeyLeft:
		return event.KeyLeft
	case fyne.KeyRight:
		return event.KeyRight
	default:
		return event.KeyUnknown
	}
}
