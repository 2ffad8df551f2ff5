// Package window is the display: one fyne window showing the video surface
// and relaying its input as events.
package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/asticode/go-astikit"
)

var (
	WIDTH  float32 = 800
	HEIGHT float32 = 450
)

const eventBuffer = 64

// Context owns the application and its window. Create it once on the main
// goroutine and block in Run; every other method may be called from any
// goroutine.
type Context struct {
	closer *astikit.Closer

	app    fyne.App
	win    fyne.Window
	screen *screen

	events  chan event.Event
	surface *Surface
}

func NewContext(title string) *Context {
	c := &Context{
		closer: astikit.NewCloser(),
		app:    app.New(),
		events: make(chan event.Event, eventBuffer),
	}

	c.screen = newScreen(c.push)

	c.win = c.app.NewWindow(title)
	c.win.SetContent(c.screen)
	c.win.Resize(fyne.NewSize(WIDTH, HEIGHT))
	c.win.SetCloseIntercept(func() {
		c.push(event.Quit{})
	})
	c.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if k := keyOf(ev.Name); k != event.KeyUnknown {
			c.push(event.KeyPress{Key: k})
		}
	})

	c.closer.Add(func() {
		fyne.Do(c.app.Quit)
	})

	return c
}

// Run shows the window and blocks until the application quits. A quit event
// is queued afterwards in case the playback loop is still running.
func (c *Context) Run() {
	c.win.ShowAndRun()
	c.push(event.Quit{})
}

// Close quits the application, which makes Run return.
func (c *Context) Close() error {
	return c.closer.Close()
}

func (c *Context) push(ev event.Event) {
	select {
	case c.events <- ev:
	default:
		log.Debugf("window: dropping %T, event buffer full", ev)
	}
}

// PollEvents returns the events received since the previous call.
func (c *Context) PollEvents() []event.Event {
	var evs []event.Event
	for {
		select {
		case ev := <-c.events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

// Surface returns a surface of the given size, reusing the previous one
// when the size did not change. Only the playback goroutine draws.
func (c *Context) Surface(width, height int) (*Surface, error) {
	if c.surface != nil {
		if b := c.surface.Bounds(); b.Dx() == width && b.Dy() == height {
			return c.surface, nil
		}
	}
	c.surface = NewSurface(width, height)
	return c.surface, nil
}

// Present shows the content of s. The pixels are copied, s can be drawn
// again right away.
func (c *Context) Present(s *Surface) {
	c.screen.stage(s.Image())
	fyne.Do(c.screen.show)
}

func (c *Context) ToggleFullscreen() {
	fyne.Do(func() {
		c.win.SetFullScreen(!c.win.FullScreen())
	})
}
