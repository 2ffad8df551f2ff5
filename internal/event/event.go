// Package event describes the input events relayed from the window to the
// playback loop. Coordinates are surface pixels.
package event

type Event interface {
	isEvent()
}

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyQuit
	KeyFullscreen
	KeyPause
	KeyLeft
	KeyRight
)

type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
)

// Motion is a pointer move inside the surface.
type Motion struct {
	X, Y int
}

// PointerLeave is sent when the pointer leaves the surface.
type PointerLeave struct{}

type ButtonPress struct {
	Button Button
	X, Y   int
}

type KeyPress struct {
	Key Key
}

// Quit is sent when the window is asked to close.
type Quit struct{}

func (Motion) isEvent()       {}
func (PointerLeave) isEvent() {}
func (ButtonPress) isEvent()  {}
func (KeyPress) isEvent()     {}
func (Quit) isEvent()         {}
