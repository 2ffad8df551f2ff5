package cmd

import (
	"github.com/GoldenFealla/SyncPlayerGo/internal/playback"
	"github.com/GoldenFealla/SyncPlayerGo/internal/window"
)

// display adapts the window to the surface interface of the playback loop.
type display struct {
	*window.Context
}

func (d display) Surface(width, height int) (playback.Surface, error) {
	s, err := d.Context.Surface(width, height)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d display) Present(s playback.Surface) {
	if ws, ok := s.(*window.Surface); ok {
		d.Context.Present(ws)
	}
}
