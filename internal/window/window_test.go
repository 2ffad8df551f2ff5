package window

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/GoldenFealla/SyncPlayerGo/internal/event"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/stretchr/testify/require"
)

func TestSurfaceFillRect(t *testing.T) {
	s := NewSurface(4, 4)
	red := color.RGBA{R: 255, A: 255}

	s.FillRect(image.Rect(2, 2, 10, 10), red)

	require.Equal(t, red, s.Image().RGBAAt(3, 3))
	require.Equal(t, red, s.Image().RGBAAt(2, 2))
	require.Equal(t, color.RGBA{}, s.Image().RGBAAt(1, 1))
}

func TestSurfaceBlitRGB(t *testing.T) {
	s := NewSurface(2, 1)
	p := &media.Picture{
		Width:  2,
		Height: 1,
		RGBA:   []byte{1, 2, 3, 255, 4, 5, 6, 255},
		Stride: 8,
	}

	require.NoError(t, s.BlitRGB(p))
	require.Equal(t, []byte{1, 2, 3, 255, 4, 5, 6, 255}, s.Image().Pix)

	p.RGBA = p.RGBA[:4]
	require.Error(t, s.BlitRGB(p))
}

func TestSurfaceBlitRGBScales(t *testing.T) {
	s := NewSurface(4, 4)
	p := &media.Picture{
		Width:  1,
		Height: 1,
		RGBA:   []byte{0, 255, 0, 255},
		Stride: 4,
	}

	require.NoError(t, s.BlitRGB(p))
	require.Equal(t, color.RGBA{G: 255, A: 255}, s.Image().RGBAAt(3, 3))
}

func TestSurfaceBlitYUV(t *testing.T) {
	s := NewSurface(2, 2)
	p := &media.Picture{
		Width:   2,
		Height:  2,
		Planar:  true,
		Y:       []byte{235, 235, 235, 235},
		Cb:      []byte{128},
		Cr:      []byte{128},
		YStride: 2,
		CStride: 1,
	}

	require.NoError(t, s.BlitYUV(p))
	c := s.Image().RGBAAt(1, 1)
	require.Equal(t, c.R, c.G)
	require.Equal(t, c.G, c.B)
	require.Greater(t, c.R, uint8(200))

	p.Cr = nil
	require.Error(t, s.BlitYUV(p))
	require.Error(t, s.BlitRGB(p))
}

func TestToSurface(t *testing.T) {
	// 200x100 image letterboxed in a 200x200 widget
	x, y := toSurface(fyne.NewPos(100, 100), fyne.NewSize(200, 200), 200, 100)
	require.Equal(t, 100, x)
	require.Equal(t, 50, y)

	// doubled in size, pillarboxed
	x, y = toSurface(fyne.NewPos(150, 20), fyne.NewSize(500, 200), 200, 100)
	require.Equal(t, 50, x)
	require.Equal(t, 10, y)

	x, y = toSurface(fyne.NewPos(10, 10), fyne.NewSize(0, 0), 200, 100)
	require.Zero(t, x)
	require.Zero(t, y)
}

func TestKeyOf(t *testing.T) {
	require.Equal(t, event.KeyEscape, keyOf(fyne.KeyEscape))
	require.Equal(t, event.KeyQuit, keyOf(fyne.KeyQ))
	require.Equal(t, event.KeyFullscreen, keyOf(fyne.KeyF))
	require.Equal(t, event.KeyPause, keyOf(fyne.KeySpace))
	require.Equal(t, event.KeyLeft, keyOf(fyne.KeyLeft))
	require.Equal(t, event.KeyRight, keyOf(fyne.KeyRight))
	require.Equal(t, event.KeyUnknown, keyOf(fyne.KeyA))
}
