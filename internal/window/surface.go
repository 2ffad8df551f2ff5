package window

import (
	"fmt"
	"image"
	"image/color"

	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"golang.org/x/image/draw"
)

// Surface is an RGBA drawing target the size of the video. Decoded
// pictures are blitted onto it and the seek bar is painted over them.
type Surface struct {
	img *image.RGBA
}

func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// BlitRGB copies a packed RGBA picture, scaling it when its size differs.
func (s *Surface) BlitRGB(p *media.Picture) error {
	if p.Planar || len(p.RGBA) < p.Stride*p.Height || p.Stride < p.Width*4 {
		return fmt.Errorf("window: invalid packed picture %dx%d", p.Width, p.Height)
	}

	s.blit(&image.RGBA{
		Pix:    p.RGBA,
		Stride: p.Stride,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	})
	return nil
}

// BlitYUV converts a planar 4:2:0 picture onto the surface.
func (s *Surface) BlitYUV(p *media.Picture) error {
	ch := (p.Height + 1) / 2
	if !p.Planar || len(p.Y) < p.YStride*p.Height || len(p.Cb) < p.CStride*ch || len(p.Cr) < p.CStride*ch {
		return fmt.Errorf("window: invalid planar picture %dx%d", p.Width, p.Height)
	}

	s.blit(&image.YCbCr{
		Y:              p.Y,
		Cb:             p.Cb,
		Cr:             p.Cr,
		YStride:        p.YStride,
		CStride:        p.CStride,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, p.Width, p.Height),
	})
	return nil
}

func (s *Surface) blit(src image.Image) {
	dst := s.img.Bounds()
	if src.Bounds().Size() == dst.Size() {
		draw.Draw(s.img, dst, src, src.Bounds().Min, draw.Src)
		return
	}
	draw.ApproxBiLinear.Scale(s.img, dst, src, src.Bounds(), draw.Src, nil)
}
