package videodecoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
)

const noPTS = math.MinInt64

var millis = astiav.NewRational(1, 1000)

// Decoder turns the packets of one video stream into pictures: planar YUV
// 4:2:0 or packed RGBA, whatever the source pixel format is.
type Decoder struct {
	closer *astikit.Closer

	st *astiav.Stream
	cc *astiav.CodecContext
	df *astiav.Frame

	planar bool
	ssc    *astiav.SoftwareScaleContext
	sf     *astiav.Frame

	srcW, srcH int
	srcPix     astiav.PixelFormat

	lastPTS int64
}

func New(st *astiav.Stream, planar bool) (*Decoder, error) {
	d := &Decoder{
		closer: astikit.NewCloser(),
		st:     st,
		planar: planar,
	}

	codec := astiav.FindDecoder(st.CodecParameters().CodecID())
	if codec == nil {
		return nil, errors.New("video decoder: codec is nil")
	}

	if d.cc = astiav.AllocCodecContext(codec); d.cc == nil {
		return nil, errors.New("video decoder: codec context is nil")
	}
	d.closer.Add(d.cc.Free)

	if err := st.CodecParameters().ToCodecContext(d.cc); err != nil {
		d.closer.Close()
		return nil, fmt.Errorf("video decoder: updating codec context failed: %w", err)
	}

	if err := d.cc.Open(codec, nil); err != nil {
		d.closer.Close()
		return nil, fmt.Errorf("video decoder: opening codec context failed: %w", err)
	}

	d.df = astiav.AllocFrame()
	d.closer.Add(d.df.Free)

	return d, nil
}

func (d *Decoder) Index() int {
	return d.st.Index()
}

// Flush drops frames buffered inside the codec, after a seek.
func (d *Decoder) Flush() {
	d.cc.FlushBuffers()
	d.lastPTS = 0
}

func (d *Decoder) Close() {
	d.freeScaler()
	d.closer.Close()
}

func (d *Decoder) Decode(pkt *astiav.Packet) ([]media.Unit, error) {
	if err := d.cc.SendPacket(pkt); err != nil {
		return nil, fmt.Errorf("video decoder: sending packet failed: %w", err)
	}

	var units []media.Unit
	for {
		u, stop, err := d.decode()
		if err != nil {
			return units, err
		}
		if stop {
			return units, nil
		}
		units = append(units, u)
	}
}

func (d *Decoder) decode() (media.Unit, bool, error) {
	if err := d.cc.ReceiveFrame(d.df); err != nil {
		if errors.Is(err, astiav.ErrEof) || errors.Is(err, astiav.ErrEagain) {
			return media.Unit{}, true, nil
		}
		return media.Unit{}, true, fmt.Errorf("video decoder: receiving frame failed: %w", err)
	}

	defer d.df.Unref()

	pts := d.lastPTS
	if d.df.Pts() != noPTS {
		pts = astiav.RescaleQ(d.df.Pts(), d.st.TimeBase(), millis)
	}
	d.lastPTS = pts

	pic, err := d.picture()
	if err != nil {
		return media.Unit{}, true, err
	}

	return media.Unit{PTS: pts, Picture: pic}, false, nil
}

func (d *Decoder) picture() (*media.Picture, error) {
	if err := d.ensureScaler(); err != nil {
		return nil, err
	}

	if err := d.ssc.ScaleFrame(d.df, d.sf); err != nil {
		return nil, fmt.Errorf("video decoder: scaling frame failed: %w", err)
	}

	n, err := d.sf.ImageBufferSize(1)
	if err != nil {
		return nil, fmt.Errorf("video decoder: getting image buffer size failed: %w", err)
	}
	buf := make([]byte, n)
	if _, err := d.sf.ImageCopyToBuffer(buf, 1); err != nil {
		return nil, fmt.Errorf("video decoder: copying image failed: %w", err)
	}

	w, h := d.srcW, d.srcH
	if !d.planar {
		return &media.Picture{Width: w, Height: h, RGBA: buf, Stride: w * 4}, nil
	}

	cw, ch := (w+1)/2, (h+1)/2
	ySize, cSize := w*h, cw*ch
	if len(buf) < ySize+2*cSize {
		return nil, fmt.Errorf("video decoder: short planar buffer: %d bytes for %dx%d", len(buf), w, h)
	}

	return &media.Picture{
		Width:   w,
		Height:  h,
		Planar:  true,
		Y:       buf[:ySize],
		Cb:      buf[ySize : ySize+cSize],
		Cr:      buf[ySize+cSize : ySize+2*cSize],
		YStride: w,
		CStride: cw,
	}, nil
}

// ensureScaler (re)creates the scale context whenever the source geometry or
// pixel format changes.
func (d *Decoder) ensureScaler() error {
	w, h, pix := d.df.Width(), d.df.Height(), d.df.PixelFormat()
	if d.ssc != nil && w == d.srcW && h == d.srcH && pix == d.srcPix {
		return nil
	}
	d.freeScaler()

	dst := astiav.PixelFormatRgba
	if d.planar {
		dst = astiav.PixelFormatYuv420P
	}

	ssc, err := astiav.CreateSoftwareScaleContext(w, h, pix, w, h, dst, astiav.NewSoftwareScaleContextFlags())
	if err != nil {
		return fmt.Errorf("video decoder: creating scale context %dx%d %s failed: %w", w, h, pix, err)
	}

	sf := astiav.AllocFrame()
	sf.SetWidth(w)
	sf.SetHeight(h)
	sf.SetPixelFormat(dst)
	if err := sf.AllocBuffer(1); err != nil {
		sf.Free()
		ssc.Free()
		return fmt.Errorf("video decoder: allocating scaled frame failed: %w", err)
	}

	d.ssc, d.sf = ssc, sf
	d.srcW, d.srcH, d.srcPix = w, h, pix
	return nil
}

func (d *Decoder) freeScaler() {
	if d.sf != nil {
		d.sf.Free()
		d.sf = nil
	}
	if d.ssc != nil {
		d.ssc.Free()
		d.ssc = nil
	}
}
