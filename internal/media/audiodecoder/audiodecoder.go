package audiodecoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
)

const noPTS = math.MinInt64

var (
	FORMAT_TYPE = astiav.SampleFormatFlt
	millis      = astiav.NewRational(1, 1000)
)

// Decoder turns the packets of one audio stream into blocks of interleaved
// float32 samples at the stream's own rate and channel count.
type Decoder struct {
	closer *astikit.Closer

	st  *astiav.Stream
	cc  *astiav.CodecContext
	rsc *astiav.SoftwareResampleContext

	decodedFrame   *astiav.Frame
	resampledFrame *astiav.Frame

	lastPTS int64
}

func New(st *astiav.Stream) (*Decoder, error) {
	d := &Decoder{
		closer: astikit.NewCloser(),
		st:     st,
	}

	codec := astiav.FindDecoder(st.CodecParameters().CodecID())
	if codec == nil {
		return nil, errors.New("audio decoder: codec is nil")
	}

	if d.cc = astiav.AllocCodecContext(codec); d.cc == nil {
		return nil, errors.New("audio decoder: codec context is nil")
	}
	d.closer.Add(d.cc.Free)

	if err := st.CodecParameters().ToCodecContext(d.cc); err != nil {
		d.closer.Close()
		return nil, fmt.Errorf("audio decoder: updating codec context failed: %w", err)
	}

	if err := d.cc.Open(codec, nil); err != nil {
		d.closer.Close()
		return nil, fmt.Errorf("audio decoder: opening codec context failed: %w", err)
	}

	d.decodedFrame = astiav.AllocFrame()
	d.closer.Add(d.decodedFrame.Free)

	d.resampledFrame = astiav.AllocFrame()
	d.closer.Add(d.resampledFrame.Free)

	d.rsc = astiav.AllocSoftwareResampleContext()
	d.closer.Add(d.rsc.Free)

	return d, nil
}

func (d *Decoder) Index() int {
	return d.st.Index()
}

func (d *Decoder) Flush() {
	d.cc.FlushBuffers()
	d.lastPTS = 0
}

func (d *Decoder) Close() {
	d.closer.Close()
}

func (d *Decoder) Decode(pkt *astiav.Packet) ([]media.Unit, error) {
	if err := d.cc.SendPacket(pkt); err != nil {
		return nil, fmt.Errorf("audio decoder: sending packet failed: %w", err)
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
		if len(u.Samples) > 0 {
			units = append(units, u)
		}
	}
}

func (d *Decoder) decode() (media.Unit, bool, error) {
	if err := d.cc.ReceiveFrame(d.decodedFrame); err != nil {
		if errors.Is(err, astiav.ErrEof) || errors.Is(err, astiav.ErrEagain) {
			return media.Unit{}, true, nil
		}
		return media.Unit{}, true, fmt.Errorf("audio decoder: receiving frame failed: %w", err)
	}

	defer d.decodedFrame.Unref()

	pts := d.lastPTS
	if d.decodedFrame.Pts() != noPTS {
		pts = astiav.RescaleQ(d.decodedFrame.Pts(), d.st.TimeBase(), millis)
	}
	d.lastPTS = pts

	// swr allocates the output buffer when the frame has none
	d.resampledFrame.Unref()
	d.resampledFrame.SetChannelLayout(d.decodedFrame.ChannelLayout())
	d.resampledFrame.SetSampleFormat(FORMAT_TYPE)
	d.resampledFrame.SetSampleRate(d.decodedFrame.SampleRate())

	if err := d.rsc.ConvertFrame(d.decodedFrame, d.resampledFrame); err != nil {
		return media.Unit{}, true, fmt.Errorf("audio decoder: resampling decoded frame failed: %w", err)
	}

	n := d.resampledFrame.NbSamples() * d.resampledFrame.ChannelLayout().Channels()
	if n == 0 {
		return media.Unit{PTS: pts}, false, nil
	}

	b, err := d.resampledFrame.Data().Bytes(1)
	if err != nil {
		return media.Unit{}, true, fmt.Errorf("audio decoder: getting sample data failed: %w", err)
	}

	return media.Unit{PTS: pts, Samples: Floats(b, n)}, false, nil
}

// Floats decodes up to n little endian float32 samples from b.
func Floats(b []byte, n int) []float32 {
	n = min(n, len(b)/4)
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
