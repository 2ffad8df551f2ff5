package demux

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media/audiodecoder"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media/subtitledecoder"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media/videodecoder"
	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/samber/lo"
)

const (
	// microseconds, the unit of container timestamps and durations
	avTimeBase = 1000000

	ioBufferSize = 4096
)

var (
	ErrTrackIndex = errors.New("demux: track index out of range")
	ErrNotActive  = errors.New("demux: track is not active")
)

type Options struct {
	// Planar selects YUV 4:2:0 pictures instead of packed RGBA.
	Planar      bool
	Buffer      int
	StepTimeout time.Duration
}

type streamDecoder interface {
	Decode(pkt *astiav.Packet) ([]media.Unit, error)
	Flush()
	Close()
}

// Demuxer reads a container with FFmpeg, decodes its active tracks and hands
// the output over as bundles through a bounded queue.
//
// Step, ActivateTrack and the batching setters belong to the decoding
// goroutine (or run before it starts); NextBundle, ReleaseBundle and
// PrepareClose may be called from any goroutine.
type Demuxer struct {
	closer *astikit.Closer
	opts   Options

	iformat *astiav.FormatContext
	pkt     *astiav.Packet

	decoders map[int]streamDecoder
	types    map[int]media.ContentType

	batcher *media.Batcher
	queue   *media.Queue
	ready   *media.Bundle
	eof     bool

	duration int64
}

// Open reads a local file or a network URL.
func Open(input string, opts Options) (*Demuxer, error) {
	return open(input, nil, opts)
}

// OpenReader reads the container from r through a custom FFmpeg I/O context.
func OpenReader(r io.ReadSeeker, opts Options) (*Demuxer, error) {
	return open("", r, opts)
}

func open(input string, r io.ReadSeeker, opts Options) (*Demuxer, error) {
	d := &Demuxer{
		closer:   astikit.NewCloser(),
		opts:     opts,
		decoders: map[int]streamDecoder{},
		types:    map[int]media.ContentType{},
		batcher:  media.NewBatcher(),
		queue:    media.NewQueue(opts.Buffer),
		duration: -1,
	}

	if d.iformat = astiav.AllocFormatContext(); d.iformat == nil {
		return nil, errors.New("demux: format context is nil")
	}
	d.closer.Add(d.iformat.Free)

	if r != nil {
		pb, err := astiav.AllocIOContext(ioBufferSize, false, r.Read, r.Seek, nil)
		if err != nil {
			d.closer.Close()
			return nil, fmt.Errorf("demux: allocating io context failed: %w", err)
		}
		d.closer.Add(pb.Free)
		d.iformat.SetPb(pb)
	}

	if err := d.iformat.OpenInput(input, nil, nil); err != nil {
		d.closer.Close()
		return nil, fmt.Errorf("demux: opening input failed: %w", err)
	}
	d.closer.Add(d.iformat.CloseInput)

	if err := d.iformat.FindStreamInfo(nil); err != nil {
		d.closer.Close()
		return nil, fmt.Errorf("demux: finding stream info failed: %w", err)
	}

	if dur := d.iformat.Duration(); dur > 0 {
		d.duration = dur / (avTimeBase / 1000)
	}

	d.pkt = astiav.AllocPacket()
	d.closer.Add(d.pkt.Free)

	log.Debugf("demux: opened %q with %d streams", input, d.TrackCount())
	return d, nil
}

// Close releases every decoder and the container. The decoding goroutine
// must have been joined.
func (d *Demuxer) Close() error {
	for _, dec := range d.decoders {
		dec.Close()
	}
	clear(d.decoders)
	return d.closer.Close()
}

// PrepareClose unblocks a Step waiting for a queue slot; every later Step
// reports the end of the stream.
func (d *Demuxer) PrepareClose() {
	d.queue.Close()
}

func (d *Demuxer) stream(index int) (*astiav.Stream, error) {
	streams := d.iformat.Streams()
	if index < 0 || index >= len(streams) {
		return nil, fmt.Errorf("%w: %d", ErrTrackIndex, index)
	}
	return streams[index], nil
}

func (d *Demuxer) TrackCount() int {
	return len(d.iformat.Streams())
}

func (d *Demuxer) TrackType(index int) (media.ContentType, string) {
	st, err := d.stream(index)
	if err != nil {
		return media.ContentUnknown, "invalid"
	}
	mt := st.CodecParameters().MediaType()
	switch mt {
	case astiav.MediaTypeVideo:
		return media.ContentVideo, mt.String()
	case astiav.MediaTypeAudio:
		return media.ContentAudio, mt.String()
	case astiav.MediaTypeSubtitle:
		return media.ContentSubtitle, mt.String()
	default:
		return media.ContentUnknown, mt.String()
	}
}

func (d *Demuxer) FrameRate(index int) (int, int, error) {
	st, err := d.stream(index)
	if err != nil {
		return 0, 0, err
	}
	r := st.AvgFrameRate()
	if r.Num() == 0 {
		r = st.RFrameRate()
	}
	return r.Num(), r.Den(), nil
}

func (d *Demuxer) AudioFormat(index int) (int, int, error) {
	st, err := d.stream(index)
	if err != nil {
		return 0, 0, err
	}
	cp := st.CodecParameters()
	return cp.SampleRate(), cp.ChannelLayout().Channels(), nil
}

func (d *Demuxer) SubtitleInfo(index int) (string, string, error) {
	st, err := d.stream(index)
	if err != nil {
		return "", "", err
	}

	var language string
	if md := st.Metadata(); md != nil {
		if e := md.Get("language", nil, astiav.NewDictionaryFlags()); e != nil {
			language = e.Value()
		}
	}

	category := st.CodecParameters().CodecID().Name()
	return language, category, nil
}

// ActivateTrack opens a decoder for the track. Tracks must be activated
// before the first Step.
func (d *Demuxer) ActivateTrack(index int) error {
	if _, ok := d.decoders[index]; ok {
		return nil
	}

	st, err := d.stream(index)
	if err != nil {
		return err
	}

	ct, name := d.TrackType(index)
	var dec streamDecoder
	switch ct {
	case media.ContentVideo:
		dec, err = videodecoder.New(st, d.opts.Planar)
	case media.ContentAudio:
		dec, err = audiodecoder.New(st)
	case media.ContentSubtitle:
		dec = subtitledecoder.New(st)
	default:
		err = fmt.Errorf("demux: %s streams cannot be decoded", name)
	}
	if err != nil {
		return fmt.Errorf("demux: activating track %d failed: %w", index, err)
	}

	d.decoders[index] = dec
	d.types[index] = ct
	d.configure()
	return nil
}

func (d *Demuxer) DeactivateTrack(index int) error {
	dec, ok := d.decoders[index]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotActive, index)
	}
	dec.Close()
	delete(d.decoders, index)
	delete(d.types, index)
	d.configure()
	return nil
}

func (d *Demuxer) configure() {
	indexes := slices.Sorted(maps.Keys(d.decoders))
	types := lo.Map(indexes, func(i int, _ int) media.ContentType { return d.types[i] })
	d.batcher.Configure(indexes, types)
}

// SetCallbackFrames hands a bundle over every n decoded units of track
// index, when it drives batching.
func (d *Demuxer) SetCallbackFrames(index, n int) error {
	if _, ok := d.decoders[index]; !ok {
		return fmt.Errorf("%w: %d", ErrNotActive, index)
	}
	d.batcher.SetFrames(index, n)
	return nil
}

// SetCallbackPeriod hands a bundle over every ms of presentation time of
// track index, when it drives batching.
func (d *Demuxer) SetCallbackPeriod(index int, ms int64) error {
	if _, ok := d.decoders[index]; !ok {
		return fmt.Errorf("%w: %d", ErrNotActive, index)
	}
	d.batcher.SetPeriod(index, ms)
	return nil
}

// Step reads and decodes one packet. It writes at most one bundle to the
// queue, waiting up to the step timeout for a free slot.
func (d *Demuxer) Step() (media.StepStatus, error) {
	if d.ready != nil {
		return d.handOver()
	}
	if d.eof {
		return media.StepEnd, nil
	}

	if err := d.iformat.ReadFrame(d.pkt); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			d.eof = true
			if d.ready = d.batcher.Flush(); d.ready != nil {
				return d.handOver()
			}
			return media.StepEnd, nil
		}
		return media.StepEnd, fmt.Errorf("demux: reading packet failed: %w", err)
	}

	defer d.pkt.Unref()

	index := d.pkt.StreamIndex()
	dec, ok := d.decoders[index]
	if !ok {
		return media.StepContinue, nil
	}

	units, err := dec.Decode(d.pkt)
	if err != nil {
		log.WithField("track", index).Warnf("demux: skipping packet: %v", err)
	}

	if d.ready = d.batcher.Add(index, units); d.ready != nil {
		return d.handOver()
	}
	return media.StepContinue, nil
}

func (d *Demuxer) handOver() (media.StepStatus, error) {
	err := d.queue.Write(d.ready, d.opts.StepTimeout)
	switch {
	case err == nil:
		d.ready = nil
		if d.queue.Full() {
			return media.StepBufferFull, nil
		}
		return media.StepContinue, nil
	case errors.Is(err, media.ErrQueueTimeout):
		return media.StepTimeout, nil
	default:
		return media.StepEnd, nil
	}
}

func (d *Demuxer) NextBundle() *media.Bundle {
	return d.queue.Read()
}

func (d *Demuxer) ReleaseBundle(b *media.Bundle) {
	d.batcher.Release(b)
}

// Seek repositions the container on the closest key frame before ms and
// discards everything decoded before the reposition. Units presented
// before ms are dropped until the next seek. The decoding goroutine must be
// stopped.
func (d *Demuxer) Seek(ms int64) error {
	ts := ms * (avTimeBase / 1000)
	if err := d.iformat.SeekFrame(-1, ts, astiav.NewSeekFlags(astiav.SeekFlagBackward)); err != nil {
		return fmt.Errorf("demux: seeking to %dms failed: %w", ms, err)
	}

	if d.ready != nil {
		d.batcher.Release(d.ready)
		d.ready = nil
	}
	for b := d.queue.Read(); b != nil; b = d.queue.Read() {
		d.batcher.Release(b)
	}
	d.batcher.Reset()
	d.batcher.SetTarget(ms)

	for _, dec := range d.decoders {
		dec.Flush()
	}

	d.eof = false
	return nil
}

// Duration returns the container duration in ms.
func (d *Demuxer) Duration() (int64, error) {
	if d.duration < 0 {
		return 0, errors.New("demux: duration is unknown")
	}
	return d.duration, nil
}
