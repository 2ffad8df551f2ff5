// Package audio opens the audio output and feeds it 16 bit PCM.
package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Device plays interleaved signed 16 bit little endian PCM. Write blocks until
// the output has taken the whole buffer.
type Device struct {
	player *oto.Player

	r *io.PipeReader
	w *io.PipeWriter

	SampleRate int
	Channels   int
}

func Open(sampleRate, channels int) (*Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: creating context failed: %w", err)
	}
	<-ready

	d := &Device{
		SampleRate: sampleRate,
		Channels:   channels,
	}
	d.r, d.w = io.Pipe()

	d.player = ctx.NewPlayer(d.r)
	d.player.Play()

	return d, nil
}

func (d *Device) Write(p []byte) error {
	if _, err := d.w.Write(p); err != nil {
		return fmt.Errorf("audio: writing samples failed: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	d.w.Close()
	if err := d.player.Close(); err != nil {
		return fmt.Errorf("audio: closing player failed: %w", err)
	}
	return nil
}
