package cmd

import (
	"fmt"
	"os"

	"github.com/GoldenFealla/SyncPlayerGo/internal/audio"
	"github.com/GoldenFealla/SyncPlayerGo/internal/config"
	"github.com/GoldenFealla/SyncPlayerGo/internal/decoder"
	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/GoldenFealla/SyncPlayerGo/internal/media/demux"
	"github.com/GoldenFealla/SyncPlayerGo/internal/playback"
	"github.com/GoldenFealla/SyncPlayerGo/internal/synchronizer"
	"github.com/GoldenFealla/SyncPlayerGo/internal/track"
	"github.com/GoldenFealla/SyncPlayerGo/internal/widget"
	"github.com/GoldenFealla/SyncPlayerGo/internal/window"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

func play(input string, sels trackSelections) error {
	settings := config.Load()

	dm, err := demux.Open(input, demux.Options{
		Planar:      settings.Overlay,
		Buffer:      settings.DecoderBuffer,
		StepTimeout: settings.StepTimeout,
	})
	if err != nil {
		return err
	}
	defer dm.Close()

	tracks, err := track.Enumerate(dm)
	if err != nil {
		return fmt.Errorf("probing tracks failed: %w", err)
	}
	for _, t := range tracks {
		log.Infof("track %s", t)
	}

	video := track.Select(media.ContentVideo, sels.video, tracks)
	audioTrack := track.Select(media.ContentAudio, sels.audio, tracks)
	subtitle := track.Select(media.ContentSubtitle, sels.subtitle, tracks)

	if err := track.Activate(dm, video, audioTrack, subtitle); err != nil {
		log.Fatalf("activating tracks failed: %v", err)
	}

	var sink playback.AudioSink
	if t, ok := audioTrack.Get(); ok {
		dev, err := openAudio(t)
		if err != nil {
			log.Warnf("audio disabled: %v", err)
			audioTrack = mo.None[track.Track]()
			if err := dm.DeactivateTrack(t.Index); err != nil {
				log.Warnf("deactivating audio track failed: %v", err)
			}
		} else {
			defer dev.Close()
			sink = dev
		}
	}

	dec := decoder.New(dm)
	bar := widget.NewSeekBar(widget.SeekBarOptions{
		Height:  settings.SeekBarHeight,
		Padding: settings.SeekBarPadding,
		Border:  settings.SeekBarBorder,
		Visible: settings.SeekBarVisible,
	}, dec, dm)

	win := window.NewContext(settings.WindowTitle)

	loop := playback.New(playback.Options{
		Video:    video,
		Audio:    audioTrack,
		Subtitle: subtitle,
		Overlay:  settings.Overlay,
	}, dm, dec, display{win}, sink, bar, synchronizer.NewClock(), os.Stdout)

	var g errgroup.Group
	g.Go(func() error {
		defer win.Close()
		return loop.Run()
	})

	win.Run()

	return g.Wait()
}

func openAudio(t track.Track) (*audio.Device, error) {
	f, ok := t.Kind.(track.Audio)
	if !ok || f.SampleRate <= 0 || f.Channels <= 0 {
		return nil, fmt.Errorf("track %s has no usable format", t)
	}
	return audio.Open(f.SampleRate, f.Channels)
}
