package track

import (
	"fmt"

	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Prober reports the tracks of an opened input.
type Prober interface {
	TrackCount() int
	TrackType(index int) (media.ContentType, string)
	FrameRate(index int) (num, den int, err error)
	AudioFormat(index int) (rate, channels int, err error)
	SubtitleInfo(index int) (language, category string, err error)
}

// Activator turns decoding of a track on.
type Activator interface {
	ActivateTrack(index int) error
}

// Enumerate classifies every track reported by p, in index order.
func Enumerate(p Prober) ([]Track, error) {
	n := p.TrackCount()
	tracks := make([]Track, 0, n)

	for i := 0; i < n; i++ {
		ct, name := p.TrackType(i)

		var kind Kind
		switch ct {
		case media.ContentVideo:
			num, den, err := p.FrameRate(i)
			if err != nil {
				return nil, fmt.Errorf("track: reading frame rate of track %d failed: %w", i, err)
			}
			kind = Video{FrameRate: frameRate(num, den)}
		case media.ContentAudio:
			rate, channels, err := p.AudioFormat(i)
			if err != nil {
				return nil, fmt.Errorf("track: reading audio format of track %d failed: %w", i, err)
			}
			kind = Audio{SampleRate: rate, Channels: channels}
		case media.ContentSubtitle:
			lang, category, err := p.SubtitleInfo(i)
			if err != nil {
				return nil, fmt.Errorf("track: reading subtitle info of track %d failed: %w", i, err)
			}
			kind = Subtitle{Language: lang, Category: category}
		default:
			kind = Unknown{TypeName: name}
		}

		tracks = append(tracks, Track{Index: i, Kind: kind})
	}

	return tracks, nil
}

// frameRate is num/den: the collaborator reports frames per second as a
// rational, not a frame duration.
func frameRate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Select resolves a selection request for one content type.
func Select(ct media.ContentType, sel Selection, tracks []Track) mo.Option[Track] {
	switch sel.mode {
	case modeFirst:
		t, ok := lo.Find(tracks, func(t Track) bool {
			return t.Type() == ct
		})
		if !ok {
			return mo.None[Track]()
		}
		return mo.Some(t)
	case modeIndex:
		t, ok := lo.Find(tracks, func(t Track) bool {
			return t.Index == sel.index
		})
		if !ok || t.Type() != ct {
			return mo.None[Track]()
		}
		return mo.Some(t)
	default:
		return mo.None[Track]()
	}
}

// Activate tells the collaborator to decode every selected track.
func Activate(a Activator, selected ...mo.Option[Track]) error {
	for _, opt := range selected {
		t, ok := opt.Get()
		if !ok {
			continue
		}
		if err := a.ActivateTrack(t.Index); err != nil {
			return fmt.Errorf("track: activating track %d failed: %w", t.Index, err)
		}
	}
	return nil
}
