// Package track classifies the elementary streams of an opened input and
// resolves which of them get played.
package track

import (
	"fmt"

	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
)

// Kind is the closed set of track kinds: Video, Audio, Subtitle, Unknown.
type Kind interface {
	isKind()
}

type Video struct {
	FrameRate float64
}

type Audio struct {
	SampleRate int
	Channels   int
}

type Subtitle struct {
	Language string
	Category string
}

type Unknown struct {
	TypeName string
}

func (Video) isKind()    {}
func (Audio) isKind()    {}
func (Subtitle) isKind() {}
func (Unknown) isKind()  {}

// Track is one elementary stream, addressed by its stream index.
type Track struct {
	Index int
	Kind  Kind
}

// Type maps the track kind back to the collaborator's content type.
func (t Track) Type() media.ContentType {
	return TypeOf(t.Kind)
}

func (t Track) String() string {
	return fmt.Sprintf("#%d %s", t.Index, Summary(t.Kind))
}

func TypeOf(k Kind) media.ContentType {
	switch k.(type) {
	case Video:
		return media.ContentVideo
	case Audio:
		return media.ContentAudio
	case Subtitle:
		return media.ContentSubtitle
	case Unknown:
		return media.ContentUnknown
	default:
		panic(fmt.Sprintf("track: unhandled kind %T", k))
	}
}

// Summary describes a track kind on one line.
func Summary(k Kind) string {
	switch k := k.(type) {
	case Video:
		return fmt.Sprintf("video: %.2f fps", k.FrameRate)
	case Audio:
		return fmt.Sprintf("audio: %d Hz, %d channels", k.SampleRate, k.Channels)
	case Subtitle:
		return fmt.Sprintf("subtitle: language %q, category %q", k.Language, k.Category)
	case Unknown:
		return fmt.Sprintf("unknown: %s", k.TypeName)
	default:
		panic(fmt.Sprintf("track: unhandled kind %T", k))
	}
}
