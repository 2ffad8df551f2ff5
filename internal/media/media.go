package media

// ContentType is the kind of elementary stream reported by the decoding
// collaborator for one track.
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentVideo
	ContentAudio
	ContentSubtitle
)

func (c ContentType) String() string {
	switch c {
	case ContentVideo:
		return "video"
	case ContentAudio:
		return "audio"
	case ContentSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// StepStatus is the outcome of advancing the decoding collaborator by one step.
type StepStatus int

const (
	StepContinue StepStatus = iota
	StepBufferFull
	StepTimeout
	StepEnd
)

func (s StepStatus) String() string {
	switch s {
	case StepContinue:
		return "continue"
	case StepBufferFull:
		return "buffer full"
	case StepTimeout:
		return "timeout"
	default:
		return "end"
	}
}

// Picture holds one decoded video frame. Planar pictures carry YUV 4:2:0
// planes, packed pictures carry RGBA pixels.
type Picture struct {
	Width  int
	Height int

	Planar  bool
	Y       []byte
	Cb      []byte
	Cr      []byte
	YStride int
	CStride int

	RGBA   []byte
	Stride int
}

// Unit is one timestamped piece of decoded output. Only the payload matching
// the owning track's content type is set.
type Unit struct {
	PTS int64 // ms

	Samples []float32
	Picture *Picture
	Text    string
}

// TrackData is the slot of a bundle belonging to one active track.
type TrackData struct {
	Index int
	Type  ContentType
	Units []Unit
}

// Required returns how many units must be consumed this cycle.
func (td *TrackData) Required() int {
	if td == nil {
		return 0
	}
	return len(td.Units)
}

// Bundle groups the units decoded for every active track since the previous
// bundle was handed over.
type Bundle struct {
	Tracks []TrackData
}

func NewBundle(indexes []int, types []ContentType) *Bundle {
	b := &Bundle{Tracks: make([]TrackData, len(indexes))}
	for i := range indexes {
		b.Tracks[i] = TrackData{Index: indexes[i], Type: types[i]}
	}
	return b
}

// Track returns the slot of the track with the given stream index, or nil.
func (b *Bundle) Track(index int) *TrackData {
	if b == nil {
		return nil
	}
	for i := range b.Tracks {
		if b.Tracks[i].Index == index {
			return &b.Tracks[i]
		}
	}
	return nil
}

// Empty reports whether no slot holds a unit.
func (b *Bundle) Empty() bool {
	for i := range b.Tracks {
		if len(b.Tracks[i].Units) > 0 {
			return false
		}
	}
	return true
}

// Reset drops all units while keeping slots and their backing arrays.
func (b *Bundle) Reset() {
	for i := range b.Tracks {
		b.Tracks[i].Units = b.Tracks[i].Units[:0]
	}
}
