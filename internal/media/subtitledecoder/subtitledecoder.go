package subtitledecoder

import (
	"encoding/binary"
	"math"
	"regexp"
	"strings"

	"github.com/GoldenFealla/SyncPlayerGo/internal/media"
	"github.com/asticode/go-astiav"
)

const noPTS = math.MinInt64

var (
	millis = astiav.NewRational(1, 1000)

	overrideTags = regexp.MustCompile(`\{[^}]*\}`)
	markupTags   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// Decoder extracts the text carried by the packets of a subtitle stream.
// Packets are read as they are, FFmpeg's subtitle decoders are not involved.
type Decoder struct {
	st    *astiav.Stream
	codec astiav.CodecID
}

func New(st *astiav.Stream) *Decoder {
	return &Decoder{st: st, codec: st.CodecParameters().CodecID()}
}

func (d *Decoder) Index() int {
	return d.st.Index()
}

func (d *Decoder) Flush() {}

func (d *Decoder) Close() {}

func (d *Decoder) Decode(pkt *astiav.Packet) ([]media.Unit, error) {
	if pkt.Pts() == noPTS {
		return nil, nil
	}

	text := Text(d.codec, pkt.Data())
	if text == "" {
		return nil, nil
	}

	return []media.Unit{{
		PTS:  astiav.RescaleQ(pkt.Pts(), d.st.TimeBase(), millis),
		Text: text,
	}}, nil
}

// Text returns the displayable text of one subtitle packet payload.
func Text(codec astiav.CodecID, data []byte) string {
	switch codec {
	case astiav.CodecIDMovText:
		// 16 bit big endian length prefix, styling boxes follow the text
		if len(data) < 2 {
			return ""
		}
		n := int(binary.BigEndian.Uint16(data))
		data = data[2:]
		if n < len(data) {
			data = data[:n]
		}
		return clean(string(data))
	case astiav.CodecIDAss, astiav.CodecIDSsa:
		return ass(string(data))
	default:
		return clean(string(data))
	}
}

// ass strips the event fields preceding the dialogue text:
// ReadOrder, Layer, Style, Name, MarginL, MarginR, MarginV, Effect, Text.
func ass(s string) string {
	fields := strings.SplitN(s, ",", 9)
	if len(fields) == 9 {
		s = fields[8]
	}
	s = overrideTags.ReplaceAllString(s, "")
	s = strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ").Replace(s)
	return strings.TrimSpace(s)
}

func clean(s string) string {
	s = markupTags.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
