package audio

import (
	"encoding/binary"
	"math"
)

// Sample16 converts one float sample to a signed 16 bit value: round(s*32768)
// saturated to [-32768, 32767]. NaN maps to silence.
func Sample16(s float32) int16 {
	if math.IsNaN(float64(s)) {
		return 0
	}
	v := math.Round(float64(s) * 32768)
	if v >= math.MaxInt16 {
		return math.MaxInt16
	}
	if v <= math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// ConvertS16LE appends the little endian 16 bit encoding of samples to dst.
func ConvertS16LE(dst []byte, samples []float32) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(Sample16(s)))
	}
	return dst
}
