package audiodecoder

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloats(t *testing.T) {
	var b []byte
	for _, f := range []float32{0.5, -1, 0.25} {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}

	require.Equal(t, []float32{0.5, -1, 0.25}, Floats(b, 3))
	require.Equal(t, []float32{0.5, -1}, Floats(b, 2))
	require.Equal(t, []float32{0.5, -1, 0.25}, Floats(b, 10))
	require.Equal(t, []float32{0.5}, Floats(b[:7], 3))
}
