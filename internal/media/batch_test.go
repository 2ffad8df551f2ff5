package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func units(pts ...int64) []Unit {
	out := make([]Unit, len(pts))
	for i, p := range pts {
		out[i] = Unit{PTS: p}
	}
	return out
}

func TestBatcherDriver(t *testing.T) {
	b := NewBatcher()

	b.Configure([]int{0, 1, 2}, []ContentType{ContentAudio, ContentSubtitle, ContentVideo})
	require.Equal(t, 2, b.Driver())

	b.Configure([]int{3, 5}, []ContentType{ContentSubtitle, ContentAudio})
	require.Equal(t, 5, b.Driver())

	b.Configure([]int{4}, []ContentType{ContentSubtitle})
	require.Equal(t, 4, b.Driver())

	b.Configure(nil, nil)
	require.Equal(t, -1, b.Driver())
}

func TestBatcherOneVideoFramePerBundle(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{0, 1}, []ContentType{ContentVideo, ContentAudio})

	require.Nil(t, b.Add(1, units(0, 21)))
	require.Nil(t, b.Add(1, nil))

	got := b.Add(0, units(0))
	require.NotNil(t, got)
	require.Equal(t, 1, got.Track(0).Required())
	require.Equal(t, 2, got.Track(1).Required())

	require.Nil(t, b.Flush())
}

func TestBatcherAudioPeriod(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{1}, []ContentType{ContentAudio})

	require.Nil(t, b.Add(1, units(0, 20)))
	got := b.Add(1, units(40))
	require.NotNil(t, got)
	require.Equal(t, 3, got.Track(1).Required())

	b.SetFrames(1, 2)
	require.Nil(t, b.Add(1, units(60)))
	require.NotNil(t, b.Add(1, units(80)))
}

func TestBatcherVideoFrames(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{0}, []ContentType{ContentVideo})
	b.SetFrames(0, 3)

	require.Nil(t, b.Add(0, units(0)))
	require.Nil(t, b.Add(0, units(40)))
	require.NotNil(t, b.Add(0, units(80)))

	b.SetPeriod(0, 100)
	require.Nil(t, b.Add(0, units(120, 160)))
	require.NotNil(t, b.Add(0, units(220)))
}

func TestBatcherBoundsStarvedDriver(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{0, 1}, []ContentType{ContentVideo, ContentAudio})

	var got *Bundle
	for i := 0; got == nil && i < maxUnits; i++ {
		got = b.Add(1, units(int64(i)))
	}
	require.NotNil(t, got)
	require.Equal(t, 0, got.Track(0).Required())
	require.Equal(t, maxUnits, got.Track(1).Required())
}

func TestBatcherSeekTarget(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{0, 1}, []ContentType{ContentVideo, ContentAudio})

	require.Nil(t, b.Add(1, units(0)))
	b.Reset()
	b.SetTarget(2000)

	require.Nil(t, b.Add(0, units(1960)))
	require.Nil(t, b.Add(1, units(1980, 2000)))
	got := b.Add(0, units(2000))
	require.NotNil(t, got)
	require.Equal(t, []Unit{{PTS: 2000}}, got.Track(0).Units)
	require.Equal(t, []Unit{{PTS: 2000}}, got.Track(1).Units)

	b.Reset()
	require.NotNil(t, b.Add(0, units(0)))
}

func TestBatcherUnknownTrackIgnored(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{0}, []ContentType{ContentVideo})

	require.Nil(t, b.Add(7, units(0)))
	require.Nil(t, b.Flush())
}

func TestBatcherReleaseReuses(t *testing.T) {
	b := NewBatcher()
	b.Configure([]int{0}, []ContentType{ContentVideo})

	got := b.Add(0, units(0))
	require.NotNil(t, got)
	b.Release(got)
	require.True(t, got.Empty())

	next := b.Add(0, units(40))
	require.NotNil(t, next)
	require.Equal(t, []Unit{{PTS: 40}}, next.Track(0).Units)

	b.Release(nil)
	b.Release(&Bundle{})
}
