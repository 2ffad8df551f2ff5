package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueReadEmpty(t *testing.T) {
	q := NewQueue(2)
	require.Nil(t, q.Read())
}

func TestQueueOrder(t *testing.T) {
	q := NewQueue(2)
	a, b := &Bundle{}, &Bundle{}
	require.NoError(t, q.Write(a, 0))
	require.NoError(t, q.Write(b, 0))
	require.True(t, q.Full())
	require.Same(t, a, q.Read())
	require.Same(t, b, q.Read())
	require.Nil(t, q.Read())
}

func TestQueueWriteTimesOutWhenFull(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Write(&Bundle{}, 0))
	err := q.Write(&Bundle{}, 10*time.Millisecond)
	require.ErrorIs(t, err, ErrQueueTimeout)
	require.Equal(t, 1, q.Len())
}

func TestQueueReadUnblocksWriter(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Write(&Bundle{}, 0))

	done := make(chan error, 1)
	go func() {
		done <- q.Write(&Bundle{}, 0)
	}()

	select {
	case <-done:
		t.Fatal("write on a full queue returned early")
	case <-time.After(20 * time.Millisecond):
	}

	require.NotNil(t, q.Read())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("writer still blocked after read")
	}
}

func TestQueueCloseUnblocksWriter(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Write(&Bundle{}, 0))

	done := make(chan error, 1)
	go func() {
		done <- q.Write(&Bundle{}, 0)
	}()

	q.Close()
	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("writer still blocked after close")
	}

	require.NotNil(t, q.Read())
	q.Close()
}

func TestQueueFlush(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Write(&Bundle{}, 0))
	}
	require.Equal(t, 3, q.Flush())
	require.Equal(t, 0, q.Len())
}

func TestBundleTrack(t *testing.T) {
	b := NewBundle([]int{0, 2}, []ContentType{ContentVideo, ContentAudio})
	require.True(t, b.Empty())
	require.Nil(t, b.Track(1))

	b.Track(2).Units = append(b.Track(2).Units, Unit{PTS: 10})
	require.False(t, b.Empty())
	require.Equal(t, 1, b.Track(2).Required())
	require.Equal(t, 0, b.Track(0).Required())

	b.Reset()
	require.True(t, b.Empty())

	var missing *TrackData
	require.Equal(t, 0, missing.Required())
}
