package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventTimeout = 3 * time.Second

func newSource(t *testing.T, debounce time.Duration) *Source {
	t.Helper()
	s, err := New(debounce)
	require.NoError(t, err, "New source creation failed")
	t.Cleanup(func() { s.Close() })
	return s
}

func expectEvent(t *testing.T, s *Source) Event {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		require.True(t, ok, "event channel closed unexpectedly")
		return ev
	case <-time.After(eventTimeout):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func expectQuiet(t *testing.T, s *Source, d time.Duration) {
	t.Helper()
	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(d):
	}
}

func TestSubscribeDeliversWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "img.pgm")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	s := newSource(t, 0)
	id, err := s.Subscribe(file)
	require.NoError(t, err)
	assert.Equal(t, ID(1), id)

	// other files in the same directory are not reported
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.pgm"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("changed"), 0o644))

	ev := expectEvent(t, s)
	assert.Equal(t, id, ev.ID)
	abs, _ := filepath.Abs(file)
	assert.Equal(t, abs, ev.Path)
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "img.pgm")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	s := newSource(t, 0)
	id, err := s.Subscribe(file)
	require.NoError(t, err)
	s.Unsubscribe(id)
	s.Unsubscribe(id)

	require.NoError(t, os.WriteFile(file, []byte("changed"), 0o644))
	expectQuiet(t, s, 300*time.Millisecond)
}

func TestIDsAreNeverReused(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "img.pgm")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	s := newSource(t, 0)
	first, err := s.Subscribe(file)
	require.NoError(t, err)
	s.Unsubscribe(first)

	second, err := s.Subscribe(file)
	require.NoError(t, err)
	assert.Greater(t, second, first)

	require.NoError(t, os.WriteFile(file, []byte("changed"), 0o644))
	assert.Equal(t, second, expectEvent(t, s).ID)
}

func TestDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "img.pgm")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	s := newSource(t, 200*time.Millisecond)
	id, err := s.Subscribe(file)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte{byte(i)}, 0o644))
	}

	assert.Equal(t, id, expectEvent(t, s).ID)
	expectQuiet(t, s, 500*time.Millisecond)
}

func TestSubscribeMissingDirectory(t *testing.T) {
	s := newSource(t, 0)
	_, err := s.Subscribe(filepath.Join(t.TempDir(), "missing", "img.pgm"))
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	s, err := New(0)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Subscribe("img.pgm")
	assert.ErrorIs(t, err, ErrClosed)

	_, ok := <-s.Events()
	assert.False(t, ok, "event channel should be closed")
}
