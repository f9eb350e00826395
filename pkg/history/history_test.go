package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func same(v int) int { return v }

func cloneSlice(v []string) []string {
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// mutate records the live value and then applies the change, the order every
// editor command follows.
func mutate(s *Stack[int], live *int, next int) {
	s.Record(*live)
	*live = next
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New(DefaultLimit, same)
	live := 0
	for i := 1; i <= 5; i++ {
		mutate(s, &live, i*10)
	}
	require.Equal(t, 50, live)

	for want := 40; want >= 0; want -= 10 {
		v, ok := s.Undo(live)
		require.True(t, ok)
		live = v
		assert.Equal(t, want, live)
	}
	_, ok := s.Undo(live)
	assert.False(t, ok, "undo at cursor 0 is a no-op")

	for want := 10; want <= 50; want += 10 {
		v, ok := s.Redo()
		require.True(t, ok)
		live = v
		assert.Equal(t, want, live)
	}
	_, ok = s.Redo()
	assert.False(t, ok, "redo at the top is a no-op")
}

func TestNothingToUndoOnFreshStack(t *testing.T) {
	s := New(0, same)
	assert.Equal(t, DefaultLimit, s.Limit())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	_, ok := s.Undo(7)
	assert.False(t, ok)
	_, ok = s.Redo()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestRecordDiscardsRedoBranch(t *testing.T) {
	s := New(DefaultLimit, same)
	live := 1
	mutate(s, &live, 2)
	mutate(s, &live, 3)

	live, _ = s.Undo(live)
	require.Equal(t, 2, live)
	require.True(t, s.CanRedo())

	mutate(s, &live, 4)
	assert.False(t, s.CanRedo())
	_, ok := s.Redo()
	assert.False(t, ok)

	live, _ = s.Undo(live)
	assert.Equal(t, 2, live)
	live, _ = s.Undo(live)
	assert.Equal(t, 1, live)
	live, _ = s.Redo()
	live, _ = s.Redo()
	assert.Equal(t, 4, live)
}

func TestLimitEvictsOldest(t *testing.T) {
	s := New(20, same)
	live := 0
	for i := 1; i <= 25; i++ {
		mutate(s, &live, i)
	}
	assert.Equal(t, 20, s.Len())
	assert.Equal(t, 20, s.Cursor())

	steps := 0
	for {
		v, ok := s.Undo(live)
		if !ok {
			break
		}
		live = v
		steps++
	}
	assert.Equal(t, 20, steps)
	assert.Equal(t, 5, live, "snapshots older than the cap are gone")
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := New(DefaultLimit, cloneSlice)
	live := []string{"a"}
	s.Record(live)
	live[0] = "changed"
	live = append(live, "b")

	restored, ok := s.Undo(live)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, restored)

	restored[0] = "scribble"
	again, ok := s.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{"changed", "b"}, again)

	back, _ := s.Undo(again)
	assert.Equal(t, []string{"a"}, back, "mutating a restored value must not leak into the stack")
}

func TestReset(t *testing.T) {
	s := New(DefaultLimit, same)
	s.Record(1)
	s.Record(2)
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.CanUndo())
}
