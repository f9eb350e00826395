// Package history provides a bounded snapshot stack for undo/redo.
//
// Snapshots are recorded before each mutation, so entry k holds the state
// immediately preceding the k-th mutation. Recording while the cursor is not at
// the top discards the redo branch. The live state is captured on the first
// undo so that redo can return to it.
package history

// DefaultLimit is the number of undoable steps kept.
const DefaultLimit = 20

// Stack holds snapshots of type T plus a cursor.
// The zero value is not usable; call New.
type Stack[T any] struct {
	entries []T
	cursor  int // index of the state currently shown; len(entries) while live
	limit   int
	clone   func(T) T
}

// New creates a stack keeping at most limit undoable snapshots.
// clone must return an independent deep copy; restored and recorded values are
// always cloned so callers never share memory with the stack.
func New[T any](limit int, clone func(T) T) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{
		entries: make([]T, 0, limit+1),
		limit:   limit,
		clone:   clone,
	}
}

// Record captures current as the state preceding the next mutation.
func (s *Stack[T]) Record(current T) {
	// Drop the redo branch, including any captured live head.
	s.entries = s.entries[:s.cursor]
	s.entries = append(s.entries, s.clone(current))
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
	s.cursor = len(s.entries)
}

// Undo steps back one snapshot. current is the live state, captured the first
// time Undo leaves the top so Redo can restore it. Returns false at the bottom.
func (s *Stack[T]) Undo(current T) (T, bool) {
	var zero T
	if s.cursor == 0 {
		return zero, false
	}
	if s.cursor == len(s.entries) {
		s.entries = append(s.entries, s.clone(current))
	}
	s.cursor--
	return s.clone(s.entries[s.cursor]), true
}

// Redo steps forward one snapshot. Returns false at the top.
func (s *Stack[T]) Redo() (T, bool) {
	var zero T
	if s.cursor >= len(s.entries)-1 {
		return zero, false
	}
	s.cursor++
	return s.clone(s.entries[s.cursor]), true
}

// CanUndo reports whether Undo would change state.
func (s *Stack[T]) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether Redo would change state.
func (s *Stack[T]) CanRedo() bool {
	return s.cursor < len(s.entries)-1
}

// Cursor returns the current position. It equals Len while no undo is pending.
func (s *Stack[T]) Cursor() int {
	return s.cursor
}

// Len returns the number of stored snapshots.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}

// Limit returns the configured cap.
func (s *Stack[T]) Limit() int {
	return s.limit
}

// Reset discards all snapshots.
func (s *Stack[T]) Reset() {
	s.entries = s.entries[:0]
	s.cursor = 0
}
