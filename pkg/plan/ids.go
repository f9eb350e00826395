package plan

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh entity id on each call.
type IDGenerator func() string

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails if the random source does.
		return uuid.NewString()
	}
	return id.String()
}

// SequentialIDs returns a generator producing prefix-1, prefix-2, ...
// It is deterministic and intended for tests and fixtures.
func SequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// idSource is shared by a document and its clones so ids stay unique across
// undo and redo.
type idSource struct {
	next IDGenerator
}
