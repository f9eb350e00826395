package plan

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the document API.
var (
	ErrValidationRejected = errors.New("connection rejected")
	ErrUnknownItem        = errors.New("unknown item")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrSelfConnection     = errors.New("connection endpoints must differ")
	ErrInvalidLayer       = errors.New("invalid gas layer")
	ErrInvalidKind        = errors.New("invalid item kind")
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrCorruptDocument    = errors.New("corrupt document")
)

// GasConflictError reports that a source already supplies a different gas.
// It wraps ErrValidationRejected.
type GasConflictError struct {
	Source      string   // source item id
	SourceLabel string
	Existing    GasLayer // layer already connected to the source
	Requested   GasLayer
}

func (e *GasConflictError) Error() string {
	name := e.SourceLabel
	if name == "" {
		name = e.Source
	}
	return fmt.Sprintf("%s already supplies %s; a source carries a single gas, cannot connect %s",
		name, e.Existing.Title(), e.Requested.Title())
}

func (e *GasConflictError) Unwrap() error {
	return ErrValidationRejected
}

// corrupt wraps a load-time consistency failure.
func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptDocument, fmt.Sprintf(format, args...))
}
