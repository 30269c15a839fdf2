package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id uuid.UUID) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

type ErrTmsIntegration struct {
	error
}

func NewErrTmsIntegration(err error) *ErrTmsIntegration {
	return &ErrTmsIntegration{fmt.Errorf("failed to submit job to TMS: %w", err)}
}

type ErrUnknownEvent struct {
	error
}

func NewErrUnknownEvent(event string) *ErrUnknownEvent {
	return &ErrUnknownEvent{fmt.Errorf("unknown event %q", event)}
}

type ErrJobNotTranslated struct {
	error
}

func NewErrJobNotTranslated(id uuid.UUID) *ErrJobNotTranslated {
	return &ErrJobNotTranslated{fmt.Errorf("job %s has no translated content yet", id)}
}

type ErrInvalidJobID struct {
	error
}

func NewErrInvalidJobID(raw string) *ErrInvalidJobID {
	return &ErrInvalidJobID{fmt.Errorf("invalid job id %q", raw)}
}
