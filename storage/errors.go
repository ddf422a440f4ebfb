package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("storage: not found")
	ErrIO              = errors.New("storage: io error")
	ErrCorruption      = errors.New("storage: corruption")
	ErrInvalidArgument = errors.New("storage: invalid argument")
	ErrClosed          = errors.New("storage: database is closed")
	ErrNotOpen         = errors.New("storage: database is not open")
	ErrUnknownEngine   = errors.New("storage: unknown engine type")
)

// Status is the reply code of an asynchronous command.
type Status int

const (
	StatusOK              Status = 0
	StatusAlreadyClosed   Status = -1
	StatusIOError         Status = -2
	StatusCorruption      Status = -3
	StatusInvalidArgument Status = -4
	StatusNotFound        Status = -5
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAlreadyClosed:
		return "already closed"
	case StatusIOError:
		return "io error"
	case StatusCorruption:
		return "corruption"
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusNotFound:
		return "not found"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Err converts a reply code back to the matching sentinel error, nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusAlreadyClosed:
		return ErrClosed
	case StatusIOError:
		return ErrIO
	case StatusCorruption:
		return ErrCorruption
	case StatusNotFound:
		return ErrNotFound
	}
	return ErrInvalidArgument
}

// StatusOf maps an error to its reply code. Errors outside the taxonomy are
// reported as invalid argument.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrClosed):
		return StatusAlreadyClosed
	case errors.Is(err, ErrIO):
		return StatusIOError
	case errors.Is(err, ErrCorruption):
		return StatusCorruption
	}
	return StatusInvalidArgument
}

// Wrap tags cause with one of the sentinel kinds so that both stay visible to errors.Is.
func Wrap(kind error, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, kind) {
		return cause
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
