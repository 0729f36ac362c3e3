package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit once Close has begun.
	ErrPoolClosed = errors.New("worker: pool is closed")
	// ErrNilJob is returned when Submit is given a nil job.
	ErrNilJob = errors.New("worker: nil job")
	// ErrInvalidSize is returned when a pool is configured with fewer than one worker.
	ErrInvalidSize = errors.New("worker: pool size must be positive")
)

// PanicError records a job that panicked and stopped the worker running it.
// Close returns every PanicError observed during the pool's life.
type PanicError struct {
	WorkerID int
	Value    any
	Stack    []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d: job panicked: %v", e.WorkerID, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
