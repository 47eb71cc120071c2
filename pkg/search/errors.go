package search

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned for negative thresholds.
	ErrInvalidParams = errors.New("invalid search parameters")
	// ErrQueryTooLong is returned for queries no dictionary word can match.
	ErrQueryTooLong = errors.New("query exceeds 255 bytes")
	// ErrSpawn is returned when a worker could not be started.
	ErrSpawn = errors.New("failed to spawn worker")
	// ErrNoShards is returned when Run is given nothing to scan.
	ErrNoShards = errors.New("no shards to search")
)

// WorkerError reports a worker that terminated abnormally. Output other
// workers already produced stays visible, so a run that returns a
// WorkerError has incomplete results, not empty ones.
//
// The original underlying error can be accessed via errors.Unwrap.
type WorkerError struct {
	Index int
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed: %v", e.Index, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }
