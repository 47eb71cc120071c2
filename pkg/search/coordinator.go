package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/wordfuzz/internal/logger"
	"github.com/bastiangx/wordfuzz/pkg/shard"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultBuffer is the per-worker stream capacity.
const DefaultBuffer = 1024

// Coordinator runs one worker per shard and merges their matches.
type Coordinator struct {
	Runner Runner
	Logger *log.Logger
	// Buffer is the capacity of each worker's match stream. A worker
	// blocks once its stream is full until the coordinator reaches it.
	Buffer int
}

// NewCoordinator returns a coordinator using r with default buffering.
func NewCoordinator(r Runner) *Coordinator {
	return &Coordinator{Runner: r, Logger: logger.New("coord"), Buffer: DefaultBuffer}
}

// Run starts a worker for every shard, drains each worker's stream to
// completion in index order into sink and then reaps every worker.
//
// Run returns nil only when all workers exited cleanly and sink accepted
// every match. Matches already written to sink are never retracted, so on
// error the sink holds a partial result. A sink failure does not stop the
// workers; their streams are still drained.
func (c *Coordinator) Run(shards []shard.Shard, query []byte, p Params, sink Sink) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := ValidateQuery(query); err != nil {
		return err
	}
	if len(shards) == 0 {
		return ErrNoShards
	}

	lg := c.Logger
	if lg == nil {
		lg = log.Default()
	}
	buffer := c.Buffer
	if buffer < 0 {
		buffer = 0
	}

	start := time.Now()
	streams := make([]chan Match, len(shards))
	var g errgroup.Group
	for i, s := range shards {
		out := make(chan Match, buffer)
		streams[i] = out
		g.Go(func() error {
			defer close(out)
			if err := c.Runner.Run(s, query, p, out); err != nil {
				lg.Error("worker failed", "worker", i, "err", err)
				return &WorkerError{Index: i, Err: err}
			}
			return nil
		})
	}
	lg.Debug("workers started", "count", len(shards), "query", string(query))

	var sinkErr error
	total := 0
	for i, out := range streams {
		n := 0
		for m := range out {
			n++
			if sinkErr != nil {
				continue
			}
			if err := sink.Write(m); err != nil {
				sinkErr = fmt.Errorf("failed to write match: %w", err)
			}
		}
		total += n
		lg.Debug("worker drained", "worker", i, "matches", n)
	}

	workerErr := g.Wait()
	lg.Debug("search finished", "matches", total, "elapsed", time.Since(start))
	return errors.Join(workerErr, sinkErr)
}
