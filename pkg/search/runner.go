package search

import (
	"fmt"

	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/bastiangx/wordfuzz/pkg/shard"
)

// Runner executes one worker over one shard to completion, sending its
// matches to out in scan order. Run must not close out. A non-nil error
// means the worker terminated abnormally; matches already sent still count.
type Runner interface {
	Run(s shard.Shard, query []byte, p Params, out chan<- Match) error
}

// LocalRunner scans shards on goroutines inside the current process. All
// workers share Dict read-only.
type LocalRunner struct {
	Dict *dictionary.Dictionary
}

func (r *LocalRunner) Run(s shard.Shard, query []byte, p Params, out chan<- Match) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("worker panicked: %v", v)
		}
	}()

	w := NewWorker(r.Dict.MaxWordLength(), query, p)
	w.Scan(s.Words(r.Dict), func(m Match) bool {
		out <- m
		return true
	})
	return nil
}
