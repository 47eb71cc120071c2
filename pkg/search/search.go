package search

import (
	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/bastiangx/wordfuzz/pkg/shard"
)

// Search partitions d into workers shards and scans them on goroutines,
// returning copies of every match. Matches found before a failure are
// returned together with the error.
func Search(d *dictionary.Dictionary, workers int, query []byte, p Params) ([]Match, error) {
	shards, err := shard.Partition(d, workers)
	if err != nil {
		return nil, err
	}
	var sink CollectSink
	err = NewCoordinator(&LocalRunner{Dict: d}).Run(shards, query, p, &sink)
	return sink.Matches(), err
}
