package search

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/bastiangx/wordfuzz/pkg/shard"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Job is what a child worker process reads from its stdin.
type Job struct {
	DictPath      string `msgpack:"d"`
	Format        string `msgpack:"f"`
	Shard         int    `msgpack:"i"`
	Shards        int    `msgpack:"n"`
	Query         []byte `msgpack:"q"`
	MaxLengthDiff int    `msgpack:"s"`
	MaxDistance   int    `msgpack:"l"`
	FoldCase      bool   `msgpack:"c"`
	// Runs is the validated run count of a variable length file. With a
	// concrete Format the child skips its own validation pass.
	Runs int `msgpack:"r"`
}

// ProcessRunner scans each shard in a child process. The child re-maps the
// dictionary file itself and streams matches back as text lines on its
// stdout, which is read until EOF before the child is reaped.
type ProcessRunner struct {
	// Executable is the worker binary. Empty means the running executable.
	Executable string
	// Args put the executable into worker mode, e.g. []string{"worker"}.
	Args []string
	// Env is appended to the parent's environment.
	Env []string

	DictPath string
}

func (r *ProcessRunner) Run(s shard.Shard, query []byte, p Params, out chan<- Match) error {
	exe := r.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return fmt.Errorf("%w: %w", ErrSpawn, err)
		}
	}

	runs := 0
	if s.Format() == dictionary.FormatVariable {
		runs = s.Count
	}
	job, err := msgpack.Marshal(&Job{
		DictPath:      r.DictPath,
		Format:        s.Format().String(),
		Runs:          runs,
		Shard:         s.Index,
		Shards:        s.Count,
		Query:         query,
		MaxLengthDiff: p.MaxLengthDiff,
		MaxDistance:   p.MaxDistance,
		FoldCase:      p.FoldCase,
	})
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	cmd := exec.Command(exe, r.Args...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdin = bytes.NewReader(job)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	log.Debugf("Worker %d started as pid %d", s.Index, cmd.Process.Pid)

	var parseErr error
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), 4096)
	for scanner.Scan() {
		m, err := ParseLine(scanner.Bytes())
		if err != nil {
			// Keep reading so the child never blocks on a full pipe.
			if parseErr == nil {
				parseErr = err
			}
			continue
		}
		m.Word = bytes.Clone(m.Word)
		out <- m
	}
	readErr := scanner.Err()
	if readErr != nil {
		// Drain whatever is left before Wait closes the pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("worker process: %w", err)
	}
	if err := errors.Join(parseErr, readErr); err != nil {
		return fmt.Errorf("worker output: %w", err)
	}
	return nil
}

// ServeWorker is the child side of ProcessRunner. It reads one Job from r,
// scans the job's shard and writes matches to w as text lines.
func ServeWorker(r io.Reader, w io.Writer) error {
	var job Job
	if err := msgpack.NewDecoder(r).Decode(&job); err != nil {
		return fmt.Errorf("failed to decode job: %w", err)
	}

	p := Params{MaxLengthDiff: job.MaxLengthDiff, MaxDistance: job.MaxDistance, FoldCase: job.FoldCase}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := ValidateQuery(job.Query); err != nil {
		return err
	}
	format, err := dictionary.ParseFormat(job.Format)
	if err != nil {
		return err
	}

	var d *dictionary.Dictionary
	if format == dictionary.FormatAuto {
		d, err = dictionary.Open(job.DictPath, format)
	} else {
		d, err = dictionary.OpenLayout(job.DictPath, dictionary.Layout{Format: format, Runs: job.Runs})
	}
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := shard.Locate(d, job.Shard, job.Shards)
	if err != nil {
		return err
	}

	sink := NewTextSink(w)
	var writeErr error
	NewWorker(d.MaxWordLength(), job.Query, p).Scan(s.Words(d), func(m Match) bool {
		writeErr = sink.Write(m)
		return writeErr == nil
	})
	if writeErr != nil {
		return fmt.Errorf("failed to write match: %w", writeErr)
	}
	return sink.Flush()
}
