package search

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Sink receives merged matches from the coordinator, one at a time.
type Sink interface {
	Write(m Match) error
}

// TextSink writes "<distance>\t<word>\n" records to a buffered stream.
// Call Flush when the run is over.
type TextSink struct {
	w   *bufio.Writer
	buf []byte
}

// NewTextSink wraps w in a buffered text sink.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriterSize(w, 64*1024), buf: make([]byte, 0, 300)}
}

func (s *TextSink) Write(m Match) error {
	s.buf = strconv.AppendInt(s.buf[:0], int64(m.Distance), 10)
	s.buf = append(s.buf, '\t')
	s.buf = append(s.buf, m.Word...)
	s.buf = append(s.buf, '\n')
	_, err := s.w.Write(s.buf)
	return err
}

// Flush writes any buffered records.
func (s *TextSink) Flush() error {
	return s.w.Flush()
}

// ParseLine decodes one TextSink record, without its newline.
func ParseLine(line []byte) (Match, error) {
	tab := bytes.IndexByte(line, '\t')
	if tab <= 0 {
		return Match{}, fmt.Errorf("malformed match line %q", line)
	}
	d, err := strconv.Atoi(string(line[:tab]))
	if err != nil || d < 0 {
		return Match{}, fmt.Errorf("malformed distance in match line %q", line)
	}
	return Match{Distance: d, Word: line[tab+1:]}, nil
}

// CollectSink keeps copies of every match in arrival order. It is safe to
// read Matches after the run returns.
type CollectSink struct {
	mu      sync.Mutex
	matches []Match
}

func (s *CollectSink) Write(m Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, Match{Distance: m.Distance, Word: bytes.Clone(m.Word)})
	return nil
}

// Matches returns the collected matches.
func (s *CollectSink) Matches() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}
