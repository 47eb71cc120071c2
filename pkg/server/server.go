package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordfuzz/internal/logger"
	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/bastiangx/wordfuzz/pkg/search"
	"github.com/bastiangx/wordfuzz/pkg/shard"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers fuzzy lookups against one dictionary over msgpack IPC.
type Server struct {
	dict     *dictionary.Dictionary
	shards   []shard.Shard
	coord    *search.Coordinator
	defaults search.Params

	dec *msgpack.Decoder
	w   *bufio.Writer
	enc *msgpack.Encoder
	log *log.Logger

	requests int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(d *dictionary.Dictionary, shards []shard.Shard, coord *search.Coordinator, defaults search.Params) *Server {
	return NewServerWithIO(d, shards, coord, defaults, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(d *dictionary.Dictionary, shards []shard.Shard, coord *search.Coordinator, defaults search.Params, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		dict:     d,
		shards:   shards,
		coord:    coord,
		defaults: defaults,
		dec:      msgpack.NewDecoder(bufio.NewReader(r)),
		w:        bw,
		enc:      msgpack.NewEncoder(bw),
		log:      logger.New("server"),
	}
}

// Start serves requests until the input stream ends. A request that cannot
// be decoded gets an error response and ends the session, since the stream
// position is lost.
func (s *Server) Start() error {
	s.log.Debug("Starting server", "records", s.dict.Len(), "workers", len(s.shards))

	for {
		var req SearchRequest
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed", "requests", s.requests)
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", fmt.Sprintf("invalid request: %v", err), CodeBadRequest, nil)
			return fmt.Errorf("failed to decode request: %w", err)
		}
		s.requests++
		s.handleRequest(&req)
	}
}

func (s *Server) handleRequest(req *SearchRequest) {
	switch req.Action {
	case "", ActionSearch:
		s.handleSearch(req)
	case ActionInfo:
		info := s.dict.Info()
		s.sendResponse(&InfoResponse{
			ID:            req.ID,
			Format:        info.Format,
			Records:       info.Records,
			MaxWordLength: info.MaxWordLength,
			Runs:          info.Runs,
			Workers:       len(s.shards),
			Fingerprint:   info.Fingerprint,
		})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeBadRequest, nil)
	}
}

func (s *Server) handleSearch(req *SearchRequest) {
	p := s.defaults
	if req.MaxLengthDiff != nil {
		p.MaxLengthDiff = *req.MaxLengthDiff
	}
	if req.MaxDistance != nil {
		p.MaxDistance = *req.MaxDistance
	}
	if req.FoldCase != nil {
		p.FoldCase = *req.FoldCase
	}

	query := []byte(req.Query)
	if err := errors.Join(p.Validate(), search.ValidateQuery(query)); err != nil {
		s.log.Debug("Rejected request", "id", req.ID, "err", err)
		s.sendError(req.ID, err.Error(), CodeBadRequest, nil)
		return
	}

	start := time.Now()
	var sink search.CollectSink
	err := s.coord.Run(s.shards, query, p, &sink)
	elapsed := time.Since(start)

	matches := toEntries(sink.Matches())
	s.log.Debugf("Took [ %v ] for query '%s', %d matches", elapsed, req.Query, len(matches))
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeFailed, matches)
		return
	}

	s.sendResponse(&SearchResponse{
		ID:        req.ID,
		Matches:   matches,
		Count:     len(matches),
		TimeTaken: elapsed.Microseconds(),
	})
}

func toEntries(ms []search.Match) []MatchEntry {
	out := make([]MatchEntry, len(ms))
	for i, m := range ms {
		out[i] = MatchEntry{Word: string(m.Word), Distance: m.Distance}
	}
	return out
}

// sendResponse encodes one response and flushes it to the client.
func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.w.Flush(); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int, matches []MatchEntry) {
	s.sendResponse(&ErrorResponse{ID: id, Error: message, Code: code, Matches: matches})
}
