// Package cli runs the interactive wordfuzz prompt used for exploring a
// dictionary and tuning thresholds by hand.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordfuzz/internal/utils"
	"github.com/bastiangx/wordfuzz/pkg/search"
	"github.com/bastiangx/wordfuzz/pkg/shard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads queries from a stream, one per line, and prints their
// matches. Lines starting with ':' adjust the thresholds:
//
//	:s N   max length difference
//	:l N   max edit distance
//	:i     toggle case-insensitive exact match
//	:p     print the current thresholds
type InputHandler struct {
	coord        *search.Coordinator
	shards       []shard.Shard
	params       search.Params
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(coord *search.Coordinator, shards []shard.Shard, p search.Params) *InputHandler {
	return &InputHandler{coord: coord, shards: shards, params: p}
}

// Start runs the prompt on stdin/stdout until stdin is closed.
func (h *InputHandler) Start() error {
	log.Print("WordFuzz CLI")
	log.Print("type a word and press Enter to see its matches (Ctrl+D to exit, :p for settings):")
	return h.Run(os.Stdin, os.Stdout)
}

// Run processes every line of r, writing matches to w.
func (h *InputHandler) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for {
		log.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleInput(line, w)
	}
}

// Params returns the current thresholds.
func (h *InputHandler) Params() search.Params {
	return h.params
}

func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":i":
		h.params.FoldCase = !h.params.FoldCase
		log.Printf("case-insensitive exact match: %v", h.params.FoldCase)
	case ":p":
		log.Printf("max length diff %d, max distance %d, fold case %v, workers %d",
			h.params.MaxLengthDiff, h.params.MaxDistance, h.params.FoldCase, len(h.shards))
	case ":s", ":l":
		if len(fields) != 2 {
			log.Errorf("Usage: %s N", fields[0])
			return
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			log.Errorf("Not a valid threshold: %s", fields[1])
			return
		}
		if fields[0] == ":s" {
			h.params.MaxLengthDiff = n
		} else {
			h.params.MaxDistance = n
		}
	default:
		log.Errorf("Unknown command: %s", fields[0])
	}
}

// handleInput searches for one query and prints its matches, best first.
func (h *InputHandler) handleInput(query string, w io.Writer) {
	h.requestCount++
	if err := search.ValidateQuery([]byte(query)); err != nil {
		log.Errorf("Query too long: %d bytes", len(query))
		return
	}

	start := time.Now()
	var sink search.CollectSink
	err := h.coord.Run(h.shards, []byte(query), h.params, &sink)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)
	if err != nil {
		log.Errorf("Search failed, results are incomplete: %v", err)
	}

	matches := sortByDistance(sink.Matches())
	if len(matches) == 0 {
		log.Warnf("No matches found for '%s'", query)
		return
	}

	log.Printf("Found %s matches for '%s':", utils.FormatWithCommas(len(matches)), query)
	for i, m := range matches {
		fmt.Fprintf(w, "%3d. %-40s (distance: %d)\n", i+1, wordStyle.Render(string(m.Word)), m.Distance)
	}
}

// sortByDistance orders matches by distance, keeping the merge order for
// equal distances.
func sortByDistance(ms []search.Match) []search.Match {
	out := make([]search.Match, len(ms))
	copy(out, ms)
	slices.SortStableFunc(out, func(a, b search.Match) int { return a.Distance - b.Distance })
	return out
}
