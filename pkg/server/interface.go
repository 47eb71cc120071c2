/*
Package server implements msgpack IPC for fuzzy dictionary lookups.

Clients write a stream of msgpack encoded requests to the server's stdin and
read one msgpack response per request from its stdout. Requests are handled
one at a time, in order. Every response carries the request's ID.

# IPC

A search request names the query and optionally overrides the thresholds the
server was started with:

	{"id": "req_001", "q": "kitten", "s": 2, "l": 2, "i": false}

The server responds with every match, grouped by worker, and the time taken
in microseconds:

	{"id": "req_001", "m": [{"w": "kitten", "d": 0}, {"w": "mitten", "d": 1}], "c": 2, "t": 145}

Dictionary information is requested with the "info" action:

	{"id": "info_001", "a": "info"}

Failures produce an error response. When a worker fails mid-search the
matches the other workers found are still included, so "m" holds an
incomplete result:

	{"id": "req_002", "e": "worker 1 failed: ...", "c": 500, "m": [...]}

# Message Types

SearchRequest and SearchResponse carry fuzzy lookups. InfoResponse describes
the loaded dictionary. ErrorResponse reports bad requests (code 400) and
failed searches (code 500).
*/
package server

// Request actions.
const (
	ActionSearch = "search"
	ActionInfo   = "info"
)

// Error codes used in ErrorResponse.
const (
	CodeBadRequest = 400
	CodeFailed     = 500
)

// SearchRequest - fuzzy lookup request. Nil thresholds use the server's
// defaults.
type SearchRequest struct {
	ID            string `msgpack:"id"`
	Action        string `msgpack:"a,omitempty"` // "" or "search", "info"
	Query         string `msgpack:"q"`
	MaxLengthDiff *int   `msgpack:"s,omitempty"`
	MaxDistance   *int   `msgpack:"l,omitempty"`
	FoldCase      *bool  `msgpack:"i,omitempty"`
}

// MatchEntry - one matched word
type MatchEntry struct {
	Word     string `msgpack:"w"`
	Distance int    `msgpack:"d"`
}

// SearchResponse - search response
type SearchResponse struct {
	ID        string       `msgpack:"id"`
	Matches   []MatchEntry `msgpack:"m"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// InfoResponse - loaded dictionary description
type InfoResponse struct {
	ID            string `msgpack:"id"`
	Format        string `msgpack:"format"`
	Records       int    `msgpack:"records"`
	MaxWordLength int    `msgpack:"max_word_length"`
	Runs          int    `msgpack:"runs"`
	Workers       int    `msgpack:"workers"`
	Fingerprint   string `msgpack:"fingerprint"`
}

// ErrorResponse holds error information and any partial matches
type ErrorResponse struct {
	ID      string       `msgpack:"id"`
	Error   string       `msgpack:"e"`
	Code    int          `msgpack:"c"`
	Matches []MatchEntry `msgpack:"m,omitempty"`
}
