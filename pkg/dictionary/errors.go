package dictionary

import "errors"

// Sentinel errors for programmatic handling. All of them describe bad input
// and are fatal for the invocation that hit them.
var (
	ErrMalformedHeader = errors.New("malformed dictionary header")
	ErrCorruptRecord   = errors.New("corrupt dictionary record")
	ErrUnknownFormat   = errors.New("unknown dictionary format")
	ErrLayoutMismatch  = errors.New("dictionary run layout does not match shard count")
	ErrInvalidRuns     = errors.New("run count must be at least 1")
	ErrWordTooLong     = errors.New("word exceeds 255 bytes")
	ErrInvalidWord     = errors.New("invalid word")
	ErrEmptyWordList   = errors.New("word list is empty")
)
