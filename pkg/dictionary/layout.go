package dictionary

import "fmt"

// Window is the byte range of one variable length run inside the file.
// Offset is absolute, so data[Offset:Offset+Size] is the run's window.
type Window struct {
	Offset int
	Size   int
}

// runWindowSize returns the window every run occupies for the given run sizes
// (in bytes, without terminators). The window is at least body/N+1 bytes and
// always large enough for the longest run plus its zero length marker.
func runWindowSize(runSizes []int) int {
	body, longest := 0, 0
	for _, n := range runSizes {
		body += n
		longest = max(longest, n)
	}
	return max(body/len(runSizes)+1, longest+1)
}

// windows splits the body of a variable length file into runs equal windows
// and validates every one of them. It returns ErrLayoutMismatch when the file
// was laid out for a different run count, along with the number of records.
func windows(data []byte, runs int) ([]Window, int, error) {
	if runs < 1 {
		return nil, 0, ErrInvalidRuns
	}
	body := len(data) - 1
	if body < runs || body%runs != 0 {
		return nil, 0, fmt.Errorf("%w: %d body bytes do not split into %d runs", ErrLayoutMismatch, body, runs)
	}

	maxLen := int(data[0])
	out := splitWindows(data, runs)
	records := 0

	for i, w := range out {
		n, err := validateRun(data[w.Offset:w.Offset+w.Size], maxLen)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: run %d of %d: %v", ErrLayoutMismatch, i, runs, err)
		}
		records += n
	}
	return out, records, nil
}

// splitWindows cuts the body into runs equal windows without looking inside
// them. The caller guarantees the body splits evenly.
func splitWindows(data []byte, runs int) []Window {
	size := (len(data) - 1) / runs
	out := make([]Window, runs)
	for i := range out {
		out[i] = Window{Offset: 1 + i*size, Size: size}
	}
	return out
}

// validateRun checks that win holds length prefixed records closed by a zero
// length marker and followed only by zero padding. It returns the number of
// records in the run.
func validateRun(win []byte, maxLen int) (int, error) {
	pos, count := 0, 0
	for pos < len(win) {
		n := int(win[pos])
		if n == 0 {
			for _, c := range win[pos+1:] {
				if c != 0 {
					return 0, fmt.Errorf("data after terminator at offset %d", pos)
				}
			}
			return count, nil
		}
		if n > maxLen {
			return 0, fmt.Errorf("record length %d exceeds max word length %d", n, maxLen)
		}
		if pos+1+n >= len(win) {
			return 0, fmt.Errorf("record at offset %d overruns window of %d bytes", pos, len(win))
		}
		pos += 1 + n
		count++
	}
	return 0, fmt.Errorf("run is not terminated")
}

// detectRuns finds the smallest run count the file validates for. Run 0
// always starts right after the header, so its length bounds the window
// size from below and the run count from above.
func detectRuns(data []byte) (int, error) {
	body := len(data) - 1
	first := 1
	for first < len(data) && data[first] != 0 {
		first += 1 + int(data[first])
	}
	if first >= len(data) {
		return 0, fmt.Errorf("%w: first run is not terminated", ErrLayoutMismatch)
	}
	limit := body / first
	for runs := 1; runs <= limit; runs++ {
		if body%runs != 0 {
			continue
		}
		if _, _, err := windows(data, runs); err == nil {
			return runs, nil
		}
	}
	return 0, fmt.Errorf("%w: no run count matches the file layout", ErrLayoutMismatch)
}
