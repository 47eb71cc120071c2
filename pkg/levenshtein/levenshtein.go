// Package levenshtein computes bounded edit distances between byte strings
// using a reusable scratch matrix.
//
// A Matrix is sized once for the longest word a caller will ever compare and
// is then reused for every call. Row 0 and column 0 hold the seed sequence
// 0, 1, 2, ... and are never written; each call fully overwrites the inner
// cells it reads, so nothing has to be cleared between calls.
//
// DP row i lives in matrix row i, so a call only touches the top left
// len(a)+1 by len(b)+1 block. Each step reads the previous row and writes
// the current one, both located by stride arithmetic. Fresh rows keep the
// seeded column 0 intact without rewriting it.
//
//	m := levenshtein.NewMatrix(dict.MaxWordLength())
//	for _, w := range words {
//		if m.Distance(query, w) <= 2 {
//			...
//		}
//	}
//
// A Matrix is not safe for concurrent use. Give every goroutine its own.
package levenshtein

// MaxSize is the largest supported matrix bound. Words are length prefixed
// with a single byte on disk, so nothing longer can reach the matrix.
const MaxSize = 255

// Matrix is a flat (size+1)x(size+1) dynamic programming table.
type Matrix struct {
	size  int
	cells []uint16
}

// NewMatrix allocates a matrix able to compare strings of up to size bytes
// and seeds its first row and column. Sizes outside 0..MaxSize are clamped.
func NewMatrix(size int) *Matrix {
	size = max(0, min(size, MaxSize))
	stride := size + 1
	m := &Matrix{
		size:  size,
		cells: make([]uint16, stride*stride),
	}
	for i := 1; i <= size; i++ {
		m.cells[i] = uint16(i)
		m.cells[i*stride] = uint16(i)
	}
	return m
}

// Size returns the longest string length the matrix accepts.
func (m *Matrix) Size() int {
	return m.size
}

// Distance returns the minimum number of single byte insertions, deletions
// and substitutions that turn a into b. Bytes are compared exactly.
//
// Both a and b must be at most Size() bytes long. This is not checked.
func (m *Matrix) Distance(a, b []byte) int {
	// strip common prefix
	for len(a) > 0 && len(b) > 0 && a[0] == b[0] {
		a, b = a[1:], b[1:]
	}
	// strip common suffix
	for len(a) > 0 && len(b) > 0 && a[len(a)-1] == b[len(b)-1] {
		a, b = a[:len(a)-1], b[:len(b)-1]
	}

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// b is the longer string and drives the inner loop
	if len(b) < len(a) {
		a, b = b, a
	}

	// prev and cur are the offsets of the previous and current DP rows
	stride := m.size + 1
	cells := m.cells
	prev, cur := 0, stride

	for row := 1; row <= len(a); row++ {
		ca := a[row-1]
		for col := 1; col <= len(b); col++ {
			var cost uint16 = 1
			if ca == b[col-1] {
				cost = 0
			}
			cells[cur+col] = min(
				cells[prev+col]+1,
				cells[cur+col-1]+1,
				cells[prev+col-1]+cost,
			)
		}
		prev, cur = cur, cur+stride
	}

	return int(cells[prev+len(b)])
}

// Distance is a convenience wrapper that allocates a matrix sized for the
// pair. Hot loops should hold a Matrix instead.
func Distance(a, b []byte) int {
	return NewMatrix(max(len(a), len(b))).Distance(a, b)
}
