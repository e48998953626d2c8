package split

import "fmt"

// Mode determines how statements are distributed across chunks.
// Exactly one of the two strategies is active.
type Mode struct {
	chunkSize int
	fileCount int
}

// ByChunkSize splits into chunks of at most n statements; every chunk
// except possibly the last holds exactly n.
func ByChunkSize(n int) Mode { return Mode{chunkSize: n} }

// ByFileCount splits into exactly c chunks with statement counts as
// even as possible. When the input holds fewer statements than c, one
// chunk per statement is produced instead.
func ByFileCount(c int) Mode { return Mode{fileCount: c} }

// Validate checks that exactly one strategy is set and positive.
func (m Mode) Validate() error {
	if (m.chunkSize > 0) == (m.fileCount > 0) {
		return ErrInvalidMode
	}
	return nil
}

// Counting reports whether the mode needs the total statement count
// up front, forcing a counting pass over the input.
func (m Mode) Counting() bool { return m.fileCount > 0 }

func (m Mode) String() string {
	if m.fileCount > 0 {
		return fmt.Sprintf("file-count=%d", m.fileCount)
	}
	return fmt.Sprintf("chunk-size=%d", m.chunkSize)
}

// plan returns the statement count of each chunk, in order. The
// distribution is fully determined by the total and the mode; no other
// state feeds it. A zero total plans zero chunks.
func plan(total int, mode Mode) []int {
	if total <= 0 {
		return nil
	}
	if mode.chunkSize > 0 {
		n := mode.chunkSize
		sizes := make([]int, 0, (total+n-1)/n)
		for remaining := total; remaining > 0; remaining -= n {
			size := n
			if remaining < n {
				size = remaining
			}
			sizes = append(sizes, size)
		}
		return sizes
	}
	count := mode.fileCount
	if total < count {
		count = total
	}
	base := total / count
	rem := total % count
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}
