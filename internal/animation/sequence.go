package animation

import "sync/atomic"

// Sequence hands out creation-order numbers to animations. It is safe for
// concurrent use; the zero value starts at 0.
type Sequence struct {
	next atomic.Int64
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.next.Add(1) - 1
}

// Reset starts numbering from 0 again.
func (s *Sequence) Reset() {
	s.next.Store(0)
}
