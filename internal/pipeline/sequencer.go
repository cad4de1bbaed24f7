package pipeline

import "sync/atomic"

// Sequencer issues increasing request numbers so callers can drop results
// that were superseded while in flight. The zero value is ready to use.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new sequence number. It becomes the only accepted one.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Accept reports whether seq is the most recently issued number.
func (s *Sequencer) Accept(seq uint64) bool {
	return seq != 0 && seq == s.latest.Load()
}

// Latest returns the most recently issued number, or 0 if none.
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}
