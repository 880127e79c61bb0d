package idgen

import (
	"sync/atomic"
)

// State is the part of a generator worth persisting across restarts.
type State struct {
	LastTimestamp int64 // Unix millis, -1 if no ID was generated yet
	Sequence      uint16
}

type Stats struct {
	Issued         uint64
	SequenceWaits  uint64 // Times the sequence was exhausted within a millisecond
	ClockRollbacks uint64
}

func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{LastTimestamp: g.lastTimestamp, Sequence: g.sequence}
}

/*
  Restore moves the generator forward to a timestamp saved by a previous run
  with the same identity. The restored millisecond is treated as used up, so
  the next ID is generated in a later millisecond, and a clock still behind
  the restored timestamp makes NextID fail with ErrClockMovedBackward.

  Restoring a state older than the current one has no effect.
*/
func (g *Generator) Restore(state State) error {

	if state.LastTimestamp < 0 {
		return nil
	}

	if elapsed := state.LastTimestamp - g.epoch; elapsed < 0 || elapsed > MaxTimestamp {
		return ErrTimestampOverflow
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if state.LastTimestamp > g.lastTimestamp {
		g.lastTimestamp = state.LastTimestamp
		g.sequence = MaxSequence
	}

	return nil
}

func (g *Generator) Stats() Stats {
	return Stats{
		Issued:         atomic.LoadUint64(&g.issued),
		SequenceWaits:  atomic.LoadUint64(&g.sequenceWaits),
		ClockRollbacks: atomic.LoadUint64(&g.rollbacks),
	}
}
