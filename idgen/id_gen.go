// Package idgen mints 64-bit identifiers that are roughly ordered by time and
// unique across a cluster, provided every generator runs with a distinct
// (data center, machine) pair assigned out of band.
package idgen

import (
	"runtime"
	"sync"
	"sync/atomic"
)

const Epoch int64 = 1608940800000 // Milliseconds since 26 Dec 2020 00:00 UTC

const (
	TimestampBits    = 41
	DataCenterIDBits = 5
	MachineIDBits    = 5
	SequenceBits     = 12

	MaxTimestamp    = 1<<TimestampBits - 1
	MaxDataCenterID = 1<<DataCenterIDBits - 1
	MaxMachineID    = 1<<MachineIDBits - 1
	MaxSequence     = 1<<SequenceBits - 1

	MachineIDShift    = SequenceBits
	DataCenterIDShift = SequenceBits + MachineIDBits
	TimestampShift    = SequenceBits + MachineIDBits + DataCenterIDBits
)

type Option func(*Generator) error

// WithClock replaces the wall clock the generator reads.
func WithClock(clock Clock) Option {
	return func(g *Generator) error {
		if clock == nil {
			return ErrNilClock
		}
		g.clock = clock
		return nil
	}
}

// WithEpoch sets the instant, in Unix milliseconds, subtracted from the clock
// before packing. Every generator of a cluster must share the same epoch.
func WithEpoch(epoch int64) Option {
	return func(g *Generator) error {
		if epoch < 0 {
			return ErrInvalidEpoch
		}
		g.epoch = epoch
		return nil
	}
}

// Generator is safe for concurrent use. All the state needed to keep IDs
// unique lives in the instance, so independent generators never interfere.
type Generator struct {
	// Accessed atomically, keep first for 64-bit alignment
	issued        uint64
	sequenceWaits uint64
	rollbacks     uint64

	mu            sync.Mutex
	lastTimestamp int64  // Unix millis of the most recent id, -1 if none yet
	sequence      uint16 // 12 bits used (4096 ids per millisecond)

	clock        Clock
	epoch        int64
	dataCenterID uint8 // 5 bits used
	machineID    uint8 // 5 bits used
}

// New returns a generator for the given identity. Both values must fit in
// five bits; out of range values are rejected with an *InvalidIdentityError
// instead of being masked into the neighbouring fields.
func New(dataCenterID int, machineID int, opts ...Option) (*Generator, error) {

	if dataCenterID < 0 || dataCenterID > MaxDataCenterID {
		return nil, &InvalidIdentityError{Field: "data center id", Value: dataCenterID, Max: MaxDataCenterID}
	}

	if machineID < 0 || machineID > MaxMachineID {
		return nil, &InvalidIdentityError{Field: "machine id", Value: machineID, Max: MaxMachineID}
	}

	g := &Generator{
		lastTimestamp: -1,
		clock:         SystemClock{},
		epoch:         Epoch,
		dataCenterID:  uint8(dataCenterID),
		machineID:     uint8(machineID),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

/*
  NextID generates an ID of 64 bits where the most significant bit is always
  zero, next 41 bits are the milliseconds elapsed since the generator epoch,
  next 5 bits the data center id, next 5 bits the machine id and the last 12
  bits a sequence number.

  Up to 4096 IDs can be generated per millisecond. When the sequence is
  exhausted the call spins, holding the lock, until the clock reaches the
  next millisecond.

  If the clock reports a time earlier than the last ID generated, no ID is
  returned and the error is a *ClockMovedBackwardError. It is never retried
  here: the caller decides whether to wait, alert or abort.
*/
func (g *Generator) NextID() (int64, error) {

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.NowMillis()

	if now < g.lastTimestamp {
		atomic.AddUint64(&g.rollbacks, 1)
		return 0, &ClockMovedBackwardError{Last: g.lastTimestamp, Now: now}
	}

	var seq uint16

	if now == g.lastTimestamp {
		seq = (g.sequence + 1) & MaxSequence
		if seq == 0 {
			// Sequence exhausted for this millisecond
			atomic.AddUint64(&g.sequenceWaits, 1)
			now = g.waitTillNextMillisecond(g.lastTimestamp)
		}
	}

	elapsed := now - g.epoch
	if elapsed < 0 || elapsed > MaxTimestamp {
		return 0, ErrTimestampOverflow
	}

	g.lastTimestamp = now
	g.sequence = seq
	atomic.AddUint64(&g.issued, 1)

	return pack(elapsed, g.dataCenterID, g.machineID, seq), nil
}

// waitTillNextMillisecond spins until the clock reports a time after last.
// Yielding keeps the spin from starving other goroutines on small GOMAXPROCS.
func (g *Generator) waitTillNextMillisecond(last int64) int64 {
	now := g.clock.NowMillis()
	for now <= last {
		runtime.Gosched()
		now = g.clock.NowMillis()
	}
	return now
}

func pack(elapsed int64, dataCenterID uint8, machineID uint8, seq uint16) int64 {
	return elapsed<<TimestampShift |
		int64(dataCenterID)<<DataCenterIDShift |
		int64(machineID)<<MachineIDShift |
		int64(seq)
}

func (g *Generator) DataCenterID() int {
	return int(g.dataCenterID)
}

func (g *Generator) MachineID() int {
	return int(g.machineID)
}

func (g *Generator) Epoch() int64 {
	return g.epoch
}

// Now reads the generator clock.
func (g *Generator) Now() int64 {
	return g.clock.NowMillis()
}

// Decode unpacks an ID produced by a generator sharing g's epoch.
func (g *Generator) Decode(id int64) DecodedID {
	return decode(id, g.epoch)
}
