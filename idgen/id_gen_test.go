package idgen

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator(t *testing.T) {

	hash := make(map[int64]bool)
	gen, err := New(1, 1)
	require.NoError(t, err)

	var last int64

	for i := 0; i < 40000; i++ {
		newID, err := gen.NextID()
		require.NoError(t, err)

		if _, ok := hash[newID]; ok {
			t.Fatal("The generated ID", newID, "already exists on iteration", i)
		}
		if newID <= last {
			t.Fatal("The generated ID", newID, "is not greater than", last, "on iteration", i)
		}

		hash[newID] = true
		last = newID
	}
}

func TestFrozenClockExample(t *testing.T) {

	clock := NewManualClock(Epoch + 1000)
	gen, err := New(0, 1, WithClock(clock))
	require.NoError(t, err)

	id1, err := gen.NextID()
	require.NoError(t, err)
	id2, err := gen.NextID()
	require.NoError(t, err)

	d1 := gen.Decode(id1)
	d2 := gen.Decode(id2)

	assert.Equal(t, uint16(0), d1.Sequence)
	assert.Equal(t, uint16(1), d2.Sequence)
	assert.Equal(t, int64(1000), d1.Elapsed)
	assert.Equal(t, Epoch+1000, d1.Timestamp)
	assert.Equal(t, d1.Timestamp, d2.Timestamp)
	assert.Equal(t, uint8(0), d2.DataCenterID)
	assert.Equal(t, uint8(1), d2.MachineID)
	assert.Equal(t, int64(1000)<<22|1<<12, id1)
}

func TestNewMillisecondResetsSequence(t *testing.T) {

	clock := NewManualClock(Epoch + 5)
	gen, err := New(3, 4, WithClock(clock))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := gen.NextID()
		require.NoError(t, err)
	}

	clock.Advance(time.Millisecond)
	id, err := gen.NextID()
	require.NoError(t, err)

	d := gen.Decode(id)
	assert.Equal(t, uint16(0), d.Sequence)
	assert.Equal(t, int64(6), d.Elapsed)
}

func TestSequenceWraparound(t *testing.T) {

	frozen := Epoch + 1000
	calls := 0

	// Stays on the same millisecond for the first 4096 ids plus the read
	// that detects the wrap, then moves one millisecond forward.
	clock := ClockFunc(func() int64 {
		calls++
		if calls <= MaxSequence+2 {
			return frozen
		}
		return frozen + 1
	})

	gen, err := New(2, 7, WithClock(clock))
	require.NoError(t, err)

	for i := 0; i <= MaxSequence; i++ {
		id, err := gen.NextID()
		require.NoError(t, err)
		d := gen.Decode(id)
		require.Equal(t, uint16(i), d.Sequence)
		require.Equal(t, frozen, d.Timestamp)
	}

	id, err := gen.NextID()
	require.NoError(t, err)

	d := gen.Decode(id)
	assert.Equal(t, frozen+1, d.Timestamp)
	assert.Equal(t, uint16(0), d.Sequence)
	assert.Equal(t, uint64(1), gen.Stats().SequenceWaits)
}

func TestSequenceWraparoundWaitsForClock(t *testing.T) {

	clock := NewManualClock(Epoch + 2000)
	gen, err := New(0, 0, WithClock(clock))
	require.NoError(t, err)

	var last int64
	for i := 0; i <= MaxSequence; i++ {
		last, err = gen.NextID()
		require.NoError(t, err)
	}

	done := make(chan int64)
	go func() {
		id, err := gen.NextID()
		if err != nil {
			t.Error(err)
		}
		done <- id
	}()

	select {
	case <-done:
		t.Fatal("NextID returned before the clock advanced")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Millisecond)

	select {
	case id := <-done:
		assert.Greater(t, id, last)
		assert.Equal(t, Epoch+2001, gen.Decode(id).Timestamp)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for overflow handling")
	}
}

func TestClockRollback(t *testing.T) {

	clock := NewManualClock(Epoch + 10000)
	gen, err := New(1, 2, WithClock(clock))
	require.NoError(t, err)

	_, err = gen.NextID()
	require.NoError(t, err)

	clock.Set(Epoch + 9999)
	id, err := gen.NextID()

	require.Error(t, err)
	assert.Equal(t, int64(0), id)
	assert.True(t, errors.Is(err, ErrClockMovedBackward))

	var rollback *ClockMovedBackwardError
	require.True(t, errors.As(err, &rollback))
	assert.Equal(t, Epoch+10000, rollback.Last)
	assert.Equal(t, Epoch+9999, rollback.Now)
	assert.Equal(t, time.Millisecond, rollback.Behind())
	assert.Equal(t, uint64(1), gen.Stats().ClockRollbacks)

	// The lock is released on the error path and the state is untouched
	clock.Set(Epoch + 10000)
	id, err = gen.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), gen.Decode(id).Sequence)
}

func TestInvalidIdentity(t *testing.T) {

	tests := []struct {
		name         string
		dataCenterID int
		machineID    int
		field        string
	}{
		{"negative data center", -1, 0, "data center id"},
		{"data center too big", 32, 0, "data center id"},
		{"negative machine", 0, -1, "machine id"},
		{"machine too big", 31, 32, "machine id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.dataCenterID, tt.machineID)
			assert.Nil(t, gen)
			require.True(t, errors.Is(err, ErrInvalidIdentity))

			var idErr *InvalidIdentityError
			require.True(t, errors.As(err, &idErr))
			assert.Equal(t, tt.field, idErr.Field)
		})
	}
}

func TestInvalidOptions(t *testing.T) {

	_, err := New(0, 0, WithEpoch(-1))
	assert.Equal(t, ErrInvalidEpoch, err)

	_, err = New(0, 0, WithClock(nil))
	assert.Equal(t, ErrNilClock, err)
}

func TestIdentityRoundTrip(t *testing.T) {

	clock := NewManualClock(Epoch + 123456)

	for dc := 0; dc <= MaxDataCenterID; dc++ {
		for machine := 0; machine <= MaxMachineID; machine++ {
			gen, err := New(dc, machine, WithClock(clock))
			require.NoError(t, err)

			id, err := gen.NextID()
			require.NoError(t, err)

			d := Decode(id)
			require.Equal(t, uint8(dc), d.DataCenterID)
			require.Equal(t, uint8(machine), d.MachineID)
			require.Equal(t, Epoch+123456, d.Timestamp)
			require.True(t, id > 0)
		}
	}
}

func TestCustomEpoch(t *testing.T) {

	epoch := int64(1446336000000) // 1 Nov 2015 00:00
	clock := NewManualClock(epoch + 42)
	gen, err := New(5, 6, WithClock(clock), WithEpoch(epoch))
	require.NoError(t, err)
	assert.Equal(t, epoch, gen.Epoch())

	id, err := gen.NextID()
	require.NoError(t, err)

	d := DecodeWithEpoch(id, epoch)
	assert.Equal(t, int64(42), d.Elapsed)
	assert.Equal(t, epoch+42, d.Timestamp)
	assert.Equal(t, d, gen.Decode(id))
}

func TestTimestampOverflow(t *testing.T) {

	clock := NewManualClock(Epoch - 1)
	gen, err := New(0, 0, WithClock(clock))
	require.NoError(t, err)

	_, err = gen.NextID()
	assert.Equal(t, ErrTimestampOverflow, err)

	clock.Set(Epoch + MaxTimestamp + 1)
	_, err = gen.NextID()
	assert.Equal(t, ErrTimestampOverflow, err)

	clock.Set(Epoch + MaxTimestamp)
	id, err := gen.NextID()
	require.NoError(t, err)
	assert.True(t, id > 0)
	assert.Equal(t, int64(MaxTimestamp), gen.Decode(id).Elapsed)
}

func TestRestore(t *testing.T) {

	clock := NewManualClock(Epoch + 500)
	gen, err := New(0, 9, WithClock(clock))
	require.NoError(t, err)

	// A previous run already used millisecond 500
	require.NoError(t, gen.Restore(State{LastTimestamp: Epoch + 500}))

	done := make(chan int64)
	go func() {
		id, err := gen.NextID()
		if err != nil {
			t.Error(err)
		}
		done <- id
	}()

	time.Sleep(10 * time.Millisecond)
	clock.Advance(time.Millisecond)

	select {
	case id := <-done:
		d := gen.Decode(id)
		assert.Equal(t, Epoch+501, d.Timestamp)
		assert.Equal(t, uint16(0), d.Sequence)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for restored millisecond to pass")
	}

	// Older states are ignored
	require.NoError(t, gen.Restore(State{LastTimestamp: Epoch + 10}))
	assert.Equal(t, Epoch+501, gen.State().LastTimestamp)

	// A clock behind the restored state fails fast
	require.NoError(t, gen.Restore(State{LastTimestamp: Epoch + 900}))
	_, err = gen.NextID()
	assert.True(t, errors.Is(err, ErrClockMovedBackward))

	assert.Equal(t, ErrTimestampOverflow, gen.Restore(State{LastTimestamp: Epoch - 5}))
	assert.NoError(t, gen.Restore(State{LastTimestamp: -1}))
}

func TestStateSnapshot(t *testing.T) {

	clock := NewManualClock(Epoch + 77)
	gen, err := New(0, 0, WithClock(clock))
	require.NoError(t, err)

	assert.Equal(t, State{LastTimestamp: -1}, gen.State())

	for i := 0; i < 3; i++ {
		_, err := gen.NextID()
		require.NoError(t, err)
	}

	assert.Equal(t, State{LastTimestamp: Epoch + 77, Sequence: 2}, gen.State())
	assert.Equal(t, uint64(3), gen.Stats().Issued)
}

func TestConcurrentGenerators(t *testing.T) {

	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	const workers = 100
	const idsPerWorker = 10000

	gen, err := New(17, 29)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]int64, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids := make([]int64, 0, idsPerWorker)
			for i := 0; i < idsPerWorker; i++ {
				id, err := gen.NextID()
				if err != nil {
					t.Error(err)
					return
				}
				ids = append(ids, id)
			}
			results[w] = ids
		}(w)
	}

	wg.Wait()

	seen := make(map[int64]struct{}, workers*idsPerWorker)

	for _, ids := range results {
		require.Len(t, ids, idsPerWorker)
		for i, id := range ids {
			if _, ok := seen[id]; ok {
				t.Fatalf("duplicate id %v", id)
			}
			seen[id] = struct{}{}

			// Each worker observes its own ids in increasing order
			if i > 0 && id <= ids[i-1] {
				t.Fatalf("id %v not greater than previous %v", id, ids[i-1])
			}

			d := Decode(id)
			if d.DataCenterID != 17 || d.MachineID != 29 {
				t.Fatalf("corrupted identity in %v: %v", id, d)
			}
		}
	}

	assert.Len(t, seen, workers*idsPerWorker)
	assert.Equal(t, uint64(workers*idsPerWorker), gen.Stats().Issued)
}

func BenchmarkNextID(b *testing.B) {
	gen, _ := New(1, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gen.NextID()
	}
}

func BenchmarkNextIDParallel(b *testing.B) {
	gen, _ := New(1, 1)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			gen.NextID()
		}
	})
}
