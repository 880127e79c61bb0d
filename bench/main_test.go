package main

import (
	"errors"
	"testing"
	"time"

	"github.com/d3ce1t/flakeid/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	ids []int64
	err error
}

func (s *sliceSource) NextID() (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id, nil
}

func TestExecuteTestLocal(t *testing.T) {

	gen, err := idgen.New(1, 2)
	require.NoError(t, err)

	sources := []idSource{gen, gen, gen}
	results, duration := executeTest(sources, 3001)

	require.Len(t, results, 3)
	assert.True(t, duration > 0)

	total := 0
	for _, result := range results {
		assert.Equal(t, 0, result.stats.numErrors)
		assert.Equal(t, 0, result.stats.numDisorders)
		assert.Len(t, result.latencies, len(result.ids))
		total += len(result.ids)
	}

	assert.Equal(t, 3001, total)
	assert.Equal(t, 0, countDuplicates(results))
}

func TestWorkerCountsDisordersAndErrors(t *testing.T) {

	result := executeTestInWorker(&sliceSource{ids: []int64{5, 6, 6, 4, 9}}, 5)
	assert.Equal(t, 2, result.stats.numDisorders)
	assert.Equal(t, 5, result.stats.numSamples)

	result = executeTestInWorker(&sliceSource{err: errors.New("down")}, 4)
	assert.Equal(t, 4, result.stats.numErrors)
	assert.Equal(t, 0, result.stats.numSamples)
	assert.Equal(t, time.Duration(0), result.stats.avg)
}

func TestCountDuplicates(t *testing.T) {
	results := []workerResult{
		{ids: []int64{1, 2, 3}},
		{ids: []int64{3, 4}},
		{ids: []int64{1}},
	}
	assert.Equal(t, 2, countDuplicates(results))
}

func TestComputeGlobalStats(t *testing.T) {

	stats := computeGlobalStats([]executionStats{
		{min: time.Microsecond, max: 5 * time.Microsecond, cdur: 10 * time.Microsecond, numSamples: 4, numTimes: 4},
		{min: 2 * time.Microsecond, max: 9 * time.Microsecond, cdur: 30 * time.Microsecond, numSamples: 4, numErrors: 1, numTimes: 5},
		{numTimes: 0},
	}, time.Second)

	assert.Equal(t, time.Microsecond, stats.min)
	assert.Equal(t, 9*time.Microsecond, stats.max)
	assert.Equal(t, 5*time.Microsecond, stats.avg)
	assert.Equal(t, 8, stats.ops)
	assert.Equal(t, 1, stats.numErrors)
	assert.Equal(t, 9, stats.numTimes)
}
