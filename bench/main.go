package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/d3ce1t/flakeid/idgen"
	proto "github.com/d3ce1t/flakeid/protocol"
	"github.com/d3ce1t/flakeid/utils"

	"github.com/aybabtme/uniplot/histogram"
)

// idSource is satisfied by both the local generator and the TCP client
type idSource interface {
	NextID() (int64, error)
}

type executionStats struct {
	min          time.Duration
	max          time.Duration
	avg          time.Duration
	cdur         time.Duration
	ops          int
	numSamples   int
	numErrors    int
	numDisorders int
	numTimes     int
}

func (s executionStats) String() string {
	return fmt.Sprintf("min: %10v | max: %10v | avg: %10v | avg.ops: %8v | samples: %8v | errors: %4v | disorders: %4v | total: %8v",
		s.min, s.max, s.avg, s.ops, s.numSamples, s.numErrors, s.numDisorders, s.numTimes)
}

type workerResult struct {
	stats     executionStats
	ids       []int64
	latencies []float64 // microseconds
}

// bench -mode tcp -addr 127.0.0.1:1822 -n 100000 -c 8

func showError(errStr string) {
	fmt.Printf("\n\tError: %v\n\n", errStr)
	fmt.Printf("\t%v --help for usage information\n\n", os.Args[0])
}

func main() {

	// Init flags

	var mode string
	var addr string
	var numTimes int
	var numThreads int
	var dataCenterID int
	var machineID int
	var bins int

	flag.StringVar(&mode, "mode", "local", "Where ids come from: local or tcp")
	flag.StringVar(&addr, "addr", "127.0.0.1:1822", "Address of the id server in tcp mode")
	flag.IntVar(&numTimes, "n", 10000, "Number of ids to generate")
	flag.IntVar(&numThreads, "c", 1, "Number of concurrent workers")
	flag.IntVar(&dataCenterID, "dc", 0, "Data center id in local mode")
	flag.IntVar(&machineID, "machine", 0, "Machine id in local mode")
	flag.IntVar(&bins, "bins", 10, "Latency histogram bins")

	flag.Parse()

	if numTimes < 1 || numThreads < 1 {
		showError("-n and -c must be positive")
		return
	}

	if numThreads > numTimes {
		numThreads = numTimes
	}

	var sources []idSource

	switch mode {

	case "local":
		gen, err := idgen.New(dataCenterID, machineID)
		if err != nil {
			showError(err.Error())
			return
		}
		for i := 0; i < numThreads; i++ {
			sources = append(sources, gen)
		}

	case "tcp":
		for i := 0; i < numThreads; i++ {
			client, err := proto.Dial(addr)
			if err != nil {
				showError(err.Error())
				return
			}
			defer client.Close()
			sources = append(sources, client)
		}

	default:
		showError("Mode must be local or tcp")
		return
	}

	results, duration := executeTest(sources, numTimes)

	// Print global stats
	statsSlice := make([]executionStats, 0, len(results))
	for _, result := range results {
		statsSlice = append(statsSlice, result.stats)
	}

	globalStats := computeGlobalStats(statsSlice, duration)
	fmt.Printf("Global: %v | %v\n", "---", globalStats)

	duplicates := countDuplicates(results)
	fmt.Printf("\nDuplicated ids: %v\n", duplicates)

	latencies := make([]float64, 0, globalStats.numSamples)
	for _, result := range results {
		latencies = append(latencies, result.latencies...)
	}

	if len(latencies) > 0 {
		fmt.Printf("\nLatency histogram (microseconds)\n\n")
		hist := histogram.Hist(bins, latencies)
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(50)); err != nil {
			fmt.Println("Error printing histogram:", err)
		}
	}

	if duplicates > 0 || globalStats.numDisorders > 0 {
		os.Exit(1)
	}
}

func executeTest(sources []idSource, numTimes int) ([]workerResult, time.Duration) {

	var wg sync.WaitGroup
	totalWork := numTimes
	numWorkers := len(sources)

	results := make([]workerResult, numWorkers)

	// Distribute work between workers

	startTime := time.Now()

	for i := 0; i < numWorkers; i++ {

		wg.Add(1)

		availableThreads := numWorkers - i
		workSize := totalWork / availableThreads
		if totalWork%availableThreads > 0 {
			workSize++
		}

		// Do things
		go func(workerId int, workSize int) {
			defer wg.Done()
			result := executeTestInWorker(sources[workerId], workSize)
			results[workerId] = result
			// Print individual stats
			fmt.Printf("Worker: %3v | %v\n", workerId, result.stats)
		}(i, workSize)

		// Decrease remaining work
		totalWork -= workSize
	}

	wg.Wait()

	return results, time.Since(startTime)
}

func executeTestInWorker(source idSource, numTimes int) workerResult {

	var min int64 = math.MaxInt64
	var max int64
	var sumDur time.Duration
	var last int64

	result := workerResult{
		ids:       make([]int64, 0, numTimes),
		latencies: make([]float64, 0, numTimes),
	}

	numSamples := 0
	numErrors := 0
	numDisorders := 0

	for i := 0; i < numTimes; i++ {

		startTime := time.Now()
		id, err := source.NextID()
		duration := time.Since(startTime)

		if err != nil {
			numErrors++
			continue
		}

		if id <= last {
			numDisorders++
		}
		last = id

		sumDur += duration
		durInt64 := int64(duration)
		min = utils.MinInt64(min, durInt64)
		max = utils.MaxInt64(max, durInt64)
		numSamples++

		result.ids = append(result.ids, id)
		result.latencies = append(result.latencies, float64(duration)/float64(time.Microsecond))
	}

	result.stats = newStats(time.Duration(min), time.Duration(max), sumDur, sumDur, numSamples, numErrors, numTimes)
	result.stats.numDisorders = numDisorders

	return result
}

func computeGlobalStats(statsSlice []executionStats, globalDuration time.Duration) executionStats {

	var min int64 = math.MaxInt64
	var max int64
	var cdur int64
	var numSamples int
	var numErrors int
	var numDisorders int
	var numTimes int

	for _, stats := range statsSlice {
		if stats.numSamples > 0 {
			min = utils.MinInt64(min, int64(stats.min))
			max = utils.MaxInt64(max, int64(stats.max))
		}
		cdur += int64(stats.cdur)
		numSamples += stats.numSamples
		numErrors += stats.numErrors
		numDisorders += stats.numDisorders
		numTimes += stats.numTimes
	}

	stats := newStats(time.Duration(min), time.Duration(max), time.Duration(cdur), globalDuration, numSamples, numErrors, numTimes)
	stats.numDisorders = numDisorders
	return stats
}

// newStats derives averages from totals. elapsed is the wall time used for
// the throughput figure.
func newStats(min, max, cdur, elapsed time.Duration, numSamples, numErrors, numTimes int) executionStats {

	stats := executionStats{
		max:        max,
		cdur:       cdur,
		numSamples: numSamples,
		numErrors:  numErrors,
		numTimes:   numTimes,
	}

	if numSamples == 0 {
		return stats
	}

	stats.min = min
	stats.avg = time.Duration(float64(cdur) / float64(numSamples))

	if elapsed > 0 {
		stats.ops = int(float64(numSamples) / elapsed.Seconds())
	}

	return stats
}

func countDuplicates(results []workerResult) int {

	total := 0
	for _, result := range results {
		total += len(result.ids)
	}

	seen := make(map[int64]struct{}, total)
	duplicates := 0

	for _, result := range results {
		for _, id := range result.ids {
			if _, ok := seen[id]; ok {
				duplicates++
				continue
			}
			seen[id] = struct{}{}
		}
	}

	return duplicates
}
