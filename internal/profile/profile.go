// Package profile measures wall-clock time and peak memory around a call.
package profile

import (
	"runtime"
	"sync"
	"time"
)

// SampleInterval is how often heap usage is sampled while the measured call runs.
const SampleInterval = 5 * time.Millisecond

const bytesPerMiB = 1024 * 1024

// Stats is what Measure observed. PeakMemMiB is the highest heap growth over
// the baseline taken when measurement started.
type Stats struct {
	PeakMemMiB float64       `json:"peak_mem_mib"`
	PeakBytes  uint64        `json:"peak_bytes"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Seconds returns the elapsed wall-clock time in seconds.
func (s Stats) Seconds() float64 {
	return s.Elapsed.Seconds()
}

// Measure runs fn and reports its wall-clock duration and peak heap usage.
// Memory is only observed between the start and stop of fn. fn's error is
// returned unchanged alongside whatever was measured.
func Measure(fn func() error) (Stats, error) {
	return MeasureEvery(SampleInterval, fn)
}

// MeasureEvery is Measure with an explicit sampling interval.
func MeasureEvery(interval time.Duration, fn func() error) (Stats, error) {
	runtime.GC()
	baseline := heapAlloc()

	s := &sampler{baseline: baseline}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.observe(heapAlloc())
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)
	wg.Wait()
	s.observe(heapAlloc())

	return Stats{
		PeakMemMiB: float64(s.peak) / bytesPerMiB,
		PeakBytes:  s.peak,
		Elapsed:    elapsed,
	}, err
}

// sampler tracks the largest growth over baseline. Only the sampling
// goroutine writes to it until Measure has waited for that goroutine.
type sampler struct {
	baseline uint64
	peak     uint64
}

func (s *sampler) observe(alloc uint64) {
	if alloc <= s.baseline {
		return
	}
	if grown := alloc - s.baseline; grown > s.peak {
		s.peak = grown
	}
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
