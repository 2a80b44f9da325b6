package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot is a point-in-time runtime reading shown in the dashboard
// footer.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use
	Sys          uint64 // bytes obtained from the OS
	NumGC        uint32
	PauseTotalNs uint64
	Goroutines   int
	TakenAt      time.Time
}

// MemoryCollector reads runtime statistics and keeps the peak heap seen so
// far. It is not safe for concurrent use; the dashboard samples from a
// single command goroutine at a time.
type MemoryCollector struct {
	peakHeap uint64
	now      func() time.Time
}

// NewMemoryCollector creates a collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{now: time.Now}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.HeapAlloc > mc.peakHeap {
		mc.peakHeap = m.HeapAlloc
	}
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
		TakenAt:      mc.now(),
	}
}

// PeakHeap returns the largest HeapAlloc observed by Snapshot.
func (mc *MemoryCollector) PeakHeap() uint64 { return mc.peakHeap }
