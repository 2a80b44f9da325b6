package tui

import (
	"fmt"

	"github.com/agbru/numcalc/internal/metrics"
)

// heapHistorySize is the number of samples in the heap sparkline.
const heapHistorySize = 40

// MemoryModel is the footer line with runtime memory figures.
type MemoryModel struct {
	last    metrics.MemorySnapshot
	peak    uint64
	history *History
	sampled bool
}

// NewMemoryModel creates an empty footer.
func NewMemoryModel() MemoryModel {
	return MemoryModel{history: NewHistory(heapHistorySize)}
}

// Update records a reading.
func (m *MemoryModel) Update(s metrics.MemorySnapshot) {
	m.last = s
	m.peak = max(m.peak, s.HeapAlloc)
	m.history.Push(s.HeapAlloc)
	m.sampled = true
}

// View renders the footer line.
func (m MemoryModel) View() string {
	if !m.sampled {
		return dimStyle.Render("  sampling memory…")
	}
	return fmt.Sprintf("  %s %s %s  %s %s  %s %s  %s %d",
		labelStyle.Render("Heap:"), accentStyle.Render(formatBytes(m.last.HeapAlloc)),
		sparklineStyle.Render(RenderSparkline(m.history.Values())),
		labelStyle.Render("Peak:"), accentStyle.Render(formatBytes(m.peak)),
		labelStyle.Render("GC:"), accentStyle.Render(fmt.Sprintf("%d (%.1fms)", m.last.NumGC, float64(m.last.PauseTotalNs)/1e6)),
		labelStyle.Render("Goroutines:"), m.last.Goroutines)
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
