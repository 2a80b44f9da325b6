package tui

// sparklineChars are the eight block heights, lowest first.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// History is a fixed-capacity circular buffer of samples; the oldest sample
// is overwritten once it is full.
type History struct {
	data  []uint64
	head  int
	count int
}

// NewHistory creates a buffer holding up to capacity samples.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{data: make([]uint64, capacity)}
}

// Push appends a sample.
func (h *History) Push(v uint64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History) Len() int { return h.count }

// Values returns the samples oldest first.
func (h *History) Values() []uint64 {
	out := make([]uint64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := range out {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// RenderSparkline draws values relative to their maximum, one rune each.
// An all-zero series renders at the lowest height.
func RenderSparkline(values []uint64) string {
	if len(values) == 0 {
		return ""
	}
	var peak uint64
	for _, v := range values {
		peak = max(peak, v)
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if peak > 0 {
			idx = int(v * 7 / peak)
		}
		runes[i] = sparklineChars[idx]
	}
	return string(runes)
}
