package pursuit

// history is a fixed-capacity ring buffer of past observation frames. It
// keeps per-step memory and copy cost constant regardless of episode
// length: once full, pushing a frame evicts the oldest one.
type history struct {
	frames    [][]float64
	frameSize int
	next      int
	count     int
}

func newHistory(capacity, frameSize int) *history {
	return &history{
		frames:    make([][]float64, capacity),
		frameSize: frameSize,
	}
}

// clear empties the buffer between episodes
func (h *history) clear() {
	h.next = 0
	h.count = 0
}

// push records a frame, evicting the oldest frame when full. The frame is
// stored directly; the caller must not mutate it afterwards.
func (h *history) push(frame []float64) {
	if len(h.frames) == 0 {
		return
	}
	h.frames[h.next] = frame
	h.next = (h.next + 1) % len(h.frames)
	if h.count < len(h.frames) {
		h.count++
	}
}

// ordered returns the buffered frames flattened oldest-first into a slice
// of capacity*frameSize values. When fewer frames than the capacity have
// been recorded, the leading positions are zero padding.
func (h *history) ordered() []float64 {
	out := make([]float64, len(h.frames)*h.frameSize)
	pad := len(h.frames) - h.count
	for i := 0; i < h.count; i++ {
		idx := (h.next - h.count + i + len(h.frames)) % len(h.frames)
		copy(out[(pad+i)*h.frameSize:], h.frames[idx])
	}
	return out
}
