package encryption

import (
	"sort"
	"sync"
)

// WindowAudit counts how often each window offset is selected. Attach it with
// KeyMaterial.WithAudit to check that indices spread evenly across the key.
//
// Offsets are in the unit of the windowing that selected them: word windows
// record the starting word, bit windows record the starting bit. Use one audit
// per windowing, or Reset between them.
type WindowAudit struct {
	mu     sync.Mutex
	counts map[uint64]int
	total  int
}

// WindowCount is the number of selections of one window offset.
type WindowCount struct {
	// Offset is a word index for WordWindow and a bit index for BitWindow.
	Offset uint64
	Count  int
}

// NewWindowAudit returns an empty audit.
func NewWindowAudit() *WindowAudit {
	return &WindowAudit{counts: make(map[uint64]int)}
}

func (a *WindowAudit) record(offset uint64) {
	a.mu.Lock()
	a.counts[offset]++
	a.total++
	a.mu.Unlock()
}

// Counts returns the per-offset counts ordered by offset.
func (a *WindowAudit) Counts() []WindowCount {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]WindowCount, 0, len(a.counts))
	for off, n := range a.counts {
		out = append(out, WindowCount{Offset: off, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// Distinct returns the number of different offsets seen.
func (a *WindowAudit) Distinct() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.counts)
}

// Total returns the number of recorded selections.
func (a *WindowAudit) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Spread returns the smallest and largest per-offset counts. Both are zero for
// an empty audit.
func (a *WindowAudit) Spread() (lo, hi int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	first := true
	for _, n := range a.counts {
		if first {
			lo, hi = n, n
			first = false
			continue
		}
		lo = min(lo, n)
		hi = max(hi, n)
	}
	return lo, hi
}

// Reset clears all counts.
func (a *WindowAudit) Reset() {
	a.mu.Lock()
	a.counts = make(map[uint64]int)
	a.total = 0
	a.mu.Unlock()
}
