package cascade

import "sync/atomic"

// Progress observes a running cascade.
type Progress interface {
	// Tick is called once per visited address, whether it was written or
	// skipped.
	Tick()
}

// Sizer is implemented by observers that want the number of ticks to
// expect. SetTotal is called once before the first Tick.
type Sizer interface {
	SetTotal(total int)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func()

// Tick calls f. A nil ProgressFunc does nothing.
func (f ProgressFunc) Tick() {
	if f != nil {
		f()
	}
}

// Counter is a goroutine-safe Progress that counts ticks. It may be read
// from another goroutine while the cascade runs. A nil *Counter ignores
// ticks and reports zero.
type Counter struct {
	visited atomic.Int64
	total   atomic.Int64
}

// Tick implements Progress.
func (c *Counter) Tick() {
	if c != nil {
		c.visited.Add(1)
	}
}

// SetTotal implements Sizer.
func (c *Counter) SetTotal(total int) {
	if c != nil {
		c.total.Store(int64(total))
	}
}

// Visited returns the number of ticks so far.
func (c *Counter) Visited() int {
	if c == nil {
		return 0
	}
	return int(c.visited.Load())
}

// Total returns the expected number of ticks, or 0 if unknown.
func (c *Counter) Total() int {
	if c == nil {
		return 0
	}
	return int(c.total.Load())
}

// Fraction returns Visited/Total in [0, 1]. It is 0 while the total is
// unknown.
func (c *Counter) Fraction() float64 {
	total := c.Total()
	if total <= 0 {
		return 0
	}
	return min(float64(c.Visited())/float64(total), 1)
}

var (
	_ Progress = ProgressFunc(nil)
	_ Progress = (*Counter)(nil)
	_ Sizer    = (*Counter)(nil)
)
