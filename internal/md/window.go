package md

import "errors"

// Window is a bounded, ordered sequence of mid-price samples. Pushes append
// at the tail and evict the oldest sample once capacity is exceeded, so the
// window never holds more than its configured capacity.
type Window struct {
	values []float64
	size   int
	index  int
	filled bool
	pushes int
}

func NewWindow(size int) *Window {
	return &Window{
		values: make([]float64, size),
		size:   size,
	}
}

func (w *Window) Push(value float64) {
	w.values[w.index] = value
	w.index = (w.index + 1) % w.size
	if w.index == 0 {
		w.filled = true
	}
	w.pushes++
}

func (w *Window) Len() int {
	if w.filled {
		return w.size
	}
	return w.index
}

// Ready reports whether the window has overflowed at least once, i.e. the
// capacity-plus-first sample has arrived and an eviction has occurred. Moving
// averages are only meaningful from that point on.
func (w *Window) Ready() bool {
	return w.pushes > w.size
}

// Values returns the samples in arrival order, oldest first.
func (w *Window) Values() []float64 {
	length := w.Len()
	result := make([]float64, 0, length)
	if length == 0 {
		return result
	}
	if w.filled {
		result = append(result, w.values[w.index:]...)
	}
	result = append(result, w.values[:w.index]...)
	return result
}

func (w *Window) SMA(n int) (float64, error) {
	return MovingAverage(w.Values(), n)
}

// MovingAverage returns the simple moving average of the trailing n samples,
// computed with a cumulative-sum difference so each call costs one pass and
// incremental updates stay O(1) per new sample.
func MovingAverage(values []float64, n int) (float64, error) {
	if n <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(values) < n {
		return 0, errors.New("not enough data for moving average")
	}
	cum := make([]float64, len(values)+1)
	for i, v := range values {
		cum[i+1] = cum[i] + v
	}
	return (cum[len(values)] - cum[len(values)-n]) / float64(n), nil
}
