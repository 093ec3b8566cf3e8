// Package diagnostics keeps short histories of per-frame measurements.
package diagnostics

import (
	"time"
)

// ID names a diagnostic.
type ID string

const (
	FPS       ID = "fps"
	FrameTime ID = "frame_time"
)

const (
	// DefaultHistory is how many samples a diagnostic keeps.
	DefaultHistory = 120
	// DefaultSmoothing is the weight of a new sample in the moving average.
	DefaultSmoothing = 2.0 / 21.0
)

// Diagnostic is a bounded history of samples with an exponential moving average.
type Diagnostic struct {
	history   []float64
	next      int
	full      bool
	sum       float64
	ema       float64
	smoothing float64
}

func NewDiagnostic(history int, smoothing float64) *Diagnostic {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Diagnostic{
		history:   make([]float64, 0, history),
		smoothing: smoothing,
	}
}

// Add records a sample, dropping the oldest one when the history is full.
func (d *Diagnostic) Add(v float64) {
	if d.Len() == 0 {
		d.ema = v
	} else {
		d.ema += (v - d.ema) * d.smoothing
	}

	if !d.full {
		d.history = append(d.history, v)
		d.sum += v
		if len(d.history) == cap(d.history) {
			d.full = true
		}
		return
	}
	d.sum += v - d.history[d.next]
	d.history[d.next] = v
	d.next = (d.next + 1) % len(d.history)
}

// Len returns the number of samples held.
func (d *Diagnostic) Len() int {
	return len(d.history)
}

// Value returns the latest sample.
func (d *Diagnostic) Value() (float64, bool) {
	if d.Len() == 0 {
		return 0, false
	}
	if !d.full {
		return d.history[len(d.history)-1], true
	}
	return d.history[(d.next+len(d.history)-1)%len(d.history)], true
}

// Smoothed returns the exponential moving average of the samples.
func (d *Diagnostic) Smoothed() (float64, bool) {
	if d.Len() == 0 {
		return 0, false
	}
	return d.ema, true
}

// Average returns the mean of the held samples.
func (d *Diagnostic) Average() (float64, bool) {
	if d.Len() == 0 {
		return 0, false
	}
	return d.sum / float64(d.Len()), true
}

// Clear drops every sample.
func (d *Diagnostic) Clear() {
	d.history = d.history[:0]
	d.next = 0
	d.full = false
	d.sum = 0
	d.ema = 0
}

// Store holds diagnostics by ID.
type Store struct {
	diagnostics map[ID]*Diagnostic
}

func NewStore() *Store {
	return &Store{diagnostics: map[ID]*Diagnostic{}}
}

// Register adds d under id, replacing any previous one.
func (s *Store) Register(id ID, d *Diagnostic) {
	s.diagnostics[id] = d
}

func (s *Store) Get(id ID) (*Diagnostic, bool) {
	d, ok := s.diagnostics[id]
	return d, ok
}

// FrameTimer turns successive frame timestamps into FPS and FrameTime samples.
type FrameTimer struct {
	store *Store
	last  time.Time
}

// NewFrameTimer registers the FPS and FrameTime diagnostics in store.
func NewFrameTimer(store *Store) *FrameTimer {
	store.Register(FPS, NewDiagnostic(DefaultHistory, DefaultSmoothing))
	store.Register(FrameTime, NewDiagnostic(DefaultHistory, DefaultSmoothing))
	return &FrameTimer{store: store}
}

// Frame records the time since the previous frame. The first frame only sets the
// reference point.
func (f *FrameTimer) Frame(now time.Time) {
	if f.last.IsZero() {
		f.last = now
		return
	}
	delta := now.Sub(f.last)
	f.last = now
	if delta <= 0 {
		return
	}
	if d, ok := f.store.Get(FrameTime); ok {
		d.Add(float64(delta) / float64(time.Millisecond))
	}
	if d, ok := f.store.Get(FPS); ok {
		d.Add(1 / delta.Seconds())
	}
}
