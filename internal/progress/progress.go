package progress

import (
	"fmt"
	"sync"
	"time"
)

// Phase represents the current phase of a sweep
type Phase string

const (
	PhaseListing  Phase = "listing"
	PhaseSweeping Phase = "sweeping"
	PhaseComplete Phase = "complete"
)

// SweepProgress is a snapshot of a sweep in flight
type SweepProgress struct {
	Phase        Phase
	Directory    string
	CurrentEntry string
	Visited      int
	Total        int
	Removed      int
	Failed       int
	StartTime    time.Time
}

// Reporter provides thread-safe progress broadcasting
type Reporter struct {
	current   *SweepProgress
	mu        sync.RWMutex
	listeners []chan *SweepProgress
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan *SweepProgress, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan *SweepProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan *SweepProgress, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan *SweepProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Update stores the snapshot and notifies listeners
func (r *Reporter) Update(update *SweepProgress) {
	r.mu.Lock()
	r.current = update
	listeners := make([]chan *SweepProgress, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	// Notify all listeners (non-blocking)
	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// Current returns the latest snapshot
func (r *Reporter) Current() *SweepProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Percent returns the visited fraction in [0, 1]
func (p *SweepProgress) Percent() float64 {
	if p == nil || p.Total <= 0 {
		return 0
	}
	return float64(p.Visited) / float64(p.Total)
}

// Format returns a human-readable progress string
func Format(p *SweepProgress) string {
	if p == nil {
		return "Preparing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseListing:
		return fmt.Sprintf("Listing %s...", p.Directory)
	case PhaseSweeping:
		eta := ""
		if p.Visited > 0 && p.Total > p.Visited {
			avg := elapsed / time.Duration(p.Visited)
			eta = fmt.Sprintf(" ETA: %s", FormatDuration(time.Duration(p.Total-p.Visited)*avg))
		}
		return fmt.Sprintf("Sweeping... %d/%d entries (%d%%) - %d removed, %d failed%s",
			p.Visited, p.Total, int(p.Percent()*100), p.Removed, p.Failed, eta)
	case PhaseComplete:
		return fmt.Sprintf("Sweep complete: %d/%d removed in %s",
			p.Removed, p.Total, FormatDuration(elapsed))
	default:
		return "Preparing..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
