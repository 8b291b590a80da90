package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fenilsonani/tempclean/internal/progress"
	"golang.org/x/term"
)

// LiveProgress redraws a single status line from sweep progress updates,
// for non-interactive runs on a terminal
type LiveProgress struct {
	mu         sync.Mutex
	out        io.Writer
	termWidth  int
	lastUpdate time.Time
	interval   time.Duration
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewLiveProgress creates a live progress line on out
func NewLiveProgress(out io.Writer) *LiveProgress {
	width := 80
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	return &LiveProgress{
		out:       out,
		termWidth: width,
		interval:  100 * time.Millisecond,
	}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Watch renders updates from pr until Stop is called
func (lp *LiveProgress) Watch(pr *progress.Reporter) {
	updates := pr.Subscribe()
	lp.done = make(chan struct{})

	lp.wg.Add(1)
	go func() {
		defer lp.wg.Done()
		defer pr.Unsubscribe(updates)
		for {
			select {
			case p := <-updates:
				lp.Update(p)
			case <-lp.done:
				return
			}
		}
	}()
}

// Update draws one snapshot. Intermediate snapshots are throttled, the
// completion snapshot is always drawn.
func (lp *LiveProgress) Update(p *progress.SweepProgress) {
	if p == nil {
		return
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	if p.Phase != progress.PhaseComplete && now.Sub(lp.lastUpdate) < lp.interval {
		return
	}
	lp.lastUpdate = now

	fmt.Fprintf(lp.out, "\r\033[K%s", truncate(progress.Format(p), lp.termWidth-1))
}

// Stop ends the watch and moves past the status line
func (lp *LiveProgress) Stop() {
	if lp.done != nil {
		close(lp.done)
		lp.wg.Wait()
		lp.done = nil
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()
	fmt.Fprint(lp.out, "\r\033[K")
}

// truncate truncates a string to fit width
func truncate(s string, width int) string {
	if width < 4 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
