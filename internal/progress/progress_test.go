package progress

import (
	"strings"
	"testing"
	"time"
)

func TestReporterBroadcast(t *testing.T) {
	r := NewReporter()
	a := r.Subscribe()
	b := r.Subscribe()

	update := &SweepProgress{Phase: PhaseSweeping, Visited: 1, Total: 4}
	r.Update(update)

	for i, ch := range []<-chan *SweepProgress{a, b} {
		select {
		case got := <-ch:
			if got != update {
				t.Errorf("listener %d got %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("listener %d received nothing", i)
		}
	}

	if r.Current() != update {
		t.Error("Current should return the last update")
	}
}

func TestReporterDropsWhenFull(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()

	// Never blocks even though nobody is reading
	for i := 0; i < 100; i++ {
		r.Update(&SweepProgress{Visited: i})
	}

	if len(ch) != cap(ch) {
		t.Errorf("expected full buffer, got %d/%d", len(ch), cap(ch))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()
	r.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}

	// Updates after unsubscribe must not panic
	r.Update(&SweepProgress{})
}

func TestPercent(t *testing.T) {
	tests := []struct {
		p    *SweepProgress
		want float64
	}{
		{nil, 0},
		{&SweepProgress{Visited: 0, Total: 0}, 0},
		{&SweepProgress{Visited: 1, Total: 4}, 0.25},
		{&SweepProgress{Visited: 4, Total: 4}, 1},
	}

	for _, tt := range tests {
		if got := tt.p.Percent(); got != tt.want {
			t.Errorf("Percent(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		p    *SweepProgress
		want string
	}{
		{"nil", nil, "Preparing..."},
		{"listing", &SweepProgress{Phase: PhaseListing, Directory: "/tmp/x"}, "Listing /tmp/x"},
		{"sweeping", &SweepProgress{Phase: PhaseSweeping, Visited: 2, Total: 4, Removed: 1, Failed: 1, StartTime: time.Now()}, "2/4 entries (50%)"},
		{"complete", &SweepProgress{Phase: PhaseComplete, Removed: 3, Total: 4, StartTime: time.Now()}, "3/4 removed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.p); !strings.Contains(got, tt.want) {
				t.Errorf("Format = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 5*time.Second, "1h2m5s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}
