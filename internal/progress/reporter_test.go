package progress

import (
	"sync"
	"testing"
)

func TestReporterPercent(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		advance int
		want    float64
	}{
		{"empty", 0, 0, 0},
		{"zero total ignores advances", 0, 3, 0},
		{"half", 4, 2, 0.5},
		{"complete", 3, 3, 1},
		{"clamped past total", 2, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.SetTotal(tt.total)
			for i := 0; i < tt.advance; i++ {
				r.Advance()
			}
			if got := r.Percent(); got != tt.want {
				t.Errorf("Percent() = %v, want %v", got, tt.want)
			}
			if r.Current() > r.Total() {
				t.Errorf("current %d exceeds total %d", r.Current(), r.Total())
			}
		})
	}
}

func TestSetTotalResetsCurrent(t *testing.T) {
	r := New()
	r.SetTotal(3)
	r.Advance()
	r.Advance()
	r.SetTotal(10)
	if got := r.Snapshot(); got.Total != 10 || got.Current != 0 {
		t.Fatalf("unexpected state after SetTotal: %+v", got)
	}
}

func TestResetZeroesState(t *testing.T) {
	r := New()
	r.SetTotal(2)
	r.SetStage("copy")
	r.Advance()
	r.Reset()
	if got := r.Snapshot(); got != (State{}) {
		t.Fatalf("expected zero state, got %+v", got)
	}
}

func TestNilReporterIsNoop(t *testing.T) {
	var r *Reporter
	r.SetTotal(5)
	r.Advance()
	r.SetStage("x")
	r.Reset()
	if r.Percent() != 0 || r.Total() != 0 || r.Current() != 0 {
		t.Fatal("nil reporter should read as zero")
	}
}

func TestSnapshotNeverTorn(t *testing.T) {
	r := New()
	const total = 5000
	r.SetTotal(total)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			r.Advance()
		}
	}()

	for i := 0; i < 1000; i++ {
		s := r.Snapshot()
		if s.Total != total || s.Current > s.Total {
			t.Fatalf("inconsistent snapshot %+v", s)
		}
	}
	wg.Wait()
	if !r.Snapshot().Done() {
		t.Fatalf("expected done, got %+v", r.Snapshot())
	}
}
