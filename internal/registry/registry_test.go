package registry

import (
	"errors"
	"testing"
	"time"

	"temperature_monitor/internal/models"
)

// fixedClock lets tests advance time explicitly.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func newTestRegistry() (*Registry, *fixedClock) {
	r := New()
	clk := &fixedClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r.now = clk.now
	return r, clk
}

func TestUpsert_AssignsDeterministicNames(t *testing.T) {
	r, _ := newTestRegistry()

	if created := r.Upsert("28AABBCCDD112233", 23.4); !created {
		t.Fatalf("expected created on first upsert")
	}
	if created := r.Upsert("28AABBCCDD112233", 24.0); created {
		t.Fatalf("did not expect created on second upsert")
	}

	p, ok := r.Get("28AABBCCDD112233")
	if !ok {
		t.Fatalf("probe missing")
	}
	if p.Name != "Probe 28AABBCC" {
		t.Errorf("name = %q, want %q", p.Name, "Probe 28AABBCC")
	}
	if p.TemperatureC != 24.0 {
		t.Errorf("temperature = %v, want 24.0", p.TemperatureC)
	}

	r.Upsert("2800001111222233", 20.0)
	r.Upsert("2800004444555566", 21.0)
	p1, _ := r.Get("2800001111222233")
	p2, _ := r.Get("2800004444555566")
	if p1.Name != "Mock Probe 1" || p2.Name != "Mock Probe 2" {
		t.Errorf("mock names = %q, %q, want counter-based", p1.Name, p2.Name)
	}
}

func TestDetectStale_OnlyAbsentAndExpired(t *testing.T) {
	r, clk := newTestRegistry()
	r.Upsert("28AABBCCDD112233", 23.4)
	r.Upsert("28DEF456DEF456DE", 24.1)

	clk.t = clk.t.Add(31 * time.Second)

	// A appears in this cycle (refreshed), B does not.
	r.Upsert("28AABBCCDD112233", 23.5)
	ids := map[string]struct{}{"28AABBCCDD112233": {}}
	offline := r.DetectStale(ids, 30*time.Second)

	if len(offline) != 1 || offline[0] != "28DEF456DEF456DE" {
		t.Fatalf("offline = %v, want [28DEF456DEF456DE]", offline)
	}
	if p, _ := r.Get("28DEF456DEF456DE"); p.Status != models.StatusOffline {
		t.Errorf("B status = %q, want offline", p.Status)
	}
	if p, _ := r.Get("28AABBCCDD112233"); p.Status != models.StatusOnline {
		t.Errorf("A status = %q, want online", p.Status)
	}

	// Second pass with A absent but not yet expired: no transition.
	if offline := r.DetectStale(map[string]struct{}{}, 30*time.Second); len(offline) != 0 {
		t.Errorf("unexpected transitions %v", offline)
	}
}

func TestDetectStale_PresentIDNeverMarked(t *testing.T) {
	r, clk := newTestRegistry()
	r.Upsert("28AABBCCDD112233", 23.4)
	clk.t = clk.t.Add(time.Hour)

	// Present in the cycle set even though its reading is old: untouched.
	ids := map[string]struct{}{"28AABBCCDD112233": {}}
	if offline := r.DetectStale(ids, 30*time.Second); len(offline) != 0 {
		t.Fatalf("probe marked offline despite appearing in cycle set: %v", offline)
	}
}

func TestRenameDelete_UnknownIDReported(t *testing.T) {
	r, _ := newTestRegistry()
	if err := r.Rename("missing", "x"); !errors.Is(err, ErrUnknownSensor) {
		t.Errorf("rename: err = %v, want ErrUnknownSensor", err)
	}
	if err := r.Delete("missing"); !errors.Is(err, ErrUnknownSensor) {
		t.Errorf("delete: err = %v, want ErrUnknownSensor", err)
	}

	r.Upsert("28AABBCCDD112233", 23.4)
	if err := r.Rename("28AABBCCDD112233", "Bath"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if p, _ := r.Get("28AABBCCDD112233"); p.Name != "Bath" {
		t.Errorf("name = %q, want Bath", p.Name)
	}
	if err := r.Delete("28AABBCCDD112233"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := r.Get("28AABBCCDD112233"); ok {
		t.Errorf("probe still present after delete")
	}
}

func TestSnapshot_SortedAndIsolated(t *testing.T) {
	r, _ := newTestRegistry()
	r.Upsert("28DEF456DEF456DE", 24.1)
	r.Upsert("28AABBCCDD112233", 23.4)

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].ID != "28AABBCCDD112233" || snap[1].ID != "28DEF456DEF456DE" {
		t.Fatalf("snapshot order = %+v, want sorted by id", snap)
	}

	// Mutating the snapshot must not touch the registry.
	snap[0].Name = "scribbled"
	if p, _ := r.Get("28AABBCCDD112233"); p.Name == "scribbled" {
		t.Errorf("snapshot mutation leaked into registry")
	}
}
