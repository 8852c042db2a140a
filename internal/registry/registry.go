package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"temperature_monitor/internal/models"
)

// ErrUnknownSensor is returned by Rename/Delete when the id is not tracked.
var ErrUnknownSensor = errors.New("unknown sensor id")

// syntheticPrefix marks ids emitted by the mock line source. Probes with this
// prefix get stable counter-based names; real probes are named after their
// leading id bytes.
const syntheticPrefix = "280000"

// Registry is the in-memory probe table. It is the single mutable resource
// shared by the ingestion loop, the session logger and the HTTP layer; one
// RWMutex guards it, so reads never block other reads.
type Registry struct {
	mu          sync.RWMutex
	probes      map[string]*models.Probe
	mockCounter int
	now         func() time.Time
}

func New() *Registry {
	return &Registry{
		probes: make(map[string]*models.Probe),
		now:    time.Now,
	}
}

// Upsert inserts or updates a probe from a valid reading and reports whether
// the probe is new. LastUpdate is refreshed here and nowhere else.
func (r *Registry) Upsert(id string, temperatureC float64) (created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.probes[id]
	if !ok {
		r.probes[id] = &models.Probe{
			ID:           id,
			Name:         r.assignName(id),
			TemperatureC: temperatureC,
			Status:       models.StatusOnline,
			LastUpdate:   r.now(),
		}
		return true
	}
	p.TemperatureC = temperatureC
	p.Status = models.StatusOnline
	p.LastUpdate = r.now()
	return false
}

// assignName derives a deterministic display name for a new probe.
// Caller holds the write lock.
func (r *Registry) assignName(id string) string {
	if len(id) >= len(syntheticPrefix) && id[:len(syntheticPrefix)] == syntheticPrefix {
		r.mockCounter++
		return fmt.Sprintf("Mock Probe %d", r.mockCounter)
	}
	return "Probe " + id[:8]
}

// DetectStale marks probes offline when they were absent from the current
// ingestion cycle's id set for longer than timeout. It must run once per
// cycle with the complete set; a probe whose id appears anywhere in the set
// is never touched. Returns the ids that transitioned to offline.
func (r *Registry) DetectStale(currentIDs map[string]struct{}, timeout time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var wentOffline []string
	for id, p := range r.probes {
		if _, seen := currentIDs[id]; seen {
			continue
		}
		if now.Sub(p.LastUpdate) > timeout && p.Status != models.StatusOffline {
			p.Status = models.StatusOffline
			wentOffline = append(wentOffline, id)
		}
	}
	sort.Strings(wentOffline)
	return wentOffline
}

// Rename changes a probe's display name.
func (r *Registry) Rename(id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.probes[id]
	if !ok {
		return ErrUnknownSensor
	}
	p.Name = name
	return nil
}

// Delete removes a probe and, with it, any claim its history has on future
// sessions. Existing session columns are unaffected (the column order is
// frozen at session start).
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.probes[id]; !ok {
		return ErrUnknownSensor
	}
	delete(r.probes, id)
	return nil
}

// Get returns a copy of one probe.
func (r *Registry) Get(id string) (models.Probe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.probes[id]
	if !ok {
		return models.Probe{}, false
	}
	return *p, true
}

// Snapshot returns an internally consistent copy of all probes, sorted by id.
// Callers never observe the registry mid-mutation.
func (r *Registry) Snapshot() []models.Probe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Probe, 0, len(r.probes))
	for _, p := range r.probes {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
