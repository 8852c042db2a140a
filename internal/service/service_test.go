package service

import (
	"context"
	"sync"
	"time"

	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/models"
)

// fakeEventRepo is a minimal stub satisfying repository.EventRepo.
type fakeEventRepo struct {
	mu       sync.Mutex
	appended []models.SystemEvent

	gotFrom time.Time
	gotTo   time.Time
	gotType string

	events []models.SystemEvent
	err    error
}

func (f *fakeEventRepo) Append(_ context.Context, e models.SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.SystemEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appended))
	for i, e := range f.appended {
		out[i] = e.Type
	}
	return out
}

func testRecorder() (*Recorder, *fakeEventRepo) {
	repo := &fakeEventRepo{}
	return NewRecorder(repo, logger.New("error")), repo
}
