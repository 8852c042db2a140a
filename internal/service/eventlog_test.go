package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"temperature_monitor/internal/models"
)

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	if out := normalizeToUTC(time.Time{}); !out.IsZero() {
		t.Errorf("zero time changed: %v", out)
	}

	in := time.Date(2026, time.August, 1, 12, 34, 56, 0, time.FixedZone("UTC+3", 3*3600))
	out := normalizeToUTC(in)
	exp := time.Date(2026, time.August, 1, 9, 34, 56, 0, time.UTC)
	if out.Location() != time.UTC || !out.Equal(exp) {
		t.Errorf("got %v, want %v", out, exp)
	}
}

func Test_normalizeEventType(t *testing.T) {
	t.Parallel()

	if got := normalizeEventType("  probe_offline "); got != "PROBE_OFFLINE" {
		t.Errorf("got %q", got)
	}
	if got := normalizeEventType(""); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestEventLogList_PassesNormalizedFilter(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{events: []models.SystemEvent{{EventID: "1"}}}
	svc := NewEventLogService(repo)

	from := time.Date(2026, 8, 1, 10, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	to := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	got, err := svc.List(context.Background(), LogFilter{From: from, To: to, Type: " rescan "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !repo.gotFrom.Equal(from.UTC()) || repo.gotFrom.Location() != time.UTC {
		t.Errorf("from not normalized: %v", repo.gotFrom)
	}
	if repo.gotType != "RESCAN" {
		t.Errorf("type = %q", repo.gotType)
	}
}

func TestEventLogList_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(&fakeEventRepo{})
	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("err = %v, want errInvalidTimeRange", err)
	}
}

func TestEventLogList_RepoError(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(&fakeEventRepo{err: errors.New("down")})
	if _, err := svc.List(context.Background(), LogFilter{}); err == nil {
		t.Fatal("expected repo error")
	}
}
