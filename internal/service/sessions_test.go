package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"temperature_monitor/internal/models"
	"temperature_monitor/internal/registry"
	"temperature_monitor/internal/sessionlog"
	"temperature_monitor/internal/statefile"
)

func newSessionsFixture(t *testing.T) (*SessionsService, *registry.Registry, *statefile.StatusFile, *fakeEventRepo) {
	t.Helper()
	dir := t.TempDir()
	reg := registry.New()
	status := statefile.NewStatusFile(filepath.Join(dir, "heater_status.json"))
	rec, repo := testRecorder()
	svc := NewSessionsService(sessionlog.New(filepath.Join(dir, "logs")), reg, status, rec)
	return svc, reg, status, repo
}

func TestSessionsStartStopRecordsEvents(t *testing.T) {
	t.Parallel()

	svc, reg, _, repo := newSessionsFixture(t)
	reg.Upsert("28AABBCCDD112233", 23.5)

	filename, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if filename == "" {
		t.Fatal("empty filename")
	}
	st := svc.Status()
	if !st.Active || st.Filename != filename {
		t.Fatalf("status after start: %+v", st)
	}

	stopped, err := svc.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped != filename {
		t.Errorf("stop returned %q, want %q", stopped, filename)
	}
	if types := repo.types(); len(types) != 2 ||
		types[0] != models.EventSessionStart || types[1] != models.EventSessionStop {
		t.Errorf("events = %v", repo.types())
	}
}

func TestSessionsStopWithoutStartIsSignal(t *testing.T) {
	t.Parallel()

	svc, _, _, repo := newSessionsFixture(t)
	if _, err := svc.Stop(context.Background()); !errors.Is(err, sessionlog.ErrNotLogging) {
		t.Fatalf("err = %v, want ErrNotLogging", err)
	}
	if len(repo.types()) != 0 {
		t.Errorf("event recorded for no-op stop: %v", repo.types())
	}
}

func TestSessionsControllerColumnFollowsStatusFile(t *testing.T) {
	t.Parallel()

	svc, reg, status, _ := newSessionsFixture(t)
	reg.Upsert("28AABBCCDD112233", 23.5)

	temp := 41.0
	if err := status.Write(models.ControllerStatus{Timestamp: time.Now().UTC(), TemperatureC: &temp}); err != nil {
		t.Fatalf("write status: %v", err)
	}

	filename, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _, _ = svc.Stop(context.Background()) }()

	b, err := os.ReadFile(filepath.Join(svc.Status().Folder, filename))
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	header := strings.SplitN(string(b), "\n", 2)[0]
	if !strings.HasSuffix(header, "Heater Thermistor (C)") {
		t.Errorf("header = %q, want trailing controller column", header)
	}
}

func TestRunIntervalAppendWritesRows(t *testing.T) {
	t.Parallel()

	svc, reg, _, _ := newSessionsFixture(t)
	reg.Upsert("28AABBCCDD112233", 23.5)

	filename, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.RunIntervalAppend(ctx, 10*time.Millisecond)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if _, err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(svc.Status().Folder, filename))
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) < 3 { // header + at least two rows
		t.Fatalf("got %d lines, want header plus rows:\n%s", len(lines), string(b))
	}
	if !strings.Contains(lines[1], "23.50") {
		t.Errorf("row missing reading: %q", lines[1])
	}
}

func TestRunIntervalAppendDisabled(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSessionsFixture(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.RunIntervalAppend(context.Background(), 0)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunIntervalAppend(0) did not return immediately")
	}
}
