package service

import (
	"context"
	"errors"
	"time"

	"temperature_monitor/internal/models"
	"temperature_monitor/internal/registry"
	"temperature_monitor/internal/sessionlog"
	"temperature_monitor/internal/statefile"
)

// SessionStatus is the API projection of the logging session.
type SessionStatus struct {
	Active   bool   `json:"active"`
	Filename string `json:"filename,omitempty"`
	Folder   string `json:"folder"`
}

type SessionsService struct {
	sessions *sessionlog.Logger
	reg      *registry.Registry
	status   *statefile.StatusFile
	rec      *Recorder
}

func NewSessionsService(sessions *sessionlog.Logger, reg *registry.Registry, status *statefile.StatusFile, rec *Recorder) *SessionsService {
	return &SessionsService{sessions: sessions, reg: reg, status: status, rec: rec}
}

// Start opens a new CSV session. The column set freezes to the probes known
// right now; the controller column is included only when the controller
// process has ever published a status.
func (s *SessionsService) Start(_ context.Context) (string, error) {
	snapshot := s.reg.Snapshot()
	_, controllerSeen := s.status.Read()

	filename, err := s.sessions.Start(snapshot, controllerSeen)
	if err != nil {
		return "", err
	}
	s.rec.Record(models.EventSessionStart, "logging session started",
		map[string]any{"filename": filename, "probes": len(snapshot)})
	return filename, nil
}

func (s *SessionsService) Stop(_ context.Context) (string, error) {
	filename, err := s.sessions.Stop()
	if err != nil {
		return "", err
	}
	s.rec.Record(models.EventSessionStop, "logging session stopped",
		map[string]any{"filename": filename})
	return filename, nil
}

// RunIntervalAppend ticks rows into the active session at a fixed cadence,
// independent of line arrival. A non-positive interval disables the ticker;
// per-reading appends in the ingestion loop then cover logging instead.
func (s *SessionsService) RunIntervalAppend(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.sessions.Active() {
				continue
			}
			err := s.sessions.Append(s.reg.Snapshot(), s.status.Temperature())
			if err != nil && !errors.Is(err, sessionlog.ErrNotLogging) {
				s.rec.log.Errorw("session_append_failed", "err", err)
			}
		}
	}
}

func (s *SessionsService) Status() SessionStatus {
	return SessionStatus{
		Active:   s.sessions.Active(),
		Filename: s.sessions.Filename(),
		Folder:   s.sessions.Folder(),
	}
}
