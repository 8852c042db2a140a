package service

import (
	"context"
	"time"

	"temperature_monitor/internal/ingest"
	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/models"
	"temperature_monitor/internal/registry"
	"temperature_monitor/internal/repository"
	"temperature_monitor/internal/sessionlog"
	"temperature_monitor/internal/statefile"
)

// Sensors exposes the probe registry to the API layer.
type Sensors interface {
	List() []models.Probe
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// Sessions controls CSV logging sessions. RunIntervalAppend is the optional
// background ticker; main starts it like any other worker.
type Sessions interface {
	Start(ctx context.Context) (string, error)
	Stop(ctx context.Context) (string, error)
	Status() SessionStatus
	RunIntervalAppend(ctx context.Context, interval time.Duration)
}

// Heater exposes the controller's shared-state channel: read-only status
// plus the two operator verbs, setpoint and safety acknowledgment.
type Heater interface {
	Status() (models.ControllerStatus, bool)
	SetTarget(ctx context.Context, targetC float64) error
	ResetSafety(ctx context.Context) error
}

// Diagnostics exposes the serial-monitor buffer and link controls.
type Diagnostics interface {
	Messages(severity string) ([]models.Diagnostic, error)
	Clear()
	RequestRescan(ctx context.Context) error
	SetMockMode(ctx context.Context, enabled bool) error
	LinkState() LinkState
}

// EventLog exposes the append-only audit log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SystemEvent, error)
}

type Service struct {
	Sensors
	Sessions
	Heater
	Diagnostics
	EventLog
}

// Deps are the process-level singletons the services wrap.
type Deps struct {
	Registry *registry.Registry
	Sessions *sessionlog.Logger
	Messages *ingest.MessageBuffer
	Loop     *ingest.Loop
	Status   *statefile.StatusFile
	Target   *statefile.TargetFile
	Repos    *repository.Repository
	Log      *logger.Logger
}

func NewService(d Deps) *Service {
	rec := NewRecorder(d.Repos.EventRepo, d.Log)
	return &Service{
		Sensors:     NewSensorsService(d.Registry, rec),
		Sessions:    NewSessionsService(d.Sessions, d.Registry, d.Status, rec),
		Heater:      NewHeaterService(d.Status, d.Target, rec),
		Diagnostics: NewDiagnosticsService(d.Messages, d.Loop, rec),
		EventLog:    NewEventLogService(d.Repos.EventRepo),
	}
}

const recordTimeout = 3 * time.Second

// Recorder appends audit events best-effort: persistence failures are logged
// and never propagate into the operation that produced the event.
type Recorder struct {
	repo repository.EventRepo
	log  *logger.Logger
}

func NewRecorder(repo repository.EventRepo, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record satisfies the ingest loop's event sink and is reused by the
// services for operator-initiated events.
func (r *Recorder) Record(typ, description string, meta map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	ev := models.SystemEvent{Type: typ, Description: description}
	if len(meta) > 0 {
		ev.Metadata = meta
	}
	if err := r.repo.Append(ctx, ev); err != nil {
		r.log.Errorw("failed to persist audit event", "type", typ, "error", err)
	}
}
