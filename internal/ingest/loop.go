package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/models"
	"temperature_monitor/internal/registry"
	"temperature_monitor/internal/sessionlog"
	"temperature_monitor/internal/telemetry"
)

// State of the ingestion loop's connection state machine.
type State int

const (
	Disconnected State = iota
	ConnectedIdle
	ConnectedReading
)

func (s State) String() string {
	switch s {
	case ConnectedIdle:
		return "connected_idle"
	case ConnectedReading:
		return "connected_reading"
	default:
		return "disconnected"
	}
}

// rescanCommand is the single outbound control token the protocol defines.
const rescanCommand = "RESCAN"

// ErrNotConnected is reported when an outbound command is requested while the
// serial link is down.
var ErrNotConnected = errors.New("serial link is not connected")

// SessionSink is the slice of the session logger the loop needs.
type SessionSink interface {
	Active() bool
	Append(snapshot []models.Probe, controllerTemp *float64) error
}

// EventSink receives audit events for probe lifecycle transitions.
type EventSink interface {
	Record(typ, description string, meta map[string]any)
}

// Config carries the loop's timing knobs.
type Config struct {
	ReconnectDelay time.Duration // fixed backoff between connect attempts
	IdleDelay      time.Duration // sleep when the source had no data
	StaleTimeout   time.Duration // registry offline threshold
}

// Deps are the collaborators a Loop drives. OpenReal/OpenMock create the
// line source for the respective mode; the loop owns the returned source.
type Deps struct {
	OpenReal       func() (LineSource, error)
	OpenMock       func() (LineSource, error)
	Registry       *registry.Registry
	Sessions       SessionSink // nil when an interval ticker owns session appends
	Messages       *MessageBuffer
	Events         EventSink
	ControllerTemp func() *float64 // latest controller temperature, nil when unknown
	Log            *logger.Logger
}

// Loop owns the serial connection lifecycle: it pulls lines, classifies them,
// updates the registry, feeds the session logger and runs staleness detection
// once per full line. Per-line parse problems become diagnostics; only
// transport errors tear the connection down.
type Loop struct {
	deps Deps
	cfg  Config

	mu      sync.Mutex
	src     LineSource
	state   State
	useMock bool

	rescanMu  sync.Mutex
	rescanReq bool
}

func NewLoop(deps Deps, cfg Config) *Loop {
	return &Loop{deps: deps, cfg: cfg, state: Disconnected}
}

// Run drives the state machine until ctx is canceled. It never returns early
// on I/O problems; those restart the connect cycle.
func (l *Loop) Run(ctx context.Context) {
	defer l.disconnect()

	for ctx.Err() == nil {
		src := l.currentSource()
		if src == nil {
			if !l.connect() {
				if !sleepCtx(ctx, l.cfg.ReconnectDelay) {
					return
				}
			}
			continue
		}

		if l.takeRescan() {
			if err := src.WriteCommand(rescanCommand); err != nil {
				l.deps.Messages.Add(telemetry.SeverityError, "rescan command failed: "+err.Error())
				l.disconnect()
				continue
			}
		}

		line, err := src.ReadLine()
		if err != nil {
			l.deps.Messages.Add(telemetry.SeverityError, "serial read failed: "+err.Error())
			l.deps.Log.Warnw("serial_read_failed", "err", err)
			l.disconnect()
			continue
		}
		if line == "" {
			l.setState(ConnectedIdle)
			if !sleepCtx(ctx, l.cfg.IdleDelay) {
				return
			}
			continue
		}

		l.setState(ConnectedReading)
		l.processLine(line)
	}
}

// processLine classifies every token of one line, applies readings and
// diagnostics, then runs staleness detection over the complete id set of the
// cycle. Running detection earlier would falsely expire sensors that report
// late in the line.
func (l *Loop) processLine(line string) {
	cycleIDs := make(map[string]struct{})

	for _, m := range telemetry.ClassifyLine(line) {
		switch m.Kind {
		case telemetry.KindReading:
			cycleIDs[m.SensorID] = struct{}{}
			if created := l.deps.Registry.Upsert(m.SensorID, m.TemperatureC); created {
				l.deps.Events.Record(models.EventProbeDiscovered,
					"new probe "+m.SensorID,
					map[string]any{"sensor_id": m.SensorID, "temperature_c": m.TemperatureC})
			}
			l.appendLogRow()

		case telemetry.KindDiagnostic:
			l.deps.Messages.Add(m.Severity, m.Text)

		case telemetry.KindUnrecognized:
			l.deps.Messages.Add("unknown", m.Text)
		}
	}

	offline := l.deps.Registry.DetectStale(cycleIDs, l.cfg.StaleTimeout)
	for _, id := range offline {
		l.deps.Messages.Add(telemetry.SeverityWarning, "probe "+id+" went offline")
		l.deps.Events.Record(models.EventProbeOffline, "probe "+id+" went offline",
			map[string]any{"sensor_id": id})
	}
}

// appendLogRow feeds the active session, if any, with the latest registry
// snapshot and controller temperature.
func (l *Loop) appendLogRow() {
	if l.deps.Sessions == nil || !l.deps.Sessions.Active() {
		return
	}
	err := l.deps.Sessions.Append(l.deps.Registry.Snapshot(), l.deps.ControllerTemp())
	if err != nil && !errors.Is(err, sessionlog.ErrNotLogging) {
		l.deps.Log.Errorw("session_append_failed", "err", err)
	}
}

// connect opens the source for the current mode. Reports success.
func (l *Loop) connect() bool {
	l.mu.Lock()
	open := l.deps.OpenReal
	mock := l.useMock
	if mock {
		open = l.deps.OpenMock
	}
	l.mu.Unlock()

	src, err := open()
	if err != nil {
		l.deps.Log.Warnw("serial_connect_failed", "mock", mock, "err", err)
		return false
	}

	l.mu.Lock()
	l.src = src
	l.state = ConnectedIdle
	l.mu.Unlock()

	l.deps.Log.Infow("serial_connected", "mock", mock)
	return true
}

func (l *Loop) disconnect() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.src != nil {
		_ = l.src.Close()
		l.src = nil
	}
	l.state = Disconnected
}

func (l *Loop) currentSource() LineSource {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// State reports the connection state for the operator surface.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// MockMode reports whether the loop is using the fabricated source.
func (l *Loop) MockMode() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.useMock
}

// SetMockMode switches between the real and fabricated source. A mode change
// drops the current connection so the next cycle reconnects in the new mode.
func (l *Loop) SetMockMode(enabled bool) {
	l.mu.Lock()
	if l.useMock == enabled {
		l.mu.Unlock()
		return
	}
	l.useMock = enabled
	if l.src != nil {
		_ = l.src.Close()
		l.src = nil
	}
	l.state = Disconnected
	l.mu.Unlock()
}

// RequestRescan asks the loop to send the rescan command on its next cycle.
// Only valid while connected; the request is not queued across reconnects.
func (l *Loop) RequestRescan() error {
	if l.State() == Disconnected {
		return ErrNotConnected
	}
	l.rescanMu.Lock()
	l.rescanReq = true
	l.rescanMu.Unlock()
	return nil
}

func (l *Loop) takeRescan() bool {
	l.rescanMu.Lock()
	defer l.rescanMu.Unlock()
	req := l.rescanReq
	l.rescanReq = false
	return req
}

// sleepCtx sleeps for d unless ctx ends first; reports whether to continue.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
