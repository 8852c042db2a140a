package service

import (
	"context"
	"errors"
	"fmt"

	"temperature_monitor/internal/ingest"
	"temperature_monitor/internal/models"
	"temperature_monitor/internal/telemetry"
)

// LinkState is the serial link's projection for the API.
type LinkState struct {
	State    string `json:"state"` // disconnected | connected_idle | connected_reading
	MockMode bool   `json:"mock_mode"`
}

var errInvalidSeverity = errors.New("invalid severity filter: must be info, warning or error")

type DiagnosticsService struct {
	messages *ingest.MessageBuffer
	loop     *ingest.Loop
	rec      *Recorder
}

func NewDiagnosticsService(messages *ingest.MessageBuffer, loop *ingest.Loop, rec *Recorder) *DiagnosticsService {
	return &DiagnosticsService{messages: messages, loop: loop, rec: rec}
}

// Messages returns the buffered diagnostics, optionally filtered by
// severity. An empty filter returns everything.
func (s *DiagnosticsService) Messages(severity string) ([]models.Diagnostic, error) {
	switch severity {
	case "":
		return s.messages.All(), nil
	case telemetry.SeverityInfo, telemetry.SeverityWarning, telemetry.SeverityError:
		return s.messages.Filtered(severity), nil
	default:
		return nil, errInvalidSeverity
	}
}

func (s *DiagnosticsService) Clear() {
	s.messages.Clear()
}

// RequestRescan asks the probe bus for a re-enumeration. Fails when the
// serial link is down; there is nothing to send the command to.
func (s *DiagnosticsService) RequestRescan(_ context.Context) error {
	if err := s.loop.RequestRescan(); err != nil {
		return err
	}
	s.rec.Record(models.EventRescan, "probe bus rescan requested", nil)
	return nil
}

// SetMockMode switches between the real serial device and the synthetic
// source. The link reconnects on the next loop pass.
func (s *DiagnosticsService) SetMockMode(_ context.Context, enabled bool) error {
	if enabled == s.loop.MockMode() {
		return nil
	}
	s.loop.SetMockMode(enabled)
	s.rec.Record(models.EventMockMode, fmt.Sprintf("mock mode set to %v", enabled),
		map[string]any{"enabled": enabled})
	return nil
}

func (s *DiagnosticsService) LinkState() LinkState {
	return LinkState{
		State:    s.loop.State().String(),
		MockMode: s.loop.MockMode(),
	}
}
